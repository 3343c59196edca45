package users

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/taskcollab/taskcollab/errors"
	"github.com/taskcollab/taskcollab/server"
	"github.com/taskcollab/taskcollab/store"
	"github.com/taskcollab/taskcollab/validation"
)

// RoleUpdateRequest carries the new role for an account.
type RoleUpdateRequest struct {
	Role string `json:"role" validate:"required,oneof=user employee manager admin"`
}

// Handlers exposes account management over HTTP.
type Handlers struct {
	svc *Service
}

// NewHandlers creates the HTTP handler set.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// List handles GET /users/.
func (h *Handlers) List(c *gin.Context) {
	all, err := h.svc.List(c.Request.Context())
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, all)
}

// Get handles GET /user/:uid.
func (h *Handlers) Get(c *gin.Context) {
	uid, ok := parseUID(c)
	if !ok {
		return
	}
	user, err := h.svc.Get(c.Request.Context(), uid)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, user)
}

// UpdateRole handles PATCH /user/:uid/role.
func (h *Handlers) UpdateRole(c *gin.Context) {
	uid, ok := parseUID(c)
	if !ok {
		return
	}

	var req RoleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, errors.Validation("invalid request body"))
		return
	}
	if err := validation.Validate(req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	user, err := h.svc.UpdateRole(c.Request.Context(), uid, store.Role(req.Role))
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, user)
}

// Delete handles DELETE /user/:uid.
func (h *Handlers) Delete(c *gin.Context) {
	uid, ok := parseUID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), uid); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, gin.H{"message": "User deleted."})
}

func parseUID(c *gin.Context) (uuid.UUID, bool) {
	uid, err := uuid.Parse(c.Param("uid"))
	if err != nil {
		server.RespondWithError(c, errors.Validation("uid must be a valid UUID"))
		return uuid.Nil, false
	}
	return uid, true
}
