package tasks

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/taskcollab/taskcollab/auth"
	"github.com/taskcollab/taskcollab/errors"
	"github.com/taskcollab/taskcollab/server"
	"github.com/taskcollab/taskcollab/validation"
)

// Handlers exposes task operations over HTTP.
type Handlers struct {
	svc *Service
}

// NewHandlers creates the HTTP handler set.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// Create handles POST /create_task.
func (h *Handlers) Create(c *gin.Context) {
	caller, ok := auth.UserFrom(c)
	if !ok {
		server.RespondWithError(c, errors.MissingCredentials())
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, errors.Validation("invalid request body"))
		return
	}
	if err := validation.Validate(req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	task, err := h.svc.Create(c.Request.Context(), caller, req)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, task)
}

// List handles POST /all.
func (h *Handlers) List(c *gin.Context) {
	caller, ok := auth.UserFrom(c)
	if !ok {
		server.RespondWithError(c, errors.MissingCredentials())
		return
	}

	var req ListTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, errors.Validation("invalid request body"))
		return
	}
	if err := validation.Validate(req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.Limit == 0 {
		req.Limit = 10
	}

	list, total, err := h.svc.List(c.Request.Context(), caller, req)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	totalPages := int(total) / req.Limit
	if int(total)%req.Limit != 0 {
		totalPages++
	}
	server.RespondOKWithMeta(c, list, &server.Meta{
		Page:       req.Page,
		PageSize:   req.Limit,
		Total:      total,
		TotalPages: totalPages,
	})
}

// Get handles GET /:task_id.
func (h *Handlers) Get(c *gin.Context) {
	caller, ok := auth.UserFrom(c)
	if !ok {
		server.RespondWithError(c, errors.MissingCredentials())
		return
	}

	taskID, err := uuid.Parse(c.Param("task_id"))
	if err != nil {
		server.RespondWithError(c, errors.Validation("task_id must be a valid UUID"))
		return
	}

	task, err := h.svc.Get(c.Request.Context(), caller, taskID)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, task)
}

// Update handles POST /update_task.
func (h *Handlers) Update(c *gin.Context) {
	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, errors.Validation("invalid request body"))
		return
	}
	if err := validation.Validate(req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	task, err := h.svc.Update(c.Request.Context(), req)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, task)
}

// Delete handles DELETE /delete_task.
func (h *Handlers) Delete(c *gin.Context) {
	taskID, err := uuid.Parse(c.Query("task_id"))
	if err != nil {
		server.RespondWithError(c, errors.Validation("task_id must be a valid UUID"))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), taskID); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, gin.H{"message": "Task deleted."})
}
