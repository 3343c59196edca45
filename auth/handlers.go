package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/taskcollab/taskcollab/errors"
	"github.com/taskcollab/taskcollab/server"
	"github.com/taskcollab/taskcollab/store"
	"github.com/taskcollab/taskcollab/validation"
)

// Handlers exposes the session flows over HTTP.
type Handlers struct {
	svc *Service
}

// NewHandlers creates the HTTP handler set.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// Signup handles POST /signup.
func (h *Handlers) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, errors.Validation("invalid request body"))
		return
	}
	if err := validation.Validate(req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	user, err := h.svc.Signup(c.Request.Context(), req)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, toUserResponse(user))
}

// Verify handles GET /verify/:token.
func (h *Handlers) Verify(c *gin.Context) {
	if err := h.svc.Verify(c.Request.Context(), c.Param("token")); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, gin.H{"message": "Account verified."})
}

// Login handles POST /login.
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, errors.Validation("invalid request body"))
		return
	}
	if err := validation.Validate(req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	pair, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, pair)
}

// Me handles GET /me. The policy middleware has already resolved the user.
func (h *Handlers) Me(c *gin.Context) {
	user, ok := UserFrom(c)
	if !ok {
		server.RespondWithError(c, errors.MissingCredentials())
		return
	}
	server.RespondOK(c, toUserResponse(user))
}

// Refresh handles POST /refresh_token.
func (h *Handlers) Refresh(c *gin.Context) {
	claims, ok := ClaimsFrom(c)
	if !ok {
		server.RespondWithError(c, errors.MissingCredentials())
		return
	}

	pair, err := h.svc.Refresh(c.Request.Context(), claims)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, pair)
}

// Logout handles POST /logout.
func (h *Handlers) Logout(c *gin.Context) {
	claims, ok := ClaimsFrom(c)
	if !ok {
		server.RespondWithError(c, errors.MissingCredentials())
		return
	}

	if err := h.svc.Logout(c.Request.Context(), claims); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, gin.H{"message": "Logged out."})
}

// PasswordReset handles POST /pasword-reset.
func (h *Handlers) PasswordReset(c *gin.Context) {
	var req PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, errors.Validation("invalid request body"))
		return
	}
	if err := validation.Validate(req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	if err := h.svc.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, gin.H{"message": "If the email exists, a reset link has been sent."})
}

// PasswordResetConfirm handles POST /password-reset-confirm/:token.
func (h *Handlers) PasswordResetConfirm(c *gin.Context) {
	var req PasswordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, errors.Validation("invalid request body"))
		return
	}
	if err := validation.Validate(req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	if err := h.svc.ConfirmPasswordReset(c.Request.Context(), c.Param("token"), req.NewPassword, req.ConfirmPassword); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, gin.H{"message": "Password updated."})
}

// SendMail handles POST /send_mail.
func (h *Handlers) SendMail(c *gin.Context) {
	var req SendMailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, errors.Validation("invalid request body"))
		return
	}
	if err := validation.Validate(req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	if err := h.svc.SendWelcomeMail(c.Request.Context(), req.Email); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, gin.H{"message": "Mail sent."})
}

func toUserResponse(u *store.User) UserResponse {
	return UserResponse{
		UID:        u.UID.String(),
		Username:   u.Username,
		Email:      u.Email,
		Role:       string(u.Role),
		IsVerified: u.IsVerified,
	}
}
