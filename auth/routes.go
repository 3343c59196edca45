package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/taskcollab/taskcollab/revocation"
	"github.com/taskcollab/taskcollab/store"
	"github.com/taskcollab/taskcollab/token"
)

// RegisterRoutes mounts the auth endpoints under /auth on the given group.
// The path "pasword-reset" keeps the historical spelling clients depend on.
func RegisterRoutes(rg *gin.RouterGroup, h *Handlers, codec *token.Codec, revoked revocation.Store, users store.UserRepository) {
	requireAccess := RequireToken(codec, revoked, token.KindAccess)
	requireRefresh := RequireToken(codec, revoked, token.KindRefresh)

	grp := rg.Group("/auth")
	{
		grp.POST("/signup", h.Signup)
		grp.GET("/verify/:token", h.Verify)
		grp.POST("/login", h.Login)
		grp.POST("/pasword-reset", h.PasswordReset)
		grp.POST("/password-reset-confirm/:token", h.PasswordResetConfirm)

		grp.GET("/me", requireAccess, RequireRoles(users, AllRoles()...), h.Me)
		grp.POST("/refresh_token", requireRefresh, h.Refresh)
		grp.POST("/logout", requireAccess, h.Logout)
		grp.POST("/send_mail", requireAccess, RequireRoles(users, AllRoles()...), h.SendMail)
	}
}
