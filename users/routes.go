package users

import (
	"github.com/gin-gonic/gin"

	"github.com/taskcollab/taskcollab/auth"
	"github.com/taskcollab/taskcollab/revocation"
	"github.com/taskcollab/taskcollab/store"
	"github.com/taskcollab/taskcollab/token"
)

// RegisterRoutes mounts the account-management endpoints under /users.
func RegisterRoutes(rg *gin.RouterGroup, h *Handlers, codec *token.Codec, revoked revocation.Store, users store.UserRepository) {
	requireAccess := auth.RequireToken(codec, revoked, token.KindAccess)
	adminOnly := auth.RequireRoles(users, store.RoleAdmin)

	grp := rg.Group("/users", requireAccess, adminOnly)
	{
		grp.GET("/users/", h.List)
		grp.GET("/user/:uid", h.Get)
		grp.PATCH("/user/:uid/role", h.UpdateRole)
		grp.DELETE("/user/:uid", h.Delete)
	}
}
