package tasks

import (
	"github.com/gin-gonic/gin"

	"github.com/taskcollab/taskcollab/auth"
	"github.com/taskcollab/taskcollab/revocation"
	"github.com/taskcollab/taskcollab/store"
	"github.com/taskcollab/taskcollab/token"
)

// RegisterRoutes mounts the task endpoints under /tasks.
func RegisterRoutes(rg *gin.RouterGroup, h *Handlers, codec *token.Codec, revoked revocation.Store, users store.UserRepository) {
	requireAccess := auth.RequireToken(codec, revoked, token.KindAccess)
	anyVerified := auth.RequireRoles(users, auth.AllRoles()...)
	managerOrAdmin := auth.RequireRoles(users, store.RoleManager, store.RoleAdmin)
	adminOnly := auth.RequireRoles(users, store.RoleAdmin)

	grp := rg.Group("/tasks", requireAccess)
	{
		grp.POST("/create_task", managerOrAdmin, h.Create)
		grp.POST("/all", anyVerified, h.List)
		grp.GET("/:task_id", anyVerified, h.Get)
		grp.POST("/update_task", managerOrAdmin, h.Update)
		grp.DELETE("/delete_task", adminOnly, h.Delete)
	}
}
