package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/taskcollab/taskcollab/errors"
	"github.com/taskcollab/taskcollab/store"
)

// RequireRoles returns middleware that resolves the authenticated identity
// to its current user record and authorizes the request against a static
// role set. The verified check always runs first: an unverified account is
// denied even when its role is allowed.
func RequireRoles(users store.UserRepository, allowed ...store.Role) gin.HandlerFunc {
	allowedSet := make(map[store.Role]struct{}, len(allowed))
	for _, r := range allowed {
		allowedSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			abort(c, errors.MissingCredentials())
			return
		}

		user, err := users.FindByEmail(c.Request.Context(), claims.User.Email)
		if err != nil {
			abort(c, store.FromDatabase(err, "user"))
			return
		}

		if !user.IsVerified {
			abort(c, errors.AccountNotVerified())
			return
		}
		if _, ok := allowedSet[user.Role]; !ok {
			abort(c, errors.InsufficientPermission())
			return
		}

		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// AllRoles is the role set for endpoints open to every verified account.
func AllRoles() []store.Role {
	return []store.Role{store.RoleUser, store.RoleEmployee, store.RoleManager, store.RoleAdmin}
}
