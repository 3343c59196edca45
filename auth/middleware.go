// Package auth implements bearer-token authentication, role-based
// authorization, and the session lifecycle: signup, verification, login,
// refresh, logout, and password reset.
package auth

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskcollab/taskcollab/errors"
	"github.com/taskcollab/taskcollab/revocation"
	"github.com/taskcollab/taskcollab/server"
	"github.com/taskcollab/taskcollab/store"
	"github.com/taskcollab/taskcollab/token"
)

const (
	bearerPrefix = "Bearer "

	ctxClaimsKey = "auth_claims"
	ctxUserKey   = "auth_user"
)

// RequireToken returns middleware that authenticates the request with a
// bearer token of the given kind. Checks run in a fixed order: presence,
// signature, expiry, revocation, kind. Expiry failures share the
// invalid-token class with decode failures so the response does not reveal
// which check tripped.
func RequireToken(codec *token.Codec, revoked revocation.Store, kind token.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			abort(c, errors.MissingCredentials())
			return
		}

		claims, err := codec.Decode(raw)
		if err != nil {
			abort(c, errors.InvalidToken())
			return
		}
		if claims.Expired(time.Now()) {
			abort(c, errors.InvalidToken())
			return
		}
		// Verification and reset tokens never authenticate a session.
		if claims.Purpose != token.PurposeSession {
			abort(c, errors.InvalidToken())
			return
		}

		isRevoked, err := revoked.IsRevoked(c.Request.Context(), claims.JTI())
		if err != nil {
			abort(c, errors.Internal(err))
			return
		}
		if isRevoked {
			abort(c, errors.RevokedToken())
			return
		}

		if kind == token.KindAccess && claims.Refresh {
			abort(c, errors.AccessTokenRequired())
			return
		}
		if kind == token.KindRefresh && !claims.Refresh {
			abort(c, errors.RefreshTokenRequired())
			return
		}

		c.Set(ctxClaimsKey, claims)
		c.Next()
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if len(header) <= len(bearerPrefix) || header[:len(bearerPrefix)] != bearerPrefix {
		return "", false
	}
	return header[len(bearerPrefix):], true
}

// ClaimsFrom returns the authenticated token claims set by RequireToken.
func ClaimsFrom(c *gin.Context) (*token.Claims, bool) {
	v, ok := c.Get(ctxClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*token.Claims)
	return claims, ok
}

// UserFrom returns the resolved user record set by RequireRoles.
func UserFrom(c *gin.Context) (*store.User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*store.User)
	return user, ok
}

func abort(c *gin.Context, err error) {
	server.RespondWithError(c, err)
	c.Abort()
}
