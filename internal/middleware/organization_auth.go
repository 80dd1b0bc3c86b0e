package middleware

import (
	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/dropoff-point-api/internal/errors"
)

// RequireOrganization lets only organization accounts through. It must run
// after RequireAuth.
func RequireOrganization() gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := GetAccount(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if !account.IsOrganization {
			apierrors.Forbidden(c, "The user is not an organization")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireSuperuser lets only superusers through. It must run after RequireAuth.
func RequireSuperuser() gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := GetAccount(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if !account.IsSuperuser {
			apierrors.Forbidden(c, "The user doesn't have enough privileges")
			c.Abort()
			return
		}

		c.Next()
	}
}
