// internal/middleware/auth.go
package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/bytemart/bytemart-backend/internal/session"
	"github.com/bytemart/bytemart-backend/internal/utils"
)

// AuthRequired resolves the session principal and aborts with 401 when the
// request carries no authenticated session.
func AuthRequired(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := sessions.UserID(c.Request)
		if !ok {
			utils.UnauthorizedResponse(c, "authentication required")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

// OptionalAuth sets the principal in the context when a valid session is
// present and continues either way.
func OptionalAuth(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := sessions.UserID(c.Request); ok {
			c.Set("user_id", userID)
		}
		c.Next()
	}
}
