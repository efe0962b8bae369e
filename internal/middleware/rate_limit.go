// internal/middleware/rate_limit.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bytemart/bytemart-backend/internal/throttle"
	"github.com/bytemart/bytemart-backend/internal/utils"
)

// RateLimit enforces the general per-IP request budget.
func RateLimit(limiter *throttle.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := throttle.NormalizeIP(c.ClientIP())
		if !limiter.Allow(key) {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "RATE_LIMITED",
				"rate limit exceeded, please try again later", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
