package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/masterclass-hub/backend/pkg/response"
)

// APIToken returns a middleware that protects the integration API with a
// static bearer token. An empty configured token disables the surface.
func APIToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			response.Forbidden(c, "integration api disabled")
			c.Abort()
			return
		}
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(token)) != 1 {
			response.Unauthorized(c, "invalid api token")
			c.Abort()
			return
		}
		c.Next()
	}
}
