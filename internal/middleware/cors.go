package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORS returns a middleware granting cross-origin access to the configured
// origins. The allowed list is comma-separated; "*" (or an empty list) opens
// the API to every origin. Preflight OPTIONS requests are answered directly.
func CORS(allowedOrigins string) gin.HandlerFunc {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, o := range strings.Split(allowedOrigins, ",") {
		switch o = strings.TrimSpace(o); o {
		case "":
		case "*":
			allowAll = true
		default:
			allowed[o] = struct{}{}
		}
	}
	if len(allowed) == 0 {
		allowAll = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		grant := ""
		if allowAll {
			grant = "*"
		} else if _, ok := allowed[origin]; ok {
			grant = origin
		}
		if grant != "" {
			c.Header("Access-Control-Allow-Origin", grant)
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Header("Access-Control-Max-Age", "86400")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
