package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ktinsight-be/config"
)

// AdminAuth guards the review surface with the shared admin secret. A
// missing configured token fails closed: 500, never silently open.
func AdminAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.AdminToken == "" {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Missing server configuration"})
			c.Abort()
			return
		}

		if c.GetHeader("x-admin-token") != cfg.AdminToken {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		c.Next()
	}
}
