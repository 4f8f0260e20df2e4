package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/Anantaverma20/NovaIQ/internal/logger"
	"github.com/gin-gonic/gin"
)

// WebhookAuth returns a middleware that guards webhook endpoints with a
// shared-secret header. The comparison is constant-time. Rejection happens
// before any request body is read or pipeline work starts.
func WebhookAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// An unset secret means the webhook surface is closed, not open.
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "webhook not configured",
			})
			return
		}

		provided := c.GetHeader("X-Webhook-Secret")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			logger.CtxWarn(c.Request.Context(), "Webhook rejected: invalid secret, client_ip=%s", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid webhook secret",
			})
			return
		}

		c.Next()
	}
}
