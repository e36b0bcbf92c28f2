package httpapi

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireCronSecret authenticates the external scheduler with a static
// bearer token. Constant-time compare; the secret is low-entropy enough to
// care.
func RequireCronSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "cron trigger not configured"})
			return
		}
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid cron secret"})
			return
		}
		c.Next()
	}
}

// TriggerSweep runs all reconciliation jobs once, synchronously, and
// reports per-job counts. Per-job redis locks keep this from overlapping
// with the interval runner.
func (h Handlers) TriggerSweep(c *gin.Context) {
	results := h.Sweeper.RunAll(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"results": results})
}
