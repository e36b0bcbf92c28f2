package profile

import (
	"context"
	"errors"
	"net/http"

	"studiovault/internal/auth"

	"github.com/gin-gonic/gin"
)

// Getter is the minimal profile lookup interface needed by middleware.
type Getter interface {
	Get(ctx context.Context, id string) (Profile, error)
}

// RequireActive blocks requests from suspended profiles. It runs after the
// auth middleware, so a missing identity is a server misconfiguration and
// reported as unauthorized.
func RequireActive(svc Getter) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := auth.UserID(c.Request.Context())
		if err != nil || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		p, err := svc.Get(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown profile"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "profile lookup failed"})
			return
		}
		if p.IsSuspended {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account suspended"})
			return
		}

		c.Next()
	}
}
