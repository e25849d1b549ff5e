package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pathshala/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// IdempotencyHeaderKey carries the client-chosen key for replay-safe
// mutations.
const IdempotencyHeaderKey = "Idempotency-Key"

// Idempotency rejects replays of mutating requests that carry an
// Idempotency-Key header. The key is marked before the handler runs, so a
// retried request that raced the original gets a 409 instead of a double
// booking. Requests without the header pass through untouched.
func Idempotency(store shared.IdempotencyStore, ttl time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}
		key := c.GetHeader(IdempotencyHeaderKey)
		if key == "" {
			c.Next()
			return
		}

		// scope the key per tenant so two tenants cannot collide
		scoped := GetJWTTenantID(c) + ":" + key
		fresh, err := store.MarkProcessed(c.Request.Context(), scoped, ttl)
		if err != nil {
			// fail open: losing replay protection beats refusing payments
			logger.Error("idempotency check failed", zap.Error(err))
			c.Next()
			return
		}
		if !fresh {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DUPLICATE_REQUEST",
					"message": "This request was already processed",
				},
			})
			return
		}
		c.Next()
	}
}
