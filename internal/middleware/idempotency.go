package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyContextKey is where the validated header value is stored on the gin context.
	IdempotencyKeyContextKey = "idempotency_key"
)

// IdempotencyKey rejects requests without an Idempotency-Key header before any handler
// or store access runs.
func IdempotencyKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
		if key == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Missing Idempotency-Key header",
			})
			return
		}

		c.Set(IdempotencyKeyContextKey, key)
		c.Next()
	}
}
