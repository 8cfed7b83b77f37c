package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/payment-service/internal/service"
	"github.com/akylbek/payment-system/payment-service/internal/telemetry"
)

const ServiceDisplayName = "Payment Service"

type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": ServiceDisplayName,
		"time":    time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// Readyz reports 503 while the ledger store cannot be reached.
func Readyz(checker ReadinessChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := checker.Ready(ctx); err != nil {
			telemetry.Logger.Warn("Readiness check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, errorResponse{Code: service.KindInternal, Message: "Database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
