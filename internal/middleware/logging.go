package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/payment-service/internal/telemetry"
)

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("trace_id", telemetry.TraceID(c.Request.Context())),
		}
		if c.Writer.Status() >= 500 {
			telemetry.Logger.Error("Request failed", fields...)
			return
		}
		telemetry.Logger.Info("Request handled", fields...)
	}
}
