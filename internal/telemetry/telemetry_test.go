package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracingMiddlewareStartsSpan(t *testing.T) {
	require.NoError(t, InitTelemetry("payment-service-test", ""))
	t.Cleanup(func() { Shutdown(context.Background()) })

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TracingMiddleware(), MetricsMiddleware())

	var traceID string
	r.GET("/v1/payments/:payment_id", func(c *gin.Context) {
		traceID = TraceID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/payments/abc", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", traceID, "incoming trace context is continued")
}

func TestTraceIDOutsideSpan(t *testing.T) {
	assert.Empty(t, TraceID(context.Background()))
}
