package telemetry

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeCreated   = "created"
	OutcomeDuplicate = "duplicate"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)

var (
	ChargesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "payment_service",
		Name:      "charges_total",
		Help:      "Charge attempts by outcome.",
	}, []string{"outcome"})

	RefundsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "payment_service",
		Name:      "refunds_total",
		Help:      "Refund attempts by outcome.",
	}, []string{"outcome"})

	EventPublishFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "payment_service",
		Name:      "event_publish_failures_total",
		Help:      "Events that could not be handed to the event bus.",
	}, []string{"topic"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "payment_service",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// MetricsMiddleware records request latency per route.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
