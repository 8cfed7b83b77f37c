package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/akylbek/payment-system/payment-service/internal/handlers"
	"github.com/akylbek/payment-system/payment-service/internal/middleware"
	"github.com/akylbek/payment-system/payment-service/internal/service"
	"github.com/akylbek/payment-system/payment-service/internal/telemetry"
)

func NewRouter(paymentService *service.PaymentService) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(telemetry.TracingMiddleware())
	r.Use(telemetry.MetricsMiddleware())
	r.Use(middleware.RequestLogger())

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	paymentHandler := handlers.NewPaymentHandler(paymentService)

	v1 := r.Group("/v1")
	{
		v1.GET("/healthz", handlers.Healthz)
		v1.GET("/readyz", handlers.Readyz(paymentService))

		payments := v1.Group("/payments")
		payments.POST("/charge", middleware.IdempotencyKey(), paymentHandler.ChargePayment)
		payments.POST("/refund", paymentHandler.RefundPayment)
		payments.GET("", paymentHandler.ListPayments)
		payments.GET("/:payment_id", paymentHandler.GetPayment)
		payments.GET("/:payment_id/refunds", paymentHandler.ListRefunds)
	}

	r.NoRoute(handlers.NotFound)

	return r
}
