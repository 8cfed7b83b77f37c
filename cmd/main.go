package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/payment-service/internal/api"
	"github.com/akylbek/payment-system/payment-service/internal/cache"
	"github.com/akylbek/payment-system/payment-service/internal/config"
	"github.com/akylbek/payment-system/payment-service/internal/events"
	"github.com/akylbek/payment-system/payment-service/internal/interfaces"
	"github.com/akylbek/payment-system/payment-service/internal/repository"
	"github.com/akylbek/payment-system/payment-service/internal/service"
	"github.com/akylbek/payment-system/payment-service/internal/telemetry"
)

func main() {
	cfg := config.Load()

	// Initialize telemetry
	if err := telemetry.InitTelemetry(cfg.ServiceName, cfg.JaegerEndpoint); err != nil {
		panic(fmt.Sprintf("Failed to initialize telemetry: %v", err))
	}
	defer telemetry.Shutdown(context.Background())

	telemetry.Logger.Info("Starting Payment Service")

	// Connect to the ledger database
	db, err := repository.Open(context.Background(), cfg.DatabaseDriver, cfg.DatabaseURL, repository.PoolOptions{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.DBConnMaxLifeMs) * time.Millisecond,
	})
	if err != nil {
		telemetry.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	paymentRepo := repository.NewPaymentRepository(db)
	if err := paymentRepo.InitDB(context.Background()); err != nil {
		telemetry.Logger.Fatal("Failed to initialize database", zap.Error(err))
	}

	// Connect to Redis
	var idempotencyCache interfaces.IdempotencyCache
	if cfg.RedisURL != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr: cfg.RedisURL,
		})
		defer redisClient.Close()
		idempotencyCache = cache.NewRedisIdempotencyCache(redisClient, cache.DefaultTTL)
	} else {
		telemetry.Logger.Info("REDIS_URL not set, idempotency cache disabled")
	}

	// Connect to the event bus
	publisher, err := events.NewPublisher(cfg.EventBus, cfg.KafkaBrokers, cfg.NatsURL)
	if err != nil {
		telemetry.Logger.Fatal("Failed to connect to event bus", zap.Error(err))
	}
	defer publisher.Close()

	paymentService := service.NewPaymentService(paymentRepo, idempotencyCache, publisher)
	r := api.NewRouter(paymentService)

	// Setup HTTP server
	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		telemetry.Logger.Info("Payment Service starting",
			zap.String("port", cfg.Port),
			zap.String("database_driver", cfg.DatabaseDriver),
			zap.String("event_bus", cfg.EventBus),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			telemetry.Logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	telemetry.Logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		telemetry.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	telemetry.Logger.Info("Server exited")
}
