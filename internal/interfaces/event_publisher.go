package interfaces

import (
	"context"

	"github.com/akylbek/payment-system/payment-service/internal/models"
)

type EventPublisher interface {
	PaymentCreated(ctx context.Context, payment *models.Payment) error
	RefundCreated(ctx context.Context, refund *models.Refund) error
	Close() error
}
