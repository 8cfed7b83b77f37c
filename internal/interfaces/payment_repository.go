package interfaces

import (
	"context"

	"github.com/akylbek/payment-system/payment-service/internal/models"
)

// PaymentRepository defines the contract for ledger data access. Lookups return
// repository.ErrNotFound when no row matches; CreatePayment returns
// repository.ErrDuplicateKey when a unique constraint rejects the row.
type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment *models.Payment) error
	GetPaymentByID(ctx context.Context, id string) (*models.Payment, error)
	GetPaymentByIdempotencyKey(ctx context.Context, key string) (*models.Payment, error)
	ListPayments(ctx context.Context, limit, offset int) ([]models.Payment, int64, error)
	CreateRefund(ctx context.Context, refund *models.Refund) error
	ListRefunds(ctx context.Context, paymentID string) ([]models.Refund, error)
	Ping(ctx context.Context) error
}
