package interfaces

import (
	"context"

	"github.com/akylbek/payment-system/payment-service/internal/models"
)

// IdempotencyCache is a best-effort lookaside for completed charges keyed by
// idempotency key. A miss is (nil, nil).
type IdempotencyCache interface {
	Get(ctx context.Context, key string) (*models.Payment, error)
	Set(ctx context.Context, payment *models.Payment) error
}
