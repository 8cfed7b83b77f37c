package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/akylbek/payment-system/payment-service/internal/interfaces"
	"github.com/akylbek/payment-system/payment-service/internal/models"
	"github.com/akylbek/payment-system/payment-service/internal/repository"
	"github.com/akylbek/payment-system/payment-service/internal/telemetry"
)

// IdempotencyResolver answers whether a charge with a given key has already completed.
// It only reads. The lookup is a fast path: two requests carrying the same fresh key can
// both miss here, and the unique index on idempotency_key decides which insert wins.
type IdempotencyResolver struct {
	repo  interfaces.PaymentRepository
	cache interfaces.IdempotencyCache
}

// NewIdempotencyResolver builds a resolver; cache may be nil.
func NewIdempotencyResolver(repo interfaces.PaymentRepository, cache interfaces.IdempotencyCache) *IdempotencyResolver {
	return &IdempotencyResolver{repo: repo, cache: cache}
}

func (r *IdempotencyResolver) Resolve(ctx context.Context, key string) (*models.Payment, bool, error) {
	if r.cache != nil {
		cached, err := r.cache.Get(ctx, key)
		if err != nil {
			telemetry.Logger.Warn("Idempotency cache lookup failed",
				zap.String("idempotency_key", key),
				zap.Error(err),
			)
		} else if cached != nil {
			return cached, true, nil
		}
	}

	payment, err := r.repo.GetPaymentByIdempotencyKey(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payment, true, nil
}
