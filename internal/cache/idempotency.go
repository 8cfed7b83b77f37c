package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/akylbek/payment-system/payment-service/internal/models"
)

const DefaultTTL = 24 * time.Hour

// RedisIdempotencyCache keeps completed charges in Redis under idempotency:<key>.
// Payments are immutable, so an entry never goes stale before it expires.
type RedisIdempotencyCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisIdempotencyCache(client *redis.Client, ttl time.Duration) *RedisIdempotencyCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisIdempotencyCache{client: client, ttl: ttl}
}

func cacheKey(key string) string {
	return fmt.Sprintf("idempotency:%s", key)
}

func (c *RedisIdempotencyCache) Get(ctx context.Context, key string) (*models.Payment, error) {
	cached, err := c.client.Get(ctx, cacheKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var payment models.Payment
	if err := json.Unmarshal(cached, &payment); err != nil {
		return nil, fmt.Errorf("decode cached payment: %w", err)
	}
	return &payment, nil
}

func (c *RedisIdempotencyCache) Set(ctx context.Context, payment *models.Payment) error {
	paymentJSON, err := json.Marshal(payment)
	if err != nil {
		return fmt.Errorf("encode payment: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(payment.IdempotencyKey), paymentJSON, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
