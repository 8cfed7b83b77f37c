package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akylbek/payment-system/payment-service/internal/models"
)

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "idempotency:abc-123", cacheKey("abc-123"))
}

func TestDefaultTTL(t *testing.T) {
	c := NewRedisIdempotencyCache(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), 0)
	t.Cleanup(func() { c.client.Close() })
	assert.Equal(t, DefaultTTL, c.ttl)
}

func TestUnreachableRedisReturnsErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })
	c := NewRedisIdempotencyCache(client, time.Minute)

	payment, err := c.Get(context.Background(), "key")
	require.Error(t, err)
	assert.Nil(t, payment)

	err = c.Set(context.Background(), &models.Payment{PaymentID: "p", IdempotencyKey: "key"})
	assert.Error(t, err)
}
