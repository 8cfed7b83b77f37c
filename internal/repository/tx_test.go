package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestRepo(t *testing.T) (*PaymentRepository, *sql.DB) {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "tx.db") + "?_pragma=foreign_keys(1)&_time_format=sqlite"
	db, err := Open(context.Background(), DriverSQLite, dsn, PoolOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewPaymentRepository(db)
	require.NoError(t, repo.InitDB(context.Background()))
	return repo, db
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	repo, db := openTestRepo(t)
	boom := errors.New("boom")

	err := repo.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO payments (`+paymentColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, "pay-1", "order-1", "10.00", "INR", "SUCCESS", "CARD", "key-1", time.Now().UTC())
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM payments`).Scan(&n))
	assert.Zero(t, n)

	// the single pooled connection must have been released
	assert.Equal(t, 0, db.Stats().InUse)
}

func TestWithTxReleasesConnectionOnPanic(t *testing.T) {
	repo, db := openTestRepo(t)

	assert.Panics(t, func() {
		_ = repo.withTx(context.Background(), func(tx *sql.Tx) error {
			panic("handler blew up")
		})
	})
	assert.Equal(t, 0, db.Stats().InUse)

	_, err := repo.GetPaymentByID(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, isUniqueViolation(nil))
	assert.False(t, isUniqueViolation(errors.New("connection reset")))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert payment: %w", &pq.Error{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.True(t, isUniqueViolation(errors.New("constraint failed: UNIQUE constraint failed: payments.idempotency_key (2067)")))
}
