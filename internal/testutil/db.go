// Package testutil provides a throwaway SQLite ledger for tests.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/akylbek/payment-system/payment-service/internal/repository"
)

// SQLiteDSN returns a DSN for a fresh database file under t.TempDir() with foreign keys
// enforced and a busy timeout so concurrent writers wait instead of failing.
func SQLiteDSN(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.db")
	return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite", path)
}

// NewDB opens a migrated SQLite database that is closed when the test ends.
func NewDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := repository.Open(context.Background(), repository.DriverSQLite, SQLiteDSN(t), repository.PoolOptions{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := repository.NewPaymentRepository(db).InitDB(context.Background()); err != nil {
		t.Fatalf("init test db: %v", err)
	}
	return db
}

// NewRepository returns a repository over a fresh database together with the raw pool,
// which tests use to count rows directly.
func NewRepository(t *testing.T) (*repository.PaymentRepository, *sql.DB) {
	t.Helper()
	db := NewDB(t)
	return repository.NewPaymentRepository(db), db
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
