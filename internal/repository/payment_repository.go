package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/akylbek/payment-system/payment-service/internal/models"
)

const paymentColumns = `payment_id, order_id, amount, currency, status, payment_method, idempotency_key, created_at`

type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// InitDB creates the ledger tables. The UNIQUE constraint on idempotency_key is what
// guarantees one payment per key when concurrent requests race past the lookup.
func (r *PaymentRepository) InitDB(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS payments (
			payment_id VARCHAR(64) PRIMARY KEY,
			order_id VARCHAR(255) NOT NULL,
			amount DECIMAL(15,2) NOT NULL,
			currency VARCHAR(10) NOT NULL,
			status VARCHAR(20) NOT NULL,
			payment_method VARCHAR(50) NOT NULL,
			idempotency_key VARCHAR(255) NOT NULL UNIQUE,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_created_at ON payments(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_order_id ON payments(order_id)`,
		`CREATE TABLE IF NOT EXISTS refunds (
			refund_id VARCHAR(64) PRIMARY KEY,
			payment_id VARCHAR(64) NOT NULL REFERENCES payments(payment_id),
			amount DECIMAL(15,2) NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refunds_payment_id ON refunds(payment_id)`,
	}

	for _, query := range queries {
		if _, err := r.db.ExecContext(ctx, query); err != nil {
			return err
		}
	}

	return nil
}

// withTx runs fn on a single pooled connection inside a transaction. The connection
// goes back to the pool on every path: commit, rollback after an error, or panic.
func (r *PaymentRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *PaymentRepository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO payments (`+paymentColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, payment.PaymentID, payment.OrderID, payment.Amount, payment.Currency,
			string(payment.Status), payment.PaymentMethod, payment.IdempotencyKey, payment.CreatedAt)
		if isUniqueViolation(err) {
			return fmt.Errorf("insert payment: %w", ErrDuplicateKey)
		}
		if err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}
		return nil
	})
}

func (r *PaymentRepository) GetPaymentByID(ctx context.Context, id string) (*models.Payment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+paymentColumns+`
		FROM payments WHERE payment_id = $1
	`, id)
	return scanPayment(row)
}

func (r *PaymentRepository) GetPaymentByIdempotencyKey(ctx context.Context, key string) (*models.Payment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+paymentColumns+`
		FROM payments WHERE idempotency_key = $1
	`, key)
	return scanPayment(row)
}

// ListPayments returns one page, newest first, and the total row count of the table.
func (r *PaymentRepository) ListPayments(ctx context.Context, limit, offset int) ([]models.Payment, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM payments`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		ORDER BY created_at DESC, payment_id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	payments := make([]models.Payment, 0, limit)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, err
		}
		payments = append(payments, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}

	return payments, total, nil
}

func (r *PaymentRepository) CreateRefund(ctx context.Context, refund *models.Refund) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO refunds (refund_id, payment_id, amount, created_at)
			VALUES ($1, $2, $3, $4)
		`, refund.RefundID, refund.PaymentID, refund.Amount, refund.CreatedAt)
		if isUniqueViolation(err) {
			return fmt.Errorf("insert refund: %w", ErrDuplicateKey)
		}
		if err != nil {
			return fmt.Errorf("insert refund: %w", err)
		}
		return nil
	})
}

func (r *PaymentRepository) ListRefunds(ctx context.Context, paymentID string) ([]models.Refund, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT refund_id, payment_id, amount, created_at
		FROM refunds
		WHERE payment_id = $1
		ORDER BY created_at ASC, refund_id ASC
	`, paymentID)
	if err != nil {
		return nil, fmt.Errorf("list refunds: %w", err)
	}
	defer rows.Close()

	refunds := []models.Refund{}
	for rows.Next() {
		var refund models.Refund
		if err := rows.Scan(&refund.RefundID, &refund.PaymentID, &refund.Amount, &refund.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan refund: %w", err)
		}
		refund.CreatedAt = refund.CreatedAt.UTC()
		refunds = append(refunds, refund)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list refunds: %w", err)
	}

	return refunds, nil
}

func (r *PaymentRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayment(row rowScanner) (*models.Payment, error) {
	var (
		payment models.Payment
		status  string
	)
	err := row.Scan(&payment.PaymentID, &payment.OrderID, &payment.Amount, &payment.Currency,
		&status, &payment.PaymentMethod, &payment.IdempotencyKey, &payment.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan payment: %w", err)
	}
	payment.Status = models.PaymentStatus(status)
	payment.CreatedAt = payment.CreatedAt.UTC()
	return &payment, nil
}
