package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	StatusSuccess PaymentStatus = "SUCCESS"
	StatusFailed  PaymentStatus = "FAILED"
)

const (
	DefaultCurrency      = "INR"
	DefaultPaymentMethod = "CARD"
)

type Payment struct {
	PaymentID      string        `json:"payment_id"`
	OrderID        string        `json:"order_id"`
	Amount         Money         `json:"amount"`
	Currency       string        `json:"currency"`
	Status         PaymentStatus `json:"status"`
	PaymentMethod  string        `json:"payment_method"`
	IdempotencyKey string        `json:"idempotency_key"`
	CreatedAt      time.Time     `json:"created_at"`
}

type Refund struct {
	RefundID  string    `json:"refund_id"`
	PaymentID string    `json:"payment_id"`
	Amount    Money     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// ChargePaymentRequest is the JSON body of POST /v1/payments/charge. Amount accepts a
// JSON number or a numeric string.
type ChargePaymentRequest struct {
	OrderID       string              `json:"order_id"`
	Amount        decimal.NullDecimal `json:"amount"`
	Currency      string              `json:"currency"`
	PaymentMethod string              `json:"payment_method"`
}

type RefundPaymentRequest struct {
	PaymentID string              `json:"payment_id"`
	Amount    decimal.NullDecimal `json:"amount"`
}

type PaymentList struct {
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
	Total int64     `json:"total"`
	Data  []Payment `json:"data"`
}
