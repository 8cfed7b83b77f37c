package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/payment-service/internal/events"
	"github.com/akylbek/payment-system/payment-service/internal/interfaces"
	"github.com/akylbek/payment-system/payment-service/internal/models"
	"github.com/akylbek/payment-system/payment-service/internal/repository"
	"github.com/akylbek/payment-system/payment-service/internal/telemetry"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100

	// MaxPage keeps (page-1)*MaxLimit inside a 32-bit offset.
	MaxPage = math.MaxInt32 / MaxLimit
)

// maxAmount is the largest value a DECIMAL(15,2) column holds.
var maxAmount = decimal.RequireFromString("9999999999999.99")

type ChargeResult struct {
	Payment   *models.Payment
	Duplicate bool
}

type PaymentService struct {
	repo      interfaces.PaymentRepository
	resolver  *IdempotencyResolver
	cache     interfaces.IdempotencyCache
	publisher interfaces.EventPublisher

	now   func() time.Time
	newID func() string
}

// NewPaymentService wires the charge and refund workflows. cache and publisher may be nil.
func NewPaymentService(repo interfaces.PaymentRepository, cache interfaces.IdempotencyCache, publisher interfaces.EventPublisher) *PaymentService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &PaymentService{
		repo:      repo,
		resolver:  NewIdempotencyResolver(repo, cache),
		cache:     cache,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
		newID:     func() string { return uuid.New().String() },
	}
}

// Charge creates at most one payment per idempotency key. A repeated key returns the
// stored payment with Duplicate set, whether the repeat is caught by the lookup or by
// the unique index on insert.
func (s *PaymentService) Charge(ctx context.Context, idempotencyKey string, req models.ChargePaymentRequest) (*ChargeResult, error) {
	idempotencyKey = strings.TrimSpace(idempotencyKey)
	if idempotencyKey == "" {
		telemetry.ChargesTotal.WithLabelValues(telemetry.OutcomeRejected).Inc()
		return nil, validationError("Missing Idempotency-Key header")
	}

	orderID := strings.TrimSpace(req.OrderID)
	if orderID == "" || !req.Amount.Valid || req.Amount.Decimal.IsZero() {
		telemetry.ChargesTotal.WithLabelValues(telemetry.OutcomeRejected).Inc()
		return nil, validationError("order_id and amount are required")
	}

	amount, err := normalizeAmount(req.Amount.Decimal)
	if err != nil {
		telemetry.ChargesTotal.WithLabelValues(telemetry.OutcomeRejected).Inc()
		return nil, err
	}

	existing, found, err := s.resolver.Resolve(ctx, idempotencyKey)
	if err != nil {
		telemetry.ChargesTotal.WithLabelValues(telemetry.OutcomeFailed).Inc()
		return nil, internalError(err)
	}
	if found {
		telemetry.ChargesTotal.WithLabelValues(telemetry.OutcomeDuplicate).Inc()
		telemetry.Logger.Info("Duplicate charge request",
			zap.String("payment_id", existing.PaymentID),
			zap.String("idempotency_key", idempotencyKey),
		)
		return &ChargeResult{Payment: existing, Duplicate: true}, nil
	}

	payment := &models.Payment{
		PaymentID:      s.newID(),
		OrderID:        orderID,
		Amount:         amount,
		Currency:       defaultString(strings.ToUpper(strings.TrimSpace(req.Currency)), models.DefaultCurrency),
		Status:         models.StatusSuccess,
		PaymentMethod:  defaultString(strings.TrimSpace(req.PaymentMethod), models.DefaultPaymentMethod),
		IdempotencyKey: idempotencyKey,
		CreatedAt:      s.now(),
	}

	telemetry.Logger.Info("Creating payment",
		zap.String("payment_id", payment.PaymentID),
		zap.String("order_id", payment.OrderID),
		zap.String("amount", payment.Amount.String()),
		zap.String("trace_id", telemetry.TraceID(ctx)),
	)

	if err := s.repo.CreatePayment(ctx, payment); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return s.resolveLostRace(ctx, idempotencyKey)
		}
		telemetry.ChargesTotal.WithLabelValues(telemetry.OutcomeFailed).Inc()
		telemetry.Logger.Error("Failed to save payment",
			zap.String("payment_id", payment.PaymentID),
			zap.Error(err),
		)
		return nil, internalError(err)
	}

	telemetry.ChargesTotal.WithLabelValues(telemetry.OutcomeCreated).Inc()
	s.cachePayment(ctx, payment)
	if err := s.publisher.PaymentCreated(ctx, payment); err != nil {
		telemetry.EventPublishFailures.WithLabelValues(events.TopicPaymentCreated).Inc()
		telemetry.Logger.Error("Failed to publish payment event",
			zap.String("payment_id", payment.PaymentID),
			zap.Error(err),
		)
	}

	telemetry.Logger.Info("Payment created successfully", zap.String("payment_id", payment.PaymentID))
	return &ChargeResult{Payment: payment}, nil
}

// resolveLostRace handles an insert rejected by the unique index: another request with
// the same key committed first, so its payment is the answer.
func (s *PaymentService) resolveLostRace(ctx context.Context, idempotencyKey string) (*ChargeResult, error) {
	existing, err := s.repo.GetPaymentByIdempotencyKey(ctx, idempotencyKey)
	if err != nil {
		telemetry.ChargesTotal.WithLabelValues(telemetry.OutcomeFailed).Inc()
		return nil, internalError(fmt.Errorf("load payment after duplicate insert: %w", err))
	}

	telemetry.ChargesTotal.WithLabelValues(telemetry.OutcomeDuplicate).Inc()
	telemetry.Logger.Info("Concurrent duplicate charge resolved by unique index",
		zap.String("payment_id", existing.PaymentID),
		zap.String("idempotency_key", idempotencyKey),
	)
	s.cachePayment(ctx, existing)
	return &ChargeResult{Payment: existing, Duplicate: true}, nil
}

func (s *PaymentService) cachePayment(ctx context.Context, payment *models.Payment) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, payment); err != nil {
		telemetry.Logger.Warn("Failed to cache payment",
			zap.String("payment_id", payment.PaymentID),
			zap.Error(err),
		)
	}
}

// Refund records a refund against a successful payment. Refunds are not checked against
// the remaining refundable balance.
func (s *PaymentService) Refund(ctx context.Context, req models.RefundPaymentRequest) (*models.Refund, error) {
	paymentID := strings.TrimSpace(req.PaymentID)
	if paymentID == "" || !req.Amount.Valid || req.Amount.Decimal.IsZero() {
		telemetry.RefundsTotal.WithLabelValues(telemetry.OutcomeRejected).Inc()
		return nil, validationError("payment_id and amount are required")
	}

	amount, err := normalizeAmount(req.Amount.Decimal)
	if err != nil {
		telemetry.RefundsTotal.WithLabelValues(telemetry.OutcomeRejected).Inc()
		return nil, err
	}

	payment, err := s.repo.GetPaymentByID(ctx, paymentID)
	if errors.Is(err, repository.ErrNotFound) {
		telemetry.RefundsTotal.WithLabelValues(telemetry.OutcomeRejected).Inc()
		return nil, notFoundError("Payment not found")
	}
	if err != nil {
		telemetry.RefundsTotal.WithLabelValues(telemetry.OutcomeFailed).Inc()
		return nil, internalError(err)
	}

	if payment.Status != models.StatusSuccess {
		telemetry.RefundsTotal.WithLabelValues(telemetry.OutcomeRejected).Inc()
		return nil, businessRuleError("Only successful payments can be refunded")
	}

	refund := &models.Refund{
		RefundID:  s.newID(),
		PaymentID: payment.PaymentID,
		Amount:    amount,
		CreatedAt: s.now(),
	}

	if err := s.repo.CreateRefund(ctx, refund); err != nil {
		telemetry.RefundsTotal.WithLabelValues(telemetry.OutcomeFailed).Inc()
		telemetry.Logger.Error("Failed to save refund",
			zap.String("payment_id", payment.PaymentID),
			zap.Error(err),
		)
		return nil, internalError(err)
	}

	telemetry.RefundsTotal.WithLabelValues(telemetry.OutcomeCreated).Inc()
	if err := s.publisher.RefundCreated(ctx, refund); err != nil {
		telemetry.EventPublishFailures.WithLabelValues(events.TopicRefundCreated).Inc()
		telemetry.Logger.Error("Failed to publish refund event",
			zap.String("refund_id", refund.RefundID),
			zap.Error(err),
		)
	}

	telemetry.Logger.Info("Refund processed",
		zap.String("refund_id", refund.RefundID),
		zap.String("payment_id", refund.PaymentID),
		zap.String("amount", refund.Amount.String()),
	)
	return refund, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	payment, err := s.repo.GetPaymentByID(ctx, paymentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFoundError("Payment not found")
	}
	if err != nil {
		return nil, internalError(err)
	}
	return payment, nil
}

// ListPayments returns one page of payments, newest first. Non-positive page or limit
// fall back to the defaults, limit is capped at MaxLimit and page at MaxPage.
func (s *PaymentService) ListPayments(ctx context.Context, page, limit int) (*models.PaymentList, error) {
	page, limit = normalizePage(page, limit)

	payments, total, err := s.repo.ListPayments(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, internalError(err)
	}

	return &models.PaymentList{
		Page:  page,
		Limit: limit,
		Total: total,
		Data:  payments,
	}, nil
}

func (s *PaymentService) ListRefunds(ctx context.Context, paymentID string) ([]models.Refund, error) {
	if _, err := s.GetPayment(ctx, paymentID); err != nil {
		return nil, err
	}

	refunds, err := s.repo.ListRefunds(ctx, paymentID)
	if err != nil {
		return nil, internalError(err)
	}
	return refunds, nil
}

// Ready reports whether the ledger store is reachable.
func (s *PaymentService) Ready(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		return internalError(err)
	}
	return nil
}

func normalizeAmount(d decimal.Decimal) (models.Money, error) {
	amount := models.NewMoney(d)
	if !amount.IsPositive() {
		return models.Money{}, validationError("amount must be greater than zero")
	}
	if amount.GreaterThan(maxAmount) {
		return models.Money{}, validationError("amount must not exceed " + maxAmount.StringFixed(2))
	}
	return amount, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
