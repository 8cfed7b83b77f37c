package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/payment-service/internal/middleware"
	"github.com/akylbek/payment-system/payment-service/internal/models"
	"github.com/akylbek/payment-system/payment-service/internal/service"
	"github.com/akylbek/payment-system/payment-service/internal/telemetry"
)

type PaymentService interface {
	Charge(ctx context.Context, idempotencyKey string, req models.ChargePaymentRequest) (*service.ChargeResult, error)
	Refund(ctx context.Context, req models.RefundPaymentRequest) (*models.Refund, error)
	GetPayment(ctx context.Context, paymentID string) (*models.Payment, error)
	ListPayments(ctx context.Context, page, limit int) (*models.PaymentList, error)
	ListRefunds(ctx context.Context, paymentID string) ([]models.Refund, error)
}

type PaymentHandler struct {
	svc PaymentService
}

func NewPaymentHandler(svc PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

// bindJSON decodes the request body. An empty body decodes to the zero value so that the
// workflow reports which fields are missing.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		telemetry.Logger.Warn("Invalid request body", zap.String("path", c.Request.URL.Path), zap.Error(err))
		writeError(c, &service.Error{Kind: service.KindValidation, Message: "Invalid JSON body: " + err.Error()})
		return false
	}
	return true
}

func (h *PaymentHandler) ChargePayment(c *gin.Context) {
	var req models.ChargePaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.svc.Charge(c.Request.Context(), c.GetString(middleware.IdempotencyKeyContextKey), req)
	if err != nil {
		writeError(c, err)
		return
	}

	if result.Duplicate {
		c.JSON(http.StatusOK, gin.H{
			"idempotent": true,
			"message":    "Duplicate request - returning existing charge",
			"payment":    result.Payment,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Payment successful",
		"payment": result.Payment,
	})
}

func (h *PaymentHandler) RefundPayment(c *gin.Context) {
	var req models.RefundPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	refund, err := h.svc.Refund(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Refund processed",
		"refund":  refund,
	})
}

func (h *PaymentHandler) GetPayment(c *gin.Context) {
	payment, err := h.svc.GetPayment(c.Request.Context(), c.Param("payment_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// ListPayments serves GET /v1/payments?page=&limit=. Missing or non-numeric values use
// the defaults.
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	list, err := h.svc.ListPayments(c.Request.Context(), page, limit)
	if err != nil {
		telemetry.Logger.Error("List payments failed", zap.Error(err))
		writeError(c, &service.Error{Kind: service.KindInternal, Message: "Failed to fetch payments", Err: err})
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *PaymentHandler) ListRefunds(c *gin.Context) {
	refunds, err := h.svc.ListRefunds(c.Request.Context(), c.Param("payment_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": refunds})
}
