package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/akylbek/payment-system/payment-service/internal/interfaces"
	"github.com/akylbek/payment-system/payment-service/internal/models"
)

const (
	TopicPaymentCreated = "payment.created"
	TopicRefundCreated  = "refund.created"
)

type PaymentCreatedEvent struct {
	PaymentID     string    `json:"payment_id"`
	OrderID       string    `json:"order_id"`
	Amount        string    `json:"amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"payment_method"`
	CreatedAt     time.Time `json:"created_at"`
}

type RefundCreatedEvent struct {
	RefundID  string    `json:"refund_id"`
	PaymentID string    `json:"payment_id"`
	Amount    string    `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

func encodePayment(p *models.Payment) ([]byte, error) {
	return json.Marshal(PaymentCreatedEvent{
		PaymentID:     p.PaymentID,
		OrderID:       p.OrderID,
		Amount:        p.Amount.String(),
		Currency:      p.Currency,
		Status:        string(p.Status),
		PaymentMethod: p.PaymentMethod,
		CreatedAt:     p.CreatedAt,
	})
}

func encodeRefund(r *models.Refund) ([]byte, error) {
	return json.Marshal(RefundCreatedEvent{
		RefundID:  r.RefundID,
		PaymentID: r.PaymentID,
		Amount:    r.Amount.String(),
		CreatedAt: r.CreatedAt,
	})
}

// NoopPublisher drops every event. Used when no event bus is configured.
type NoopPublisher struct{}

func (NoopPublisher) PaymentCreated(context.Context, *models.Payment) error { return nil }
func (NoopPublisher) RefundCreated(context.Context, *models.Refund) error   { return nil }
func (NoopPublisher) Close() error                                          { return nil }

// NewPublisher picks the event bus named by bus: "kafka", "nats", or "none".
func NewPublisher(bus, kafkaBrokers, natsURL string) (interfaces.EventPublisher, error) {
	switch bus {
	case "kafka":
		if kafkaBrokers == "" {
			return nil, fmt.Errorf("KAFKA_BROKERS is required for the kafka event bus")
		}
		return NewKafkaPublisher(kafkaBrokers), nil
	case "nats":
		if natsURL == "" {
			return nil, fmt.Errorf("NATS_URL is required for the nats event bus")
		}
		p, err := NewNATSPublisher(natsURL)
		if err != nil {
			return nil, fmt.Errorf("connect nats: %w", err)
		}
		return p, nil
	case "", "none":
		return NoopPublisher{}, nil
	default:
		return nil, fmt.Errorf("unknown event bus %q", bus)
	}
}
