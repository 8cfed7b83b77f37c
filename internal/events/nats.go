package events

import (
	"context"

	"github.com/nats-io/nats.go"

	"github.com/akylbek/payment-system/payment-service/internal/models"
)

type natsConn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

type NATSPublisher struct {
	conn natsConn
}

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("payment-service"))
	if err != nil {
		return nil, err
	}
	return &NATSPublisher{conn: nc}, nil
}

func (p *NATSPublisher) PaymentCreated(_ context.Context, payment *models.Payment) error {
	data, err := encodePayment(payment)
	if err != nil {
		return err
	}
	return p.conn.Publish(TopicPaymentCreated, data)
}

func (p *NATSPublisher) RefundCreated(_ context.Context, refund *models.Refund) error {
	data, err := encodeRefund(refund)
	if err != nil {
		return err
	}
	return p.conn.Publish(TopicRefundCreated, data)
}

// Close flushes buffered messages before disconnecting.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
