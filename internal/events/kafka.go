package events

import (
	"context"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/akylbek/payment-system/payment-service/internal/models"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events keyed by payment id, so all events of one payment land
// on the same partition. Writes are synchronous with the request, so the batch timeout
// is kept short.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(strings.Split(brokers, ",")...),
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
		},
	}
}

func (p *KafkaPublisher) PaymentCreated(ctx context.Context, payment *models.Payment) error {
	value, err := encodePayment(payment)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: TopicPaymentCreated,
		Key:   []byte(payment.PaymentID),
		Value: value,
	})
}

func (p *KafkaPublisher) RefundCreated(ctx context.Context, refund *models.Refund) error {
	value, err := encodeRefund(refund)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: TopicRefundCreated,
		Key:   []byte(refund.PaymentID),
		Value: value,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
