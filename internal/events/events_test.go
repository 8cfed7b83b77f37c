package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akylbek/payment-system/payment-service/internal/models"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

type published struct {
	subject string
	data    []byte
}

type fakeNATS struct {
	msgs    []published
	drained bool
}

func (c *fakeNATS) Publish(subject string, data []byte) error {
	c.msgs = append(c.msgs, published{subject: subject, data: data})
	return nil
}

func (c *fakeNATS) Drain() error {
	c.drained = true
	return nil
}

var (
	testPayment = &models.Payment{
		PaymentID:      "pay-1",
		OrderID:        "order-1",
		Amount:         models.MustMoney("12.5"),
		Currency:       "INR",
		Status:         models.StatusSuccess,
		PaymentMethod:  "CARD",
		IdempotencyKey: "key-1",
		CreatedAt:      time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	testRefund = &models.Refund{
		RefundID:  "ref-1",
		PaymentID: "pay-1",
		Amount:    models.MustMoney("2"),
		CreatedAt: time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC),
	}
)

func TestKafkaPublisherRoutesByTopic(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}

	require.NoError(t, p.PaymentCreated(context.Background(), testPayment))
	require.NoError(t, p.RefundCreated(context.Background(), testRefund))
	require.Len(t, w.messages, 2)

	assert.Equal(t, TopicPaymentCreated, w.messages[0].Topic)
	assert.Equal(t, "pay-1", string(w.messages[0].Key))
	var evt PaymentCreatedEvent
	require.NoError(t, json.Unmarshal(w.messages[0].Value, &evt))
	assert.Equal(t, "12.50", evt.Amount)
	assert.Equal(t, "SUCCESS", evt.Status)

	assert.Equal(t, TopicRefundCreated, w.messages[1].Topic)
	assert.Equal(t, "pay-1", string(w.messages[1].Key), "refunds share the payment partition")

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNewKafkaPublisherFlushesPromptly(t *testing.T) {
	p := NewKafkaPublisher("broker-1:9092,broker-2:9092")
	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, 10*time.Millisecond, w.BatchTimeout)
}

func TestKafkaPublisherSurfacesWriteErrors(t *testing.T) {
	p := &KafkaPublisher{writer: &fakeWriter{err: errors.New("no brokers")}}
	assert.Error(t, p.PaymentCreated(context.Background(), testPayment))
}

func TestNATSPublisher(t *testing.T) {
	conn := &fakeNATS{}
	p := &NATSPublisher{conn: conn}

	require.NoError(t, p.PaymentCreated(context.Background(), testPayment))
	require.NoError(t, p.RefundCreated(context.Background(), testRefund))
	require.Len(t, conn.msgs, 2)
	assert.Equal(t, TopicPaymentCreated, conn.msgs[0].subject)
	assert.Equal(t, TopicRefundCreated, conn.msgs[1].subject)

	var evt RefundCreatedEvent
	require.NoError(t, json.Unmarshal(conn.msgs[1].data, &evt))
	assert.Equal(t, "ref-1", evt.RefundID)
	assert.Equal(t, "2.00", evt.Amount)

	require.NoError(t, p.Close())
	assert.True(t, conn.drained)
}

func TestNewPublisher(t *testing.T) {
	p, err := NewPublisher("none", "", "")
	require.NoError(t, err)
	assert.IsType(t, NoopPublisher{}, p)

	p, err = NewPublisher("kafka", "localhost:9092,localhost:9093", "")
	require.NoError(t, err)
	assert.IsType(t, &KafkaPublisher{}, p)
	require.NoError(t, p.Close())

	_, err = NewPublisher("kafka", "", "")
	assert.Error(t, err)

	_, err = NewPublisher("nats", "", "")
	assert.Error(t, err)

	_, err = NewPublisher("rabbit", "", "")
	assert.Error(t, err)
}
