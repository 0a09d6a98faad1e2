package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/PabloIb21/teslo-orders-api/internal/usecase"
)

type published struct {
	exchange   string
	routingKey string
	msg        amqp.Publishing
}

// fakeChannel hands back confirmations the broker never acknowledges, so a
// publish that returns without an error would mean the producer is not
// waiting for the ack.
type fakeChannel struct {
	exchange  string
	kind      string
	durable   bool
	confirmed bool
	published []published
}

func (c *fakeChannel) ExchangeDeclare(name, kind string, durable, _, _, _ bool, _ amqp.Table) error {
	c.exchange, c.kind, c.durable = name, kind, durable
	return nil
}

func (c *fakeChannel) Confirm(bool) error {
	c.confirmed = true
	return nil
}

func (c *fakeChannel) PublishWithDeferredConfirmWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) (*amqp.DeferredConfirmation, error) {
	c.published = append(c.published, published{exchange: exchange, routingKey: key, msg: msg})
	return &amqp.DeferredConfirmation{}, nil
}

func TestProducerDeclaresDurableTopicExchange(t *testing.T) {
	ch := &fakeChannel{}
	if _, err := NewRabbitProducer(ch, "order.events"); err != nil {
		t.Fatalf("NewRabbitProducer: %v", err)
	}
	if ch.exchange != "order.events" || ch.kind != "topic" || !ch.durable {
		t.Errorf("exchange declared as %q/%q durable=%v", ch.exchange, ch.kind, ch.durable)
	}
	if !ch.confirmed {
		t.Error("channel not put in confirm mode")
	}
}

func TestPublishWaitsForBrokerConfirmation(t *testing.T) {
	ch := &fakeChannel{}
	p, err := NewRabbitProducer(ch, "order.events")
	if err != nil {
		t.Fatalf("NewRabbitProducer: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err = p.PublishCreated(ctx, usecase.OrderCreatedMsg{OrderID: "order-1", UserID: "user-1"})
	if err == nil {
		t.Fatal("publish returned before the broker acknowledged")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("publish error = %v, want context.DeadlineExceeded", err)
	}

	if len(ch.published) != 1 {
		t.Fatalf("published %d messages, want 1", len(ch.published))
	}
	got := ch.published[0]
	if got.routingKey != "order.created" || got.exchange != "order.events" {
		t.Errorf("routed %s on %s", got.routingKey, got.exchange)
	}
	if got.msg.DeliveryMode != amqp.Persistent {
		t.Errorf("delivery mode = %d, want persistent", got.msg.DeliveryMode)
	}
	if got.msg.ContentType != "application/json" {
		t.Errorf("content type = %q", got.msg.ContentType)
	}
	var body struct {
		OrderID string `json:"orderId"`
	}
	if err := json.Unmarshal(got.msg.Body, &body); err != nil || body.OrderID != "order-1" {
		t.Errorf("body = %s (err %v)", got.msg.Body, err)
	}
}
