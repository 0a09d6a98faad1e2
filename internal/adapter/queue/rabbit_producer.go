package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/PabloIb21/teslo-orders-api/internal/usecase"
)

const (
	createdRoutingKey = "order.created"
	paidRoutingKey    = "order.paid"
)

// Channel is the subset of amqp.Channel the producer uses.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	Confirm(noWait bool) error
	PublishWithDeferredConfirmWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) (*amqp.DeferredConfirmation, error)
}

// RabbitProducer implements usecase.OrderEvents on a topic exchange.
type RabbitProducer struct {
	ch       Channel
	exchange string
}

// NewRabbitProducer declares the exchange once at startup and enables
// publisher confirms.
func NewRabbitProducer(ch Channel, exchange string) (*RabbitProducer, error) {
	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		return nil, fmt.Errorf("enable confirm mode: %w", err)
	}

	return &RabbitProducer{ch: ch, exchange: exchange}, nil
}

func (p *RabbitProducer) PublishCreated(ctx context.Context, msg usecase.OrderCreatedMsg) error {
	return p.publish(ctx, createdRoutingKey, msg)
}

func (p *RabbitProducer) PublishPaid(ctx context.Context, msg usecase.OrderPaidMsg) error {
	return p.publish(ctx, paidRoutingKey, msg)
}

func (p *RabbitProducer) publish(ctx context.Context, routingKey string, msg any) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // survive broker restarts
		Body:         body,
	}

	conf, err := p.ch.PublishWithDeferredConfirmWithContext(
		ctx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		pub,
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}

	// The channel is in confirm mode; the publish only counts once the broker
	// acknowledges it.
	select {
	case <-ctx.Done():
		return fmt.Errorf("confirm %s: %w", routingKey, ctx.Err())
	case <-conf.Done():
		if !conf.Acked() {
			return fmt.Errorf("publish %s: nacked by broker", routingKey)
		}
	}
	return nil
}

var _ usecase.OrderEvents = (*RabbitProducer)(nil)
