package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nikolayk812/sessioncart/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 3 * time.Second

type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitPublisher publishes cart events to a durable topic exchange.
type RabbitPublisher struct {
	mu       sync.Mutex
	ch       amqpChannel
	exchange string
}

func NewRabbitPublisher(conn *amqp.Connection, exchange string) (*RabbitPublisher, error) {
	if conn == nil {
		return nil, fmt.Errorf("amqp connection is nil")
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("conn.Channel: %w", err)
	}

	p, err := newRabbitPublisher(ch, exchange)
	if err != nil {
		return nil, errors.Join(err, ch.Close())
	}

	return p, nil
}

func newRabbitPublisher(ch amqpChannel, exchange string) (*RabbitPublisher, error) {
	if exchange == "" {
		return nil, fmt.Errorf("exchange is empty")
	}

	// declare up front so publish never fails due to missing infra
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("ch.ExchangeDeclare[%s]: %w", exchange, err)
	}

	return &RabbitPublisher{ch: ch, exchange: exchange}, nil
}

func (p *RabbitPublisher) PublishCartCheckedOut(ctx context.Context, cart *domain.Cart, result domain.CheckoutResult) error {
	envelope := BuildCartCheckedOutEvent(cart, result)

	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	return p.publishJSON(ctx, CartCheckedOutRoutingKey, envelope.EventID, body)
}

func (p *RabbitPublisher) Close() error {
	return p.ch.Close()
}

func (p *RabbitPublisher) publishJSON(ctx context.Context, routingKey, messageID string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.ch.PublishWithContext(
		pubCtx,
		p.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    messageID,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("ch.PublishWithContext[%s]: %w", routingKey, err)
	}

	return nil
}
