// Package events publishes domain events to RabbitMQ. The publisher is
// optional: with no broker URL configured every publish is a silent no-op,
// and broker failures are logged without failing the originating request.
package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	RoutingPinCreated        = "pin.created"
	RoutingMarketItemCreated = "market.item.created"
	RoutingBlogPostPublished = "blog.post.published"
)

// Publisher delivers persistent JSON messages to named durable queues.
// A connection is dialed per publish; events are rare enough that holding a
// channel open is not worth the reconnect bookkeeping.
type Publisher struct {
	url    string
	logger *zap.Logger
}

// New returns a Publisher. An empty URL yields a disabled publisher.
func New(url string, logger *zap.Logger) *Publisher {
	return &Publisher{url: strings.TrimSpace(url), logger: logger}
}

// Enabled reports whether a broker URL is configured.
func (p *Publisher) Enabled() bool { return p != nil && p.url != "" }

// Publish sends one event. Disabled publishers return nil immediately.
func (p *Publisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	if !p.Enabled() {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.warn("dial failed", routingKey, err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.warn("channel open failed", routingKey, err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Queue-per-routing-key, durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(routingKey, true, false, false, false, nil); err != nil {
		p.warn("queue declare failed", routingKey, err)
		return err
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = ch.PublishWithContext(pubCtx, "", routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		p.warn("publish failed", routingKey, err)
	}
	return err
}

func (p *Publisher) warn(msg, routingKey string, err error) {
	if p.logger != nil {
		p.logger.Warn("events: "+msg, zap.String("routing_key", routingKey), zap.Error(err))
	}
}
