package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"restaurant_ordering/internal/logger"
	"restaurant_ordering/internal/models"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type channelProvider interface {
	Channel() (*amqp.Channel, error)
}

// Publisher sends order events to the kitchen topic exchange.
type Publisher struct {
	conn channelProvider
	log  *logger.Logger
}

func NewPublisher(conn *Connection, log *logger.Logger) *Publisher {
	return &Publisher{conn: conn, log: log}
}

// RoutingKey maps an event type to its kitchen routing key.
func RoutingKey(eventType string) string {
	return "kitchen." + eventType
}

// PublishOrderEvent logs delivery failures and returns them; callers decide
// whether a failure matters.
func (p *Publisher) PublishOrderEvent(ctx context.Context, event *models.OrderEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	routingKey := RoutingKey(event.Type)
	ch, err := p.conn.Channel()
	if err != nil {
		p.log.Error(ctx, "event_publish_failed", "no channel for order event", err, slog.String("routing_key", routingKey))
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = ch.PublishWithContext(ctx,
		OrdersExchange, // exchange
		routingKey,     // routing key
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.Timestamp,
			Body:         body,
		},
	)
	if err != nil {
		p.log.Error(ctx, "event_publish_failed", "failed to publish order event", err,
			slog.String("routing_key", routingKey), slog.Uint64("order_id", uint64(event.OrderID)))
		return fmt.Errorf("failed to publish message: %w", err)
	}

	p.log.Debug(ctx, "event_published", "order event published",
		slog.String("routing_key", routingKey), slog.Int("message_size", len(body)))
	return nil
}
