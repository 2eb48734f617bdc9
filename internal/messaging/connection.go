package messaging

import (
	"context"
	"fmt"
	"restaurant_ordering/internal/logger"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const OrdersExchange = "orders_topic"

// Connection wraps a RabbitMQ connection and channel with reconnect on demand.
type Connection struct {
	mu      sync.Mutex
	url     string
	conn    *amqp.Connection
	channel *amqp.Channel
	log     *logger.Logger
}

func Dial(url string, log *logger.Logger) (*Connection, error) {
	c := &Connection{url: url, log: log}
	if err := c.connect(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Connection) connect() error {
	const maxRetries = 5
	var err error

	for i := 0; i < maxRetries; i++ {
		if err = c.open(); err == nil {
			return nil
		}
		if i < maxRetries-1 {
			wait := time.Duration(i+1) * 2 * time.Second
			c.log.Error(context.Background(), "rabbitmq_connection_failed",
				fmt.Sprintf("failed to connect to RabbitMQ, retrying in %v", wait), err)
			time.Sleep(wait)
		}
	}
	return fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", maxRetries, err)
}

func (c *Connection) open() error {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return err
	}
	ch, err := openChannel(conn)
	if err != nil {
		conn.Close()
		return err
	}
	c.conn, c.channel = conn, ch
	return nil
}

// openChannel opens a channel on conn and declares the orders exchange on it.
func openChannel(conn *amqp.Connection) (*amqp.Channel, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	err = ch.ExchangeDeclare(
		OrdersExchange, // name
		"topic",        // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare %s exchange: %w", OrdersExchange, err)
	}
	return ch, nil
}

type repair int

const (
	repairNone repair = iota
	repairChannel
	repairConnection
)

// neededRepair picks the cheapest fix. A channel closed by a broker error
// leaves its connection usable.
func neededRepair(connOpen, channelOpen bool) repair {
	switch {
	case !connOpen:
		return repairConnection
	case !channelOpen:
		return repairChannel
	}
	return repairNone
}

// Channel returns a live channel. A closed channel on a live connection is
// replaced in place. A dead connection is redialed.
func (c *Connection) Channel() (*amqp.Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	connOpen := c.conn != nil && !c.conn.IsClosed()
	channelOpen := c.channel != nil && !c.channel.IsClosed()

	switch neededRepair(connOpen, channelOpen) {
	case repairChannel:
		ch, err := openChannel(c.conn)
		if err == nil {
			c.channel = ch
			return ch, nil
		}
		c.log.Error(context.Background(), "rabbitmq_channel_failed", "failed to reopen channel, redialing", err)
		c.conn.Close()
		fallthrough
	case repairConnection:
		if err := c.open(); err != nil {
			return nil, fmt.Errorf("failed to reconnect: %w", err)
		}
	}
	return c.channel, nil
}

func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil && !c.conn.IsClosed() {
		return c.conn.Close()
	}
	return nil
}
