package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQConsumer reads from a private, auto-deleted queue bound to the
// exchange for every subscribed pattern.
type RabbitMQConsumer struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	queue     string
	exchange  string
	registry  *Registry
	logger    *slog.Logger
	mu        sync.Mutex
	running   bool
	closeOnce sync.Once
	closeChan chan struct{}
}

// NewRabbitMQConsumer connects and declares an exclusive server-named queue.
func NewRabbitMQConsumer(cfg RabbitMQConfig) (*RabbitMQConsumer, error) {
	cfg = cfg.withDefaults()

	conn, ch, err := dial(cfg)
	if err != nil {
		return nil, err
	}

	q, err := ch.QueueDeclare(
		"",
		false, // durable
		true,  // auto-delete
		true,  // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	cfg.Logger.Info("RabbitMQ consumer connected",
		"queue", q.Name,
		"exchange", cfg.Exchange,
	)

	return &RabbitMQConsumer{
		conn:      conn,
		channel:   ch,
		queue:     q.Name,
		exchange:  cfg.Exchange,
		registry:  NewRegistry(cfg.Logger),
		logger:    cfg.Logger,
		closeChan: make(chan struct{}),
	}, nil
}

// Subscribe binds the queue to pattern and registers h for it.
func (c *RabbitMQConsumer) Subscribe(pattern string, h Handler) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.channel.QueueBind(c.queue, pattern, c.exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue to %q: %w", pattern, err)
	}
	c.registry.Subscribe(pattern, h)
	return nil
}

// Start consumes until ctx is done or Close is called.
func (c *RabbitMQConsumer) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return errors.New("consumer already running")
	}
	c.running = true
	c.mu.Unlock()

	msgs, err := c.channel.Consume(
		c.queue,
		"",    // consumer tag
		false, // auto-ack
		true,  // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-c.closeChan:
			return nil

		case msg, ok := <-msgs:
			if !ok {
				return errors.New("message channel closed unexpectedly")
			}
			c.handle(ctx, msg)
		}
	}
}

func (c *RabbitMQConsumer) handle(ctx context.Context, msg amqp.Delivery) {
	d := Delivery{
		RoutingKey:    msg.RoutingKey,
		Body:          msg.Body,
		CorrelationID: msg.CorrelationId,
		ReceivedAt:    time.Now(),
	}

	if err := c.registry.Dispatch(ctx, d); err != nil {
		// Failed deliveries are dropped, not requeued.
		if nackErr := msg.Nack(false, false); nackErr != nil {
			c.logger.Error("failed to nack message", "error", nackErr)
		}
		return
	}
	if err := msg.Ack(false); err != nil {
		c.logger.Error("failed to ack message", "error", err)
	}
}

// Close stops Start and closes the connection.
func (c *RabbitMQConsumer) Close() error {
	c.closeOnce.Do(func() { close(c.closeChan) })

	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false

	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.logger.Warn("error closing channel", "error", err)
		}
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
