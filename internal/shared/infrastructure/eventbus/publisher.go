package eventbus

import (
	"context"
	"log/slog"
)

// Publisher publishes messages to a topic exchange.
type Publisher interface {
	// Publish sends payload under routingKey.
	Publish(ctx context.Context, routingKey string, payload []byte) error

	// Close releases the underlying connection.
	Close() error
}

// NoopPublisher drops every message. It is used when no broker is configured.
type NoopPublisher struct {
	logger *slog.Logger
}

// NewNoopPublisher creates a publisher that does nothing.
func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopPublisher{logger: logger}
}

// Publish logs the message and returns nil.
func (p *NoopPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	p.logger.DebugContext(ctx, "noop publish",
		"routing_key", routingKey,
		"size", len(payload),
	)
	return nil
}

// Close is a no-op.
func (p *NoopPublisher) Close() error {
	return nil
}
