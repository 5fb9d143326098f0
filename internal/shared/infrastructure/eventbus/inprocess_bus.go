package eventbus

import (
	"context"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/todos/pkg/observability"
)

// InProcessBus is a Publisher and Consumer that delivers synchronously inside
// the process. It stands in for RabbitMQ when no broker is configured.
type InProcessBus struct {
	registry *Registry
	logger   *slog.Logger
}

// NewInProcessBus creates an in-process bus.
func NewInProcessBus(logger *slog.Logger) *InProcessBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessBus{
		registry: NewRegistry(logger),
		logger:   logger,
	}
}

// Subscribe registers h for routing keys matching pattern.
func (b *InProcessBus) Subscribe(pattern string, h Handler) error {
	b.registry.Subscribe(pattern, h)
	return nil
}

// Publish dispatches to matching subscribers before returning. Handler
// failures are logged and not reported to the publisher.
func (b *InProcessBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	d := Delivery{
		RoutingKey:    routingKey,
		Body:          payload,
		CorrelationID: observability.CorrelationIDFromContext(ctx),
		ReceivedAt:    time.Now(),
	}

	start := time.Now()
	if err := b.registry.Dispatch(ctx, d); err != nil {
		b.logger.ErrorContext(ctx, "event dispatch failed",
			"routing_key", routingKey,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return nil
	}
	b.logger.DebugContext(ctx, "event dispatched",
		"routing_key", routingKey,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Start blocks until ctx is done; deliveries happen inside Publish.
func (b *InProcessBus) Start(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

// Close is a no-op.
func (b *InProcessBus) Close() error {
	return nil
}
