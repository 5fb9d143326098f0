package eventbus

import (
	"context"
	"time"
)

// Delivery is one message received from the bus.
type Delivery struct {
	RoutingKey    string
	Body          []byte
	CorrelationID string
	ReceivedAt    time.Time
}

// Handler processes a delivery.
type Handler func(ctx context.Context, d Delivery) error

// Consumer receives messages from a broker and dispatches them to handlers.
type Consumer interface {
	// Subscribe registers h for every routing key matching pattern.
	// Patterns use topic syntax: "*" matches one word, "#" zero or more.
	Subscribe(pattern string, h Handler) error

	// Start consumes until ctx is done or the consumer is closed.
	Start(ctx context.Context) error

	// Close releases the underlying connection.
	Close() error
}
