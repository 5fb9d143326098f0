package eventbus

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
)

type subscription struct {
	pattern string
	handler Handler
}

// Registry holds topic subscriptions and dispatches deliveries to them.
type Registry struct {
	subs   []subscription
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{logger: logger}
}

// Subscribe adds h for routing keys matching pattern.
func (r *Registry) Subscribe(pattern string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.subs = append(r.subs, subscription{pattern: pattern, handler: h})
	r.logger.Debug("registered subscription", "pattern", pattern)
}

// Patterns returns the distinct subscribed patterns in registration order.
func (r *Registry) Patterns() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool, len(r.subs))
	out := make([]string, 0, len(r.subs))
	for _, s := range r.subs {
		if !seen[s.pattern] {
			seen[s.pattern] = true
			out = append(out, s.pattern)
		}
	}
	return out
}

// Len returns the number of subscriptions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}

// Dispatch runs every matching handler. All handlers run even if one fails;
// the failures are joined.
func (r *Registry) Dispatch(ctx context.Context, d Delivery) error {
	r.mu.RLock()
	var handlers []Handler
	for _, s := range r.subs {
		if MatchTopic(s.pattern, d.RoutingKey) {
			handlers = append(handlers, s.handler)
		}
	}
	r.mu.RUnlock()

	if len(handlers) == 0 {
		r.logger.Debug("no subscribers for routing key", "routing_key", d.RoutingKey)
		return nil
	}

	var errs []error
	for _, h := range handlers {
		if err := h(ctx, d); err != nil {
			r.logger.Error("handler failed",
				"routing_key", d.RoutingKey,
				"error", err,
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// MatchTopic reports whether routingKey matches a topic-exchange pattern.
func MatchTopic(pattern, routingKey string) bool {
	return matchWords(strings.Split(pattern, "."), strings.Split(routingKey, "."))
}

func matchWords(pattern, key []string) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case "#":
			for i := 0; i <= len(key); i++ {
				if matchWords(pattern[1:], key[i:]) {
					return true
				}
			}
			return false
		case "*":
			if len(key) == 0 {
				return false
			}
		default:
			if len(key) == 0 || key[0] != pattern[0] {
				return false
			}
		}
		pattern, key = pattern[1:], key[1:]
	}
	return len(key) == 0
}
