package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/todos/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/todos/internal/todos/application/services"
	"github.com/felixgeelhaar/todos/internal/todos/domain/session"
	"github.com/felixgeelhaar/todos/internal/todos/infrastructure/httpstore"
	"github.com/felixgeelhaar/todos/pkg/config"
	"github.com/felixgeelhaar/todos/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *observability.InMemoryMetrics

	// Task store
	Store *httpstore.Client

	// Session persistence
	Sessions session.Repository

	// Change events. Bus is set when no broker is configured.
	EventPublisher eventbus.Publisher
	Bus            *eventbus.InProcessBus

	Controller *services.Controller
}

// NewContainer wires the controller from cfg and restores the saved session.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewInMemoryMetrics(),
	}

	store, err := httpstore.NewClient(cfg.APIURL,
		httpstore.WithTimeout(cfg.RequestTimeout),
		httpstore.WithDescriptionField(cfg.DescriptionField),
		httpstore.WithLogger(logger),
		httpstore.WithMetrics(c.Metrics),
		httpstore.WithBreaker(httpstore.BreakerConfig{
			Enabled:          cfg.BreakerEnabled,
			FailureThreshold: cfg.BreakerFailureThreshold,
			Timeout:          cfg.BreakerTimeout,
			MaxRequests:      1,
			Interval:         httpstore.DefaultBreakerConfig().Interval,
		}),
	)
	if err != nil {
		return nil, err
	}
	c.Store = store

	sessions, err := newSessionRepository(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	c.Sessions = sessions

	if err := c.initPublisher(cfg, logger); err != nil {
		c.Close()
		return nil, err
	}

	c.Controller = services.NewController(store,
		services.ControllerConfig{
			SessionID:            cfg.SessionID,
			ServerAssignsIDs:     cfg.ServerAssignsIDs(),
			ForceTodoStatus:      cfg.ForceTodoStatus,
			WithCategory:         cfg.CategoriesEnabled,
			HideListWhileEditing: cfg.HideListWhileEditing,
		},
		services.WithSessions(sessions),
		services.WithPublisher(c.EventPublisher),
		services.WithLogger(logger),
		services.WithMetrics(c.Metrics),
	)

	if err := c.Controller.Restore(ctx); err != nil {
		logger.Warn("failed to restore session, starting fresh", "session", cfg.SessionID, "error", err)
	}
	return c, nil
}

func (c *Container) initPublisher(cfg *config.Config, logger *slog.Logger) error {
	if cfg.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(eventbus.RabbitMQConfig{
			URL:    cfg.RabbitMQURL,
			Logger: logger,
		})
		if err == nil {
			c.EventPublisher = publisher
			return nil
		}
		if !cfg.IsDevelopment() {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		logger.Warn("RabbitMQ not available, using in-process bus", "error", err)
	}

	bus := eventbus.NewInProcessBus(logger)
	_ = bus.Subscribe("todos.#", func(ctx context.Context, d eventbus.Delivery) error {
		logger.DebugContext(ctx, "todo changed", "routing_key", d.RoutingKey, "size", len(d.Body))
		return nil
	})
	c.Bus = bus
	c.EventPublisher = bus
	return nil
}

// Close cancels in-flight store calls and releases connections.
func (c *Container) Close() {
	if c.Controller != nil {
		_ = c.Controller.Close()
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.Sessions != nil {
		if err := c.Sessions.Close(); err != nil {
			c.Logger.Warn("error closing session store", "error", err)
		}
	}
}
