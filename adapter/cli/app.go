package cli

import (
	"github.com/felixgeelhaar/todos/internal/todos/application/services"
	"github.com/felixgeelhaar/todos/pkg/config"
	"github.com/felixgeelhaar/todos/pkg/observability"
)

// App holds the CLI application dependencies.
type App struct {
	Controller *services.Controller
	Config     *config.Config
	Metrics    *observability.InMemoryMetrics
}

// NewApp creates a new CLI application.
func NewApp(controller *services.Controller, cfg *config.Config, metrics *observability.InMemoryMetrics) *App {
	return &App{
		Controller: controller,
		Config:     cfg,
		Metrics:    metrics,
	}
}

// Global app instance (set by main)
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
