package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/todos/adapter/cli"
	"github.com/felixgeelhaar/todos/adapter/cli/mcp"
	"github.com/felixgeelhaar/todos/adapter/cli/todo"
	"github.com/felixgeelhaar/todos/internal/app"
	mcpinternal "github.com/felixgeelhaar/todos/internal/mcp"
	"github.com/felixgeelhaar/todos/pkg/config"
	"github.com/felixgeelhaar/todos/pkg/observability"
)

func main() {
	// Setup logger until the config is known
	logger := observability.LoggerFromEnv()

	// Create context with cancellation
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = observability.LoggerFor(cfg.LogLevel, cfg.LogFormat, cfg.IsProduction())
	cli.SetLogger(logger)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	cli.SetApp(mcpinternal.NewCLIApp(container))

	// Register commands
	cli.AddCommand(todo.Commands()...)
	cli.AddCommand(mcp.Cmd)

	// Execute CLI
	cli.Execute(ctx)
}
