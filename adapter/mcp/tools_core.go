package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/todos/adapter/cli"
	"github.com/felixgeelhaar/todos/internal/todos/application/services"
)

type healthResult struct {
	Status     string `json:"status"`
	Loaded     bool   `json:"loaded"`
	Tasks      int    `json:"tasks"`
	Editing    string `json:"editing_id,omitempty"`
	Submitting bool   `json:"submitting"`
}

func registerCoreTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("cli.health").
		Description("Check wiring health and whether the task list has been loaded").
		Handler(func(ctx context.Context, input struct{}) (*healthResult, error) {
			c, err := controllerOf(app)
			if err != nil {
				return nil, err
			}
			st := c.Snapshot()
			return &healthResult{
				Status:     "ok",
				Loaded:     st.Loaded,
				Tasks:      len(st.Tasks),
				Editing:    st.EditingID.String(),
				Submitting: st.Submitting,
			}, nil
		})

	srv.Tool("cli.version").
		Description("Get CLI version information").
		Handler(func(ctx context.Context, input struct{}) (map[string]string, error) {
			return map[string]string{
				"version":   cli.Version,
				"commit":    cli.Commit,
				"buildDate": cli.BuildDate,
			}, nil
		})

	return nil
}

func controllerOf(app *cli.App) (*services.Controller, error) {
	if app == nil || app.Controller == nil {
		return nil, errors.New("app not initialized")
	}
	return app.Controller, nil
}
