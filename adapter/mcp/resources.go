package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/todos/internal/todos/application/services"
)

// RegisterResources registers MCP resources that expose the task list state.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}
	app := deps.App

	srv.Resource("todos://tasks").
		Name("Todos").
		Description("The last fetched todos, filtered by the current priority filter").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			c, err := controllerOf(app)
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, c.View().Tasks)
		})

	srv.Resource("todos://draft").
		Name("Draft").
		Description("The form draft and the id of the todo being edited, if any").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			c, err := controllerOf(app)
			if err != nil {
				return nil, err
			}
			v := c.View()
			return jsonResource(uri, map[string]any{
				"draft":      v.Draft,
				"editing_id": v.EditingID,
			})
		})

	srv.Resource("todos://options").
		Name("Options").
		Description("Accepted priority, status and category values").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			c, err := controllerOf(app)
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, services.Options(c.Config().WithCategory))
		})

	return nil
}

func jsonResource(uri string, v any) (*mcp.ResourceContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}
