package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/todos/adapter/cli"
	"github.com/felixgeelhaar/todos/internal/todos/application/services"
	"github.com/felixgeelhaar/todos/internal/todos/domain/todo"
	"github.com/felixgeelhaar/todos/internal/todos/domain/value_objects"
)

type todoListInput struct {
	Priority string `json:"priority,omitempty"`
}

type todoFilterInput struct {
	Priority string `json:"priority" jsonschema:"required"`
}

type todoAddInput struct {
	Todo     string `json:"todo" jsonschema:"required"`
	Priority string `json:"priority,omitempty"`
	Status   string `json:"status,omitempty"`
	Category string `json:"category,omitempty"`
}

type todoDraftInput struct {
	Todo     *string `json:"todo,omitempty"`
	Priority string  `json:"priority,omitempty"`
	Status   string  `json:"status,omitempty"`
	Category string  `json:"category,omitempty"`
}

type todoIDInput struct {
	ID string `json:"id" jsonschema:"required"`
}

type todoSubmitResult struct {
	Saved services.TodoDTO `json:"saved"`
	View  services.View    `json:"view"`
}

// todoTools holds the tool handlers so they can be exercised without a transport.
type todoTools struct {
	app *cli.App
}

func registerTodoTools(srv *mcp.Server, deps ToolDependencies) error {
	tools := todoTools{app: deps.App}

	srv.Tool("todo.list").
		Description("Fetch todos from the store and return the visible list, draft and notice").
		Handler(tools.list)

	srv.Tool("todo.filter").
		Description("Set the priority filter (HIGH, MEDIUM, LOW) or clear it with all").
		Handler(tools.filter)

	srv.Tool("todo.add").
		Description("Create a todo from a description and optional priority, status and category").
		Handler(tools.add)

	srv.Tool("todo.edit").
		Description("Start editing a todo: copy it into the draft").
		Handler(tools.edit)

	srv.Tool("todo.draft").
		Description("Change draft fields without submitting").
		Handler(tools.draft)

	srv.Tool("todo.submit").
		Description("Save the draft: update the edited todo, or create a new one").
		Handler(tools.submit)

	srv.Tool("todo.cancel").
		Description("Abandon the current edit and reset the draft").
		Handler(tools.cancel)

	srv.Tool("todo.delete").
		Description("Delete a todo by id").
		Handler(tools.remove)

	srv.Tool("todo.options").
		Description("List accepted priority, status and category values").
		Handler(tools.options)

	return nil
}

func (t todoTools) list(ctx context.Context, input todoListInput) (*services.View, error) {
	c, err := controllerOf(t.app)
	if err != nil {
		return nil, err
	}
	if input.Priority != "" {
		p, err := value_objects.ParsePriorityFilter(input.Priority)
		if err != nil {
			return nil, fmt.Errorf("priority %q: %w", input.Priority, err)
		}
		if err := c.SetFilter(ctx, p); err != nil {
			return nil, err
		}
	}
	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}
	v := c.View()
	return &v, nil
}

func (t todoTools) filter(ctx context.Context, input todoFilterInput) (*services.View, error) {
	if input.Priority == "" {
		return nil, errors.New("priority is required")
	}
	return t.list(ctx, todoListInput(input))
}

func (t todoTools) add(ctx context.Context, input todoAddInput) (*todoSubmitResult, error) {
	c, err := controllerOf(t.app)
	if err != nil {
		return nil, err
	}
	patch, err := parsePatch(todoDraftInput{
		Todo:     &input.Todo,
		Priority: input.Priority,
		Status:   input.Status,
		Category: input.Category,
	})
	if err != nil {
		return nil, err
	}
	saved, err := c.Add(ctx, patch)
	if err != nil {
		return nil, err
	}
	return &todoSubmitResult{
		Saved: services.NewTodoDTO(saved),
		View:  c.View(),
	}, nil
}

func (t todoTools) edit(ctx context.Context, input todoIDInput) (*services.View, error) {
	c, err := controllerOf(t.app)
	if err != nil {
		return nil, err
	}
	if input.ID == "" {
		return nil, errors.New("id is required")
	}
	if _, err := c.BeginEdit(ctx, todo.ID(input.ID)); err != nil {
		return nil, err
	}
	v := c.View()
	return &v, nil
}

func (t todoTools) draft(ctx context.Context, input todoDraftInput) (*services.DraftDTO, error) {
	c, err := controllerOf(t.app)
	if err != nil {
		return nil, err
	}
	patch, err := parsePatch(input)
	if err != nil {
		return nil, err
	}
	if _, err := c.UpdateDraft(ctx, patch); err != nil {
		return nil, err
	}
	d := c.View().Draft
	return &d, nil
}

func (t todoTools) submit(ctx context.Context, input struct{}) (*todoSubmitResult, error) {
	c, err := controllerOf(t.app)
	if err != nil {
		return nil, err
	}
	saved, err := c.SubmitDraft(ctx)
	if err != nil {
		return nil, err
	}
	return &todoSubmitResult{
		Saved: services.NewTodoDTO(saved),
		View:  c.View(),
	}, nil
}

func (t todoTools) cancel(ctx context.Context, input struct{}) (*services.View, error) {
	c, err := controllerOf(t.app)
	if err != nil {
		return nil, err
	}
	if err := c.CancelEdit(ctx); err != nil {
		return nil, err
	}
	v := c.View()
	return &v, nil
}

func (t todoTools) remove(ctx context.Context, input todoIDInput) (*services.View, error) {
	c, err := controllerOf(t.app)
	if err != nil {
		return nil, err
	}
	if input.ID == "" {
		return nil, errors.New("id is required")
	}
	if err := c.Remove(ctx, todo.ID(input.ID)); err != nil {
		return nil, err
	}
	v := c.View()
	return &v, nil
}

func (t todoTools) options(ctx context.Context, input struct{}) (*services.OptionsDTO, error) {
	c, err := controllerOf(t.app)
	if err != nil {
		return nil, err
	}
	opts := services.Options(c.Config().WithCategory)
	return &opts, nil
}

func parsePatch(input todoDraftInput) (services.DraftPatch, error) {
	var patch services.DraftPatch
	patch.Description = input.Todo
	if input.Priority != "" {
		p, err := value_objects.ParsePriority(input.Priority)
		if err != nil {
			return patch, fmt.Errorf("priority %q: %w", input.Priority, err)
		}
		patch.Priority = &p
	}
	if input.Status != "" {
		s, err := value_objects.ParseStatus(input.Status)
		if err != nil {
			return patch, fmt.Errorf("status %q: %w", input.Status, err)
		}
		patch.Status = &s
	}
	if input.Category != "" {
		cat, err := value_objects.ParseCategory(input.Category)
		if err != nil {
			return patch, fmt.Errorf("category %q: %w", input.Category, err)
		}
		patch.Category = &cat
	}
	return patch, nil
}
