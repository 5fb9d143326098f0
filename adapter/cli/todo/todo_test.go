package todo

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/felixgeelhaar/todos/adapter/cli"
	"github.com/felixgeelhaar/todos/internal/todos/application/services"
	"github.com/felixgeelhaar/todos/internal/todos/domain/todo"
	"github.com/felixgeelhaar/todos/internal/todos/domain/value_objects"
	"github.com/felixgeelhaar/todos/internal/todos/infrastructure/httpstore"
	"github.com/felixgeelhaar/todos/internal/todos/infrastructure/httpstore/storetest"
	"github.com/felixgeelhaar/todos/pkg/config"
	"github.com/felixgeelhaar/todos/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed() []todo.Todo {
	return []todo.Todo{
		{ID: "1", Description: "learn go", Priority: value_objects.PriorityHigh, Status: value_objects.StatusToDo, Category: value_objects.CategoryLearning},
		{ID: "2", Description: "water plants", Priority: value_objects.PriorityLow, Status: value_objects.StatusDone, Category: value_objects.CategoryHome},
	}
}

func setupApp(t *testing.T, srv *storetest.Server) *services.Controller {
	t.Helper()
	client, err := httpstore.NewClient(srv.BaseURL(), httpstore.WithLogger(observability.Discard()))
	require.NoError(t, err)

	ctrl := services.NewController(client, services.ControllerConfig{
		WithCategory:         true,
		HideListWhileEditing: true,
	}, services.WithLogger(observability.Discard()))

	cli.SetApp(cli.NewApp(ctrl, &config.Config{CategoriesEnabled: true}, observability.NewInMemoryMetrics()))
	cli.SetLogger(observability.Discard())
	t.Cleanup(func() {
		_ = ctrl.Close()
		cli.SetApp(nil)
	})
	return ctrl
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := cli.NewRootCommand()
	root.AddCommand(Commands()...)

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommands_NotInitialized(t *testing.T) {
	cli.SetApp(nil)
	_, err := run(t, "list")
	assert.ErrorIs(t, err, errNotInitialized)
}

func TestList(t *testing.T) {
	srv := storetest.New(t).Seed(seed()...)
	setupApp(t, srv)

	out, err := run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Todos (2)")
	assert.Contains(t, out, `[ ] #1 learn go [HIGH] (LEARNING)`)
	assert.Contains(t, out, `[x] #2 water plants [LOW] (HOME)`)
	assert.Contains(t, out, "Draft:")
}

func TestList_PriorityFlagPersistsFilter(t *testing.T) {
	srv := storetest.New(t).Seed(seed()...)
	ctrl := setupApp(t, srv)

	out, err := run(t, "list", "--priority", "low")
	require.NoError(t, err)
	assert.Contains(t, out, "Todos (1 of 2, priority LOW)")
	assert.NotContains(t, out, "learn go")
	assert.Equal(t, value_objects.PriorityLow, ctrl.Snapshot().Filter)

	out, err = run(t, "list", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "Todos (2)")
	assert.True(t, ctrl.Snapshot().Filter.IsNone())
}

func TestList_InvalidPriority(t *testing.T) {
	srv := storetest.New(t)
	setupApp(t, srv)

	_, err := run(t, "list", "--priority", "urgent")
	assert.ErrorIs(t, err, value_objects.ErrInvalidPriority)
}

func TestFilter(t *testing.T) {
	srv := storetest.New(t).Seed(seed()...)
	ctrl := setupApp(t, srv)

	out, err := run(t, "filter", "HIGH")
	require.NoError(t, err)
	assert.Contains(t, out, "learn go")
	assert.NotContains(t, out, "water plants")

	_, err = run(t, "filter", "all")
	require.NoError(t, err)
	assert.True(t, ctrl.Snapshot().Filter.IsNone())
}

func TestAdd(t *testing.T) {
	srv := storetest.New(t).Seed(seed()...)
	setupApp(t, srv)

	out, err := run(t, "add", "fix", "the", "sink", "-p", "medium", "-c", "home")
	require.NoError(t, err)
	assert.Contains(t, out, "Created #3")

	stored := srv.Snapshot()
	require.Len(t, stored, 3)
	assert.Equal(t, "fix the sink", stored[2].Description)
	assert.Equal(t, value_objects.PriorityMedium, stored[2].Priority)
	assert.Equal(t, value_objects.StatusToDo, stored[2].Status)
	assert.Equal(t, value_objects.CategoryHome, stored[2].Category)
}

func TestAdd_RejectsEmptyDescription(t *testing.T) {
	srv := storetest.New(t)
	setupApp(t, srv)

	_, err := run(t, "add", "   ")
	assert.ErrorIs(t, err, todo.ErrEmptyDescription)
	assert.Equal(t, 0, srv.CountRequests(http.MethodPost))
}

func TestAdd_RefusedWhileEditing(t *testing.T) {
	srv := storetest.New(t).Seed(seed()...)
	setupApp(t, srv)

	_, err := run(t, "edit", "1")
	require.NoError(t, err)

	_, err = run(t, "add", "something else")
	assert.ErrorIs(t, err, services.ErrEditInProgress)
}

func TestEditDraftSubmit(t *testing.T) {
	srv := storetest.New(t).Seed(seed()...)
	ctrl := setupApp(t, srv)

	out, err := run(t, "edit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "List hidden while editing #1")
	assert.Contains(t, out, "Editing #1:")

	out, err = run(t, "draft", "set", "-s", "in_progress", "--todo", "learn go generics")
	require.NoError(t, err)
	assert.Contains(t, out, `"learn go generics"`)
	assert.Contains(t, out, "IN PROGRESS")

	out, err = run(t, "submit")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated #1")

	stored, ok := todo.Find(srv.Snapshot(), "1")
	require.True(t, ok)
	assert.Equal(t, "learn go generics", stored.Description)
	assert.Equal(t, value_objects.StatusInProgress, stored.Status)
	assert.False(t, ctrl.Snapshot().IsEditing())
}

func TestEdit_UnknownID(t *testing.T) {
	srv := storetest.New(t).Seed(seed()...)
	setupApp(t, srv)

	_, err := run(t, "edit", "42")
	assert.ErrorIs(t, err, todo.ErrTodoNotFound)
}

func TestCancel(t *testing.T) {
	srv := storetest.New(t).Seed(seed()...)
	ctrl := setupApp(t, srv)

	_, err := run(t, "edit", "2", "-p", "high")
	require.NoError(t, err)
	assert.Equal(t, value_objects.PriorityHigh, ctrl.Snapshot().Draft.Priority)

	out, err := run(t, "cancel")
	require.NoError(t, err)
	assert.Contains(t, out, "Draft reset.")
	assert.False(t, ctrl.Snapshot().IsEditing())
	assert.Equal(t, todo.DefaultDraft(true), ctrl.Snapshot().Draft)
}

func TestDelete(t *testing.T) {
	srv := storetest.New(t).Seed(seed()...)
	setupApp(t, srv)

	out, err := run(t, "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted #1")
	assert.NotContains(t, out, "learn go")

	_, ok := todo.Find(srv.Snapshot(), "1")
	assert.False(t, ok)
}

func TestDelete_StoreError(t *testing.T) {
	srv := storetest.New(t).Seed(seed()...)
	setupApp(t, srv)
	srv.FailNext(http.StatusInternalServerError)

	_, err := run(t, "delete", "1")
	assert.ErrorIs(t, err, todo.ErrStoreError)
	assert.Len(t, srv.Snapshot(), 2)
}

func TestOptions(t *testing.T) {
	srv := storetest.New(t)
	setupApp(t, srv)

	out, err := run(t, "options")
	require.NoError(t, err)
	assert.Contains(t, out, "priorities: HIGH, MEDIUM, LOW")
	assert.Contains(t, out, "statuses:   TO DO, IN PROGRESS, DONE")
	assert.Contains(t, out, "categories: LEARNING, WORK, HOME")
}

func TestList_JSON(t *testing.T) {
	srv := storetest.New(t).Seed(seed()...)
	setupApp(t, srv)

	out, err := run(t, "--json", "list")
	require.NoError(t, err)

	var v services.View
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, 2, v.Total)
	require.Len(t, v.Tasks, 2)
	assert.Equal(t, "learn go", v.Tasks[0].Description)
	assert.True(t, v.ListVisible)
}

func TestEventsWatch_RequiresBroker(t *testing.T) {
	srv := storetest.New(t)
	setupApp(t, srv)

	_, err := run(t, "events", "watch")
	assert.ErrorIs(t, err, errNoBroker)
}
