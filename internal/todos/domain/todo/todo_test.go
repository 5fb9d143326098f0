package todo_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/felixgeelhaar/todos/internal/todos/domain/todo"
	"github.com/felixgeelhaar/todos/internal/todos/domain/value_objects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected todo.ID
		wantErr  bool
	}{
		{"string", `"7"`, "7", false},
		{"number", `7`, "7", false},
		{"uuid string", `"a1b2"`, "a1b2", false},
		{"null", `null`, "", false},
		{"object", `{}`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id todo.ID
			err := json.Unmarshal([]byte(tt.input), &id)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, id)
		})
	}
}

func TestTodo_MarshalsIDAsString(t *testing.T) {
	data, err := json.Marshal(todo.Todo{ID: "3", Description: "x", Priority: value_objects.PriorityLow, Status: value_objects.StatusDone})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"3","todo":"x","priority":"LOW","status":"DONE"}`, string(data))
}

func TestNextID(t *testing.T) {
	tests := []struct {
		name     string
		ids      []todo.ID
		expected todo.ID
	}{
		{"empty collection", nil, "1"},
		{"sequential", []todo.ID{"1", "2", "3"}, "4"},
		{"gaps use max", []todo.ID{"2", "10", "4"}, "11"},
		{"non numeric ignored", []todo.ID{"abc", "5"}, "6"},
		{"only non numeric", []todo.ID{"abc"}, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			todos := make([]todo.Todo, 0, len(tt.ids))
			for _, id := range tt.ids {
				todos = append(todos, todo.Todo{ID: id})
			}
			next, err := todo.NextID(todos)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, next)
			_, exists := todo.Find(todos, next)
			assert.False(t, exists)
		})
	}
}

func TestNextID_AtMaxInt64(t *testing.T) {
	todos := []todo.Todo{{ID: "7"}, {ID: "9223372036854775807"}}

	next, err := todo.NextID(todos)

	assert.ErrorIs(t, err, todo.ErrIDsExhausted)
	assert.True(t, next.IsZero())
}

func TestDefaultDraft(t *testing.T) {
	d := todo.DefaultDraft(true)
	assert.Equal(t, "", d.Description)
	assert.Equal(t, value_objects.PriorityHigh, d.Priority)
	assert.Equal(t, value_objects.StatusToDo, d.Status)
	assert.Equal(t, value_objects.CategoryLearning, d.Category)

	assert.Equal(t, value_objects.CategoryNone, todo.DefaultDraft(false).Category)
}

func TestDraft_Validate(t *testing.T) {
	valid := todo.DefaultDraft(true)
	valid.Description = "read a book"
	require.NoError(t, valid.Validate())

	for _, desc := range []string{"", "   ", "\t\n"} {
		d := valid
		d.Description = desc
		assert.ErrorIs(t, d.Validate(), todo.ErrEmptyDescription)
	}

	d := valid
	d.Priority = value_objects.PriorityNone
	assert.ErrorIs(t, d.Validate(), value_objects.ErrInvalidPriority)

	d = valid
	d.Status = "BLOCKED"
	assert.ErrorIs(t, d.Validate(), value_objects.ErrInvalidStatus)

	d = valid
	d.Category = value_objects.CategoryNone
	assert.NoError(t, d.Validate())
}

func TestDraftFrom_RoundTrip(t *testing.T) {
	original := todo.Todo{
		ID:          "9",
		Description: "  spaced  ",
		Priority:    value_objects.PriorityMedium,
		Status:      value_objects.StatusInProgress,
		Category:    value_objects.CategoryHome,
	}
	assert.Equal(t, original, todo.DraftFrom(original).ToTodo(original.ID))
}

func TestFilterByPriority(t *testing.T) {
	todos := []todo.Todo{
		{ID: "1", Priority: value_objects.PriorityHigh},
		{ID: "2", Priority: value_objects.PriorityLow},
		{ID: "3", Priority: value_objects.PriorityHigh},
	}

	assert.Equal(t, todos, todo.FilterByPriority(todos, value_objects.PriorityNone))

	high := todo.FilterByPriority(todos, value_objects.PriorityHigh)
	require.Len(t, high, 2)
	assert.Equal(t, todo.ID("1"), high[0].ID)
	assert.Equal(t, todo.ID("3"), high[1].ID)

	assert.Empty(t, todo.FilterByPriority(todos, value_objects.PriorityMedium))
}

func TestStoreFailure_Is(t *testing.T) {
	cause := errors.New("connection refused")
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"network", todo.NewNetworkFailure("list", cause), todo.ErrNetworkFailure},
		{"store", todo.NewStoreError("create", 500, "boom"), todo.ErrStoreError},
		{"decode", todo.NewDecodeFailure("list", cause), todo.ErrDecodeFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)
			f, ok := todo.AsStoreFailure(tt.err)
			require.True(t, ok)
			assert.Equal(t, tt.name, f.Kind.String())
		})
	}

	network := todo.NewNetworkFailure("list", cause)
	assert.ErrorIs(t, network, cause)
	assert.NotErrorIs(t, network, todo.ErrStoreError)
	assert.Contains(t, todo.NewStoreError("update", 404, "missing").Error(), "status 404")
}

func TestEvents(t *testing.T) {
	created := todo.NewTodoCreated(todo.Todo{ID: "1"})
	assert.Equal(t, todo.RoutingKeyCreated, created.RoutingKey)
	assert.Equal(t, todo.ID("1"), created.TodoID)
	require.NotNil(t, created.Todo)

	deleted := todo.NewTodoDeleted("2")
	assert.Equal(t, todo.RoutingKeyDeleted, deleted.RoutingKey)
	assert.Nil(t, deleted.Todo)
	assert.NotEqual(t, created.EventID, deleted.EventID)
}
