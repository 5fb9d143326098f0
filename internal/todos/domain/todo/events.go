package todo

import (
	"time"

	"github.com/google/uuid"
)

const (
	AggregateType = "Todo"

	RoutingKeyCreated = "todos.todo.created"
	RoutingKeyUpdated = "todos.todo.updated"
	RoutingKeyDeleted = "todos.todo.deleted"
)

// TodoChanged is emitted after the store accepted a write.
type TodoChanged struct {
	EventID       uuid.UUID `json:"event_id"`
	RoutingKey    string    `json:"routing_key"`
	AggregateType string    `json:"aggregate_type"`
	TodoID        ID        `json:"todo_id"`
	Todo          *Todo     `json:"todo,omitempty"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func newChanged(routingKey string, id ID, t *Todo) TodoChanged {
	return TodoChanged{
		EventID:       uuid.New(),
		RoutingKey:    routingKey,
		AggregateType: AggregateType,
		TodoID:        id,
		Todo:          t,
		OccurredAt:    time.Now().UTC(),
	}
}

// NewTodoCreated creates a created event.
func NewTodoCreated(t Todo) TodoChanged {
	return newChanged(RoutingKeyCreated, t.ID, &t)
}

// NewTodoUpdated creates an updated event.
func NewTodoUpdated(t Todo) TodoChanged {
	return newChanged(RoutingKeyUpdated, t.ID, &t)
}

// NewTodoDeleted creates a deleted event.
func NewTodoDeleted(id ID) TodoChanged {
	return newChanged(RoutingKeyDeleted, id, nil)
}
