package todo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/todos/internal/todos/domain/value_objects"
)

var (
	ErrEmptyDescription = errors.New("todo description cannot be empty")
	ErrTodoNotFound     = errors.New("todo not found")
	ErrInvalidID        = errors.New("invalid todo id")
	ErrIDsExhausted     = errors.New("no numeric todo id left above the current maximum")
)

// ID identifies a todo. Stores may send it as a JSON string or number; the
// store client writes it back in the form it was read in.
type ID string

// IsZero reports whether the id is unset.
func (id ID) IsZero() bool { return id == "" }

func (id ID) String() string { return string(id) }

// UnmarshalJSON accepts both string and numeric ids.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, string(data))
	}
	*id = ID(n.String())
	return nil
}

// Todo is a single record mirrored from the task store.
type Todo struct {
	ID          ID                     `json:"id"`
	Description string                 `json:"todo"`
	Priority    value_objects.Priority `json:"priority"`
	Status      value_objects.Status   `json:"status"`
	Category    value_objects.Category `json:"category,omitempty"`
}

// Draft is the staging record edited between keystrokes and submission.
type Draft struct {
	Description string                 `json:"todo"`
	Priority    value_objects.Priority `json:"priority"`
	Status      value_objects.Status   `json:"status"`
	Category    value_objects.Category `json:"category,omitempty"`
}

// DefaultDraft returns the empty form. Category defaults to LEARNING only when
// the store carries categories.
func DefaultDraft(withCategory bool) Draft {
	d := Draft{
		Priority: value_objects.PriorityHigh,
		Status:   value_objects.StatusToDo,
	}
	if withCategory {
		d.Category = value_objects.CategoryLearning
	}
	return d
}

// DraftFrom copies a todo's fields into a draft.
func DraftFrom(t Todo) Draft {
	return Draft{
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
		Category:    t.Category,
	}
}

// Validate checks the draft can be submitted. The description is not trimmed
// so that an unchanged edit round-trips exactly.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Description) == "" {
		return ErrEmptyDescription
	}
	if !d.Priority.IsValid() {
		return value_objects.ErrInvalidPriority
	}
	if !d.Status.IsValid() {
		return value_objects.ErrInvalidStatus
	}
	if d.Category != value_objects.CategoryNone && !d.Category.IsValid() {
		return value_objects.ErrInvalidCategory
	}
	return nil
}

// ToTodo attaches an id to the draft.
func (d Draft) ToTodo(id ID) Todo {
	return Todo{
		ID:          id,
		Description: d.Description,
		Priority:    d.Priority,
		Status:      d.Status,
		Category:    d.Category,
	}
}

// NextID returns max(numeric ids)+1. Ids that are not integers are ignored.
// It fails with ErrIDsExhausted when the maximum is already math.MaxInt64.
func NextID(todos []Todo) (ID, error) {
	var highest int64
	for _, t := range todos {
		n, err := strconv.ParseInt(strings.TrimSpace(string(t.ID)), 10, 64)
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	if highest == math.MaxInt64 {
		return "", ErrIDsExhausted
	}
	return ID(strconv.FormatInt(highest+1, 10)), nil
}

// Find returns the todo with the given id.
func Find(todos []Todo, id ID) (Todo, bool) {
	for _, t := range todos {
		if t.ID == id {
			return t, true
		}
	}
	return Todo{}, false
}

// FilterByPriority returns the todos whose priority equals p, in order.
// PriorityNone returns the input unchanged.
func FilterByPriority(todos []Todo, p value_objects.Priority) []Todo {
	if p.IsNone() {
		return todos
	}
	out := make([]Todo, 0, len(todos))
	for _, t := range todos {
		if t.Priority == p {
			out = append(out, t)
		}
	}
	return out
}
