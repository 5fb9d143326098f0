package httpstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/felixgeelhaar/todos/internal/todos/domain/todo"
	"github.com/felixgeelhaar/todos/internal/todos/domain/value_objects"
)

var errMissingRecord = errors.New("expected a JSON object")

// wireRecord accepts both description spellings used by store variants. The
// id is kept raw so its JSON form can be written back unchanged.
type wireRecord struct {
	ID       json.RawMessage        `json:"id"`
	Todo     *string                `json:"todo"`
	Task     *string                `json:"task"`
	Priority value_objects.Priority `json:"priority"`
	Status   value_objects.Status   `json:"status"`
	Category value_objects.Category `json:"category"`
}

// record is a decoded todo plus whether the store sent its id as a number.
type record struct {
	todo      todo.Todo
	numericID bool
}

type codec struct {
	descriptionField string
}

// encode builds the request body. A numeric id is written as a JSON number
// when it parses as an integer; anything else is written as a string.
func (c codec) encode(t todo.Todo, numericID bool) ([]byte, error) {
	m := map[string]any{
		c.descriptionField: t.Description,
		"priority":         t.Priority,
		"status":           t.Status,
	}
	if !t.ID.IsZero() {
		m["id"] = t.ID.String()
		if numericID {
			if _, err := strconv.ParseInt(t.ID.String(), 10, 64); err == nil {
				m["id"] = json.Number(t.ID.String())
			}
		}
	}
	if t.Category != value_objects.CategoryNone {
		m["category"] = t.Category
	}
	return json.Marshal(m)
}

func (c codec) toRecord(r wireRecord) (record, error) {
	var id todo.ID
	raw := bytes.TrimSpace(r.ID)
	if len(raw) > 0 {
		if err := id.UnmarshalJSON(raw); err != nil {
			return record{}, err
		}
	}

	primary, secondary := r.Todo, r.Task
	if c.descriptionField == "task" {
		primary, secondary = r.Task, r.Todo
	}
	var desc string
	switch {
	case primary != nil:
		desc = *primary
	case secondary != nil:
		desc = *secondary
	}
	return record{
		todo: todo.Todo{
			ID:          id,
			Description: desc,
			Priority:    r.Priority,
			Status:      r.Status,
			Category:    r.Category,
		},
		numericID: !id.IsZero() && raw[0] != '"',
	}, nil
}

func (c codec) decodeList(data []byte) ([]record, error) {
	var wire []wireRecord
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	records := make([]record, 0, len(wire))
	for _, w := range wire {
		rec, err := c.toRecord(w)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (c codec) decodeOne(data []byte) (record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return record{}, errMissingRecord
	}
	var w wireRecord
	if err := json.Unmarshal(trimmed, &w); err != nil {
		return record{}, err
	}
	return c.toRecord(w)
}
