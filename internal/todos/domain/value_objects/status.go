package value_objects

import (
	"errors"
	"strings"
)

// Status represents the progress of a todo.
type Status string

const (
	StatusToDo       Status = "TO DO"
	StatusInProgress Status = "IN PROGRESS"
	StatusDone       Status = "DONE"
)

var (
	ErrInvalidStatus = errors.New("invalid status value")
)

var statusValues = map[string]Status{
	"to do":       StatusToDo,
	"todo":        StatusToDo,
	"to_do":       StatusToDo,
	"in progress": StatusInProgress,
	"in_progress": StatusInProgress,
	"done":        StatusDone,
}

// Statuses returns the selectable statuses in display order.
func Statuses() []Status {
	return []Status{StatusToDo, StatusInProgress, StatusDone}
}

// ParseStatus creates a Status from a string. Underscores and case are tolerated
// so that "in_progress" can be typed on a command line.
func ParseStatus(s string) (Status, error) {
	st, ok := statusValues[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", ErrInvalidStatus
	}
	return st, nil
}

func (s Status) String() string {
	return string(s)
}

// IsValid returns true if the status is one of the selectable values.
func (s Status) IsValid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusDone:
		return true
	}
	return false
}
