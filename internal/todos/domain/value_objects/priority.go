package value_objects

import (
	"errors"
	"strings"
)

// Priority represents how urgent a todo is.
// The zero value means "no priority" and is only used as an unset filter.
type Priority string

const (
	PriorityNone   Priority = ""
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

var (
	ErrInvalidPriority = errors.New("invalid priority value")
)

var priorityValues = map[string]Priority{
	"high":   PriorityHigh,
	"medium": PriorityMedium,
	"low":    PriorityLow,
}

// Priorities returns the selectable priorities in display order.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// ParsePriority creates a Priority from a string.
func ParsePriority(s string) (Priority, error) {
	p, ok := priorityValues[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return PriorityNone, ErrInvalidPriority
	}
	return p, nil
}

// ParsePriorityFilter parses a filter value where "", "all" and "none" clear the filter.
func ParsePriorityFilter(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "none":
		return PriorityNone, nil
	}
	return ParsePriority(s)
}

// String returns the wire representation of the priority.
func (p Priority) String() string {
	return string(p)
}

// IsValid returns true if the priority is one of the selectable values.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// IsNone reports whether the priority is unset.
func (p Priority) IsNone() bool {
	return p == PriorityNone
}
