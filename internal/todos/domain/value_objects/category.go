package value_objects

import (
	"errors"
	"strings"
)

// Category groups todos by area of life. Only some store variants carry it,
// so the zero value means "no category".
type Category string

const (
	CategoryNone     Category = ""
	CategoryLearning Category = "LEARNING"
	CategoryWork     Category = "WORK"
	CategoryHome     Category = "HOME"
)

var (
	ErrInvalidCategory = errors.New("invalid category value")
)

// Categories returns the selectable categories in display order.
func Categories() []Category {
	return []Category{CategoryLearning, CategoryWork, CategoryHome}
}

// ParseCategory creates a Category from a string.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return CategoryNone, ErrInvalidCategory
	}
	return c, nil
}

func (c Category) String() string {
	return string(c)
}

// IsValid returns true if the category is one of the selectable values.
func (c Category) IsValid() bool {
	switch c {
	case CategoryLearning, CategoryWork, CategoryHome:
		return true
	}
	return false
}
