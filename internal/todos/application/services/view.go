package services

import (
	"github.com/felixgeelhaar/todos/internal/todos/application/state"
	"github.com/felixgeelhaar/todos/internal/todos/domain/todo"
	"github.com/felixgeelhaar/todos/internal/todos/domain/value_objects"
)

// TodoDTO is a todo as shown to a rendering surface.
type TodoDTO struct {
	ID          string `json:"id"`
	Description string `json:"todo"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	Category    string `json:"category,omitempty"`
}

// DraftDTO is the form draft as shown to a rendering surface.
type DraftDTO struct {
	Description string `json:"todo"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	Category    string `json:"category,omitempty"`
}

// View is everything a rendering surface needs to draw the list and form.
type View struct {
	Tasks       []TodoDTO     `json:"tasks"`
	Total       int           `json:"total"`
	ListVisible bool          `json:"list_visible"`
	Draft       DraftDTO      `json:"draft"`
	EditingID   string        `json:"editing_id,omitempty"`
	Filter      string        `json:"filter,omitempty"`
	Submitting  bool          `json:"submitting"`
	Notice      *state.Notice `json:"notice,omitempty"`
}

// NewView projects st. Tasks holds the visible tasks; Total counts all of them.
func NewView(st state.State) View {
	visible := st.Visible()
	tasks := make([]TodoDTO, 0, len(visible))
	for _, t := range visible {
		tasks = append(tasks, NewTodoDTO(t))
	}
	return View{
		Tasks:       tasks,
		Total:       len(st.Tasks),
		ListVisible: st.ListVisible,
		Draft: DraftDTO{
			Description: st.Draft.Description,
			Priority:    st.Draft.Priority.String(),
			Status:      st.Draft.Status.String(),
			Category:    st.Draft.Category.String(),
		},
		EditingID:  st.EditingID.String(),
		Filter:     st.Filter.String(),
		Submitting: st.Submitting,
		Notice:     st.Notice,
	}
}

// NewTodoDTO projects a single todo.
func NewTodoDTO(t todo.Todo) TodoDTO {
	return TodoDTO{
		ID:          t.ID.String(),
		Description: t.Description,
		Priority:    t.Priority.String(),
		Status:      t.Status.String(),
		Category:    t.Category.String(),
	}
}

// OptionsDTO lists the values a form may offer.
type OptionsDTO struct {
	Priorities []string `json:"priorities"`
	Statuses   []string `json:"statuses"`
	Categories []string `json:"categories,omitempty"`
}

// Options returns the enum option sets. Categories are omitted when the store
// does not carry them.
func Options(withCategory bool) OptionsDTO {
	out := OptionsDTO{}
	for _, p := range value_objects.Priorities() {
		out.Priorities = append(out.Priorities, p.String())
	}
	for _, s := range value_objects.Statuses() {
		out.Statuses = append(out.Statuses, s.String())
	}
	if withCategory {
		for _, c := range value_objects.Categories() {
			out.Categories = append(out.Categories, c.String())
		}
	}
	return out
}
