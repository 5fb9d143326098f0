// Package state defines the task list controller state and its transitions.
// Every transition is a pure function: it takes a State by value and returns
// the next State without touching the store.
package state

import (
	"github.com/felixgeelhaar/todos/internal/todos/domain/session"
	"github.com/felixgeelhaar/todos/internal/todos/domain/todo"
	"github.com/felixgeelhaar/todos/internal/todos/domain/value_objects"
)

// NoticeKind classifies a surfaced message.
type NoticeKind string

const (
	NoticeFetchError  NoticeKind = "fetch_error"
	NoticeSubmitError NoticeKind = "submit_error"
	NoticeDeleteError NoticeKind = "delete_error"
	NoticeRejected    NoticeKind = "rejected"
)

// Notice is a transient banner for the rendering surface.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// Options fix the store variant the state is shaped for.
type Options struct {
	WithCategory         bool
	HideListWhileEditing bool
}

// State is the complete controller state.
type State struct {
	Tasks       []todo.Todo
	Draft       todo.Draft
	EditingID   todo.ID
	Filter      value_objects.Priority
	ListVisible bool
	Submitting  bool
	Loaded      bool
	Notice      *Notice

	opts Options
}

// New returns the initial state: no tasks, default draft, list visible.
func New(opts Options) State {
	return State{
		Draft:       todo.DefaultDraft(opts.WithCategory),
		ListVisible: true,
		opts:        opts,
	}
}

// Options returns the variant options the state was created with.
func (s State) Options() Options { return s.opts }

// IsEditing reports whether an edit is active.
func (s State) IsEditing() bool { return !s.EditingID.IsZero() }

// Visible returns the tasks the rendering surface should list.
func (s State) Visible() []todo.Todo {
	return todo.FilterByPriority(s.Tasks, s.Filter)
}

// WithSnapshot replaces the task collection wholesale.
func (s State) WithSnapshot(tasks []todo.Todo) State {
	s.Tasks = append(make([]todo.Todo, 0, len(tasks)), tasks...)
	s.Loaded = true
	if s.Notice != nil && s.Notice.Kind == NoticeFetchError {
		s.Notice = nil
	}
	return s
}

// WithDraft replaces the draft.
func (s State) WithDraft(d todo.Draft) State {
	s.Draft = d
	return s
}

// WithFilter sets or clears the priority filter.
func (s State) WithFilter(p value_objects.Priority) State {
	s.Filter = p
	return s
}

// BeginEdit copies t into the draft and marks it as being edited.
func (s State) BeginEdit(t todo.Todo) State {
	s.Draft = todo.DraftFrom(t)
	s.EditingID = t.ID
	if s.opts.HideListWhileEditing {
		s.ListVisible = false
	}
	return s
}

// CancelEdit abandons the edit and resets the form.
func (s State) CancelEdit() State {
	s.Draft = todo.DefaultDraft(s.opts.WithCategory)
	s.EditingID = ""
	s.ListVisible = true
	return s
}

// SubmitStarted marks a submission in flight.
func (s State) SubmitStarted() State {
	s.Submitting = true
	return s
}

// SubmitSucceeded resets the form after the store accepted the write.
func (s State) SubmitSucceeded() State {
	s.Submitting = false
	s.Notice = nil
	return s.CancelEdit()
}

// SubmitFailed clears the in-flight flag and keeps the draft for retry.
func (s State) SubmitFailed(err error) State {
	s.Submitting = false
	return s.WithNotice(NoticeSubmitError, err)
}

// WithNotice surfaces err as a banner.
func (s State) WithNotice(kind NoticeKind, err error) State {
	if err == nil {
		s.Notice = nil
		return s
	}
	s.Notice = &Notice{Kind: kind, Message: err.Error()}
	return s
}

// DismissNotice clears the banner.
func (s State) DismissNotice() State {
	s.Notice = nil
	return s
}

// Session extracts the persisted part of the state.
func (s State) Session() *session.Session {
	return &session.Session{
		Draft:       s.Draft,
		EditingID:   s.EditingID,
		Filter:      s.Filter,
		ListVisible: s.ListVisible,
	}
}

// Restore applies a persisted session.
func (s State) Restore(sess *session.Session) State {
	if sess == nil {
		return s
	}
	s.Draft = sess.Draft
	s.EditingID = sess.EditingID
	s.Filter = sess.Filter
	s.ListVisible = sess.ListVisible
	return s
}

// Clone returns a copy whose task slice is not shared.
func (s State) Clone() State {
	s.Tasks = append([]todo.Todo(nil), s.Tasks...)
	if s.Notice != nil {
		n := *s.Notice
		s.Notice = &n
	}
	return s
}
