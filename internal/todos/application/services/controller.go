// Package services contains the task list controller: the single component
// that mirrors the task store and owns the draft, edit marker and filter.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/felixgeelhaar/todos/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/todos/internal/todos/application/state"
	"github.com/felixgeelhaar/todos/internal/todos/domain/session"
	"github.com/felixgeelhaar/todos/internal/todos/domain/todo"
	"github.com/felixgeelhaar/todos/internal/todos/domain/value_objects"
	"github.com/felixgeelhaar/todos/pkg/observability"
)

var (
	ErrSubmitInFlight      = errors.New("a submit is already in flight")
	ErrDeleteInFlight      = errors.New("a delete of this todo is already in flight")
	ErrControllerClosed    = errors.New("controller is closed")
	ErrEditInProgress      = errors.New("an edit is in progress; submit or cancel it first")
	ErrCategoryUnsupported = errors.New("the task store has no category field")
)

const keySubmit = "submit"

func deleteKey(id todo.ID) string { return "delete:" + id.String() }

// ControllerConfig selects the store variant the controller talks to.
type ControllerConfig struct {
	SessionID            string
	ServerAssignsIDs     bool
	ForceTodoStatus      bool
	WithCategory         bool
	HideListWhileEditing bool
}

// ControllerOption configures optional collaborators.
type ControllerOption func(*Controller)

// WithSessions persists the draft, edit marker and filter in repo.
func WithSessions(repo session.Repository) ControllerOption {
	return func(c *Controller) { c.sessions = repo }
}

// WithPublisher publishes change events after successful writes.
func WithPublisher(p eventbus.Publisher) ControllerOption {
	return func(c *Controller) {
		if p != nil {
			c.publisher = p
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m observability.Metrics) ControllerOption {
	return func(c *Controller) {
		if m != nil {
			c.metrics = m
		}
	}
}

// Controller is safe for concurrent use. Its mutex guards state only and is
// released before any store, session or broker call.
type Controller struct {
	store     todo.Store
	sessions  session.Repository
	publisher eventbus.Publisher
	logger    *slog.Logger
	metrics   observability.Metrics
	cfg       ControllerConfig

	mu         sync.Mutex
	state      state.State
	inFlight   map[string]struct{}
	fetchSeq   uint64
	appliedSeq uint64
	closed     bool

	saveMu sync.Mutex

	lifetime context.Context
	cancel   context.CancelFunc
}

// NewController creates a controller in its initial state.
func NewController(store todo.Store, cfg ControllerConfig, opts ...ControllerOption) *Controller {
	if cfg.SessionID == "" {
		cfg.SessionID = session.DefaultID
	}
	lifetime, cancel := context.WithCancel(context.Background())
	c := &Controller{
		store:     store,
		publisher: eventbus.NewNoopPublisher(nil),
		logger:    slog.Default(),
		metrics:   observability.NoopMetrics{},
		cfg:       cfg,
		state: state.New(state.Options{
			WithCategory:         cfg.WithCategory,
			HideListWhileEditing: cfg.HideListWhileEditing,
		}),
		inFlight: make(map[string]struct{}),
		lifetime: lifetime,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the controller configuration.
func (c *Controller) Config() ControllerConfig { return c.cfg }

// Restore applies the persisted session, if any.
func (c *Controller) Restore(ctx context.Context) error {
	if c.sessions == nil {
		return nil
	}
	sess, err := c.sessions.Load(ctx, c.cfg.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil
		}
		return err
	}

	c.mu.Lock()
	c.state = c.state.Restore(sess)
	c.mu.Unlock()

	c.logger.DebugContext(ctx, "session restored",
		"session", c.cfg.SessionID,
		"editing_id", sess.EditingID,
	)
	return nil
}

// Refresh replaces the local collection with the store's. On failure the
// collection is left as it was and a fetch notice is surfaced.
func (c *Controller) Refresh(ctx context.Context) error {
	ctx = observability.EnsureCorrelationID(ctx)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrControllerClosed
	}
	c.fetchSeq++
	seq := c.fetchSeq
	c.mu.Unlock()

	opCtx, done := c.operationContext(ctx)
	tasks, err := c.store.List(opCtx)
	done()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = c.state.WithNotice(state.NoticeFetchError, err)
		return err
	}
	// A slower, older fetch must not overwrite a newer snapshot.
	if seq > c.appliedSeq {
		c.appliedSeq = seq
		c.state = c.state.WithSnapshot(tasks)
	}
	return nil
}

// SubmitDraft creates or updates a todo from the draft, then re-reads the
// store. A refresh failure after an accepted write is reported as a notice,
// not as an error, because the write itself succeeded.
func (c *Controller) SubmitDraft(ctx context.Context) (todo.Todo, error) {
	return c.submit(ctx, nil)
}

// Add applies patch to the draft and submits it as a new todo under a single
// in-flight claim, so no other caller can change the form in between. It
// fails with ErrEditInProgress while an edit is open.
func (c *Controller) Add(ctx context.Context, patch DraftPatch) (todo.Todo, error) {
	if err := c.checkPatch(patch); err != nil {
		return todo.Todo{}, err
	}
	return c.submit(ctx, &patch)
}

func (c *Controller) submit(ctx context.Context, patch *DraftPatch) (todo.Todo, error) {
	ctx = observability.EnsureCorrelationID(ctx)

	if c.needsSnapshotForSubmit() {
		if err := c.Refresh(ctx); err != nil {
			return todo.Todo{}, err
		}
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return todo.Todo{}, ErrControllerClosed
	}
	if c.submittingLocked() {
		c.mu.Unlock()
		c.metrics.Counter(observability.MetricSubmitRejected, 1)
		return todo.Todo{}, ErrSubmitInFlight
	}
	if patch != nil {
		if !c.state.EditingID.IsZero() {
			c.mu.Unlock()
			return todo.Todo{}, ErrEditInProgress
		}
		c.state = c.state.WithDraft(patch.applyTo(c.state.Draft))
	}

	draft := c.state.Draft
	if c.cfg.ForceTodoStatus {
		draft.Status = value_objects.StatusToDo
	}
	if err := draft.Validate(); err != nil {
		c.state = c.state.WithNotice(state.NoticeRejected, err)
		c.mu.Unlock()
		c.persistStaged(ctx, patch)
		return todo.Todo{}, err
	}

	editing := c.state.EditingID
	var id todo.ID
	switch {
	case !editing.IsZero():
		id = editing
	case !c.cfg.ServerAssignsIDs:
		next, err := todo.NextID(c.state.Tasks)
		if err != nil {
			c.state = c.state.WithNotice(state.NoticeRejected, err)
			c.mu.Unlock()
			c.persistStaged(ctx, patch)
			return todo.Todo{}, err
		}
		id = next
	}

	c.inFlight[keySubmit] = struct{}{}
	c.state = c.state.SubmitStarted()
	c.mu.Unlock()

	opCtx, done := c.operationContext(ctx)
	var (
		saved todo.Todo
		event todo.TodoChanged
		err   error
	)
	if editing.IsZero() {
		saved, err = c.store.Create(opCtx, draft.ToTodo(id))
		event = todo.NewTodoCreated(saved)
	} else {
		saved, err = c.store.Update(opCtx, editing, draft.ToTodo(id))
		event = todo.NewTodoUpdated(saved)
	}
	done()

	c.mu.Lock()
	delete(c.inFlight, keySubmit)
	if err != nil {
		c.state = c.state.SubmitFailed(err)
	} else {
		c.state = c.state.SubmitSucceeded()
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.WarnContext(ctx, "submit failed", "editing_id", editing, "error", err)
		c.persistStaged(ctx, patch)
		return todo.Todo{}, err
	}

	c.logger.InfoContext(ctx, "todo saved", "id", saved.ID, "routing_key", event.RoutingKey)
	c.publish(ctx, event)
	c.refreshAfterWrite(ctx)
	c.persist(ctx)
	return saved, nil
}

// BeginEdit copies the todo into the draft and marks it as being edited.
// Like every form transition it fails with ErrSubmitInFlight while a submit
// is outstanding.
func (c *Controller) BeginEdit(ctx context.Context, id todo.ID) (todo.Todo, error) {
	if !c.Snapshot().Loaded {
		if err := c.Refresh(ctx); err != nil {
			return todo.Todo{}, err
		}
	}

	c.mu.Lock()
	if c.submittingLocked() {
		c.mu.Unlock()
		return todo.Todo{}, ErrSubmitInFlight
	}
	t, ok := todo.Find(c.state.Tasks, id)
	if !ok {
		c.mu.Unlock()
		return todo.Todo{}, todo.ErrTodoNotFound
	}
	c.state = c.state.BeginEdit(t)
	c.mu.Unlock()

	c.persist(ctx)
	return t, nil
}

// CancelEdit abandons any edit and resets the draft.
func (c *Controller) CancelEdit(ctx context.Context) error {
	c.mu.Lock()
	if c.submittingLocked() {
		c.mu.Unlock()
		return ErrSubmitInFlight
	}
	c.state = c.state.CancelEdit()
	c.mu.Unlock()
	c.persist(ctx)
	return nil
}

// Remove deletes the todo at id, then re-reads the store. Nothing is removed
// locally before the store confirms.
func (c *Controller) Remove(ctx context.Context, id todo.ID) error {
	ctx = observability.EnsureCorrelationID(ctx)
	key := deleteKey(id)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrControllerClosed
	}
	if _, busy := c.inFlight[key]; busy {
		c.mu.Unlock()
		return ErrDeleteInFlight
	}
	c.inFlight[key] = struct{}{}
	c.mu.Unlock()

	opCtx, done := c.operationContext(ctx)
	err := c.store.Delete(opCtx, id)
	done()

	c.mu.Lock()
	delete(c.inFlight, key)
	if err != nil {
		c.state = c.state.WithNotice(state.NoticeDeleteError, err)
		c.mu.Unlock()
		c.logger.WarnContext(ctx, "delete failed", "id", id, "error", err)
		return err
	}
	// The edited record no longer exists; submitting would fail with 404.
	if c.state.EditingID == id {
		c.state = c.state.CancelEdit()
	}
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "todo deleted", "id", id)
	c.publish(ctx, todo.NewTodoDeleted(id))
	c.refreshAfterWrite(ctx)
	c.persist(ctx)
	return nil
}

// SetFilter sets the priority filter; value_objects.PriorityNone clears it.
func (c *Controller) SetFilter(ctx context.Context, p value_objects.Priority) error {
	if !p.IsNone() && !p.IsValid() {
		return value_objects.ErrInvalidPriority
	}
	c.mu.Lock()
	c.state = c.state.WithFilter(p)
	c.mu.Unlock()
	c.persist(ctx)
	return nil
}

// DraftPatch holds the draft fields to change; nil fields are kept.
type DraftPatch struct {
	Description *string
	Priority    *value_objects.Priority
	Status      *value_objects.Status
	Category    *value_objects.Category
}

// IsEmpty reports whether the patch changes nothing.
func (p DraftPatch) IsEmpty() bool {
	return p.Description == nil && p.Priority == nil && p.Status == nil && p.Category == nil
}

func (p DraftPatch) applyTo(d todo.Draft) todo.Draft {
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.Priority != nil {
		d.Priority = *p.Priority
	}
	if p.Status != nil {
		d.Status = *p.Status
	}
	if p.Category != nil {
		d.Category = *p.Category
	}
	return d
}

// UpdateDraft applies patch to the draft and returns the result. Enum values
// are checked here; a blank description is only rejected at submit time.
func (c *Controller) UpdateDraft(ctx context.Context, patch DraftPatch) (todo.Draft, error) {
	if err := c.checkPatch(patch); err != nil {
		return todo.Draft{}, err
	}

	c.mu.Lock()
	if c.submittingLocked() {
		c.mu.Unlock()
		return todo.Draft{}, ErrSubmitInFlight
	}
	d := patch.applyTo(c.state.Draft)
	c.state = c.state.WithDraft(d)
	c.mu.Unlock()

	c.persist(ctx)
	return d, nil
}

// checkPatch rejects enum values outside their sets, and any category when
// the store variant has none.
func (c *Controller) checkPatch(patch DraftPatch) error {
	if patch.Priority != nil && !patch.Priority.IsValid() {
		return value_objects.ErrInvalidPriority
	}
	if patch.Status != nil && !patch.Status.IsValid() {
		return value_objects.ErrInvalidStatus
	}
	if patch.Category != nil && *patch.Category != value_objects.CategoryNone {
		if !c.cfg.WithCategory {
			return ErrCategoryUnsupported
		}
		if !patch.Category.IsValid() {
			return value_objects.ErrInvalidCategory
		}
	}
	return nil
}

// DismissNotice clears the surfaced failure.
func (c *Controller) DismissNotice(ctx context.Context) {
	c.mu.Lock()
	c.state = c.state.DismissNotice()
	c.mu.Unlock()
}

// VisibleTasks returns the tasks that pass the filter, in store order.
func (c *Controller) VisibleTasks() []todo.Todo {
	return c.Snapshot().Visible()
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() state.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// View returns the rendering-surface projection of the current state.
func (c *Controller) View() View {
	return NewView(c.Snapshot())
}

// Close cancels every in-flight store call. Later operations that would
// reach the store fail with ErrControllerClosed.
func (c *Controller) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.cancel()
	return nil
}

// needsSnapshotForSubmit reports whether the store must be read before a
// submit: a client-side id needs the current maximum, and an update needs the
// store client to have seen the id's JSON form.
func (c *Controller) needsSnapshotForSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Loaded {
		return false
	}
	return !c.state.EditingID.IsZero() || !c.cfg.ServerAssignsIDs
}

func (c *Controller) submittingLocked() bool {
	_, busy := c.inFlight[keySubmit]
	return busy
}

// persistStaged saves the form after a failed Add so the staged fields
// survive, as they would have after a separate UpdateDraft.
func (c *Controller) persistStaged(ctx context.Context, patch *DraftPatch) {
	if patch != nil {
		c.persist(ctx)
	}
}

// operationContext derives a context that ends with either the caller's
// context or the controller's lifetime.
func (c *Controller) operationContext(ctx context.Context) (context.Context, context.CancelFunc) {
	opCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.lifetime, cancel)
	return opCtx, func() {
		stop()
		cancel()
	}
}

func (c *Controller) refreshAfterWrite(ctx context.Context) {
	if err := c.Refresh(ctx); err != nil {
		c.logger.WarnContext(ctx, "refresh after write failed", "error", err)
	}
}

func (c *Controller) publish(ctx context.Context, event todo.TodoChanged) {
	event.CorrelationID = observability.CorrelationIDFromContext(ctx)
	payload, err := json.Marshal(event)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to encode event", "routing_key", event.RoutingKey, "error", err)
		return
	}
	if err := c.publisher.Publish(context.WithoutCancel(ctx), event.RoutingKey, payload); err != nil {
		c.logger.WarnContext(ctx, "failed to publish event", "routing_key", event.RoutingKey, "error", err)
		return
	}
	c.metrics.Counter(observability.MetricEventsPublished, 1, observability.T("routing_key", event.RoutingKey))
}

// persist saves the latest state. Saves are serialized so an older state
// never overwrites a newer one.
func (c *Controller) persist(ctx context.Context) {
	if c.sessions == nil {
		return
	}
	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	c.mu.Lock()
	sess := c.state.Session()
	c.mu.Unlock()
	sess.UpdatedAt = time.Now().UTC()

	if err := c.sessions.Save(context.WithoutCancel(ctx), c.cfg.SessionID, sess); err != nil {
		c.logger.WarnContext(ctx, "failed to save session", "session", c.cfg.SessionID, "error", err)
		return
	}
	c.metrics.Counter(observability.MetricSessionSaves, 1)
}
