// Package httpstore is the HTTP JSON client for the task store API.
package httpstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/felixgeelhaar/todos/internal/todos/domain/todo"
	"github.com/felixgeelhaar/todos/pkg/observability"
	"github.com/sony/gobreaker/v2"
)

const (
	opList   = "list"
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"

	maxBodyExcerpt = 512
)

var (
	// ErrStoreUnavailable is wrapped by a network failure while the breaker is open.
	ErrStoreUnavailable = errors.New("task store unavailable (circuit open)")

	errServerStatus = errors.New("server error status")
)

// BreakerConfig configures the circuit breaker around store calls.
type BreakerConfig struct {
	Enabled          bool
	FailureThreshold uint32
	Timeout          time.Duration
	MaxRequests      uint32
	Interval         time.Duration
}

// DefaultBreakerConfig returns the breaker defaults.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		Timeout:          30 * time.Second,
		MaxRequests:      1,
		Interval:         time.Minute,
	}
}

// response is the raw result of one HTTP exchange.
type response struct {
	status int
	body   []byte
}

// Client implements todo.Store over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	codec   codec
	breaker *gobreaker.CircuitBreaker[*response]
	logger  *slog.Logger
	metrics observability.Metrics

	// numericIDs holds the ids last read from the store as JSON numbers.
	idsMu      sync.Mutex
	numericIDs map[todo.ID]bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithDescriptionField selects the wire name of the description ("todo" or "task").
func WithDescriptionField(field string) Option {
	return func(c *Client) {
		if field != "" {
			c.codec.descriptionField = field
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m observability.Metrics) Option {
	return func(c *Client) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithBreaker enables the circuit breaker with the given settings.
func WithBreaker(cfg BreakerConfig) Option {
	return func(c *Client) {
		if !cfg.Enabled {
			c.breaker = nil
			return
		}
		c.breaker = c.newBreaker(cfg)
	}
}

// NewClient creates a client for the collection at baseURL, e.g. http://localhost:3001/todos.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid task store url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid task store url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       &http.Client{Timeout: 10 * time.Second},
		codec:      codec{descriptionField: "todo"},
		logger:     slog.Default(),
		metrics:    observability.NoopMetrics{},
		numericIDs: make(map[todo.ID]bool),
	}
	c.breaker = c.newBreaker(DefaultBreakerConfig())

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) newBreaker(cfg BreakerConfig) *gobreaker.CircuitBreaker[*response] {
	settings := gobreaker.Settings{
		Name:        "task-store",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// Client-side cancellation says nothing about store health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
			c.metrics.Counter(observability.MetricStoreBreakerChanges, 1, observability.T("to", to.String()))
		},
	}
	return gobreaker.NewCircuitBreaker[*response](settings)
}

// List reads the full collection in store order.
func (c *Client) List(ctx context.Context) ([]todo.Todo, error) {
	return observability.TimeOperationResult(ctx, c.logger, c.metrics, "store."+opList, func() ([]todo.Todo, error) {
		resp, err := c.do(ctx, opList, http.MethodGet, c.baseURL, nil)
		if err != nil {
			return nil, err
		}
		records, err := c.codec.decodeList(resp.body)
		if err != nil {
			return nil, todo.NewDecodeFailure(opList, err)
		}

		numeric := make(map[todo.ID]bool)
		todos := make([]todo.Todo, 0, len(records))
		for _, r := range records {
			if r.numericID {
				numeric[r.todo.ID] = true
			}
			todos = append(todos, r.todo)
		}
		c.idsMu.Lock()
		c.numericIDs = numeric
		c.idsMu.Unlock()
		return todos, nil
	}, observability.T("method", http.MethodGet))
}

// Create posts a new record. An empty id is omitted so the store can assign one.
func (c *Client) Create(ctx context.Context, t todo.Todo) (todo.Todo, error) {
	return observability.TimeOperationResult(ctx, c.logger, c.metrics, "store."+opCreate, func() (todo.Todo, error) {
		body, err := c.codec.encode(t, false)
		if err != nil {
			return todo.Todo{}, fmt.Errorf("encode todo: %w", err)
		}
		resp, err := c.do(ctx, opCreate, http.MethodPost, c.baseURL, body)
		if err != nil {
			return todo.Todo{}, err
		}
		return c.echo(opCreate, resp, t), nil
	}, observability.T("method", http.MethodPost))
}

// Update replaces the record at id with t. The id is sent in the JSON form
// the last List returned it in.
func (c *Client) Update(ctx context.Context, id todo.ID, t todo.Todo) (todo.Todo, error) {
	return observability.TimeOperationResult(ctx, c.logger, c.metrics, "store."+opUpdate, func() (todo.Todo, error) {
		t.ID = id
		body, err := c.codec.encode(t, c.isNumericID(id))
		if err != nil {
			return todo.Todo{}, fmt.Errorf("encode todo: %w", err)
		}
		resp, err := c.do(ctx, opUpdate, http.MethodPut, c.itemURL(id), body)
		if err != nil {
			return todo.Todo{}, err
		}
		return c.echo(opUpdate, resp, t), nil
	}, observability.T("method", http.MethodPut))
}

// Delete removes the record at id.
func (c *Client) Delete(ctx context.Context, id todo.ID) error {
	_, err := observability.TimeOperationResult(ctx, c.logger, c.metrics, "store."+opDelete, func() (struct{}, error) {
		_, err := c.do(ctx, opDelete, http.MethodDelete, c.itemURL(id), nil)
		return struct{}{}, err
	}, observability.T("method", http.MethodDelete))
	return err
}

func (c *Client) itemURL(id todo.ID) string {
	return c.baseURL + "/" + url.PathEscape(id.String())
}

// echo decodes the record a write returned. Writes already succeeded at this
// point, so an empty or undecodable body falls back to what was sent.
func (c *Client) echo(op string, resp *response, sent todo.Todo) todo.Todo {
	if len(bytes.TrimSpace(resp.body)) == 0 {
		return sent
	}
	rec, err := c.codec.decodeOne(resp.body)
	if err != nil {
		c.logger.Warn("ignoring undecodable write response", "op", op, "error", err)
		return sent
	}
	got := rec.todo
	if got.ID.IsZero() {
		got.ID = sent.ID
		return got
	}
	c.idsMu.Lock()
	if rec.numericID {
		c.numericIDs[got.ID] = true
	} else {
		delete(c.numericIDs, got.ID)
	}
	c.idsMu.Unlock()
	return got
}

func (c *Client) isNumericID(id todo.ID) bool {
	c.idsMu.Lock()
	defer c.idsMu.Unlock()
	return c.numericIDs[id]
}

func (c *Client) do(ctx context.Context, op, method, target string, body []byte) (*response, error) {
	exchange := func() (*response, error) {
		return c.send(ctx, method, target, body)
	}

	var (
		resp *response
		err  error
	)
	if c.breaker != nil {
		resp, err = c.breaker.Execute(exchange)
	} else {
		resp, err = exchange()
	}

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return nil, todo.NewNetworkFailure(op, ErrStoreUnavailable)
	case errors.Is(err, errServerStatus):
		return nil, todo.NewStoreError(op, resp.status, excerpt(resp.body))
	case err != nil:
		return nil, todo.NewNetworkFailure(op, err)
	}

	if resp.status < 200 || resp.status >= 300 {
		return nil, todo.NewStoreError(op, resp.status, excerpt(resp.body))
	}
	return resp, nil
}

// send performs one HTTP exchange. 5xx responses are returned together with
// errServerStatus so the breaker counts them; 4xx are not store-health failures.
func (c *Client) send(ctx context.Context, method, target string, body []byte) (*response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := observability.CorrelationIDFromContext(ctx); id != "" {
		req.Header.Set(observability.CorrelationIDHeader, id)
	}

	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	c.logger.DebugContext(ctx, "task store exchange",
		"method", method,
		"url", target,
		"status", httpResp.StatusCode,
		"bytes", len(data),
	)

	resp := &response{status: httpResp.StatusCode, body: data}
	if resp.status >= 500 {
		return resp, errServerStatus
	}
	return resp, nil
}

// excerpt shortens body to at most maxBodyExcerpt bytes without splitting a
// UTF-8 sequence.
func excerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) <= maxBodyExcerpt {
		return s
	}
	cut := maxBodyExcerpt
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
