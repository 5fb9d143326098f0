// Package storetest provides an in-memory task store API for tests.
package storetest

import (
	"encoding/json"
	"io"
	"maps"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/felixgeelhaar/todos/internal/todos/domain/todo"
)

// Request records one call the server received.
type Request struct {
	Method        string
	Path          string
	Body          map[string]any
	CorrelationID string
}

// Server mimics a json-server style collection: records are kept verbatim in
// insertion order.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	records    []map[string]any
	requests   []Request
	assignIDs  bool
	failures   []int
	rawList    *string
	hold       chan struct{}
	arrived    chan struct{}
	collection string
}

// New starts a server for the /todos collection and closes it with the test.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{collection: "/todos"}
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+s.collection, s.list)
	mux.HandleFunc("POST "+s.collection, s.create)
	mux.HandleFunc("PUT "+s.collection+"/{id}", s.update)
	mux.HandleFunc("DELETE "+s.collection+"/{id}", s.remove)
	s.Server = httptest.NewServer(s.middleware(mux))
	t.Cleanup(func() {
		s.Release()
		s.Close()
	})
	return s
}

// BaseURL returns the collection url to hand to the client.
func (s *Server) BaseURL() string {
	return s.URL + s.collection
}

// AssignIDs makes the server assign numeric ids to records posted without one.
func (s *Server) AssignIDs() *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignIDs = true
	return s
}

// Seed replaces the collection with todos using the "todo" description field.
func (s *Server) Seed(todos ...todo.Todo) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	for _, t := range todos {
		s.records = append(s.records, toRecord(t))
	}
	return s
}

// SeedRaw replaces the collection with verbatim records.
func (s *Server) SeedRaw(records ...map[string]any) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]map[string]any(nil), records...)
	return s
}

// FailNext makes the next len(statuses) requests answer with those statuses.
func (s *Server) FailNext(statuses ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, statuses...)
}

// ServeRawList makes GET answer with body verbatim.
func (s *Server) ServeRawList(body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rawList = &body
}

// HoldWrites blocks every mutating request until Release is called. The
// returned channel receives once per request that reached the hold.
func (s *Server) HoldWrites() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hold = make(chan struct{})
	s.arrived = make(chan struct{}, 16)
	return s.arrived
}

// Release unblocks held writes.
func (s *Server) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hold != nil {
		close(s.hold)
		s.hold = nil
	}
}

// Snapshot decodes the current collection.
func (s *Server) Snapshot() []todo.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, _ := json.Marshal(s.records)
	var out []todo.Todo
	_ = json.Unmarshal(data, &out)
	return out
}

// Records returns the raw records.
func (s *Server) Records() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]any(nil), s.records...)
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// CountRequests returns how many requests used method.
func (s *Server) CountRequests(method string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method {
			n++
		}
	}
	return n
}

func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if r.Body != nil {
			data, _ := io.ReadAll(r.Body)
			if len(data) > 0 {
				_ = json.Unmarshal(data, &body)
			}
		}

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Body:          maps.Clone(body),
			CorrelationID: r.Header.Get("X-Correlation-ID"),
		})
		var status int
		if len(s.failures) > 0 {
			status = s.failures[0]
			s.failures = s.failures[1:]
		}
		hold, arrived := s.hold, s.arrived
		s.mu.Unlock()

		if status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}

		if r.Method != http.MethodGet && hold != nil {
			arrived <- struct{}{}
			select {
			case <-hold:
			case <-r.Context().Done():
				return
			}
		}

		ctx := r.Context()
		next.ServeHTTP(w, r.WithContext(withBody(ctx, body)))
	})
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	raw := s.rawList
	records := append([]map[string]any{}, s.records...)
	s.mu.Unlock()

	if raw != nil {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, *raw)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	rec := bodyFrom(r.Context())
	if rec == nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, hasID := rec["id"]
	if !hasID || id == "" {
		if !s.assignIDs {
			http.Error(w, "id required", http.StatusBadRequest)
			return
		}
		rec["id"] = s.nextIDLocked()
	}
	if s.indexLocked(idString(rec["id"])) >= 0 {
		http.Error(w, "duplicate id", http.StatusConflict)
		return
	}
	s.records = append(s.records, rec)
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	rec := bodyFrom(r.Context())
	if rec == nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	id := r.PathValue("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	// The body replaces the record verbatim, id included.
	if _, ok := rec["id"]; !ok {
		rec["id"] = id
	}
	s.records[i] = rec
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	s.records = append(s.records[:i], s.records[i+1:]...)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "{}")
}

func (s *Server) indexLocked(id string) int {
	for i, rec := range s.records {
		if idString(rec["id"]) == id {
			return i
		}
	}
	return -1
}

func (s *Server) nextIDLocked() string {
	var highest int64
	for _, rec := range s.records {
		if n, err := strconv.ParseInt(idString(rec["id"]), 10, 64); err == nil && n > highest {
			highest = n
		}
	}
	return strconv.FormatInt(highest+1, 10)
}

func idString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case int:
		return strconv.Itoa(id)
	default:
		return ""
	}
}

func toRecord(t todo.Todo) map[string]any {
	rec := map[string]any{
		"id":       t.ID.String(),
		"todo":     t.Description,
		"priority": t.Priority.String(),
		"status":   t.Status.String(),
	}
	if t.Category != "" {
		rec["category"] = t.Category.String()
	}
	return rec
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
