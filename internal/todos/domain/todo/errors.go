package todo

import (
	"errors"
	"fmt"
)

// Sentinels for matching a StoreFailure kind with errors.Is.
var (
	ErrNetworkFailure = errors.New("task store unreachable")
	ErrStoreError     = errors.New("task store returned an error")
	ErrDecodeFailure  = errors.New("task store response could not be decoded")
)

// FailureKind classifies store failures.
type FailureKind int

const (
	FailureNetwork FailureKind = iota
	FailureStore
	FailureDecode
)

func (k FailureKind) String() string {
	switch k {
	case FailureNetwork:
		return "network"
	case FailureStore:
		return "store"
	case FailureDecode:
		return "decode"
	default:
		return "unknown"
	}
}

func (k FailureKind) sentinel() error {
	switch k {
	case FailureNetwork:
		return ErrNetworkFailure
	case FailureStore:
		return ErrStoreError
	default:
		return ErrDecodeFailure
	}
}

// StoreFailure is returned by every Store operation that did not succeed.
type StoreFailure struct {
	Kind       FailureKind
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (f *StoreFailure) Error() string {
	msg := fmt.Sprintf("%s %s failure", f.Op, f.Kind)
	if f.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", f.StatusCode)
	}
	if f.Err != nil {
		msg += ": " + f.Err.Error()
	} else if f.Body != "" {
		msg += ": " + f.Body
	}
	return msg
}

func (f *StoreFailure) Unwrap() error { return f.Err }

// Is matches the kind sentinel so callers can write errors.Is(err, ErrStoreError).
func (f *StoreFailure) Is(target error) bool {
	return target == f.Kind.sentinel()
}

// NewNetworkFailure wraps a transport error.
func NewNetworkFailure(op string, err error) *StoreFailure {
	return &StoreFailure{Kind: FailureNetwork, Op: op, Err: err}
}

// NewStoreError records a non-success HTTP status.
func NewStoreError(op string, statusCode int, body string) *StoreFailure {
	return &StoreFailure{Kind: FailureStore, Op: op, StatusCode: statusCode, Body: body}
}

// NewDecodeFailure wraps a JSON decode error.
func NewDecodeFailure(op string, err error) *StoreFailure {
	return &StoreFailure{Kind: FailureDecode, Op: op, Err: err}
}

// AsStoreFailure extracts a StoreFailure from err.
func AsStoreFailure(err error) (*StoreFailure, bool) {
	var f *StoreFailure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
