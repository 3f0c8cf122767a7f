package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an operation references a script id that is
// not present in the store.
var ErrNotFound = errors.New("script not found")

// ValidationError reports input rejected at the store boundary before any
// write is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PersistenceError wraps a failed database operation. The driver error is
// surfaced unmodified through Unwrap; no retries are performed.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func persistErr(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}
