package supervisor

import (
	"errors"
	"fmt"
)

// Common errors returned by supervisor operations
var (
	// ErrDecode indicates a response did not have the shape the method documents
	ErrDecode = errors.New("supervisor: response decode")

	// ErrNoProcess indicates a process is missing from a listing
	ErrNoProcess = errors.New("supervisor: process not listed")
)

// OpError represents an error from a supervisor operation
type OpError struct {
	// Method is the remote procedure name involved in the operation
	Method string
	// Err is the underlying error
	Err error
}

// Error returns a formatted error message
func (e *OpError) Error() string {
	return fmt.Sprintf("supervisor %s: %v", e.Method, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *OpError) Unwrap() error {
	return e.Err
}

// decodeError reports a response of unexpected type for namespace.method
func decodeError(namespace, method string, got any) error {
	return &OpError{
		Method: ProcedureName(namespace, method),
		Err:    fmt.Errorf("%w: unexpected %T", ErrDecode, got),
	}
}

// MultiError aggregates multiple errors from bulk operations
type MultiError struct {
	// Errors contains all accumulated errors
	Errors []error
}

// Error returns a summary of the accumulated errors
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors occurred", len(m.Errors))
}

// Unwrap returns the accumulated errors for errors.Is and errors.As
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// Add appends an error to the collection if it's not nil
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// Err returns nil if no errors occurred, otherwise returns the MultiError itself
func (m *MultiError) Err() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}
