package app

import (
	"errors"
	"fmt"
)

// Bridge errors.
var (
	// ErrQuit signals that the source asked the loop to exit normally.
	ErrQuit = errors.New("quit requested")

	// ErrAlreadyRunning indicates the poll loop is already running.
	ErrAlreadyRunning = errors.New("bridge already running")

	// ErrNotRunning indicates the bridge has been shut down.
	ErrNotRunning = errors.New("bridge not running")
)

// InitError reports a component that failed to start.
// Initialization errors are fatal.
type InitError struct {
	Component string // Component name (e.g., "source", "output", "script")
	Err       error  // Underlying error
}

func (e *InitError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("init %s: %v", e.Component, e.Err)
	}
	return "init " + e.Component
}

func (e *InitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is implements errors.Is for InitError.
// Matches both the wrapper itself and the wrapped error.
func (e *InitError) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*InitError); ok {
		return e == t
	}
	return errors.Is(e.Err, target)
}

func initError(component string, err error) error {
	if err == nil {
		return nil
	}
	return &InitError{Component: component, Err: err}
}

// ErrorList collects multiple errors.
// NOTE: ErrorList is NOT safe for concurrent use.
type ErrorList struct {
	errors []error
}

// Add adds an error to the list. Nil errors are ignored.
func (e *ErrorList) Add(err error) {
	if err != nil {
		e.errors = append(e.errors, err)
	}
}

// HasErrors returns true if there are any errors.
func (e *ErrorList) HasErrors() bool {
	return len(e.errors) > 0
}

// Len returns the number of errors.
func (e *ErrorList) Len() int {
	return len(e.errors)
}

// Error returns a combined error message.
func (e *ErrorList) Error() string {
	if e == nil || len(e.errors) == 0 {
		return ""
	}
	if len(e.errors) == 1 {
		return e.errors[0].Error()
	}
	return fmt.Sprintf("%d errors: first: %v", len(e.errors), e.errors[0])
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *ErrorList) Unwrap() []error {
	if e == nil {
		return nil
	}
	return e.errors
}

// AsError returns nil if there are no errors, otherwise returns the ErrorList.
func (e *ErrorList) AsError() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}
