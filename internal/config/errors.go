package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFileNotFound indicates an explicitly requested config file doesn't exist.
var ErrFileNotFound = errors.New("config file not found")

// ValidationError describes a validation failure for a setting.
type ValidationError struct {
	// Field is the setting path that failed validation.
	Field string
	// Message describes the validation error.
	Message string
	// Value is the invalid value.
	Value any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (value: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects every failed setting.
type ValidationErrors []*ValidationError

func (v *ValidationErrors) add(field string, value any, msg string) {
	*v = append(*v, &ValidationError{Field: field, Message: msg, Value: value})
}

// Error implements the error interface.
func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, len(v))
	for i, e := range v {
		errs[i] = e
	}
	return errs
}

// DecodeError reports a merged value that does not fit its setting type.
type DecodeError struct {
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode config: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}
