// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is usually wrapped by a ValidationError naming the field.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when a task identifier is not a positive integer.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidPriority is returned when a priority is not one of the known values.
	ErrInvalidPriority = errors.New("priority must be LOW, MEDIUM, HIGH")

	// ErrInvalidStatus is returned when a status is not one of the known values.
	ErrInvalidStatus = errors.New("status must be a valid value")

	// ErrTransitionNotAllowed is returned when a status change is not an edge
	// of the task lifecycle graph.
	ErrTransitionNotAllowed = errors.New("status transition not allowed")
)

// ValidationError describes a single field that failed validation.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// TransitionError reports a rejected status change together with both endpoints.
type TransitionError struct {
	From Status
	To   Status
}

// Error implements the error interface for TransitionError.
func (e *TransitionError) Error() string {
	return fmt.Sprintf("Cannot transition from %s to %s", e.From, e.To)
}

// Unwrap ties every TransitionError to ErrTransitionNotAllowed.
func (e *TransitionError) Unwrap() error {
	return ErrTransitionNotAllowed
}
