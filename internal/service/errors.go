// Package service implements the task lifecycle rules on top of a TaskStore.
package service

import (
	"errors"
	"fmt"
)

// Failure kinds raised by the service. Callers check them with errors.Is;
// the API layer maps each kind to a status code.
var (
	// ErrNotFound indicates the task does not exist or has been soft-deleted.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates a structurally invalid field value.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidOperation indicates an action that is not allowed on a valid task,
	// such as a disallowed status transition.
	ErrInvalidOperation = errors.New("invalid operation")
)

// TaskServiceError wraps errors from the task service with context.
type TaskServiceError struct {
	// Operation is the operation that failed (e.g., "create_task", "transition_status")
	Operation string
	// Message is a human-readable description safe to show to clients
	Message string
	// Err carries the failure kind and, when present, the underlying cause
	Err error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// newKindError builds a TaskServiceError of the given kind. A nil cause is allowed.
func newKindError(operation string, kind error, message string, cause error) *TaskServiceError {
	err := kind
	if cause != nil {
		err = fmt.Errorf("%w: %w", kind, cause)
	}
	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// NewTaskServiceError wraps an unexpected failure that has no client-facing kind.
func NewTaskServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// notFound reports a missing or soft-deleted task.
func notFound(operation string, id int64, cause error) *TaskServiceError {
	return newKindError(operation, ErrNotFound, fmt.Sprintf("Task not found with id: %d", id), cause)
}

// ClientMessage returns the client-safe message carried by err, if any.
func ClientMessage(err error) (string, bool) {
	var serviceErr *TaskServiceError
	if errors.As(err, &serviceErr) && serviceErr.Message != "" {
		return serviceErr.Message, true
	}
	return "", false
}
