package store

import (
	"context"

	"github.com/phrazzld/tasks-api/internal/domain"
)

// TaskStore defines the interface for task persistence.
// Implementations must be safe for concurrent use and must never apply
// business rules: soft-deleted tasks are stored and returned like any other
// record, and filtering them is the service's job.
// Version: 1.0
type TaskStore interface {
	// Save inserts or overwrites a task keyed by its ID.
	// A task with ID 0 is assigned the next identifier from a strictly
	// increasing counter that never reuses a value.
	// Returns the stored record; the argument is not retained.
	// Returns validation errors wrapped in ErrInvalidEntity if the task is invalid.
	Save(ctx context.Context, task *domain.Task) (*domain.Task, error)

	// FindByID retrieves a task by ID, including soft-deleted ones.
	// Returns ErrTaskNotFound if no record exists.
	FindByID(ctx context.Context, id int64) (*domain.Task, error)

	// FindAllActive returns every task that is not soft-deleted, in insertion order.
	// Returns an empty slice if there are none.
	FindAllActive(ctx context.Context) ([]*domain.Task, error)

	// ExistsActive reports whether a non-deleted task with the given ID exists.
	ExistsActive(ctx context.Context, id int64) (bool, error)
}
