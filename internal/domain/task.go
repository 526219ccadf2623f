package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxTitleLength is the longest title accepted, counted in characters after trimming.
const MaxTitleLength = 100

// Task-specific validation errors
var (
	// ErrTitleRequired is returned when a title is empty after trimming.
	ErrTitleRequired = NewValidationError("title", "is required", ErrValidation)

	// ErrTitleTooLong is returned when a title exceeds MaxTitleLength characters.
	ErrTitleTooLong = NewValidationError("title", "must be at most 100 characters", ErrValidation)

	// ErrPriorityRequired is returned when a task has no valid priority.
	ErrPriorityRequired = NewValidationError("priority", "must be LOW, MEDIUM, HIGH", ErrInvalidPriority)

	// ErrStatusRequired is returned when a task has no valid status.
	ErrStatusRequired = NewValidationError("status", "must be a valid value", ErrInvalidStatus)
)

// Task is a unit of work tracked by the service.
//
// ID is assigned once by the store. Status changes only through TransitionTo,
// and a deleted task stays in storage as a tombstone.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Priority    Priority  `json:"priority"`
	Status      Status    `json:"status"`
	Deleted     bool      `json:"deleted"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewTask creates a pending, non-deleted task with normalized fields.
// The ID is left at zero so the store assigns one on save.
func NewTask(title string, description *string, priority Priority, now time.Time) (*Task, error) {
	normalized, err := NormalizeTitle(title)
	if err != nil {
		return nil, err
	}
	if !priority.IsValid() {
		return nil, ErrPriorityRequired
	}

	return &Task{
		Title:       normalized,
		Description: NormalizeDescription(description),
		Priority:    priority,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Validate checks that the task is fit to be stored.
func (t *Task) Validate() error {
	if t.ID < 0 {
		return NewValidationError("id", "must be positive", ErrInvalidID)
	}
	if _, err := NormalizeTitle(t.Title); err != nil {
		return err
	}
	if !t.Priority.IsValid() {
		return ErrPriorityRequired
	}
	if !t.Status.IsValid() {
		return ErrStatusRequired
	}
	if t.UpdatedAt.Before(t.CreatedAt) {
		return NewValidationError("updatedAt", "must not precede createdAt", ErrValidation)
	}
	return nil
}

// ApplyUpdate replaces the editable fields. Priority is kept when nil.
// Status, deletion, creation time and ID are never touched here.
func (t *Task) ApplyUpdate(title string, description *string, priority *Priority, now time.Time) error {
	normalized, err := NormalizeTitle(title)
	if err != nil {
		return err
	}
	if priority != nil && !priority.IsValid() {
		return ErrPriorityRequired
	}

	t.Title = normalized
	t.Description = NormalizeDescription(description)
	if priority != nil {
		t.Priority = *priority
	}
	t.touch(now)
	return nil
}

// TransitionTo moves the task to next if the lifecycle graph allows it.
func (t *Task) TransitionTo(next Status, now time.Time) error {
	if !next.IsValid() {
		return ErrStatusRequired
	}
	if !t.Status.CanTransitionTo(next) {
		return &TransitionError{From: t.Status, To: next}
	}
	t.Status = next
	t.touch(now)
	return nil
}

// MarkDeleted turns the task into a tombstone.
func (t *Task) MarkDeleted(now time.Time) {
	t.Deleted = true
	t.touch(now)
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	if t.Description != nil {
		d := *t.Description
		c.Description = &d
	}
	return &c
}

// touch refreshes UpdatedAt without letting it fall behind CreatedAt.
func (t *Task) touch(now time.Time) {
	if now.Before(t.CreatedAt) {
		now = t.CreatedAt
	}
	t.UpdatedAt = now
}

// NormalizeTitle trims surrounding whitespace and enforces the title rules.
func NormalizeTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", ErrTitleRequired
	}
	if utf8.RuneCountInString(trimmed) > MaxTitleLength {
		return "", ErrTitleTooLong
	}
	return trimmed, nil
}

// NormalizeDescription trims a description, keeping nil as nil.
func NormalizeDescription(description *string) *string {
	if description == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*description)
	return &trimmed
}
