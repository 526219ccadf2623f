package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/tasks-api/internal/domain"
)

// EventType names a task lifecycle change.
type EventType string

const (
	TaskCreated       EventType = "task.created"
	TaskUpdated       EventType = "task.updated"
	TaskDeleted       EventType = "task.deleted"
	TaskStatusChanged EventType = "task.status_changed"
)

// TaskEvent describes a change that has already been persisted.
type TaskEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	Type   EventType     `json:"type"`
	TaskID int64         `json:"taskId"`
	Status domain.Status `json:"status"`

	// PreviousStatus is set only for TaskStatusChanged.
	PreviousStatus domain.Status `json:"previousStatus,omitempty"`

	OccurredAt time.Time `json:"occurredAt"`
}

// NewTaskEvent builds an event for the given task snapshot.
func NewTaskEvent(eventType EventType, task *domain.Task, occurredAt time.Time) *TaskEvent {
	return &TaskEvent{
		ID:         uuid.New(),
		Type:       eventType,
		TaskID:     task.ID,
		Status:     task.Status,
		OccurredAt: occurredAt,
	}
}

// NewStatusChangedEvent builds a TaskStatusChanged event carrying the prior status.
func NewStatusChangedEvent(task *domain.Task, previous domain.Status, occurredAt time.Time) *TaskEvent {
	event := NewTaskEvent(TaskStatusChanged, task, occurredAt)
	event.PreviousStatus = previous
	return event
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *TaskEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *TaskEvent) error
}
