package api

import (
	"time"

	"github.com/phrazzld/tasks-api/internal/domain"
)

// CreateTaskRequest defines the payload for POST /tasks.
type CreateTaskRequest struct {
	Title       string           `json:"title"       validate:"notblank,trimmax=100"`
	Description *string          `json:"description"`
	Priority    *domain.Priority `json:"priority"    validate:"required"`
}

// UpdateTaskRequest defines the payload for PUT /tasks/{id}.
// Status is accepted only so that the service can reject it.
type UpdateTaskRequest struct {
	Title       string           `json:"title"       validate:"notblank,trimmax=100"`
	Description *string          `json:"description"`
	Priority    *domain.Priority `json:"priority"`
	Status      *domain.Status   `json:"status"`
}

// StatusUpdateRequest defines the payload for PATCH /tasks/{id}/status.
type StatusUpdateRequest struct {
	Status *domain.Status `json:"status" validate:"required"`
}

// TaskResponse is the JSON representation of a task.
type TaskResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	Deleted     bool      `json:"deleted"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Priority:    task.Priority.String(),
		Status:      task.Status.String(),
		Deleted:     task.Deleted,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, taskToResponse(task))
	}
	return out
}
