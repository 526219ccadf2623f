package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/service"
)

func serviceErr(kind error, message string) error {
	return &service.TaskServiceError{Operation: "op", Message: message, Err: kind}
}

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", serviceErr(service.ErrNotFound, "Task not found with id: 1"), http.StatusNotFound},
		{"invalid input", serviceErr(service.ErrInvalidInput, "title is required"), http.StatusBadRequest},
		{"invalid operation", serviceErr(service.ErrInvalidOperation, "Cannot transition"), http.StatusBadRequest},
		{"wrapped kind", fmt.Errorf("outer: %w", serviceErr(service.ErrNotFound, "x")), http.StatusNotFound},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "An unexpected error occurred"},
		{"not found", serviceErr(service.ErrNotFound, "Task not found with id: 99"), "Task not found with id: 99"},
		{"transition", serviceErr(service.ErrInvalidOperation, "Cannot transition from A to B"), "Cannot transition from A to B"},
		{"internal service error hides message", serviceErr(errors.New("db"), "failed to save task"), "An unexpected error occurred"},
		{"kind without message", service.ErrInvalidInput, "An unexpected error occurred"},
		{"plain error", errors.New("postgres://u:p@h/db"), "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetSafeErrorMessage(tt.err))
		})
	}
}

func TestValidationMessage(t *testing.T) {
	tests := []struct {
		name string
		req  interface{}
		want string
	}{
		{
			name: "missing title and priority",
			req:  &CreateTaskRequest{},
			want: "title is required; priority must be LOW, MEDIUM, HIGH",
		},
		{
			name: "title too long",
			req:  &UpdateTaskRequest{Title: strings.Repeat("a", 101)},
			want: "title must be at most 100 characters",
		},
		{
			name: "missing status",
			req:  &StatusUpdateRequest{},
			want: "status must be a valid value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := shared.ValidateRequest(tt.req)
			assert.Equal(t, tt.want, validationMessage(err))
		})
	}

	assert.Equal(t, "Validation error", validationMessage(errors.New("other")))
}

func TestDecodeErrorMessage(t *testing.T) {
	assert.Equal(t, "priority must be LOW, MEDIUM, HIGH", decodeErrorMessage(domain.ErrInvalidPriority))
	assert.Equal(t, "status must be a valid value", decodeErrorMessage(domain.ErrInvalidStatus))
	assert.Equal(t, "Invalid request body", decodeErrorMessage(errors.New("unexpected EOF")))
}
