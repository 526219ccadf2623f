package events

import (
	"context"
	"log/slog"

	"github.com/phrazzld/tasks-api/internal/platform/logger"
)

// LoggingHandler records every task event at info level.
type LoggingHandler struct {
	logger *slog.Logger
}

var _ EventHandler = (*LoggingHandler)(nil)

// NewLoggingHandler creates a handler writing to the given logger.
func NewLoggingHandler(l *slog.Logger) *LoggingHandler {
	if l == nil {
		l = slog.Default()
	}
	return &LoggingHandler{logger: l.With("component", "task_event_log")}
}

// HandleEvent implements EventHandler.
func (h *LoggingHandler) HandleEvent(ctx context.Context, event *TaskEvent) error {
	log := logger.FromContextOrDefault(ctx, h.logger)
	attrs := []any{
		"event_id", event.ID,
		"event_type", event.Type,
		"task_id", event.TaskID,
		"status", event.Status,
		"occurred_at", event.OccurredAt,
	}
	if event.PreviousStatus != "" {
		attrs = append(attrs, "previous_status", event.PreviousStatus)
	}
	log.InfoContext(ctx, "task event", attrs...)
	return nil
}
