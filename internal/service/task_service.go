package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/events"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

// CreateTaskInput carries the caller-supplied fields of a new task.
type CreateTaskInput struct {
	Title       string
	Description *string
	Priority    domain.Priority
}

// UpdateTaskInput carries a full update of a task's editable fields.
// A nil Priority keeps the current one. Status must be nil; it exists so
// that an attempt to change status through an update can be rejected.
type UpdateTaskInput struct {
	Title       string
	Description *string
	Priority    *domain.Priority
	Status      *domain.Status
}

// TaskService owns every business rule of the task lifecycle.
// Version: 1.0
type TaskService interface {
	// Create stores a new PENDING task and returns it with its assigned ID.
	Create(ctx context.Context, input CreateTaskInput) (*domain.Task, error)

	// GetActive returns the task unless it is absent or soft-deleted.
	GetActive(ctx context.Context, id int64) (*domain.Task, error)

	// Update replaces title and description, and priority when supplied.
	Update(ctx context.Context, id int64, input UpdateTaskInput) (*domain.Task, error)

	// SoftDelete marks the task deleted and returns the tombstone.
	SoftDelete(ctx context.Context, id int64) (*domain.Task, error)

	// ListActive returns every task that has not been soft-deleted.
	ListActive(ctx context.Context) ([]*domain.Task, error)

	// TransitionStatus moves the task along the lifecycle graph.
	TransitionStatus(ctx context.Context, id int64, status domain.Status) (*domain.Task, error)
}

// Option configures a task service.
type Option func(*taskServiceImpl)

// WithClock replaces the time source used for CreatedAt and UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *taskServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

// taskServiceImpl implements the TaskService interface.
//
// Each mutation is a read followed by a save with no lock held in between,
// so concurrent mutations of one task may race and the last save wins.
type taskServiceImpl struct {
	store   store.TaskStore
	emitter events.EventEmitter
	logger  *slog.Logger
	now     func() time.Time
}

var _ TaskService = (*taskServiceImpl)(nil)

// NewTaskService creates a new TaskService.
// It returns an error if taskStore is nil. A nil emitter disables lifecycle events.
func NewTaskService(
	taskStore store.TaskStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
	opts ...Option,
) (TaskService, error) {
	if taskStore == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "taskStore cannot be nil",
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &taskServiceImpl{
		store:   taskStore,
		emitter: emitter,
		logger:  logger.With("component", "task_service"),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Create implements TaskService.
func (s *taskServiceImpl) Create(ctx context.Context, input CreateTaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(input.Title, input.Description, input.Priority, s.now())
	if err != nil {
		log.Debug("rejected task creation", "error", err)
		return nil, invalidInput("create_task", err)
	}

	saved, err := s.store.Save(ctx, task)
	if err != nil {
		log.Error("failed to save new task", "error", err)
		return nil, s.persistError("create_task", err)
	}

	log.Info("task created", "task_id", saved.ID, "priority", saved.Priority)
	s.emit(ctx, events.NewTaskEvent(events.TaskCreated, saved, saved.CreatedAt))
	return saved, nil
}

// GetActive implements TaskService.
func (s *taskServiceImpl) GetActive(ctx context.Context, id int64) (*domain.Task, error) {
	return s.getActive(ctx, "get_task", id)
}

// Update implements TaskService.
func (s *taskServiceImpl) Update(
	ctx context.Context,
	id int64,
	input UpdateTaskInput,
) (*domain.Task, error) {
	const op = "update_task"
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.getActive(ctx, op, id)
	if err != nil {
		return nil, err
	}

	if input.Status != nil {
		log.Debug("rejected status change through update", "task_id", id, "status", *input.Status)
		return nil, newKindError(op, ErrInvalidOperation, "Use PATCH /tasks/{id}/status", nil)
	}

	if err := task.ApplyUpdate(input.Title, input.Description, input.Priority, s.now()); err != nil {
		log.Debug("rejected task update", "task_id", id, "error", err)
		return nil, invalidInput(op, err)
	}

	saved, err := s.store.Save(ctx, task)
	if err != nil {
		log.Error("failed to save updated task", "task_id", id, "error", err)
		return nil, s.persistError(op, err)
	}

	log.Info("task updated", "task_id", saved.ID)
	s.emit(ctx, events.NewTaskEvent(events.TaskUpdated, saved, saved.UpdatedAt))
	return saved, nil
}

// SoftDelete implements TaskService.
func (s *taskServiceImpl) SoftDelete(ctx context.Context, id int64) (*domain.Task, error) {
	const op = "delete_task"
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.getActive(ctx, op, id)
	if err != nil {
		return nil, err
	}

	task.MarkDeleted(s.now())

	saved, err := s.store.Save(ctx, task)
	if err != nil {
		log.Error("failed to save deleted task", "task_id", id, "error", err)
		return nil, s.persistError(op, err)
	}

	log.Info("task deleted", "task_id", saved.ID)
	s.emit(ctx, events.NewTaskEvent(events.TaskDeleted, saved, saved.UpdatedAt))
	return saved, nil
}

// ListActive implements TaskService.
func (s *taskServiceImpl) ListActive(ctx context.Context) ([]*domain.Task, error) {
	tasks, err := s.store.FindAllActive(ctx)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tasks", "error", err)
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return tasks, nil
}

// TransitionStatus implements TaskService.
func (s *taskServiceImpl) TransitionStatus(
	ctx context.Context,
	id int64,
	status domain.Status,
) (*domain.Task, error) {
	const op = "transition_status"
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.getActive(ctx, op, id)
	if err != nil {
		return nil, err
	}

	previous := task.Status
	if err := task.TransitionTo(status, s.now()); err != nil {
		log.Debug("rejected status transition",
			"task_id", id,
			"from", previous,
			"to", status,
			"error", err)
		var transitionErr *domain.TransitionError
		if errors.As(err, &transitionErr) {
			return nil, newKindError(op, ErrInvalidOperation, transitionErr.Error(), err)
		}
		return nil, invalidInput(op, err)
	}

	saved, err := s.store.Save(ctx, task)
	if err != nil {
		log.Error("failed to save status change", "task_id", id, "error", err)
		return nil, s.persistError(op, err)
	}

	log.Info("task status changed", "task_id", saved.ID, "from", previous, "to", saved.Status)
	s.emit(ctx, events.NewStatusChangedEvent(saved, previous, saved.UpdatedAt))
	return saved, nil
}

// getActive resolves a task, treating soft-deleted records as absent.
func (s *taskServiceImpl) getActive(ctx context.Context, op string, id int64) (*domain.Task, error) {
	task, err := s.store.FindByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, notFound(op, id, err)
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load task",
			"task_id", id,
			"error", err)
		return nil, NewTaskServiceError(op, "failed to load task", err)
	}
	if task.Deleted {
		return nil, notFound(op, id, nil)
	}
	return task, nil
}

// persistError classifies a failed save.
func (s *taskServiceImpl) persistError(op string, err error) error {
	if errors.Is(err, store.ErrInvalidEntity) {
		return invalidInput(op, err)
	}
	return NewTaskServiceError(op, "failed to save task", err)
}

// emit publishes an event after a successful save. Emitter failures are
// logged and never reach the caller.
func (s *taskServiceImpl) emit(ctx context.Context, event *events.TaskEvent) {
	if s.emitter == nil {
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to emit task event",
			"error", err,
			"event_id", event.ID,
			"event_type", event.Type,
			"task_id", event.TaskID)
	}
}

// invalidInput wraps a validation failure, using the field message as client text.
func invalidInput(op string, err error) *TaskServiceError {
	message := "Invalid task"
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		message = validationErr.Error()
	}
	return newKindError(op, ErrInvalidInput, message, err)
}
