package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

// TaskStore implements store.TaskStore in memory.
// The map, the insertion order and the ID counter are guarded by one lock,
// so ID assignment and the write it produces happen atomically.
type TaskStore struct {
	mu     sync.RWMutex
	tasks  map[int64]*domain.Task
	order  []int64
	nextID int64
	logger *slog.Logger
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates an empty store whose first assigned ID is 1.
// If logger is nil, a default logger will be used.
func NewTaskStore(logger *slog.Logger) *TaskStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskStore{
		tasks:  make(map[int64]*domain.Task),
		nextID: 1,
		logger: logger.With(slog.String("component", "memory_task_store")),
	}
}

// Save implements store.TaskStore.Save
func (s *TaskStore) Save(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if task == nil {
		return nil, store.NewStoreError("task", "save", "task is nil", store.ErrInvalidEntity)
	}
	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during save",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	record := task.Clone()

	s.mu.Lock()
	if record.ID == 0 {
		record.ID = s.nextID
		s.nextID++
	} else if record.ID >= s.nextID {
		// keep the counter ahead of any explicitly keyed record
		s.nextID = record.ID + 1
	}
	if _, exists := s.tasks[record.ID]; !exists {
		s.order = append(s.order, record.ID)
	}
	s.tasks[record.ID] = record
	s.mu.Unlock()

	log.Debug("task saved",
		slog.Int64("task_id", record.ID),
		slog.String("status", string(record.Status)),
		slog.Bool("deleted", record.Deleted))

	return record.Clone(), nil
}

// FindByID implements store.TaskStore.FindByID
func (s *TaskStore) FindByID(ctx context.Context, id int64) (*domain.Task, error) {
	s.mu.RLock()
	task, ok := s.tasks[id]
	s.mu.RUnlock()

	if !ok {
		logger.FromContextOrDefault(ctx, s.logger).Debug("task not found", slog.Int64("task_id", id))
		return nil, store.ErrTaskNotFound
	}
	return task.Clone(), nil
}

// FindAllActive implements store.TaskStore.FindAllActive
func (s *TaskStore) FindAllActive(_ context.Context) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]*domain.Task, 0, len(s.order))
	for _, id := range s.order {
		if task := s.tasks[id]; !task.Deleted {
			active = append(active, task.Clone())
		}
	}
	return active, nil
}

// ExistsActive implements store.TaskStore.ExistsActive
func (s *TaskStore) ExistsActive(_ context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	return ok && !task.Deleted, nil
}

// Len returns the number of records held, deleted ones included.
func (s *TaskStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}
