package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

const (
	insertTaskQuery = `
		INSERT INTO tasks (title, description, priority, status, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	upsertTaskQuery = `
		INSERT INTO tasks (id, title, description, priority, status, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			priority = EXCLUDED.priority,
			status = EXCLUDED.status,
			deleted = EXCLUDED.deleted,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at
	`

	// Keeps generated IDs ahead of any ID written explicitly.
	advanceSequenceQuery = `
		SELECT setval('tasks_id_seq', GREATEST($1, (SELECT last_value FROM tasks_id_seq)))
	`

	selectTaskColumns = `SELECT id, title, description, priority, status, deleted, created_at, updated_at FROM tasks`

	findTaskByIDQuery     = selectTaskColumns + ` WHERE id = $1`
	findAllActiveQuery    = selectTaskColumns + ` WHERE NOT deleted ORDER BY id`
	existsActiveTaskQuery = `SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1 AND NOT deleted)`
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db *sql.DB, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "postgres_task_store")),
	}
}

// Save implements store.TaskStore.Save.
// A zero ID is filled from the tasks_id_seq sequence; any other ID is upserted.
func (s *PostgresTaskStore) Save(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during save",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	saved := task.Clone()
	saved.CreatedAt = normalizeTime(saved.CreatedAt)
	saved.UpdatedAt = normalizeTime(saved.UpdatedAt)

	var err error
	if saved.ID == 0 {
		err = insertTask(ctx, s.db, saved)
	} else {
		err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
			return upsertTask(ctx, tx, saved)
		})
	}
	if err != nil {
		log.Error("failed to save task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", saved.ID))
		return nil, store.NewStoreError("task", "save", "failed to save task", MapError(err))
	}

	log.Debug("task saved",
		slog.Int64("task_id", saved.ID),
		slog.String("status", string(saved.Status)),
		slog.Bool("deleted", saved.Deleted))
	return saved, nil
}

// FindByID implements store.TaskStore.FindByID.
// Soft-deleted tasks are returned like any other.
func (s *PostgresTaskStore) FindByID(ctx context.Context, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := scanTask(s.db.QueryRowContext(ctx, findTaskByIDQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.Int64("task_id", id))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, store.NewStoreError("task", "find", "failed to get task", MapError(err))
	}
	return task, nil
}

// FindAllActive implements store.TaskStore.FindAllActive.
func (s *PostgresTaskStore) FindAllActive(ctx context.Context) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, findAllActiveQuery)
	if err != nil {
		log.Error("failed to query active tasks", slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "list", "failed to query active tasks", MapError(err))
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, store.NewStoreError("task", "list", "failed to scan task row", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows", slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "list", "failed to read task rows", MapError(err))
	}

	return tasks, nil
}

// ExistsActive implements store.TaskStore.ExistsActive.
func (s *PostgresTaskStore) ExistsActive(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, existsActiveTaskQuery, id).Scan(&exists); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to check task existence",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return false, store.NewStoreError("task", "exists", "failed to check task", MapError(err))
	}
	return exists, nil
}

// insertTask writes a new row and stores the generated id in task.
func insertTask(ctx context.Context, q store.DBTX, task *domain.Task) error {
	return q.QueryRowContext(ctx, insertTaskQuery,
		task.Title,
		task.Description,
		string(task.Priority),
		string(task.Status),
		task.Deleted,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID)
}

// upsertTask writes task under its own id and moves the id sequence past it.
// Both statements must run in the same transaction.
func upsertTask(ctx context.Context, q store.DBTX, task *domain.Task) error {
	if _, err := q.ExecContext(ctx, upsertTaskQuery,
		task.ID,
		task.Title,
		task.Description,
		string(task.Priority),
		string(task.Status),
		task.Deleted,
		task.CreatedAt,
		task.UpdatedAt,
	); err != nil {
		return err
	}
	_, err := q.ExecContext(ctx, advanceSequenceQuery, task.ID)
	return err
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task        domain.Task
		description sql.NullString
		priority    string
		status      string
	)
	if err := row.Scan(
		&task.ID,
		&task.Title,
		&description,
		&priority,
		&status,
		&task.Deleted,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if description.Valid {
		task.Description = &description.String
	}
	task.Priority = domain.Priority(priority)
	task.Status = domain.Status(status)
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()
	return &task, nil
}

// normalizeTime matches the microsecond precision of TIMESTAMPTZ so the
// returned record equals what a later read yields.
func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
