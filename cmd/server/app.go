package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasks-api/internal/api"
	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/events"
	"github.com/phrazzld/tasks-api/internal/platform/memory"
	"github.com/phrazzld/tasks-api/internal/platform/postgres"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/store"
)

// application holds the shared dependencies of a running server
// and releases them on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil when the in-memory store is selected.
	db *sql.DB

	taskStore    store.TaskStore
	eventEmitter *events.InMemoryEventEmitter
	taskService  service.TaskService
	taskHandler  *api.TaskHandler
}

// newApplication wires the store selected by cfg.Store.Driver, the event
// emitter, the task service and its HTTP handler.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		app.taskStore = memory.NewTaskStore(logger)
	case config.StoreDriverPostgres:
		db, err := setupAppDatabase(ctx, cfg.Database.URL, logger)
		if err != nil {
			return nil, err
		}
		app.db = db
		app.taskStore = postgres.NewPostgresTaskStore(db, logger)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
	logger.Info("Task store initialized", "driver", cfg.Store.Driver)

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(events.NewLoggingHandler(logger))

	var err error
	app.taskService, err = service.NewTaskService(app.taskStore, app.eventEmitter, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	app.taskHandler = api.NewTaskHandler(app.taskService, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run serves HTTP until ctx is cancelled or a shutdown signal arrives,
// then releases resources.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
		app.db = nil
	}

	app.logger.Info("Application shutdown completed")
}
