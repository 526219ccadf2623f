package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/events"
	"github.com/phrazzld/tasks-api/internal/platform/memory"
	"github.com/phrazzld/tasks-api/internal/store"
)

var errStoreDown = errors.New("store unavailable")

// failingStore wraps a real store and injects errors per operation.
type failingStore struct {
	store.TaskStore
	saveErr   error
	findErr   error
	listErr   error
	saveCalls int
}

func (s *failingStore) Save(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	s.saveCalls++
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	return s.TaskStore.Save(ctx, task)
}

func (s *failingStore) FindByID(ctx context.Context, id int64) (*domain.Task, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.TaskStore.FindByID(ctx, id)
}

func (s *failingStore) FindAllActive(ctx context.Context) ([]*domain.Task, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.TaskStore.FindAllActive(ctx)
}

// recordingEmitter keeps every emitted event and optionally fails.
type recordingEmitter struct {
	mu     sync.Mutex
	events []*events.TaskEvent
	err    error
}

func (e *recordingEmitter) EmitEvent(_ context.Context, event *events.TaskEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
	return e.err
}

func (e *recordingEmitter) Events() []*events.TaskEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*events.TaskEvent, len(e.events))
	copy(out, e.events)
	return out
}

// stepClock returns a time one second later on every call.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixture wires a service to a fresh in-memory store.
type fixture struct {
	svc     TaskService
	store   *memory.TaskStore
	emitter *recordingEmitter
	clock   *stepClock
}

func newFixture() *fixture {
	f := &fixture{
		store:   memory.NewTaskStore(discardLogger()),
		emitter: &recordingEmitter{},
		clock:   newStepClock(),
	}
	svc, err := NewTaskService(f.store, f.emitter, discardLogger(), WithClock(f.clock.Now))
	if err != nil {
		panic(err)
	}
	f.svc = svc
	return f
}

func strPtr(s string) *string { return &s }

func priorityPtr(p domain.Priority) *domain.Priority { return &p }

func statusPtr(s domain.Status) *domain.Status { return &s }
