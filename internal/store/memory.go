package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vidquiz/vidquiz-api/internal/domain"
)

// MemoryTaskStore is an in-memory TaskStore backed by a mutex-guarded map.
// Contents are lost on process restart; size is bounded only by the
// time-based sweep.
type MemoryTaskStore struct {
	mu     sync.RWMutex
	tasks  map[uuid.UUID]*domain.Task
	logger *slog.Logger
	now    func() time.Time
}

// NewMemoryTaskStore creates an empty in-memory task store.
func NewMemoryTaskStore(logger *slog.Logger) *MemoryTaskStore {
	return &MemoryTaskStore{
		tasks:  make(map[uuid.UUID]*domain.Task),
		logger: logger.With("component", "task_store"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Create allocates a new pending task and registers it.
func (s *MemoryTaskStore) Create(ctx context.Context) (*domain.Task, error) {
	task := domain.NewTask(s.now())

	s.mu.Lock()
	s.tasks[task.ID()] = task
	size := len(s.tasks)
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "task created",
		"task_id", task.ID(),
		"store_size", size)

	return task, nil
}

// Get looks up a task by ID.
func (s *MemoryTaskStore) Get(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	s.mu.RLock()
	task, ok := s.tasks[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrTaskNotFound
	}

	return task, nil
}

// Sweep removes tasks older than the retention window, regardless of status.
// Long-completed results are eventually discarded even if never collected.
func (s *MemoryTaskStore) Sweep(retention time.Duration, now time.Time) int {
	cutoff := now.Add(-retention)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, task := range s.tasks {
		if task.CreatedAt().Before(cutoff) {
			delete(s.tasks, id)
			removed++
		}
	}

	if removed > 0 {
		s.logger.Info("swept expired tasks",
			"removed", removed,
			"remaining", len(s.tasks))
	}

	return removed
}

// Len reports the number of tasks currently registered.
func (s *MemoryTaskStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

var _ TaskStore = (*MemoryTaskStore)(nil)
