package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vidquiz/vidquiz-api/internal/domain"
)

// TaskStore is the process-wide registry of in-flight and recently finished
// generation tasks. Mutation of a task's fields happens in place through the
// *domain.Task reference held by the pipeline that owns it; the store itself
// only creates, looks up, and evicts.
// Version: 1.0
type TaskStore interface {
	// Create allocates a new pending task, registers it, and returns it.
	Create(ctx context.Context) (*domain.Task, error)

	// Get returns the task with the given ID, or ErrTaskNotFound if the ID
	// was never issued or the task has been evicted.
	Get(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Sweep removes every task created before now minus the retention
	// window, regardless of status, and returns the number removed.
	Sweep(retention time.Duration, now time.Time) int
}
