package domain

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the current stage of a generation task
type TaskStatus string

// The five ordered pipeline stages plus the failed terminal state.
// A task only ever moves forward through this sequence; completed and
// failed are terminal.
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusExtracting TaskStatus = "extracting"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusGenerating TaskStatus = "generating"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// statusRank orders the non-terminal stages so transitions can be checked
// for forward movement. Terminal states are handled separately.
var statusRank = map[TaskStatus]int{
	TaskStatusPending:    0,
	TaskStatusExtracting: 1,
	TaskStatusProcessing: 2,
	TaskStatusGenerating: 3,
}

// IsTerminal reports whether the status permits no further transitions.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// Common task transition errors
var (
	ErrTaskTerminal       = errors.New("task is in a terminal state")
	ErrInvalidTransition  = errors.New("invalid task status transition")
	ErrInvalidProgress    = errors.New("progress must be between 0 and 100")
	ErrProgressDecreased  = errors.New("progress cannot decrease")
	ErrNilQuiz            = errors.New("completed task requires a quiz result")
	ErrInvalidTaskStatus  = errors.New("invalid task status")
)

// Task is one trackable quiz-generation job. Exactly one pipeline goroutine
// owns its writes; readers take a Snapshot. The internal mutex makes that
// single-writer discipline safe in the presence of concurrent status reads
// and enforces that terminal states are immutable.
type Task struct {
	mu sync.Mutex

	id         uuid.UUID
	status     TaskStatus
	progress   int
	result     *Quiz
	errMsg     string
	createdAt  time.Time
	lastPolled time.Time
}

// NewTask creates a pending task with zero progress and the given creation
// time. The ID is a v4 UUID.
func NewTask(now time.Time) *Task {
	return &Task{
		id:        uuid.New(),
		status:    TaskStatusPending,
		progress:  0,
		createdAt: now,
	}
}

// ID returns the task's immutable identifier.
func (t *Task) ID() uuid.UUID {
	return t.id
}

// CreatedAt returns the task's creation time, used for expiry.
func (t *Task) CreatedAt() time.Time {
	return t.createdAt
}

// Advance moves the task to a later non-terminal stage with the given
// progress. It rejects terminal targets (use Complete or Fail), backward or
// repeated transitions, and progress regressions.
func (t *Task) Advance(status TaskStatus, progress int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status.IsTerminal() {
		return fmt.Errorf("%w: cannot advance from %s", ErrTaskTerminal, t.status)
	}

	rank, ok := statusRank[status]
	if !ok {
		return fmt.Errorf("%w: %q is not an advanceable stage", ErrInvalidTaskStatus, status)
	}

	if rank <= statusRank[t.status] {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.status, status)
	}

	if progress < 0 || progress > 100 {
		return fmt.Errorf("%w: got %d", ErrInvalidProgress, progress)
	}

	if progress < t.progress {
		return fmt.Errorf("%w: %d -> %d", ErrProgressDecreased, t.progress, progress)
	}

	t.status = status
	t.progress = progress
	return nil
}

// Complete transitions the task to the completed terminal state with the
// generated quiz and progress 100. Fails if the task is already terminal.
func (t *Task) Complete(quiz *Quiz) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status.IsTerminal() {
		return fmt.Errorf("%w: cannot complete from %s", ErrTaskTerminal, t.status)
	}

	if quiz == nil {
		return ErrNilQuiz
	}

	t.status = TaskStatusCompleted
	t.progress = 100
	t.result = quiz
	return nil
}

// Fail transitions the task to the failed terminal state with the given
// message. Progress is frozen at its last value so clients can see how far
// the pipeline got before it halted.
func (t *Task) Fail(message string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status.IsTerminal() {
		return fmt.Errorf("%w: cannot fail from %s", ErrTaskTerminal, t.status)
	}

	t.status = TaskStatusFailed
	t.errMsg = message
	return nil
}

// TouchPolled records a successful, non-rate-limited status read.
// Informational only; expiry is based on CreatedAt.
func (t *Task) TouchPolled(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastPolled = now
}

// TaskSnapshot is an immutable copy of a task's observable state at read
// time. Result is only set for completed tasks and Error only for failed
// ones; the quiz pointer is safe to share because a completed task is never
// mutated again.
type TaskSnapshot struct {
	ID         uuid.UUID
	Status     TaskStatus
	Progress   int
	Result     *Quiz
	Error      string
	CreatedAt  time.Time
	LastPolled time.Time
}

// Snapshot returns a consistent copy of the task's current state.
func (t *Task) Snapshot() TaskSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := TaskSnapshot{
		ID:         t.id,
		Status:     t.status,
		Progress:   t.progress,
		CreatedAt:  t.createdAt,
		LastPolled: t.lastPolled,
	}

	if t.status == TaskStatusCompleted {
		snap.Result = t.result
	}

	if t.status == TaskStatusFailed {
		snap.Error = t.errMsg
	}

	return snap
}
