package store

import "errors"

// Common store errors.
var (
	// ErrTaskNotFound is returned when the requested task ID was never
	// issued or the task has been evicted by the sweep. Callers must treat
	// this as distinct from any valid task status.
	ErrTaskNotFound = errors.New("task not found")
)
