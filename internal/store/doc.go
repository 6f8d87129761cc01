// Package store defines the task registry abstraction and its in-memory
// implementation. The interface keeps the application's core logic
// independent of the storage mechanism, so the process-local map used here
// could later be swapped for an external cache without touching callers.
package store
