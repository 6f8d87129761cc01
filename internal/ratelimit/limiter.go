// Package ratelimit implements the per-task fixed-window limiter that
// throttles status polling. In-flight tasks tolerate frequent polls; tasks
// in a terminal state get a much lower ceiling because a well-behaved client
// stops polling as soon as it observes one.
package ratelimit

import (
	"math"
	"sync"
	"time"
)

// Default limiter settings.
const (
	DefaultWindow        = time.Minute
	DefaultActiveLimit   = 35
	DefaultTerminalLimit = 10
)

// Decision is the outcome of a limiter check. When Allowed is false,
// RetryAfter carries the time remaining until the window resets, rounded up
// to whole seconds for the client-facing retryAfter field.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// RetryAfterSeconds returns the retry hint as whole seconds, rounded up.
func (d Decision) RetryAfterSeconds() int {
	return int(math.Ceil(d.RetryAfter.Seconds()))
}

type window struct {
	count     int
	resetTime time.Time
}

// Limiter tracks one fixed window per task ID. Windows are created lazily on
// first check, reset in place once their time passes, and swept on the same
// background interval as the task store.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window

	windowLen     time.Duration
	activeLimit   int
	terminalLimit int
}

// NewLimiter creates a limiter with the given window length and per-window
// ceilings for active and terminal tasks. Non-positive arguments fall back
// to the defaults.
func NewLimiter(windowLen time.Duration, activeLimit, terminalLimit int) *Limiter {
	if windowLen <= 0 {
		windowLen = DefaultWindow
	}
	if activeLimit <= 0 {
		activeLimit = DefaultActiveLimit
	}
	if terminalLimit <= 0 {
		terminalLimit = DefaultTerminalLimit
	}

	return &Limiter{
		windows:       make(map[string]*window),
		windowLen:     windowLen,
		activeLimit:   activeLimit,
		terminalLimit: terminalLimit,
	}
}

// Check records one status read for the given task ID and reports whether it
// is within budget. terminal selects the lower ceiling applied to completed
// and failed tasks.
func (l *Limiter) Check(taskID string, terminal bool, now time.Time) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[taskID]
	if !ok || now.After(w.resetTime) {
		w = &window{resetTime: now.Add(l.windowLen)}
		l.windows[taskID] = w
	}

	w.count++

	limit := l.activeLimit
	if terminal {
		limit = l.terminalLimit
	}

	if w.count > limit {
		return Decision{
			Allowed:    false,
			RetryAfter: w.resetTime.Sub(now),
		}
	}

	return Decision{Allowed: true}
}

// Sweep drops windows whose reset time has passed and returns the number
// removed. Runs independently of task existence.
func (l *Limiter) Sweep(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for id, w := range l.windows {
		if now.After(w.resetTime) {
			delete(l.windows, id)
			removed++
		}
	}

	return removed
}
