package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterActiveCeiling(t *testing.T) {
	t.Parallel()

	l := NewLimiter(time.Minute, 35, 10)
	now := time.Now().UTC()

	// The first 35 reads of an active task within one window succeed.
	for i := 0; i < 35; i++ {
		d := l.Check("task-a", false, now)
		require.True(t, d.Allowed, "read %d should be allowed", i+1)
	}

	// The 36th is rejected with retry guidance.
	d := l.Check("task-a", false, now)
	assert.False(t, d.Allowed)
	assert.Equal(t, 60, d.RetryAfterSeconds())
}

func TestLimiterTerminalCeiling(t *testing.T) {
	t.Parallel()

	l := NewLimiter(time.Minute, 35, 10)
	now := time.Now().UTC()

	for i := 0; i < 10; i++ {
		d := l.Check("task-b", true, now)
		require.True(t, d.Allowed, "read %d should be allowed", i+1)
	}

	// The 11th read within the window from first read is rejected.
	d := l.Check("task-b", true, now)
	assert.False(t, d.Allowed)
	assert.Greater(t, d.RetryAfterSeconds(), 0)
}

func TestLimiterWindowReset(t *testing.T) {
	t.Parallel()

	l := NewLimiter(time.Minute, 35, 10)
	now := time.Now().UTC()

	for i := 0; i < 11; i++ {
		l.Check("task-c", true, now)
	}
	require.False(t, l.Check("task-c", true, now).Allowed)

	// The first read of a new window after reset succeeds.
	later := now.Add(61 * time.Second)
	d := l.Check("task-c", true, later)
	assert.True(t, d.Allowed)
}

func TestLimiterRetryAfterCountsDown(t *testing.T) {
	t.Parallel()

	l := NewLimiter(time.Minute, 1, 1)
	now := time.Now().UTC()

	require.True(t, l.Check("task-d", false, now).Allowed)

	d := l.Check("task-d", false, now.Add(45*time.Second))
	require.False(t, d.Allowed)
	assert.Equal(t, 15, d.RetryAfterSeconds())
}

func TestLimiterTracksTasksIndependently(t *testing.T) {
	t.Parallel()

	l := NewLimiter(time.Minute, 2, 2)
	now := time.Now().UTC()

	require.True(t, l.Check("task-e", false, now).Allowed)
	require.True(t, l.Check("task-e", false, now).Allowed)
	require.False(t, l.Check("task-e", false, now).Allowed)

	// A different task has its own window.
	assert.True(t, l.Check("task-f", false, now).Allowed)
}

func TestLimiterSweep(t *testing.T) {
	t.Parallel()

	l := NewLimiter(time.Minute, 35, 10)
	now := time.Now().UTC()

	l.Check("stale", false, now)
	l.Check("live", false, now.Add(30*time.Second))

	// Only windows past their reset time are dropped.
	removed := l.Sweep(now.Add(70 * time.Second))
	assert.Equal(t, 1, removed)

	assert.Equal(t, 1, len(l.windows))
}

func TestLimiterDefaults(t *testing.T) {
	t.Parallel()

	l := NewLimiter(0, 0, 0)
	assert.Equal(t, DefaultWindow, l.windowLen)
	assert.Equal(t, DefaultActiveLimit, l.activeLimit)
	assert.Equal(t, DefaultTerminalLimit, l.terminalLimit)
}
