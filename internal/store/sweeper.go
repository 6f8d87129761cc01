package store

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// TimedSweeper is implemented by auxiliary stores that expire entries purely
// by time, such as the rate-limit window map. They are swept on the same
// interval as the task store, independently of task existence.
type TimedSweeper interface {
	Sweep(now time.Time) int
}

// Sweeper periodically evicts expired tasks and auxiliary store entries.
// The sweep itself is a fast key/time comparison so it never starves the
// pipelines sharing the scheduler.
type Sweeper struct {
	store     TaskStore
	extras    []TimedSweeper
	interval  time.Duration
	retention time.Duration

	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	logger     *slog.Logger
}

// NewSweeper creates a sweeper for the given task store. Any extras are
// swept with the same cadence.
func NewSweeper(
	store TaskStore,
	interval time.Duration,
	retention time.Duration,
	logger *slog.Logger,
	extras ...TimedSweeper,
) *Sweeper {
	ctx, cancel := context.WithCancel(context.Background())

	return &Sweeper{
		store:      store,
		extras:     extras,
		interval:   interval,
		retention:  retention,
		ctx:        ctx,
		cancelFunc: cancel,
		logger:     logger.With("component", "sweeper"),
	}
}

// Start begins the background sweep loop.
func (s *Sweeper) Start() {
	s.wg.Add(1)
	go s.run()
}

// Stop cancels the sweep loop and waits for it to exit.
func (s *Sweeper) Stop() {
	s.cancelFunc()
	s.wg.Wait()
}

func (s *Sweeper) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("sweeper started",
		"interval", s.interval,
		"retention", s.retention)

	for {
		select {
		case <-s.ctx.Done():
			s.logger.Debug("sweeper stopped")
			return

		case now := <-ticker.C:
			s.sweepOnce(now.UTC())
		}
	}
}

func (s *Sweeper) sweepOnce(now time.Time) {
	removed := s.store.Sweep(s.retention, now)

	extra := 0
	for _, sw := range s.extras {
		extra += sw.Sweep(now)
	}

	s.logger.Debug("sweep cycle finished",
		"tasks_removed", removed,
		"aux_entries_removed", extra)
}
