package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrPollLimitReached indicates the task was still running after the
// maximum number of status polls. The task itself may still finish on the
// server; the poller just stopped watching.
var ErrPollLimitReached = errors.New("poll attempt limit reached before task finished")

// StatusClient is the slice of Client the poller needs.
type StatusClient interface {
	GetStatus(ctx context.Context, taskID string) (*StatusResult, error)
}

// PollConfig controls the polling cadence.
type PollConfig struct {
	// InitialDelay is how long to wait before the first poll. Generation
	// never finishes instantly, so polling immediately only burns rate
	// limit budget.
	InitialDelay time.Duration

	// Interval is the delay between consecutive polls.
	Interval time.Duration

	// RateLimitBackoff is the minimum wait after a 429 response. The
	// server's retryAfter hint is used instead when it is longer.
	RateLimitBackoff time.Duration

	// MaxAttempts caps the number of counted polls before giving up with
	// ErrPollLimitReached. Rate-limited polls do not count.
	MaxAttempts int
}

// DefaultPollConfig returns the standard polling cadence.
func DefaultPollConfig() PollConfig {
	return PollConfig{
		InitialDelay:     15 * time.Second,
		Interval:         5 * time.Second,
		RateLimitBackoff: 15 * time.Second,
		MaxAttempts:      120,
	}
}

// Poller watches a task until it reaches a terminal state.
type Poller struct {
	client StatusClient
	config PollConfig
	logger *slog.Logger
}

// NewPoller creates a Poller. Zero-valued config fields get defaults.
func NewPoller(client StatusClient, config PollConfig, logger *slog.Logger) (*Poller, error) {
	if client == nil {
		return nil, errors.New("status client cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	defaults := DefaultPollConfig()
	if config.InitialDelay <= 0 {
		config.InitialDelay = defaults.InitialDelay
	}
	if config.Interval <= 0 {
		config.Interval = defaults.Interval
	}
	if config.RateLimitBackoff <= 0 {
		config.RateLimitBackoff = defaults.RateLimitBackoff
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = defaults.MaxAttempts
	}

	return &Poller{
		client: client,
		config: config,
		logger: logger.With(slog.String("component", "poller")),
	}, nil
}

// Poll blocks until the task reaches a terminal state, the attempt limit
// is exhausted, or the context is cancelled. Polls run strictly
// sequentially. onProgress, if non-nil, is invoked after every successful
// non-terminal poll. A failed task is not an error here: the returned
// StatusResult carries the failure and the caller decides what to do.
func (p *Poller) Poll(
	ctx context.Context,
	taskID string,
	onProgress func(StatusResult),
) (*StatusResult, error) {
	log := p.logger.With(slog.String("task_id", taskID))

	if err := wait(ctx, p.config.InitialDelay); err != nil {
		return nil, err
	}

	attempts := 0
	for attempts < p.config.MaxAttempts {
		result, err := p.client.GetStatus(ctx, taskID)
		if err != nil {
			var rateLimited *RateLimitedError
			if errors.As(err, &rateLimited) {
				backoff := p.config.RateLimitBackoff
				if rateLimited.RetryAfter > backoff {
					backoff = rateLimited.RetryAfter
				}
				log.Debug("status poll rate limited",
					slog.Duration("backoff", backoff))
				if err := wait(ctx, backoff); err != nil {
					return nil, err
				}
				continue
			}
			if errors.Is(err, ErrTaskNotFound) || ctx.Err() != nil {
				return nil, err
			}

			// Transient transport errors consume an attempt but keep
			// polling at the normal cadence.
			attempts++
			log.Debug("status poll failed",
				slog.String("error", err.Error()),
				slog.Int("attempts", attempts))
			if err := wait(ctx, p.config.Interval); err != nil {
				return nil, err
			}
			continue
		}

		attempts++

		if result.Terminal() {
			log.Debug("task reached terminal state",
				slog.String("status", string(result.Status)),
				slog.Int("attempts", attempts))
			return result, nil
		}

		if onProgress != nil {
			onProgress(*result)
		}

		if err := wait(ctx, p.config.Interval); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w after %d attempts", ErrPollLimitReached, p.config.MaxAttempts)
}

// wait sleeps for d or until the context is cancelled.
func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
