package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vidquiz/vidquiz-api/internal/config"
	"github.com/vidquiz/vidquiz-api/internal/platform/gemini"
	"github.com/vidquiz/vidquiz-api/internal/platform/ytdlp"
	"github.com/vidquiz/vidquiz-api/internal/ratelimit"
	"github.com/vidquiz/vidquiz-api/internal/store"
	"github.com/vidquiz/vidquiz-api/internal/task"
)

// application holds the server's wired dependencies.
type application struct {
	config *config.Config
	logger *slog.Logger

	taskStore store.TaskStore
	limiter   *ratelimit.Limiter
	sweeper   *store.Sweeper
	pipeline  *task.Pipeline
	extractor *ytdlp.Extractor
}

// newApplication constructs every component from configuration. The
// sweeper is started here; cleanup stops it and drains in-flight pipeline
// work.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (*application, error) {
	extractor, err := ytdlp.NewExtractor(logger, cfg.Extractor)
	if err != nil {
		return nil, fmt.Errorf("failed to create transcript extractor: %w", err)
	}

	generator, err := gemini.NewGeminiGenerator(ctx, logger, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create quiz generator: %w", err)
	}

	pipeline, err := task.NewPipeline(extractor, generator, task.PipelineConfig{
		PacingDelay:     cfg.Tasks.PacingDelay,
		ExtractTimeout:  cfg.Tasks.ExtractTimeout,
		GenerateTimeout: cfg.Tasks.GenerateTimeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}

	taskStore := store.NewMemoryTaskStore(logger)
	limiter := ratelimit.NewLimiter(
		cfg.RateLimit.Window,
		cfg.RateLimit.ActiveLimit,
		cfg.RateLimit.TerminalLimit,
	)

	// Rate-limit windows expire on the same cadence as tasks.
	sweeper := store.NewSweeper(
		taskStore,
		cfg.Tasks.SweepInterval,
		cfg.Tasks.Retention,
		logger,
		limiter,
	)
	sweeper.Start()

	return &application{
		config:    cfg,
		logger:    logger,
		taskStore: taskStore,
		limiter:   limiter,
		sweeper:   sweeper,
		pipeline:  pipeline,
		extractor: extractor,
	}, nil
}

// cleanup stops background work. In-flight generation tasks are allowed to
// finish so their outcome is recorded before the process exits.
func (app *application) cleanup() {
	app.sweeper.Stop()
	app.pipeline.Wait()
}
