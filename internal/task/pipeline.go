package task

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/vidquiz/vidquiz-api/internal/domain"
	"github.com/vidquiz/vidquiz-api/internal/extraction"
	"github.com/vidquiz/vidquiz-api/internal/generation"
)

// Stage progress values. Progress jumps to the stage's value when the stage
// begins, so a slow poller may skip intermediate values entirely.
const (
	progressExtracting = 20
	progressProcessing = 40
	progressGenerating = 60
)

// genericFailureMessage is used when a collaborator error carries no message.
const genericFailureMessage = "unknown error occurred"

// Common construction errors
var (
	ErrNilExtractor = errors.New("transcript extractor cannot be nil")
	ErrNilGenerator = errors.New("quiz generator cannot be nil")
	ErrNilLogger    = errors.New("logger cannot be nil")
)

// PipelineConfig holds tuning knobs for the stage pipeline.
type PipelineConfig struct {
	// PacingDelay is the minimum pause between the processing and
	// generating stages. A UX-smoothing device, not a correctness
	// requirement; zero disables it.
	PacingDelay time.Duration

	// ExtractTimeout and GenerateTimeout bound the collaborator calls so a
	// hung external process fails the task instead of stalling it until
	// the sweep evicts it. Zero disables the bound.
	ExtractTimeout  time.Duration
	GenerateTimeout time.Duration
}

// DefaultPipelineConfig returns a PipelineConfig with reasonable defaults.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		PacingDelay:     500 * time.Millisecond,
		ExtractTimeout:  5 * time.Minute,
		GenerateTimeout: 2 * time.Minute,
	}
}

// Pipeline runs the fixed stage sequence for quiz-generation tasks. One
// Pipeline serves all tasks; each Start spawns a goroutine that is the sole
// writer of its task.
type Pipeline struct {
	extractor extraction.TranscriptExtractor
	generator generation.QuizGenerator
	config    PipelineConfig
	logger    *slog.Logger
	wg        sync.WaitGroup
}

// NewPipeline creates a Pipeline with the given collaborators.
func NewPipeline(
	extractor extraction.TranscriptExtractor,
	generator generation.QuizGenerator,
	config PipelineConfig,
	logger *slog.Logger,
) (*Pipeline, error) {
	if extractor == nil {
		return nil, ErrNilExtractor
	}
	if generator == nil {
		return nil, ErrNilGenerator
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	return &Pipeline{
		extractor: extractor,
		generator: generator,
		config:    config,
		logger:    logger.With("component", "pipeline"),
	}, nil
}

// Start begins processing the task in the background and returns
// immediately. The caller already holds the task ID to report back to its
// client; every later outcome, success or failure, is communicated only by
// mutating the shared task.
func (p *Pipeline) Start(task *domain.Task, videoURL string) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.run(context.Background(), task, videoURL)
	}()
}

// Wait blocks until every started pipeline has reached a terminal state.
// Used during shutdown.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}

func (p *Pipeline) run(ctx context.Context, task *domain.Task, videoURL string) {
	logger := p.logger.With("task_id", task.ID())

	// Stage 1: extract subtitles.
	if err := task.Advance(domain.TaskStatusExtracting, progressExtracting); err != nil {
		logger.Error("failed to advance task to extracting", "error", err)
		return
	}
	logger.Info("extracting subtitles")

	transcript, err := p.extract(ctx, videoURL)
	if err != nil {
		p.failTask(task, logger, err)
		return
	}

	// Stage 2: process transcript. The text arrives already cleaned from
	// the extractor; the pacing delay keeps the stage visible to pollers.
	if err := task.Advance(domain.TaskStatusProcessing, progressProcessing); err != nil {
		logger.Error("failed to advance task to processing", "error", err)
		return
	}
	logger.Info("processing transcript", "transcript_length", len(transcript))

	if p.config.PacingDelay > 0 {
		time.Sleep(p.config.PacingDelay)
	}

	// Stage 3: generate the quiz.
	if err := task.Advance(domain.TaskStatusGenerating, progressGenerating); err != nil {
		logger.Error("failed to advance task to generating", "error", err)
		return
	}
	logger.Info("generating quiz")

	quiz, err := p.generate(ctx, transcript)
	if err != nil {
		p.failTask(task, logger, err)
		return
	}

	if err := task.Complete(quiz); err != nil {
		logger.Error("failed to complete task", "error", err)
		return
	}
	logger.Info("task completed successfully", "question_count", len(quiz.Questions))
}

func (p *Pipeline) extract(ctx context.Context, videoURL string) (string, error) {
	if p.config.ExtractTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.ExtractTimeout)
		defer cancel()
	}

	return p.extractor.ExtractTranscript(ctx, videoURL)
}

func (p *Pipeline) generate(ctx context.Context, transcript string) (*domain.Quiz, error) {
	if p.config.GenerateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.GenerateTimeout)
		defer cancel()
	}

	return p.generator.GenerateQuiz(ctx, transcript)
}

// failTask records a collaborator failure as the task's terminal state.
// Nothing propagates to the submission call site; a failed task is
// permanently failed and the client must submit a new request to retry.
func (p *Pipeline) failTask(task *domain.Task, logger *slog.Logger, cause error) {
	message := genericFailureMessage
	if cause != nil && cause.Error() != "" {
		message = cause.Error()
	}

	if err := task.Fail(message); err != nil {
		logger.Error("failed to record task failure", "error", err, "cause", cause)
		return
	}

	logger.Error("task failed", "error", cause)
}
