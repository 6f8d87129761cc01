package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vidquiz/vidquiz-api/internal/api/shared"
	"github.com/vidquiz/vidquiz-api/internal/domain"
	"github.com/vidquiz/vidquiz-api/internal/ratelimit"
	"github.com/vidquiz/vidquiz-api/internal/store"
)

// TaskStarter launches the generation pipeline for a task. Satisfied by
// task.Pipeline.
type TaskStarter interface {
	Start(task *domain.Task, videoURL string)
}

// QuizHandler serves quiz generation submissions and status polls.
type QuizHandler struct {
	store    store.TaskStore
	pipeline TaskStarter
	limiter  *ratelimit.Limiter
	logger   *slog.Logger

	// Clock hook for tests.
	now func() time.Time
}

// NewQuizHandler creates a QuizHandler with the given dependencies.
func NewQuizHandler(
	taskStore store.TaskStore,
	pipeline TaskStarter,
	limiter *ratelimit.Limiter,
	logger *slog.Logger,
) *QuizHandler {
	return &QuizHandler{
		store:    taskStore,
		pipeline: pipeline,
		limiter:  limiter,
		logger:   logger.With(slog.String("component", "quiz_handler")),
		now:      time.Now,
	}
}

// GenerateQuiz handles POST /api/quiz/generate. It registers a new task,
// kicks off the pipeline in the background, and returns the task ID
// immediately. The video URL is not validated here; extraction failures
// surface through the task's failed state.
func (h *QuizHandler) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With(slog.String("trace_id", shared.GetTraceID(r.Context())))

	var req GenerateQuizRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("failed to decode generate request", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Video URL is required")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Video URL is required")
		return
	}

	task, err := h.store.Create(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to start quiz generation", err)
		return
	}

	h.pipeline.Start(task, req.VideoURL)

	log.Info("quiz generation task accepted",
		slog.String("task_id", task.ID().String()))

	shared.RespondWithJSON(w, r, http.StatusOK, GenerateQuizResponse{
		TaskID:  task.ID().String(),
		Status:  string(domain.TaskStatusPending),
		Message: "Quiz generation started. Use the task ID to check progress.",
	})
}

// GetStatus handles GET /api/quiz/status/{taskID}. Unknown or malformed
// task IDs return 404; IDs the store has swept behave identically, so a
// poller cannot distinguish an expired task from one that never existed.
// Reads beyond the per-task rate limit return 429 with a retryAfter hint.
func (h *QuizHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "taskID")

	taskID, err := uuid.Parse(idParam)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return
	}

	task, err := h.store.Get(r.Context(), taskID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to retrieve task status", err)
		return
	}

	now := h.now()
	snap := task.Snapshot()

	decision := h.limiter.Check(taskID.String(), snap.Status.IsTerminal(), now)
	if !decision.Allowed {
		h.logger.Warn("status poll rate limited",
			slog.String("trace_id", shared.GetTraceID(r.Context())),
			slog.String("task_id", taskID.String()),
			slog.Int("retry_after_seconds", decision.RetryAfterSeconds()))
		shared.RespondWithJSON(w, r, http.StatusTooManyRequests, shared.ErrorResponse{
			Error:      "Too many status requests. Please wait before checking again.",
			RetryAfter: decision.RetryAfterSeconds(),
			TraceID:    shared.GetTraceID(r.Context()),
		})
		return
	}

	task.TouchPolled(now)

	shared.RespondWithJSON(w, r, http.StatusOK, StatusResponse{
		TaskID:   snap.ID.String(),
		Status:   string(snap.Status),
		Progress: snap.Progress,
		Result:   snap.Result,
		Error:    snap.Error,
	})
}
