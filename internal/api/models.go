package api

import (
	"github.com/vidquiz/vidquiz-api/internal/domain"
)

// GenerateQuizRequest is the payload for POST /api/quiz/generate.
type GenerateQuizRequest struct {
	VideoURL string `json:"videoUrl" validate:"required"`
}

// GenerateQuizResponse acknowledges an accepted generation request. The
// task starts in the pending state and callers poll the status endpoint
// with the returned ID.
type GenerateQuizResponse struct {
	TaskID  string `json:"taskId"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// StatusResponse reports a task's progress through the generation
// pipeline. Result is present only once the task has completed, and Error
// only once it has failed.
type StatusResponse struct {
	TaskID   string       `json:"taskId"`
	Status   string       `json:"status"`
	Progress int          `json:"progress"`
	Result   *domain.Quiz `json:"result,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// ExtractTranscriptRequest is the payload for POST /api/transcript/extract.
type ExtractTranscriptRequest struct {
	VideoURL string `json:"videoUrl" validate:"required"`
}

// ExtractTranscriptResponse carries the cleaned transcript text.
type ExtractTranscriptResponse struct {
	Transcript string `json:"transcript"`
}
