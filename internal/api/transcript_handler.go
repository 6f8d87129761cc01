package api

import (
	"log/slog"
	"net/http"
	"regexp"

	"github.com/vidquiz/vidquiz-api/internal/api/shared"
	"github.com/vidquiz/vidquiz-api/internal/extraction"
)

// youtubeURLPattern accepts youtube.com and youtu.be URLs, with or without
// a scheme or www prefix. Anything else is rejected before the extractor
// is invoked.
var youtubeURLPattern = regexp.MustCompile(`^(https?://)?(www\.)?(youtube\.com|youtu\.be)/.+$`)

// TranscriptHandler serves synchronous transcript extraction requests.
type TranscriptHandler struct {
	extractor extraction.TranscriptExtractor
	logger    *slog.Logger
}

// NewTranscriptHandler creates a TranscriptHandler with the given extractor.
func NewTranscriptHandler(extractor extraction.TranscriptExtractor, logger *slog.Logger) *TranscriptHandler {
	return &TranscriptHandler{
		extractor: extractor,
		logger:    logger.With(slog.String("component", "transcript_handler")),
	}
}

// ExtractTranscript handles POST /api/transcript/extract. Unlike quiz
// generation this runs inline: the response blocks until extraction
// finishes or fails.
func (h *TranscriptHandler) ExtractTranscript(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With(slog.String("trace_id", shared.GetTraceID(r.Context())))

	var req ExtractTranscriptRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("failed to decode extract request", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Video URL is required")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Video URL is required")
		return
	}
	if !youtubeURLPattern.MatchString(req.VideoURL) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid YouTube URL")
		return
	}

	transcript, err := h.extractor.ExtractTranscript(r.Context(), req.VideoURL)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to extract subtitles", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ExtractTranscriptResponse{
		Transcript: transcript,
	})
}
