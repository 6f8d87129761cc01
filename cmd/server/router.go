package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vidquiz/vidquiz-api/internal/api"
	apiMiddleware "github.com/vidquiz/vidquiz-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	quizHandler := api.NewQuizHandler(app.taskStore, app.pipeline, app.limiter, app.logger)
	transcriptHandler := api.NewTranscriptHandler(app.extractor, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/quiz/generate", quizHandler.GenerateQuiz)
		r.Get("/quiz/status/{taskID}", quizHandler.GetStatus)
		r.Post("/transcript/extract", transcriptHandler.ExtractTranscript)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
