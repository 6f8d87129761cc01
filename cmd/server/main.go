// Package main implements the entry point for the vidquiz API server,
// which turns YouTube videos into multiple-choice quizzes through
// transcript extraction and LLM generation.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/vidquiz/vidquiz-api/internal/config"
	"github.com/vidquiz/vidquiz-api/internal/platform/logger"
)

func main() {
	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.startHTTPServer(context.Background(), app.setupRouter()); err != nil {
		slog.Error("Server exited with error", "error", err)
		app.cleanup()
		log.Fatal(err)
	}
}

// initializeApp loads configuration, sets up logging, and wires the
// application's components together.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"model", cfg.LLM.ModelName,
		"task_retention", cfg.Tasks.Retention.String())

	app, err := newApplication(context.Background(), cfg, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to build application: %w", err)
	}

	return app, nil
}
