// Package main implements quizctl, a small CLI for exercising a running
// vidquiz server: it submits a video, polls the task to completion, and
// prints the generated quiz.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/vidquiz/vidquiz-api/internal/client"
)

func main() {
	var (
		serverURL      = flag.String("server", "http://localhost:3000", "base URL of the vidquiz server")
		videoURL       = flag.String("video", "", "YouTube video URL (required)")
		transcriptOnly = flag.Bool("transcript", false, "extract the transcript only, skip quiz generation")
		timeout        = flag.Duration("timeout", 15*time.Minute, "overall timeout")
		initialDelay   = flag.Duration("initial-delay", 15*time.Second, "wait before the first status poll")
		interval       = flag.Duration("interval", 5*time.Second, "delay between status polls")
		verbose        = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *videoURL == "" {
		fmt.Fprintln(os.Stderr, "error: -video is required")
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, logger, *serverURL, *videoURL, *transcriptOnly, client.PollConfig{
		InitialDelay: *initialDelay,
		Interval:     *interval,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(
	ctx context.Context,
	logger *slog.Logger,
	serverURL string,
	videoURL string,
	transcriptOnly bool,
	pollConfig client.PollConfig,
) error {
	c, err := client.NewClient(serverURL, nil, logger)
	if err != nil {
		return err
	}

	if transcriptOnly {
		transcript, err := c.ExtractTranscript(ctx, videoURL)
		if err != nil {
			return err
		}
		fmt.Println(transcript)
		return nil
	}

	taskID, err := c.GenerateQuiz(ctx, videoURL)
	if err != nil {
		return err
	}
	fmt.Printf("Task %s accepted, waiting for the quiz...\n", taskID)

	poller, err := client.NewPoller(c, pollConfig, logger)
	if err != nil {
		return err
	}

	result, err := poller.Poll(ctx, taskID, func(status client.StatusResult) {
		fmt.Printf("  %-12s %3d%%\n", status.Status, status.Progress)
	})
	if err != nil {
		if errors.Is(err, client.ErrPollLimitReached) {
			return fmt.Errorf("gave up waiting for task %s: %w", taskID, err)
		}
		return err
	}

	if result.Error != "" {
		return fmt.Errorf("quiz generation failed: %s", result.Error)
	}
	if result.Result == nil {
		return fmt.Errorf("task %s completed without a quiz", taskID)
	}

	printQuiz(result)
	return nil
}

func printQuiz(result *client.StatusResult) {
	fmt.Printf("\nQuiz for task %s (%d questions)\n\n", result.TaskID, len(result.Result.Questions))
	for i, q := range result.Result.Questions {
		fmt.Printf("%2d. %s\n", i+1, q.Question)
		for j, opt := range q.Options {
			marker := " "
			if j == q.CorrectAnswer {
				marker = "*"
			}
			fmt.Printf("    %s %c) %s\n", marker, 'a'+rune(j), opt)
		}
		fmt.Println()
	}
}
