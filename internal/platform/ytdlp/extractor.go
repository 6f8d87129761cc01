// Package ytdlp implements the extraction.TranscriptExtractor interface by
// driving the yt-dlp tool: it downloads auto-generated subtitles for a video
// into a per-call temp directory, reads the produced SRT file, and cleans it
// into plain transcript text.
package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/vidquiz/vidquiz-api/internal/config"
	"github.com/vidquiz/vidquiz-api/internal/extraction"
)

// subtitleLanguages is the preference list passed to yt-dlp. English
// variants plus the auto-generated track.
const subtitleLanguages = "en,en-US,en-GB,en-CA,en-AU,en-NZ,en-auto"

// Extractor runs the yt-dlp binary to obtain cleaned transcripts.
type Extractor struct {
	logger     *slog.Logger
	binaryPath string
	tempDir    string

	// execCommand runs the tool and returns its combined output. Replaced
	// in tests.
	execCommand func(ctx context.Context, binary string, args []string) ([]byte, error)
}

// NewExtractor creates an Extractor from the given configuration.
func NewExtractor(logger *slog.Logger, cfg config.ExtractorConfig) (*Extractor, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.BinaryPath == "" {
		return nil, errors.New("extractor binary path cannot be empty")
	}

	return &Extractor{
		logger:     logger.With("component", "ytdlp_extractor"),
		binaryPath: cfg.BinaryPath,
		tempDir:    cfg.TempDir,
		execCommand: func(ctx context.Context, binary string, args []string) ([]byte, error) {
			return exec.CommandContext(ctx, binary, args...).CombinedOutput()
		},
	}, nil
}

// ExtractTranscript fetches and cleans the subtitles for the given video
// URL. Each call works in its own temp directory so concurrent extractions
// cannot pick up each other's files; the directory is removed before
// returning.
func (e *Extractor) ExtractTranscript(ctx context.Context, videoURL string) (string, error) {
	dir, err := os.MkdirTemp(e.tempDir, "vidquiz-subs-")
	if err != nil {
		return "", fmt.Errorf("%w: failed to create temp directory: %v", extraction.ErrExtractionFailed, err)
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			e.logger.Warn("failed to remove subtitle temp directory", "dir", dir, "error", rmErr)
		}
	}()

	args := []string{
		"--skip-download",
		"--write-auto-sub",
		"--sub-langs", subtitleLanguages,
		"--convert-subs", "srt",
		"--output", filepath.Join(dir, "%(title)s.%(ext)s"),
		videoURL,
	}

	logger := e.logger.With("video_id", videoIDForLogging(videoURL))
	logger.InfoContext(ctx, "extracting subtitles", "binary", e.binaryPath)

	output, err := e.execCommand(ctx, e.binaryPath, args)
	if err != nil {
		logger.ErrorContext(ctx, "yt-dlp execution failed",
			"error", err,
			"output", tail(string(output), 500))
		return "", fmt.Errorf("%w: yt-dlp failed: %v", extraction.ErrExtractionFailed, err)
	}

	subtitlePath, err := findSubtitleFile(dir)
	if err != nil {
		return "", err
	}

	raw, err := os.ReadFile(subtitlePath)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read subtitle file: %v", extraction.ErrExtractionFailed, err)
	}

	transcript := CleanSubtitleText(string(raw))
	if transcript == "" {
		return "", fmt.Errorf("%w: subtitle file contained no usable text", extraction.ErrNoSubtitles)
	}

	logger.InfoContext(ctx, "transcript extracted",
		"subtitle_file", filepath.Base(subtitlePath),
		"transcript_length", len(transcript))

	return transcript, nil
}

// findSubtitleFile locates the first .srt file yt-dlp produced in dir.
func findSubtitleFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("%w: failed to list subtitle directory: %v", extraction.ErrExtractionFailed, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".srt") {
			return filepath.Join(dir, entry.Name()), nil
		}
	}

	return "", extraction.ErrNoSubtitles
}

// videoIDForLogging extracts the 11-character video ID for log correlation.
// Returns "unknown" when the URL does not carry one.
func videoIDForLogging(url string) string {
	if id, ok := ExtractVideoID(url); ok {
		return id
	}
	return "unknown"
}

// tail returns the last n bytes of s.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

var _ extraction.TranscriptExtractor = (*Extractor)(nil)
