// Package extraction provides the interface and error taxonomy for obtaining
// a cleaned transcript from a video URL. The concrete implementation drives
// an external downloader tool; this package keeps the task pipeline
// independent of how subtitles are actually fetched.
package extraction

import "context"

// TranscriptExtractor defines the interface for extracting the spoken
// content of a video as cleaned plain text.
type TranscriptExtractor interface {
	// ExtractTranscript fetches and cleans the subtitles for the given
	// video URL. Returns the transcript text, or an error wrapping one of
	// the sentinels in errors.go when extraction fails.
	ExtractTranscript(ctx context.Context, videoURL string) (string, error)
}
