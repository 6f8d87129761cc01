package extraction

import "errors"

// Common errors returned by transcript extractors
var (
	// ErrExtractionFailed is returned when the downloader tool fails or its
	// output cannot be read
	ErrExtractionFailed = errors.New("failed to extract subtitles from the video")

	// ErrNoSubtitles is returned when the tool ran but produced no subtitle
	// file, typically because the video has no captions in a supported language
	ErrNoSubtitles = errors.New("no subtitles available for this video")

	// ErrInvalidVideoURL is returned when the URL does not look like a
	// supported video link
	ErrInvalidVideoURL = errors.New("invalid video URL")
)
