package ytdlp

import (
	"regexp"
	"strings"
)

var (
	counterLineRegex   = regexp.MustCompile(`^\d+$`)
	timestampLineRegex = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}`)
	speakerPrefixRegex = regexp.MustCompile(`^&gt;&gt;\s*`)
	htmlTagRegex       = regexp.MustCompile(`<[^>]*>`)
	whitespaceRegex    = regexp.MustCompile(`\s+`)

	videoIDRegex = regexp.MustCompile(
		`(?i)(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`,
	)
)

// CleanSubtitleText converts raw SRT subtitle content into a single line of
// plain transcript text: sequence counters, timestamps, markup, and the
// repeated lines auto-generated captions are full of are all removed.
func CleanSubtitleText(srt string) string {
	lines := strings.Split(srt, "\n")

	// First pass: drop structural lines.
	filtered := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || skipLine(line) {
			continue
		}
		filtered = append(filtered, line)
	}

	// Second pass: drop exact duplicates, keeping first-seen order.
	// Auto-generated captions repeat each line as the cue window scrolls.
	seen := make(map[string]struct{}, len(filtered))
	unique := filtered[:0]
	for _, line := range filtered {
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		unique = append(unique, line)
	}

	// Third pass: strip speaker prefixes and markup, then normalize
	// whitespace.
	cleaned := make([]string, 0, len(unique))
	for _, line := range unique {
		line = speakerPrefixRegex.ReplaceAllString(line, "")
		line = htmlTagRegex.ReplaceAllString(line, "")
		line = strings.TrimSpace(whitespaceRegex.ReplaceAllString(line, " "))
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	result := strings.Join(cleaned, " ")
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(result, " "))
}

// skipLine reports whether the line is SRT structure rather than speech.
func skipLine(line string) bool {
	if strings.Contains(line, "-->") ||
		strings.Contains(line, "</c>") ||
		strings.Contains(line, "WEBVTT") {
		return true
	}

	return counterLineRegex.MatchString(line) || timestampLineRegex.MatchString(line)
}

// ExtractVideoID pulls the 11-character video ID out of a YouTube URL in any
// of the common forms (watch, youtu.be, embed, /v/). The second return value
// is false when no ID is present.
func ExtractVideoID(url string) (string, bool) {
	match := videoIDRegex.FindStringSubmatch(url)
	if match == nil {
		return "", false
	}
	return match[1], true
}
