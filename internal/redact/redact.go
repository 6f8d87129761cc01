// Package redact scrubs sensitive information from strings before they are
// logged. Errors bubbling up from the Gemini client or the yt-dlp process
// can embed API keys, request URLs, or local file paths; this package keeps
// them out of the log stream.
package redact

import "regexp"

// Redaction placeholders
const (
	RedactedKeyPlaceholder  = "[REDACTED_KEY]"
	RedactedPathPlaceholder = "[REDACTED_PATH]"
	RedactedURLPlaceholder  = "[REDACTED_URL]"
)

var (
	// API keys and tokens appearing as key=value or header-style fragments.
	apiKeyRegex = regexp.MustCompile(
		`(?i)(api[_-]?key|token|secret|key|auth)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`,
	)

	// Google API keys have a recognizable prefix and can show up verbatim
	// inside request URLs echoed by client errors.
	googleKeyRegex = regexp.MustCompile(`\bAIza[A-Za-z0-9_-]{30,}\b`)

	// Query strings carrying a key parameter.
	keyParamRegex = regexp.MustCompile(`(?i)([?&]key=)[^&\s]+`)

	// Local filesystem paths from subtitle temp files or template overrides.
	unixPathRegex = regexp.MustCompile(`(/[\w.-]+){2,}`)

	rules = []struct {
		pattern     *regexp.Regexp
		placeholder string
	}{
		{apiKeyRegex, "$1$2" + RedactedKeyPlaceholder},
		{googleKeyRegex, RedactedKeyPlaceholder},
		{keyParamRegex, "$1" + RedactedURLPlaceholder},
		{unixPathRegex, RedactedPathPlaceholder},
	}
)

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, rule := range rules {
		result = rule.pattern.ReplaceAllString(result, rule.placeholder)
	}

	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
