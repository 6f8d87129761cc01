package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when quiz generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate quiz from transcript")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed
	// or does not satisfy the quiz structure requirements
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during quiz generation")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrTranscriptTooShort is returned when the transcript is too short or
	// empty to generate a meaningful quiz
	ErrTranscriptTooShort = errors.New("transcript is too short or empty to generate a meaningful quiz")
)
