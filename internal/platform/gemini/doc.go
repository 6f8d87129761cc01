// Package gemini implements the generation.QuizGenerator interface using
// Google's Gemini API. It owns the prompt construction, the retry policy for
// transient API failures, and the strict validation of the quiz JSON the
// model returns.
package gemini
