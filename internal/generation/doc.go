// Package generation provides the interface and error taxonomy for quiz
// generation via an external LLM service. It abstracts the details of the
// LLM API integration (Gemini), allowing the task pipeline to turn a
// transcript into a quiz without coupling to a specific provider.
package generation
