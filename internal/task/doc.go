// Package task drives the quiz-generation pipeline for a single task: it
// advances the task through its fixed stage sequence in the background,
// invokes the transcript extraction and quiz generation collaborators, and
// records the terminal outcome. Submission never blocks on the pipeline and
// never receives errors from it; all state is observed through the task
// store.
package task
