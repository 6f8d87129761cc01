package domain

import (
	"errors"
	"fmt"
)

// Structural requirements for a generated quiz. The LLM is prompted for
// exactly this shape and anything else is rejected as an invalid response.
const (
	QuestionsPerQuiz   = 10
	OptionsPerQuestion = 4
)

// Common validation errors for Quiz
var (
	ErrQuizQuestionCount  = fmt.Errorf("quiz must contain exactly %d questions", QuestionsPerQuiz)
	ErrQuizOptionCount    = fmt.Errorf("question must contain exactly %d options", OptionsPerQuestion)
	ErrQuizAnswerRange    = errors.New("correct answer index out of range")
	ErrQuizEmptyQuestion  = errors.New("question text cannot be empty")
	ErrQuizEmptyOption    = errors.New("option text cannot be empty")
)

// Question is a single multiple-choice question. CorrectAnswer is the
// zero-based index into Options. JSON field names match the wire format
// returned to polling clients.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// Quiz is the result of a completed generation task: an ordered sequence of
// exactly QuestionsPerQuiz questions.
type Quiz struct {
	Questions []Question `json:"questions"`
}

// Validate checks the quiz against the structural requirements.
// Returns an error describing the first violation found.
func (q *Quiz) Validate() error {
	if len(q.Questions) != QuestionsPerQuiz {
		return fmt.Errorf("%w: got %d", ErrQuizQuestionCount, len(q.Questions))
	}

	for i, question := range q.Questions {
		if question.Question == "" {
			return fmt.Errorf("%w: question %d", ErrQuizEmptyQuestion, i)
		}

		if len(question.Options) != OptionsPerQuestion {
			return fmt.Errorf("%w: question %d has %d", ErrQuizOptionCount, i, len(question.Options))
		}

		for j, opt := range question.Options {
			if opt == "" {
				return fmt.Errorf("%w: question %d option %d", ErrQuizEmptyOption, i, j)
			}
		}

		if question.CorrectAnswer < 0 || question.CorrectAnswer >= OptionsPerQuestion {
			return fmt.Errorf("%w: question %d has index %d", ErrQuizAnswerRange, i, question.CorrectAnswer)
		}
	}

	return nil
}
