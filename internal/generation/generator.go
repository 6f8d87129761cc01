package generation

import (
	"context"

	"github.com/vidquiz/vidquiz-api/internal/domain"
)

// QuizGenerator defines the interface for producing a multiple-choice quiz
// from transcript text. It is the boundary between the task pipeline and the
// external LLM service.
type QuizGenerator interface {
	// GenerateQuiz creates a quiz from the given transcript text.
	// The returned quiz always satisfies domain.Quiz.Validate; any response
	// from the underlying service that does not is surfaced as an error
	// (see errors.go for the specific types).
	GenerateQuiz(ctx context.Context, transcript string) (*domain.Quiz, error)
}
