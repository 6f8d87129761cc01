package gemini

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"strings"
	"text/template"
	"time"

	"google.golang.org/genai"

	"github.com/vidquiz/vidquiz-api/internal/config"
	"github.com/vidquiz/vidquiz-api/internal/domain"
	"github.com/vidquiz/vidquiz-api/internal/generation"
)

// minTranscriptLength is the shortest transcript worth sending to the model.
// Anything shorter cannot yield ten meaningful questions.
const minTranscriptLength = 50

//go:embed prompt.tmpl
var defaultPromptTemplate string

// promptData is the data passed to the prompt template.
type promptData struct {
	Transcript string
}

// GeminiGenerator implements the generation.QuizGenerator interface using
// Google's Gemini API to generate quizzes from transcript text.
type GeminiGenerator struct {
	logger         *slog.Logger
	config         config.LLMConfig
	promptTemplate *template.Template
	client         *genai.Client
	model          string
}

// NewGeminiGenerator creates a GeminiGenerator from the given LLM
// configuration. The prompt template is the embedded default unless the
// configuration names an override file.
func NewGeminiGenerator(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.LLMConfig,
) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	templateContent := defaultPromptTemplate
	if cfg.PromptTemplatePath != "" {
		raw, err := os.ReadFile(cfg.PromptTemplatePath)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read prompt template from %s: %v",
				generation.ErrInvalidConfig, cfg.PromptTemplatePath, err)
		}
		templateContent = string(raw)
	}

	promptTemplate, err := template.New("quiz").Parse(templateContent)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &GeminiGenerator{
		logger:         logger.With("component", "gemini_generator"),
		config:         cfg,
		promptTemplate: promptTemplate,
		client:         client,
		model:          cfg.ModelName,
	}, nil
}

// GenerateQuiz creates a quiz from the given transcript text. The returned
// quiz always satisfies domain.Quiz.Validate.
func (g *GeminiGenerator) GenerateQuiz(ctx context.Context, transcript string) (*domain.Quiz, error) {
	if len(strings.TrimSpace(transcript)) < minTranscriptLength {
		return nil, generation.ErrTranscriptTooShort
	}

	prompt, err := g.createPrompt(ctx, transcript)
	if err != nil {
		return nil, err
	}

	quiz, err := g.callGeminiWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	g.logger.InfoContext(ctx, "quiz generated",
		"question_count", len(quiz.Questions),
		"transcript_length", len(transcript))

	return quiz, nil
}

// createPrompt renders the prompt template with the transcript text.
func (g *GeminiGenerator) createPrompt(ctx context.Context, transcript string) (string, error) {
	var buf bytes.Buffer
	if err := g.promptTemplate.Execute(&buf, promptData{Transcript: transcript}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	g.logger.DebugContext(ctx, "prompt generated",
		"prompt_length", buf.Len(),
		"transcript_length", len(transcript))

	return buf.String(), nil
}

// callGeminiWithRetry makes the Gemini API call with exponential backoff and
// jitter for transient errors. Permanent errors (blocked content, a response
// that cannot be parsed into a valid quiz) are returned immediately without
// retrying.
func (g *GeminiGenerator) callGeminiWithRetry(ctx context.Context, prompt string) (*domain.Quiz, error) {
	maxRetries := g.config.MaxRetries
	baseDelaySeconds := g.config.RetryDelaySeconds
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	if maxRetries < 0 {
		g.logger.WarnContext(ctx, "invalid max retries value, using default", "max_retries", 3)
		maxRetries = 3
	}

	if baseDelaySeconds < 1 {
		baseDelaySeconds = 2
	}

	for attempt := 0; ; attempt++ {
		attemptNum := attempt + 1
		g.logger.InfoContext(ctx, "making Gemini API call",
			"attempt", attemptNum,
			"max_attempts", maxRetries+1)

		quiz, transient, err := g.callOnce(ctx, prompt)
		if err == nil {
			return quiz, nil
		}

		g.logger.ErrorContext(ctx, "Gemini API call failed",
			"attempt", attemptNum,
			"error", err)

		if !transient {
			return nil, err
		}

		if attempt >= maxRetries {
			return nil, fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				generation.ErrTransientFailure, maxRetries, err)
		}

		// delay = baseDelay * 2^attempt * (0.5 + rand(0, 0.5))
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		jitterFactor := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoffSeconds * jitterFactor * float64(time.Second))

		g.logger.InfoContext(ctx, "retrying after delay",
			"attempt", attemptNum,
			"delay", delay)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

// callOnce performs a single API call and classifies its outcome. The
// transient return value reports whether a failure is worth retrying.
func (g *GeminiGenerator) callOnce(ctx context.Context, prompt string) (quiz *domain.Quiz, transient bool, err error) {
	resp, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		// API-level failures are assumed transient (rate limits, 5xx).
		return nil, true, fmt.Errorf("gemini API call error: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return nil, false, fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return nil, false, fmt.Errorf("%w: generation stopped by safety filters", generation.ErrContentBlocked)
	}

	if candidate.Content == nil {
		return nil, false, fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}

	quiz, err = parseQuizResponse(text.String())
	if err != nil {
		return nil, false, err
	}

	return quiz, false, nil
}

// parseQuizResponse parses the model's response text into a validated quiz.
// Markdown code fences around the JSON are tolerated and stripped.
func parseQuizResponse(text string) (*domain.Quiz, error) {
	cleaned := stripMarkdownFences(text)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty response text", generation.ErrInvalidResponse)
	}

	var quiz domain.Quiz
	if err := json.Unmarshal([]byte(cleaned), &quiz); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v", generation.ErrInvalidResponse, err)
	}

	if err := quiz.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
	}

	return &quiz, nil
}

// stripMarkdownFences removes a surrounding ```json ... ``` or ``` ... ```
// block, which some model responses wrap around the JSON despite the
// response MIME type hint.
func stripMarkdownFences(text string) string {
	s := strings.TrimSpace(text)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}

	return strings.TrimSpace(s)
}

var _ generation.QuizGenerator = (*GeminiGenerator)(nil)
