// Package client provides a typed HTTP client for the quiz generation API
// and a poller that tracks a task to completion, honoring the server's
// rate limit signals.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vidquiz/vidquiz-api/internal/domain"
)

// ErrTaskNotFound indicates the server does not know the task ID. The
// server returns the same answer for expired and never-issued IDs, so the
// caller cannot tell which it was.
var ErrTaskNotFound = errors.New("task not found")

// RateLimitedError indicates the server rejected a status poll with 429.
// RetryAfter is the server's hint for when the window resets.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited: retry after %s", e.RetryAfter)
}

// StatusResult is a decoded status poll response.
type StatusResult struct {
	TaskID   string            `json:"taskId"`
	Status   domain.TaskStatus `json:"status"`
	Progress int               `json:"progress"`
	Result   *domain.Quiz      `json:"result,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// Terminal reports whether the task has finished, successfully or not.
func (r *StatusResult) Terminal() bool {
	return r.Status.IsTerminal()
}

const defaultRequestTimeout = 30 * time.Second

// Client talks to a running quiz generation server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client for the given base URL (e.g.
// "http://localhost:3000"). A nil httpClient gets a sensible default.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("base URL cannot be empty")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultRequestTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger.With(slog.String("component", "api_client")),
	}, nil
}

// GenerateQuiz submits a video URL for quiz generation and returns the
// task ID to poll.
func (c *Client) GenerateQuiz(ctx context.Context, videoURL string) (string, error) {
	body, err := json.Marshal(map[string]string{"videoUrl": videoURL})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/api/quiz/generate",
		bytes.NewReader(body),
	)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", c.errorFromResponse(resp)
	}

	var decoded struct {
		TaskID string `json:"taskId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode generate response: %w", err)
	}
	if decoded.TaskID == "" {
		return "", errors.New("server returned an empty task ID")
	}
	return decoded.TaskID, nil
}

// GetStatus fetches the current state of a task. It returns
// ErrTaskNotFound on 404 and a *RateLimitedError on 429.
func (c *Client) GetStatus(ctx context.Context, taskID string) (*StatusResult, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.baseURL+"/api/quiz/status/"+taskID,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		var result StatusResult
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return nil, fmt.Errorf("failed to decode status response: %w", err)
		}
		return &result, nil
	case http.StatusNotFound:
		return nil, ErrTaskNotFound
	case http.StatusTooManyRequests:
		var decoded struct {
			RetryAfter int `json:"retryAfter"`
		}
		// Body decode failures leave RetryAfter at zero; the poller
		// falls back to its configured backoff.
		_ = json.NewDecoder(resp.Body).Decode(&decoded)
		return nil, &RateLimitedError{RetryAfter: time.Duration(decoded.RetryAfter) * time.Second}
	default:
		return nil, c.errorFromResponse(resp)
	}
}

// ExtractTranscript runs the synchronous transcript extraction endpoint.
func (c *Client) ExtractTranscript(ctx context.Context, videoURL string) (string, error) {
	body, err := json.Marshal(map[string]string{"videoUrl": videoURL})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/api/transcript/extract",
		bytes.NewReader(body),
	)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("extract request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", c.errorFromResponse(resp)
	}

	var decoded struct {
		Transcript string `json:"transcript"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode extract response: %w", err)
	}
	return decoded.Transcript, nil
}

// errorFromResponse turns a non-200 response into an error, preferring the
// server's error message when the body parses.
func (c *Client) errorFromResponse(resp *http.Response) error {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	var decoded struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &decoded); err == nil && decoded.Error != "" {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, decoded.Error)
	}
	return fmt.Errorf("server returned %d", resp.StatusCode)
}
