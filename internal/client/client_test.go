package client

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidquiz/vidquiz-api/internal/domain"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, server.Client(), setupTestLogger())
	require.NoError(t, err)
	return c
}

func TestNewClient_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewClient("", nil, setupTestLogger())
	assert.Error(t, err)

	_, err = NewClient("http://localhost:3000", nil, nil)
	assert.Error(t, err)

	c, err := NewClient("http://localhost:3000/", nil, setupTestLogger())
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", c.baseURL, "trailing slash should be trimmed")
	assert.NotNil(t, c.httpClient, "nil http client should get a default")
}

func TestGenerateQuiz(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/quiz/generate", r.URL.Path)

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "https://youtu.be/abc", body["videoUrl"])

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"taskId": "6a3af6a6-8b74-4198-8d3c-7e2933d0a1ac", "status": "pending", "message": "Quiz generation started."}`))
		})

		taskID, err := c.GenerateQuiz(context.Background(), "https://youtu.be/abc")
		require.NoError(t, err)
		assert.Equal(t, "6a3af6a6-8b74-4198-8d3c-7e2933d0a1ac", taskID)
	})

	t.Run("server rejection surfaces message", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error": "Video URL is required"}`))
		})

		_, err := c.GenerateQuiz(context.Background(), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Video URL is required")
	})
}

func TestGetStatus(t *testing.T) {
	t.Parallel()

	t.Run("in progress", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/quiz/status/some-task", r.URL.Path)
			_, _ = w.Write([]byte(`{"taskId": "some-task", "status": "generating", "progress": 60}`))
		})

		result, err := c.GetStatus(context.Background(), "some-task")
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusGenerating, result.Status)
		assert.Equal(t, 60, result.Progress)
		assert.False(t, result.Terminal())
		assert.Nil(t, result.Result)
	})

	t.Run("completed with quiz", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			payload := map[string]interface{}{
				"taskId":   "some-task",
				"status":   "completed",
				"progress": 100,
				"result": map[string]interface{}{
					"questions": []map[string]interface{}{
						{
							"question":      "What?",
							"options":       []string{"a", "b", "c", "d"},
							"correctAnswer": 2,
						},
					},
				},
			}
			require.NoError(t, json.NewEncoder(w).Encode(payload))
		})

		result, err := c.GetStatus(context.Background(), "some-task")
		require.NoError(t, err)
		assert.True(t, result.Terminal())
		require.NotNil(t, result.Result)
		require.Len(t, result.Result.Questions, 1)
		assert.Equal(t, 2, result.Result.Questions[0].CorrectAnswer)
	})

	t.Run("not found", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error": "Task not found"}`))
		})

		_, err := c.GetStatus(context.Background(), "unknown")
		assert.ErrorIs(t, err, ErrTaskNotFound)
	})

	t.Run("rate limited", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error": "Too many status requests.", "retryAfter": 42}`))
		})

		_, err := c.GetStatus(context.Background(), "hot-task")
		var rateLimited *RateLimitedError
		require.ErrorAs(t, err, &rateLimited)
		assert.Equal(t, 42*time.Second, rateLimited.RetryAfter)
	})

	t.Run("rate limited without hint", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})

		_, err := c.GetStatus(context.Background(), "hot-task")
		var rateLimited *RateLimitedError
		require.ErrorAs(t, err, &rateLimited)
		assert.Zero(t, rateLimited.RetryAfter)
	})
}

func TestExtractTranscript(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/transcript/extract", r.URL.Path)
			_, _ = w.Write([]byte(`{"transcript": "hello world"}`))
		})

		transcript, err := c.ExtractTranscript(context.Background(), "https://youtu.be/abc")
		require.NoError(t, err)
		assert.Equal(t, "hello world", transcript)
	})

	t.Run("failure", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error": "Failed to extract subtitles"}`))
		})

		_, err := c.ExtractTranscript(context.Background(), "https://youtu.be/abc")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Failed to extract subtitles")
	})
}

func TestClient_ContextCancellation(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.GetStatus(ctx, "some-task")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled))
}
