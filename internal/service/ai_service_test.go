package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"eduforge_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAIServer(t *testing.T, reply string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		resp := ChatCompletionResponse{}
		resp.Choices = []struct {
			Message AIChatMessage `json:"message"`
		}{{Message: AIChatMessage{Role: "assistant", Content: reply}}}
		json.NewEncoder(w).Encode(resp)
	}))
}

func newAIService(baseURL string) *AIService {
	return NewAIService(config.AIConfig{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		Model:          "test-model",
		TimeoutSeconds: 5,
	})
}

func TestGradeTheoryAnswer(t *testing.T) {
	srv := newAIServer(t, `{"score": 60, "feedback": "partially correct"}`)
	defer srv.Close()

	grade, err := newAIService(srv.URL).GradeTheoryAnswer(context.Background(), "q", "model", "student")
	require.NoError(t, err)
	assert.Equal(t, 60, grade.Score)
	assert.Equal(t, "partially correct", grade.Feedback)
}

func TestGradeTheoryAnswerStripsMarkdownFence(t *testing.T) {
	srv := newAIServer(t, "```json\n{\"score\": 90, \"feedback\": \"good\"}\n```")
	defer srv.Close()

	grade, err := newAIService(srv.URL).GradeTheoryAnswer(context.Background(), "q", "model", "student")
	require.NoError(t, err)
	assert.Equal(t, 90, grade.Score)
}

func TestGradeTheoryAnswerMalformed(t *testing.T) {
	srv := newAIServer(t, "I think this deserves a 7/10")
	defer srv.Close()

	_, err := newAIService(srv.URL).GradeTheoryAnswer(context.Background(), "q", "model", "student")
	assert.Error(t, err)
}

func TestGradeTheoryAnswerScoreOutOfRange(t *testing.T) {
	srv := newAIServer(t, `{"score": 250, "feedback": "??"}`)
	defer srv.Close()

	_, err := newAIService(srv.URL).GradeTheoryAnswer(context.Background(), "q", "model", "student")
	assert.Error(t, err)
}

func TestGradeTheoryAnswerUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newAIService(srv.URL).GradeTheoryAnswer(context.Background(), "q", "model", "student")
	assert.Error(t, err)
}
