package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"eduforge_backend/internal/config"
	"eduforge_backend/internal/grading"
)

// AIService 对接外部大模型服务：理论题评分 + 学习助教问答。
// 所有调用方必须把它当作可失败且高延迟的黑盒。
type AIService struct {
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		config: cfg,
		client: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
	}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model    string          `json:"model"`
	Messages []AIChatMessage `json:"messages"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (s *AIService) complete(ctx context.Context, messages []AIChatMessage) (string, error) {
	reqBody := ChatCompletionRequest{
		Model:    s.config.Model,
		Messages: messages,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}

	if len(result.Choices) > 0 {
		return result.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("AI returned no choices")
}

const theoryGradingPrompt = "You are grading a student's free-text answer for an education platform. " +
	"Compare the student answer against the model answer. " +
	"Respond with ONLY a JSON object of the form {\"score\": <integer 0-100>, \"feedback\": \"<one short sentence>\"} and nothing else."

type theoryGradeResponse struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// GradeTheoryAnswer 实现 grading.TheoryGrader。
// 非 JSON 响应或越界分数一律作为 error 返回，由评分方降级处理。
func (s *AIService) GradeTheoryAnswer(ctx context.Context, question, modelAnswer, studentAnswer string) (grading.TheoryGrade, error) {
	prompt := fmt.Sprintf("Question: %s\n\nModel answer: %s\n\nStudent answer: %s", question, modelAnswer, studentAnswer)

	content, err := s.complete(ctx, []AIChatMessage{
		{Role: "system", Content: theoryGradingPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return grading.TheoryGrade{}, err
	}

	// 模型偶尔会把 JSON 包在 markdown 代码块里
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var parsed theoryGradeResponse
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return grading.TheoryGrade{}, fmt.Errorf("malformed AI grading response: %w", err)
	}
	if parsed.Score < 0 || parsed.Score > 100 {
		return grading.TheoryGrade{}, fmt.Errorf("AI grading score out of range: %d", parsed.Score)
	}

	return grading.TheoryGrade{Score: parsed.Score, Feedback: parsed.Feedback}, nil
}

// Chat 学习助教的一问一答
func (s *AIService) Chat(ctx context.Context, prompt string, contextText string) (string, error) {
	systemContent := "You are a study tutor for an online learning platform. Answer the student's question concisely."
	if contextText != "" {
		systemContent = fmt.Sprintf("You are a study tutor. Use the following background material when answering:\n\n%s", contextText)
	}

	return s.complete(ctx, []AIChatMessage{
		{Role: "system", Content: systemContent},
		{Role: "user", Content: prompt},
	})
}
