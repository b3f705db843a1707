package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type SummarizerConfig struct {
	BaseUrl string
	APIKey  string
	Model   string
}

// SummarizerRepository calls an OpenAI-compatible completion endpoint to
// condense a wine's reviews into a short blurb for the detail screen.
type SummarizerRepository struct {
	cfg    SummarizerConfig
	client *http.Client
}

func NewSummarizerRepository(cfg SummarizerConfig) *SummarizerRepository {
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	return &SummarizerRepository{
		cfg: cfg,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

const summaryPrompt = "You summarize wine reviews for a mobile app. " +
	"Write at most two sentences capturing what drinkers agree on. " +
	"No marketing language, no bullet points."

func (r *SummarizerRepository) Summarize(ctx context.Context, wineName string, reviews []string) (string, error) {
	if len(reviews) == 0 {
		return "", fmt.Errorf("no reviews to summarize")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Reviews for %s:\n", wineName)
	for _, review := range reviews {
		sb.WriteString("- ")
		sb.WriteString(review)
		sb.WriteString("\n")
	}

	payload := chatRequest{
		Model: r.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: summaryPrompt},
			{Role: "user", Content: sb.String()},
		},
		Temperature: 0.3,
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal json payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.BaseUrl+"/v1/chat/completions", bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Authorization", "Bearer "+r.cfg.APIKey)

	res, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", fmt.Errorf("summarizer service return negative response %v", res.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to unmarshal summarizer response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("summarizer returned no choices")
	}

	summary := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if summary == "" {
		return "", fmt.Errorf("summarizer returned empty summary")
	}

	return summary, nil
}
