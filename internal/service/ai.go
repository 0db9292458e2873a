package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
)

// ErrAINotConfigured is returned when no upstream key is set; the handler
// maps it to a fixed error response and clients fall back locally.
var ErrAINotConfigured = errors.New("ai provider not configured")

// AIService forwards chat messages to a configured upstream provider.
type AIService struct {
	url   string
	key   string
	model string
	hc    *http.Client
}

// NewAIService constructs the proxy. An empty key leaves it unconfigured.
func NewAIService(url, key, model string, hc *http.Client) *AIService {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &AIService{url: url, key: key, model: model, hc: hc}
}

// Query sends message upstream and returns the reply text.
func (s *AIService) Query(ctx context.Context, message string) (string, error) {
	if s.key == "" || s.url == "" {
		return "", ErrAINotConfigured
	}
	body, err := json.Marshal(map[string]any{
		"model": s.model,
		"messages": []map[string]string{
			{"role": "user", "content": message},
		},
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.key)

	resp, err := s.hc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("ai upstream: status %d", resp.StatusCode)
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", errors.New("ai upstream: empty response")
	}
	return out.Choices[0].Message.Content, nil
}
