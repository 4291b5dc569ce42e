package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/set-night/erpchat/internal/config"
	"github.com/set-night/erpchat/internal/domain"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterLLM generates answers through the OpenRouter chat completions API.
type OpenRouterLLM struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

var _ LLM = (*OpenRouterLLM)(nil)

func NewOpenRouterLLM(apiKey, model string) *OpenRouterLLM {
	return &OpenRouterLLM{
		apiKey:     apiKey,
		model:      model,
		baseURL:    openRouterBaseURL,
		httpClient: &http.Client{Timeout: config.RequestTimeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (o *OpenRouterLLM) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	temp := &temperature
	// Gemini models behind OpenRouter reject an explicit temperature.
	if strings.Contains(strings.ToLower(o.model), "gemini") {
		temp = nil
	}

	payload, err := json.Marshal(completionRequest{
		Model:       o.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: temp,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return "", fmt.Errorf("rate limited by OpenRouter (429): %w", domain.ErrLLMUnavailable)
	case http.StatusServiceUnavailable:
		return "", fmt.Errorf("OpenRouter service unavailable (503): %w", domain.ErrLLMUnavailable)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var out completionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("openrouter: %s", out.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openrouter returned status %d", resp.StatusCode)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("openrouter returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}
