// Package ai implements generative service adapters for external model
// providers.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/veridoc-core/internal/core/domain"
	"github.com/custodia-labs/veridoc-core/internal/core/ports/driven"
)

// Ensure OpenAIGenerative implements GenerativeService
var _ driven.GenerativeService = (*OpenAIGenerative)(nil)

// OpenAIGenerative implements GenerativeService against the OpenAI chat
// completions API. Any OpenAI-compatible endpoint works via baseURL.
type OpenAIGenerative struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewOpenAIGenerative creates a new OpenAI-backed generative service
func NewOpenAIGenerative(apiKey, model, baseURL string) (driven.GenerativeService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &OpenAIGenerative{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}, nil
}

// chatRequest is the request body for the chat completions API
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the response from the chat completions API
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// Analyze sends the prompt as a single user message and returns the raw
// completion text. Temperature is pinned to zero for reproducible scoring.
func (g *OpenAIGenerative) Analyze(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: 0,
	}

	resp, err := g.doRequest(ctx, reqBody)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no completion returned", domain.ErrGenerativeUnavailable)
	}
	return resp.Choices[0].Message.Content, nil
}

// Model returns the model name being used
func (g *OpenAIGenerative) Model() string {
	return g.model
}

// Ping verifies the generative service is reachable with a minimal request
func (g *OpenAIGenerative) Ping(ctx context.Context) error {
	_, err := g.Analyze(ctx, "Reply with the single word: ok")
	return err
}

// Close releases resources held by the service
func (g *OpenAIGenerative) Close() error {
	g.client.CloseIdleConnections()
	return nil
}

// doRequest makes a request to the chat completions API
func (g *OpenAIGenerative) doRequest(ctx context.Context, reqBody chatRequest) (*chatResponse, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerativeUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", domain.ErrGenerativeUnavailable, err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response: %v", domain.ErrGenerativeUnavailable, err)
	}

	if chatResp.Error != nil {
		return nil, fmt.Errorf("%w: OpenAI API error: %s (type: %s, code: %s)",
			domain.ErrGenerativeUnavailable, chatResp.Error.Message, chatResp.Error.Type, chatResp.Error.Code)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: OpenAI API returned status %d", domain.ErrGenerativeUnavailable, resp.StatusCode)
	}

	return &chatResp, nil
}
