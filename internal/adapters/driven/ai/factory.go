package ai

import (
	"fmt"

	"github.com/custodia-labs/veridoc-core/internal/core/domain"
	"github.com/custodia-labs/veridoc-core/internal/core/ports/driven"
)

// Provider names accepted by the factory
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// defaultOllamaBaseURL is Ollama's OpenAI-compatible endpoint
const defaultOllamaBaseURL = "http://localhost:11434/v1"

// NewGenerativeService creates a generative service for the given provider.
// Returns (nil, nil) when no provider is configured, which leaves the
// generative capability disabled.
func NewGenerativeService(provider, apiKey, model, baseURL string) (driven.GenerativeService, error) {
	switch provider {
	case "":
		return nil, nil
	case ProviderOpenAI:
		return NewOpenAIGenerative(apiKey, model, baseURL)
	case ProviderOllama:
		// Ollama speaks the OpenAI wire format and ignores the key
		if baseURL == "" {
			baseURL = defaultOllamaBaseURL
		}
		return NewOpenAIGenerative("ollama", model, baseURL)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidProvider, provider)
	}
}
