package providers

import (
	"context"
	"fmt"
)

// GenerateRequest contains the data sent to an LLM backend.
type GenerateRequest struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
}

// GenerateResponse contains the raw response from an LLM backend.
type GenerateResponse struct {
	Content    string
	TokensUsed int
}

// Generator is the generative-backend abstraction interface.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
	Name() string
}

// New creates a generator by provider name. An empty name means no backend
// is configured and yields (nil, nil); callers treat a nil Generator as a
// capability downgrade to deterministic-only recommendations.
func New(provider, model string) (Generator, error) {
	switch provider {
	case "", "none":
		return nil, nil
	case "groq":
		return NewGroq(model)
	case "ollama", "lmstudio":
		return NewOllama(model)
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
