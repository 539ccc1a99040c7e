package embedding

import (
	"context"
	"fmt"
	"math"
)

// Engine generates vector embeddings for text.
type Engine interface {
	// Embed generates an embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch generates embeddings for multiple texts.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	// Dimensions returns the dimensionality of embeddings.
	Dimensions() int
	// Name returns the engine name.
	Name() string
}

// Config holds embedding engine configuration.
type Config struct {
	// Provider selects the backend: "genai", "ollama", or "" for none.
	Provider string

	// Model is the embedding model identifier. Defaults depend on provider.
	Model string

	// APIKey authenticates the genai provider.
	APIKey string

	// OllamaEndpoint overrides the local Ollama server address.
	OllamaEndpoint string
}

// New creates an embedding engine for the configuration. A missing provider
// is a capability downgrade, not an error: New returns (nil, nil) and the
// caller operates without a similarity index.
func New(cfg Config) (Engine, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case "genai":
		return NewGenAI(cfg.APIKey, cfg.Model)
	case "ollama":
		return NewOllama(cfg.OllamaEndpoint, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}
}

// CosineSimilarity calculates the cosine similarity between two vectors.
// Returns a value between -1 and 1; zero for mismatched or zero-magnitude
// vectors is reported via the error / zero result respectively.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vectors must have the same length: %d != %d", len(a), len(b))
	}

	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB)), nil
}
