package embedding

import (
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero magnitude", []float32{0, 0}, []float32{1, 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CosineSimilarity(tt.a, tt.b)
			if err != nil {
				t.Fatalf("CosineSimilarity: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %f, want %f", got, tt.want)
			}
		})
	}
}

func TestCosineSimilarityDimensionMismatch(t *testing.T) {
	if _, err := CosineSimilarity([]float32{1}, []float32{1, 2}); err == nil {
		t.Fatal("expected error for mismatched dimensions")
	}
}

func TestNewWithoutProvider(t *testing.T) {
	engine, err := New(Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if engine != nil {
		t.Fatal("no provider should mean nil engine, not an error")
	}
}

func TestNewUnknownProvider(t *testing.T) {
	if _, err := New(Config{Provider: "mystery"}); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewGenAIRequiresKey(t *testing.T) {
	if _, err := NewGenAI("", ""); err == nil {
		t.Fatal("expected error without API key")
	}
}

func TestOllamaDefaults(t *testing.T) {
	o, err := NewOllama("", "")
	if err != nil {
		t.Fatalf("NewOllama: %v", err)
	}
	if o.Name() != "ollama:embeddinggemma" {
		t.Errorf("Name = %q", o.Name())
	}
	if o.Dimensions() != 768 {
		t.Errorf("Dimensions = %d", o.Dimensions())
	}
}
