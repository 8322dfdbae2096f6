// Package adapter provides a unified interface for embedding providers.
package adapter

import (
	"context"
	"fmt"
)

// Provider name constants.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

// ModelInfo describes an embedding model.
type ModelInfo struct {
	Name       string
	Provider   string
	Dimensions int
}

// Embedder is the capability every provider adapter implements: turn an
// ordered batch of texts into one fixed-length vector per text, in the
// same order.
type Embedder interface {
	// Embed generates embeddings for a batch of texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Info returns metadata about the adapter/model.
	Info() ModelInfo
}

// New constructs the Embedder for the named provider.
//
//   - provider: "openai", "gemini", "ollama"
//   - embedModel: embedding model name (used by Ollama; ignored by others)
//   - apiKey: provider API key (empty = read from env in the concrete adapter)
//   - ollamaHost: base URL for the Ollama server (used only when provider == "ollama")
func New(provider, embedModel, apiKey, ollamaHost string) (Embedder, error) {
	switch provider {
	case ProviderOpenAI:
		return NewOpenAI(apiKey), nil
	case ProviderGemini:
		return NewGemini(apiKey), nil
	case ProviderOllama:
		host := ollamaHost
		if host == "" {
			host = "http://localhost:11434"
		}
		model := embedModel
		if model == "" {
			model = "all-minilm"
		}
		return NewOllama(host, model), nil
	default:
		return nil, fmt.Errorf("adapter: unknown provider %q; valid providers: openai, gemini, ollama", provider)
	}
}
