// Package adapter is the boundary to the external AI generation call.
// The core treats providers as black boxes: one prompt in, one string
// out, no retries, no streaming consumed.
package adapter

import (
	"context"
	"fmt"
)

// Provider name constants.
const (
	ProviderClaude = "claude"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
	ProviderMock   = "mock"
)

// Options carries generation parameters through to the provider.
type Options struct {
	Framework   string
	ProjectType string
	Complexity  string
	Features    []string
	Streaming   bool
	Temperature float64
	MaxTokens   int
	Model       string
}

// Request is one generation call.
type Request struct {
	Prompt    string
	Options   Options
	ProjectID string
}

// Generator is the external AI call contract. Any failure is returned
// as an error; the orchestrator converts it into a fallback message.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
	Info() ModelInfo
}

// ModelInfo describes the capabilities of a provider's model.
type ModelInfo struct {
	Name              string
	Provider          string
	MaxContextWindow  int
	SupportsStreaming bool
}

// New constructs the Generator for the named provider.
//
//   - provider: "claude", "openai", "ollama", "mock"
//   - apiKey: provider API key (empty = read from env in the concrete adapter)
//   - ollamaHost: base URL for the Ollama server (used only when provider == "ollama")
func New(provider, apiKey, ollamaHost string) (Generator, error) {
	switch provider {
	case ProviderClaude:
		return NewClaude(apiKey), nil
	case ProviderOpenAI:
		return NewOpenAI(apiKey), nil
	case ProviderOllama:
		host := ollamaHost
		if host == "" {
			host = "http://localhost:11434"
		}
		return NewOllama(host), nil
	case ProviderMock:
		return NewMock(), nil
	default:
		return nil, fmt.Errorf("adapter: unknown provider %q; valid providers: claude, openai, ollama, mock", provider)
	}
}
