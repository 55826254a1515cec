// Package provider selects and constructs the LLM backend used for answer
// synthesis. Supported backends: Ollama (local), and the OpenAI-compatible
// hosted APIs OpenAI, Groq, and Together. Switching providers is a single
// environment variable change; nothing downstream of the Completer
// interface knows which backend is in use.
package provider

import (
	"context"
	"fmt"

	"github.com/juris-ai/lexrag-go/internal/rag"
)

// Backend enumerates the supported LLM inference providers.
type Backend string

const (
	// BackendOllama selects a locally running Ollama instance.
	BackendOllama Backend = "ollama"
	// BackendOpenAI selects the OpenAI API.
	BackendOpenAI Backend = "openai"
	// BackendGroq selects the Groq API (OpenAI-compatible).
	BackendGroq Backend = "groq"
	// BackendTogether selects the Together API (OpenAI-compatible).
	BackendTogether Backend = "together"
)

// defaultBases maps each hosted backend to its API base URL, used when
// LLM_API_BASE is not set. Ollama has its own endpoint variable.
var defaultBases = map[Backend]string{
	BackendOpenAI:   "https://api.openai.com/v1",
	BackendGroq:     "https://api.groq.com/openai/v1",
	BackendTogether: "https://api.together.xyz/v1",
}

// Completer generates one completion for one fully rendered prompt.
// Implementations must be safe for concurrent use.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ProviderOllama holds connection parameters for a local Ollama instance.
type ProviderOllama struct {
	// Host is the Ollama base URL.
	Host string

	// Model is the Ollama model name (e.g. "mistral").
	Model string
}

// ProviderHosted holds credentials for the OpenAI-compatible hosted
// backends. One struct serves openai, groq, and together; only the base URL
// default differs per backend.
type ProviderHosted struct {
	// APIKey is the provider credential.
	APIKey string

	// BaseURL overrides the backend's default API base.
	BaseURL string

	// Model is the model name at the provider.
	Model string
}

// SharedTuning holds generation parameters common to every backend.
type SharedTuning struct {
	// MaxTokens caps the number of tokens generated per answer.
	MaxTokens int

	// Temperature controls response randomness.
	Temperature float32
}

// Config holds all provider-level configuration resolved from environment
// variables or explicit caller-supplied values.
type Config struct {
	// Backend identifies which inference provider to use.
	Backend Backend

	Ollama ProviderOllama
	Hosted ProviderHosted
	Tuning SharedTuning
}

// Validate checks that the selected backend has everything it needs,
// naming the missing environment variable so misconfiguration is obvious
// at startup rather than on the first question.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendOllama:
		if c.Ollama.Model == "" {
			return fmt.Errorf("provider: %w: OLLAMA_MODEL is required for ollama backend", rag.ErrConfiguration)
		}
		return nil

	case BackendOpenAI, BackendGroq, BackendTogether:
		if c.Hosted.APIKey == "" {
			return fmt.Errorf("provider: %w: LLM_API_KEY is required for %s backend", rag.ErrConfiguration, c.Backend)
		}
		if c.Hosted.Model == "" {
			return fmt.Errorf("provider: %w: LLM_MODEL is required for %s backend", rag.ErrConfiguration, c.Backend)
		}
		return nil

	default:
		return fmt.Errorf("provider: %w: unknown backend %q (valid values: ollama, openai, groq, together)",
			rag.ErrConfiguration, c.Backend)
	}
}

// baseURL resolves the API base for a hosted backend, falling back to the
// provider's well-known default.
func (c *Config) baseURL() string {
	if c.Hosted.BaseURL != "" {
		return c.Hosted.BaseURL
	}
	return defaultBases[c.Backend]
}
