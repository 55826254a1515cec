package provider

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/cloudwego/eino/components/model"

	"github.com/juris-ai/lexrag-go/internal/rag"
)

// NewFromEnv constructs a Completer by reading provider configuration from
// environment variables. LLM_PROVIDER selects the backend.
//
// Environment variables:
//
//	LLM_PROVIDER = ollama | openai | groq | together   (default: ollama)
//
//	Ollama:  OLLAMA_BASE_URL (default: http://localhost:11434),
//	         OLLAMA_MODEL (default: mistral)
//	Hosted:  LLM_API_KEY (required), LLM_MODEL (default: mistral),
//	         LLM_API_BASE (defaults to the provider's public endpoint)
//
//	Shared:  LLM_MAX_TOKENS (default: 4096), LLM_TEMPERATURE (default: 0.2)
func NewFromEnv(ctx context.Context) (Completer, error) {
	cfg := &Config{
		Backend: Backend(getEnvOrDefault("LLM_PROVIDER", string(BackendOllama))),
		Ollama: ProviderOllama{
			Host:  os.Getenv("OLLAMA_BASE_URL"),
			Model: getEnvOrDefault("OLLAMA_MODEL", "mistral"),
		},
		Hosted: ProviderHosted{
			APIKey:  os.Getenv("LLM_API_KEY"),
			BaseURL: os.Getenv("LLM_API_BASE"),
			Model:   getEnvOrDefault("LLM_MODEL", "mistral"),
		},
		Tuning: SharedTuning{
			MaxTokens:   getEnvInt("LLM_MAX_TOKENS", 4096),
			Temperature: getEnvFloat32("LLM_TEMPERATURE", 0.2),
		},
	}

	return New(ctx, cfg)
}

// New constructs a Completer from an explicit Config, delegating to the
// appropriate backend factory. It validates the config first so callers get
// a clear error at startup rather than on the first question.
func New(ctx context.Context, cfg *Config) (Completer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		m   model.ToolCallingChatModel
		err error
	)
	switch cfg.Backend {
	case BackendOllama:
		m, err = newOllama(ctx, cfg)
	case BackendOpenAI, BackendGroq, BackendTogether:
		m, err = newHosted(ctx, cfg)
	default:
		return nil, fmt.Errorf("provider: %w: unknown backend %q", rag.ErrConfiguration, cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("provider: constructing %s backend: %w", cfg.Backend, err)
	}

	return &chatCompleter{model: m}, nil
}

// getEnvOrDefault returns the value of the named environment variable, or
// fallback if the variable is unset or empty.
func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt returns the integer value of the named environment variable, or
// fallback if the variable is unset, empty, or not parseable.
func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

// getEnvFloat32 returns the float32 value of the named environment variable,
// or fallback if the variable is unset, empty, or not parseable.
func getEnvFloat32(key string, fallback float32) float32 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			return float32(f)
		}
	}
	return fallback
}
