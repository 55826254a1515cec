package embedder

import (
	"fmt"
	"os"
	"strconv"

	"github.com/juris-ai/lexrag-go/internal/rag"
)

// Default embedding models per backend.
const (
	defaultOllamaModel = "nomic-embed-text"
	defaultOpenAIModel = "text-embedding-3-small"

	// defaultOllamaDimensions is the output dimension of nomic-embed-text.
	// Other Ollama models may differ — override with EMBEDDING_DIMENSIONS.
	defaultOllamaDimensions = 768
	// defaultOpenAIDimensions is the output dimension of text-embedding-3-small.
	defaultOpenAIDimensions = 1536
)

// DefaultDimensions returns the default embedding vector size for the given
// backend name. Callers that must pre-size a vector store (e.g. Qdrant
// collection creation) should use this rather than hardcoding a value.
// EMBEDDING_DIMENSIONS always takes precedence when set.
func DefaultDimensions(backend string) int {
	if v := getEnvInt("EMBEDDING_DIMENSIONS", 0); v > 0 {
		return v
	}
	switch backend {
	case "ollama":
		return defaultOllamaDimensions
	default:
		return defaultOpenAIDimensions
	}
}

// NewFromEnv constructs a rag.Embedder from environment variables.
// The handle is constructed once at process start and reused by every
// pipeline stage; construction itself never performs a network call, so a
// broken backend surfaces on the first Embed call and is fatal to that
// request; there is no retry.
//
// Environment variables:
//
//	EMBEDDING_PROVIDER   = ollama | openai        (default: ollama)
//	EMBEDDING_MODEL      overrides the backend's default model
//	EMBEDDING_ENDPOINT   overrides the backend's base URL
//	EMBEDDING_API_KEY    credential for the openai backend (required there)
//	EMBEDDING_DIMENSIONS overrides the default vector size
//	OLLAMA_BASE_URL      fallback endpoint for the ollama backend
func NewFromEnv() (rag.Embedder, error) {
	backend := getEnvOrDefault("EMBEDDING_PROVIDER", "ollama")

	switch backend {
	case "ollama":
		baseURL := getEnv("EMBEDDING_ENDPOINT")
		if baseURL == "" {
			baseURL = getEnvOrDefault("OLLAMA_BASE_URL", "http://localhost:11434")
		}
		return NewOllamaEmbedder(&OllamaConfig{
			BaseURL: baseURL,
			Model:   getEnvOrDefault("EMBEDDING_MODEL", defaultOllamaModel),
		}), nil

	case "openai":
		apiKey := getEnv("EMBEDDING_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("embedder: %w: openai backend requires EMBEDDING_API_KEY", rag.ErrConfiguration)
		}
		return NewOpenAIEmbedder(&OpenAIConfig{
			BaseURL:    getEnvOrDefault("EMBEDDING_ENDPOINT", "https://api.openai.com/v1"),
			APIKey:     apiKey,
			Model:      getEnvOrDefault("EMBEDDING_MODEL", defaultOpenAIModel),
			Dimensions: getEnvInt("EMBEDDING_DIMENSIONS", defaultOpenAIDimensions),
		}), nil

	default:
		return nil, fmt.Errorf("embedder: %w: unknown backend %q (valid values: ollama, openai)",
			rag.ErrConfiguration, backend)
	}
}

// getEnv returns the value of the named environment variable, or empty string.
func getEnv(key string) string {
	return os.Getenv(key)
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
