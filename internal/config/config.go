// Package config provides YAML-based configuration for lexrag.
// Configuration is loaded with a layered precedence: defaults → YAML file → env vars.
// Environment variables always win, so existing workflows are unaffected.
//
// File search order:
//  1. --config CLI flag (explicit path)
//  2. LEXRAG_CONFIG environment variable
//  3. ~/.lexrag/config.yaml
//  4. ./lexrag.yaml
//
// If no file is found the system runs entirely from env vars.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level YAML configuration structure.
// Field names use yaml tags that mirror the env var naming (lowercase, underscored).
type Config struct {
	// LLM configures the answer-synthesis model provider.
	LLM LLMConfig `yaml:"llm"`

	// Embedding configures the embedding provider.
	Embedding EmbeddingConfig `yaml:"embedding"`

	// Documents configures the ingest corpus and chunking.
	Documents DocumentsConfig `yaml:"documents"`

	// Retrieval configures similarity search.
	Retrieval RetrievalConfig `yaml:"retrieval"`

	// Vectorstore configures index persistence and backend selection.
	Vectorstore VectorstoreConfig `yaml:"vectorstore"`

	// Qdrant configures the Qdrant connection (vectorstore backend: qdrant).
	Qdrant QdrantConfig `yaml:"qdrant"`

	// Server configures the HTTP server.
	Server ServerConfig `yaml:"server"`

	// Logging configures structured logging.
	Logging LoggingConfig `yaml:"logging"`

	// Tracing configures Langfuse tracing integration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LLMConfig holds answer-synthesis model settings.
type LLMConfig struct {
	// Provider selects the backend: ollama, openai, groq, together.
	Provider string `yaml:"provider"`

	// Model is the model name at the hosted provider.
	Model string `yaml:"model"`

	// APIKey is the hosted provider credential. Prefer env var LLM_API_KEY.
	APIKey string `yaml:"api_key"`

	// APIBase overrides the provider's default API base URL.
	APIBase string `yaml:"api_base"`

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int `yaml:"max_tokens"`

	// Temperature controls response randomness (0.0–1.0).
	Temperature float32 `yaml:"temperature"`

	// Ollama holds Ollama-specific settings.
	Ollama OllamaConfig `yaml:"ollama"`
}

// OllamaConfig holds Ollama provider settings.
type OllamaConfig struct {
	// BaseURL is the Ollama API endpoint.
	BaseURL string `yaml:"base_url"`
	// Model is the Ollama model name.
	Model string `yaml:"model"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	// Provider selects the embedding backend (ollama, openai).
	Provider string `yaml:"provider"`
	// Model is the embedding model name.
	Model string `yaml:"model"`
	// Dimensions overrides the embedding vector size.
	Dimensions int `yaml:"dimensions"`
	// APIKey is the embedding API key. Prefer env var EMBEDDING_API_KEY.
	APIKey string `yaml:"api_key"`
	// Endpoint is the embedding API endpoint.
	Endpoint string `yaml:"endpoint"`
}

// DocumentsConfig holds corpus location and chunking settings.
type DocumentsConfig struct {
	// Dir is the default document directory for ingest.
	Dir string `yaml:"dir"`
	// ChunkSize is the chunk window size in characters.
	ChunkSize int `yaml:"chunk_size"`
	// ChunkOverlap is the overlap between consecutive chunks in characters.
	ChunkOverlap int `yaml:"chunk_overlap"`
}

// RetrievalConfig holds similarity search settings.
type RetrievalConfig struct {
	// TopK is the number of passages retrieved per question.
	TopK int `yaml:"top_k"`
	// MaxContextTokens caps the estimated token cost of prompt passages.
	MaxContextTokens int `yaml:"max_context_tokens"`
}

// VectorstoreConfig holds index persistence settings.
type VectorstoreConfig struct {
	// Dir is where the index file and ingest manifest live.
	Dir string `yaml:"dir"`
	// Backend selects the vector store: local, qdrant.
	Backend string `yaml:"backend"`
}

// QdrantConfig holds Qdrant vector store settings.
type QdrantConfig struct {
	// Host is the Qdrant server hostname.
	Host string `yaml:"host"`
	// Port is the Qdrant gRPC port.
	Port int `yaml:"port"`
	// Collection is the Qdrant collection name.
	Collection string `yaml:"collection"`
	// APIKey is the Qdrant API key. Prefer env var QDRANT_API_KEY.
	APIKey string `yaml:"api_key"`
	// TLS enables TLS for the Qdrant connection.
	TLS bool `yaml:"tls"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the bind address.
	Host string `yaml:"host"`
	// Port is the TCP port.
	Port int `yaml:"port"`
	// AllowedOrigins is a comma-separated CORS origin list ("*" allows all).
	AllowedOrigins string `yaml:"allowed_origins"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is the log output format: json, text.
	Format string `yaml:"format"`
}

// TracingConfig holds Langfuse tracing settings.
type TracingConfig struct {
	// PublicKey is the Langfuse public key. Prefer env var LANGFUSE_PUBLIC_KEY.
	PublicKey string `yaml:"public_key"`
	// SecretKey is the Langfuse secret key. Prefer env var LANGFUSE_SECRET_KEY.
	SecretKey string `yaml:"secret_key"`
	// Host is the Langfuse API host.
	Host string `yaml:"host"`
}

// envMapping maps YAML config fields to their corresponding env var names.
// Only non-empty YAML values are applied; env vars always take precedence.
var envMapping = []struct {
	envKey string
	value  func(*Config) string
}{
	{"LLM_PROVIDER", func(c *Config) string { return c.LLM.Provider }},
	{"LLM_MODEL", func(c *Config) string { return c.LLM.Model }},
	{"LLM_API_KEY", func(c *Config) string { return c.LLM.APIKey }},
	{"LLM_API_BASE", func(c *Config) string { return c.LLM.APIBase }},
	{"LLM_MAX_TOKENS", func(c *Config) string { return intStr(c.LLM.MaxTokens) }},
	{"LLM_TEMPERATURE", func(c *Config) string { return float32Str(c.LLM.Temperature) }},
	{"OLLAMA_BASE_URL", func(c *Config) string { return c.LLM.Ollama.BaseURL }},
	{"OLLAMA_MODEL", func(c *Config) string { return c.LLM.Ollama.Model }},
	{"EMBEDDING_PROVIDER", func(c *Config) string { return c.Embedding.Provider }},
	{"EMBEDDING_MODEL", func(c *Config) string { return c.Embedding.Model }},
	{"EMBEDDING_DIMENSIONS", func(c *Config) string { return intStr(c.Embedding.Dimensions) }},
	{"EMBEDDING_API_KEY", func(c *Config) string { return c.Embedding.APIKey }},
	{"EMBEDDING_ENDPOINT", func(c *Config) string { return c.Embedding.Endpoint }},
	{"DOCUMENTS_DIR", func(c *Config) string { return c.Documents.Dir }},
	{"CHUNK_SIZE", func(c *Config) string { return intStr(c.Documents.ChunkSize) }},
	{"CHUNK_OVERLAP", func(c *Config) string { return intStr(c.Documents.ChunkOverlap) }},
	{"RETRIEVER_K", func(c *Config) string { return intStr(c.Retrieval.TopK) }},
	{"MAX_CONTEXT_TOKENS", func(c *Config) string { return intStr(c.Retrieval.MaxContextTokens) }},
	{"VECTORSTORE_DIR", func(c *Config) string { return c.Vectorstore.Dir }},
	{"VECTOR_BACKEND", func(c *Config) string { return c.Vectorstore.Backend }},
	{"QDRANT_HOST", func(c *Config) string { return c.Qdrant.Host }},
	{"QDRANT_PORT", func(c *Config) string { return intStr(c.Qdrant.Port) }},
	{"QDRANT_COLLECTION", func(c *Config) string { return c.Qdrant.Collection }},
	{"QDRANT_API_KEY", func(c *Config) string { return c.Qdrant.APIKey }},
	{"QDRANT_USE_TLS", func(c *Config) string { return boolStr(c.Qdrant.TLS) }},
	{"SERVER_HOST", func(c *Config) string { return c.Server.Host }},
	{"SERVER_PORT", func(c *Config) string { return intStr(c.Server.Port) }},
	{"ALLOWED_ORIGINS", func(c *Config) string { return c.Server.AllowedOrigins }},
	{"LOG_LEVEL", func(c *Config) string { return c.Logging.Level }},
	{"LOG_FORMAT", func(c *Config) string { return c.Logging.Format }},
	{"LANGFUSE_PUBLIC_KEY", func(c *Config) string { return c.Tracing.PublicKey }},
	{"LANGFUSE_SECRET_KEY", func(c *Config) string { return c.Tracing.SecretKey }},
	{"LANGFUSE_HOST", func(c *Config) string { return c.Tracing.Host }},
}

// Load reads a YAML config file and applies non-empty values as environment
// variables. Existing env vars are never overwritten (env always wins).
// Returns the path that was loaded, or empty string if no file was found.
func Load(explicitPath string, log *slog.Logger) (string, error) {
	path := resolveConfigPath(explicitPath)
	if path == "" {
		log.Debug("config: no YAML config file found, using env vars only")
		return "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return "", fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	applied := 0
	for _, m := range envMapping {
		yamlVal := m.value(&cfg)
		if yamlVal == "" || yamlVal == "0" || yamlVal == "false" {
			continue
		}
		if os.Getenv(m.envKey) != "" {
			continue // env var already set, do not override
		}
		os.Setenv(m.envKey, yamlVal)
		applied++
	}

	log.Info("config: loaded YAML config",
		slog.String("path", path),
		slog.Int("keys_applied", applied),
	)

	return path, nil
}

// resolveConfigPath returns the first config file path that exists.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	if envPath := os.Getenv("LEXRAG_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		p := filepath.Join(home, ".lexrag", "config.yaml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if _, err := os.Stat("lexrag.yaml"); err == nil {
		return "lexrag.yaml"
	}

	return ""
}

// intStr converts an int to string, returning "" for zero values.
func intStr(v int) string {
	if v == 0 {
		return ""
	}
	return fmt.Sprintf("%d", v)
}

// float32Str converts a float32 to string, returning "" for zero values.
func float32Str(v float32) string {
	if v == 0 {
		return ""
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", v), "0"), ".")
}

// boolStr converts a bool to string, returning "" for false.
func boolStr(v bool) string {
	if !v {
		return ""
	}
	return "true"
}
