package provider

import (
	"context"

	einoollama "github.com/cloudwego/eino-ext/components/model/ollama"
	einoopenai "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
)

// newOllama constructs a ChatModel backed by a local Ollama instance.
func newOllama(ctx context.Context, cfg *Config) (model.ToolCallingChatModel, error) {
	baseURL := cfg.Ollama.Host
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	v, err := einoollama.NewChatModel(ctx, &einoollama.ChatModelConfig{ //nolint:wrapcheck // constructor passthrough
		BaseURL: baseURL,
		Model:   cfg.Ollama.Model,
	})
	return v, err
}

// newHosted constructs a ChatModel for the OpenAI-compatible hosted
// backends. Groq and Together speak the same wire protocol as OpenAI, so
// one component serves all three; only the base URL differs.
func newHosted(ctx context.Context, cfg *Config) (model.ToolCallingChatModel, error) {
	maxTokens := cfg.Tuning.MaxTokens
	temp := cfg.Tuning.Temperature
	v, err := einoopenai.NewChatModel(ctx, &einoopenai.ChatModelConfig{ //nolint:wrapcheck // constructor passthrough
		Model:       cfg.Hosted.Model,
		APIKey:      cfg.Hosted.APIKey,
		BaseURL:     cfg.baseURL(),
		MaxTokens:   &maxTokens,
		Temperature: &temp,
	})
	return v, err
}
