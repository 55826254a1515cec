package provider

import (
	"errors"
	"strings"
	"testing"

	"github.com/juris-ai/lexrag-go/internal/rag"
)

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "ollama/valid",
			cfg: Config{
				Backend: BackendOllama,
				Ollama:  ProviderOllama{Host: "http://localhost:11434", Model: "mistral"},
			},
		},
		{
			name:    "ollama/missing model",
			cfg:     Config{Backend: BackendOllama, Ollama: ProviderOllama{Host: "http://localhost:11434"}},
			wantErr: "OLLAMA_MODEL",
		},

		{
			name: "openai/valid",
			cfg: Config{
				Backend: BackendOpenAI,
				Hosted:  ProviderHosted{APIKey: "sk-test", Model: "gpt-4o"},
			},
		},
		{
			name:    "openai/missing api key",
			cfg:     Config{Backend: BackendOpenAI, Hosted: ProviderHosted{Model: "gpt-4o"}},
			wantErr: "LLM_API_KEY",
		},
		{
			name:    "openai/missing model",
			cfg:     Config{Backend: BackendOpenAI, Hosted: ProviderHosted{APIKey: "sk-test"}},
			wantErr: "LLM_MODEL",
		},

		{
			name: "groq/valid",
			cfg: Config{
				Backend: BackendGroq,
				Hosted:  ProviderHosted{APIKey: "gsk-test", Model: "mixtral-8x7b-32768"},
			},
		},
		{
			name:    "groq/missing api key",
			cfg:     Config{Backend: BackendGroq, Hosted: ProviderHosted{Model: "mixtral-8x7b-32768"}},
			wantErr: "LLM_API_KEY",
		},

		{
			name: "together/valid",
			cfg: Config{
				Backend: BackendTogether,
				Hosted:  ProviderHosted{APIKey: "tk-test", Model: "meta-llama/Llama-3-70b-chat-hf"},
			},
		},

		{
			name:    "unknown backend",
			cfg:     Config{Backend: "vertex"},
			wantErr: "unknown backend",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q, got nil", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Validate() error = %q, want substring %q", err.Error(), tc.wantErr)
			}
			if !errors.Is(err, rag.ErrConfiguration) {
				t.Errorf("Validate() error does not wrap ErrConfiguration: %v", err)
			}
		})
	}
}

func TestConfigBaseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		backend Backend
		set     string
		want    string
	}{
		{BackendOpenAI, "", "https://api.openai.com/v1"},
		{BackendGroq, "", "https://api.groq.com/openai/v1"},
		{BackendTogether, "", "https://api.together.xyz/v1"},
		{BackendGroq, "http://proxy.internal/v1", "http://proxy.internal/v1"},
	}

	for _, tc := range tests {
		cfg := Config{Backend: tc.backend, Hosted: ProviderHosted{BaseURL: tc.set}}
		if got := cfg.baseURL(); got != tc.want {
			t.Errorf("baseURL() for %s with override %q = %q, want %q", tc.backend, tc.set, got, tc.want)
		}
	}
}
