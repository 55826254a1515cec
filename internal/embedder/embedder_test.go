package embedder

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/juris-ai/lexrag-go/internal/rag"
)

func TestOllamaEmbedder_Batch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req ollamaEmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		resp := ollamaEmbedResponse{Embeddings: make([][]float32, len(req.Input))}
		for i := range req.Input {
			resp.Embeddings[i] = []float32{float32(i), 1}
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(&OllamaConfig{BaseURL: srv.URL, Model: "nomic-embed-text"})

	got, err := e.Embed(context.Background(), []string{"alpha", "beta", "gamma"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 vectors, got %d", len(got))
	}
	if got[2][0] != 2 {
		t.Errorf("vectors not parallel to input: %v", got)
	}
}

func TestOllamaEmbedder_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ollamaEmbedResponse{Error: "model not found"})
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(&OllamaConfig{BaseURL: srv.URL, Model: "missing"})

	_, err := e.Embed(context.Background(), []string{"x"})
	if !errors.Is(err, rag.ErrUpstream) {
		t.Errorf("expected ErrUpstream, got %v", err)
	}
}

func TestOpenAIEmbedder_ReordersByIndex(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("authorization header: %q", got)
		}
		// Return data out of order; the client must sort by index.
		w.Write([]byte(`{"data":[
			{"embedding":[2],"index":1},
			{"embedding":[1],"index":0}
		]}`))
	}))
	defer srv.Close()

	e := NewOpenAIEmbedder(&OpenAIConfig{BaseURL: srv.URL, APIKey: "sk-test", Model: "text-embedding-3-small"})

	got, err := e.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if got[0][0] != 1 || got[1][0] != 2 {
		t.Errorf("vectors not reordered by index: %v", got)
	}
}

func TestOpenAIEmbedder_CountMismatch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"embedding":[1],"index":0}]}`))
	}))
	defer srv.Close()

	e := NewOpenAIEmbedder(&OpenAIConfig{BaseURL: srv.URL, APIKey: "k", Model: "m"})

	_, err := e.Embed(context.Background(), []string{"a", "b"})
	if !errors.Is(err, rag.ErrUpstream) {
		t.Errorf("expected ErrUpstream on count mismatch, got %v", err)
	}
}

func TestNewFromEnv_OpenAIRequiresKey(t *testing.T) {
	t.Setenv("EMBEDDING_PROVIDER", "openai")
	t.Setenv("EMBEDDING_API_KEY", "")

	_, err := NewFromEnv()
	if !errors.Is(err, rag.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestNewFromEnv_UnknownBackend(t *testing.T) {
	t.Setenv("EMBEDDING_PROVIDER", "sentencepiece")

	_, err := NewFromEnv()
	if !errors.Is(err, rag.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestLooksLikeChatModel(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		"nomic-embed-text":       false,
		"text-embedding-3-small": false,
		"gpt-4o":                 true,
		"Mistral-7B":             true,
	}
	for model, want := range cases {
		if got := looksLikeChatModel(model); got != want {
			t.Errorf("looksLikeChatModel(%q) = %v, want %v", model, got, want)
		}
	}
}
