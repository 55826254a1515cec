package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/juris-ai/lexrag-go/internal/embedder"
	"github.com/juris-ai/lexrag-go/internal/index"
	"github.com/juris-ai/lexrag-go/internal/manifest"
	"github.com/juris-ai/lexrag-go/internal/pipeline"
	"github.com/juris-ai/lexrag-go/internal/provider"
	"github.com/juris-ai/lexrag-go/internal/server"
)

// buildPipeline wires the embedder, vector store, LLM provider, and ingest
// manifest into a query pipeline. The vector store is returned alongside the
// pipeline so callers can attach readiness probes to it. The returned close
// function releases the store and manifest resources and must be called
// before exit.
func buildPipeline(ctx context.Context, log *slog.Logger) (*pipeline.Pipeline, index.Store, func(), error) {
	embedder.WarnOnSuspectModel(log)

	emb, err := embedder.NewFromEnv()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("initialising embedder: %w", err)
	}

	store, err := index.NewStoreFromEnv(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("initialising vector store: %w", err)
	}

	completer, err := provider.NewFromEnv(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("initialising LLM provider: %w", err)
	}

	cfg := pipeline.ConfigFromEnv()

	// The ingest manifest is advisory. A failure to open it degrades the
	// status command but never blocks ingestion or queries.
	var man manifest.Store
	ms, err := manifest.Open(cfg.StoreDir)
	if err != nil {
		log.Warn("manifest unavailable", slog.Any("error", err))
	} else {
		man = ms
	}

	p, err := pipeline.New(store, emb, completer, man, cfg)
	if err != nil {
		if man != nil {
			_ = man.Close()
		}
		return nil, nil, nil, fmt.Errorf("initialising pipeline: %w", err)
	}

	closeAll := func() {
		if man != nil {
			_ = man.Close()
		}
		if qs, ok := store.(*index.QdrantStore); ok {
			_ = qs.Close()
		}
	}
	return p, store, closeAll, nil
}

// buildPingers assembles the readiness probes for the serve command. Probes
// cover the embedding backend, the qdrant store when that backend is in use,
// and the vector index itself.
func buildPingers(p *pipeline.Pipeline, store index.Store) []server.Pinger {
	var pingers []server.Pinger

	if getEnvOrDefault("EMBEDDING_PROVIDER", "ollama") == "ollama" {
		base := getEnvOrDefault("OLLAMA_BASE_URL", "http://localhost:11434")
		pingers = append(pingers, server.NewHTTPPinger(base, "ollama"))
	}

	if qs, ok := store.(*index.QdrantStore); ok {
		pingers = append(pingers, server.NewStorePinger(qs, "qdrant"))
	}

	pingers = append(pingers, server.NewIndexPinger(p))

	return pingers
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
