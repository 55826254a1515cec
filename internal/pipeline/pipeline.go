// Package pipeline orchestrates the two top-level operations: ingest
// (chunk, embed, index, persist) and answer (retrieve, prompt, generate,
// cite). It owns the process-wide cached index handle; everything else is
// injected so the pipeline itself never touches the environment.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/juris-ai/lexrag-go/internal/budget"
	"github.com/juris-ai/lexrag-go/internal/index"
	"github.com/juris-ai/lexrag-go/internal/loader"
	"github.com/juris-ai/lexrag-go/internal/logging"
	"github.com/juris-ai/lexrag-go/internal/manifest"
	"github.com/juris-ai/lexrag-go/internal/prompt"
	"github.com/juris-ai/lexrag-go/internal/provider"
	"github.com/juris-ai/lexrag-go/internal/rag"
)

// Config holds the pipeline's tunables.
type Config struct {
	// DocumentsDir is the default ingest source when none is given.
	DocumentsDir string

	// StoreDir is where the index (and ingest manifest) are persisted.
	StoreDir string

	// ChunkSize and ChunkOverlap are passed through to the chunker.
	ChunkSize    int
	ChunkOverlap int

	// TopK is the number of passages retrieved per question.
	TopK int

	// MaxContextTokens caps the estimated token cost of passages included
	// in the prompt. Zero means budget.DefaultMaxContextTokens.
	MaxContextTokens int
}

// ConfigFromEnv resolves pipeline tunables from the environment.
//
//	DOCUMENTS_DIR   (default: ./data/documents)
//	VECTORSTORE_DIR (default: ./data/vectorstore)
//	CHUNK_SIZE      (default: 1000)
//	CHUNK_OVERLAP   (default: CHUNK_SIZE/5)
//	RETRIEVER_K     (default: 5)
//	MAX_CONTEXT_TOKENS (default: 6000)
func ConfigFromEnv() Config {
	return Config{
		DocumentsDir:     getEnvOrDefault("DOCUMENTS_DIR", "./data/documents"),
		StoreDir:         getEnvOrDefault("VECTORSTORE_DIR", "./data/vectorstore"),
		ChunkSize:        getEnvInt("CHUNK_SIZE", 0),
		ChunkOverlap:     getEnvInt("CHUNK_OVERLAP", 0),
		TopK:             getEnvInt("RETRIEVER_K", 5),
		MaxContextTokens: getEnvInt("MAX_CONTEXT_TOKENS", 0),
	}
}

// Pipeline wires the chunker, embedder, index store, retriever, and LLM
// into the ingest and answer operations. Safe for concurrent use: the
// cached index handle is swapped atomically and every answer runs against
// one consistent handle.
type Pipeline struct {
	store     index.Store
	embedder  rag.Embedder
	retriever *rag.DefaultRetriever
	completer provider.Completer
	manifest  manifest.Store
	cfg       Config

	// split chunks a source path. Defaults to loader.Split; a seam for tests.
	split func(source string, cfg loader.Config) ([]rag.Chunk, error)

	// cached holds the current query-ready index handle, nil until the
	// first successful ingest or load.
	cached atomic.Pointer[cachedIndex]
}

// cachedIndex wraps the handle so the atomic pointer has a stable concrete
// type.
type cachedIndex struct {
	idx rag.Index
}

// New constructs a Pipeline. The manifest store may be nil; manifest
// recording is advisory and its absence (or failure) never fails an ingest.
func New(store index.Store, emb rag.Embedder, completer provider.Completer, man manifest.Store, cfg Config) (*Pipeline, error) {
	retriever, err := rag.NewRetriever(emb, cfg.TopK)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	return &Pipeline{
		store:     store,
		embedder:  emb,
		retriever: retriever,
		completer: completer,
		manifest:  man,
		cfg:       cfg,
		split:     loader.Split,
	}, nil
}

// CreateIndex runs a full ingest of source: chunk every document, embed,
// build a fresh index, persist it, and swap it in as the cached handle.
// An empty source falls back to the configured documents directory. The
// previous index keeps serving answers until the new one is fully
// persisted; a failed ingest leaves it untouched.
//
// Returns the number of chunks indexed.
func (p *Pipeline) CreateIndex(ctx context.Context, source string) (int, error) {
	if source == "" {
		source = p.cfg.DocumentsDir
	}
	log := logging.FromContext(ctx)
	started := time.Now()

	chunks, err := p.split(source, loader.Config{
		ChunkSize:    p.cfg.ChunkSize,
		ChunkOverlap: p.cfg.ChunkOverlap,
	})
	if err != nil {
		return 0, fmt.Errorf("pipeline: splitting %s: %w", source, err)
	}

	idx, err := p.store.Build(ctx, chunks, p.embedder)
	if err != nil {
		return 0, fmt.Errorf("pipeline: building index: %w", err)
	}
	if err := p.store.Persist(ctx, idx, p.cfg.StoreDir); err != nil {
		return 0, fmt.Errorf("pipeline: persisting index: %w", err)
	}

	p.cached.Store(&cachedIndex{idx: idx})

	elapsed := time.Since(started)
	log.Info("index rebuilt",
		"source", source,
		"documents", countDocuments(chunks),
		"chunks", len(chunks),
		"elapsed", elapsed.String(),
	)

	if p.manifest != nil {
		err := p.manifest.Record(ctx, manifest.Ingest{
			Source:    source,
			Documents: countDocuments(chunks),
			Chunks:    len(chunks),
			Elapsed:   elapsed,
		})
		if err != nil {
			log.Warn("manifest record failed", "error", err)
		}
	}

	return len(chunks), nil
}

// Answer runs the full question pipeline. If no index is cached it tries to
// load a persisted one first; if none exists the question fails with
// rag.ErrIndexNotFound. When retrieval returns no passages the fixed
// insufficient-context answer is returned directly and the LLM is never
// called.
func (p *Pipeline) Answer(ctx context.Context, question string) (*rag.QueryResult, error) {
	idx, err := p.currentIndex(ctx)
	if err != nil {
		return nil, err
	}

	passages, err := p.retriever.Retrieve(ctx, idx, question, p.cfg.TopK)
	if err != nil {
		return nil, fmt.Errorf("pipeline: retrieving: %w", err)
	}

	if len(passages) == 0 {
		return &rag.QueryResult{
			Answer:  prompt.InsufficientContextAnswer,
			Sources: []rag.Citation{},
		}, nil
	}

	passages = budget.TrimPassages(passages, p.cfg.MaxContextTokens)

	answer, err := p.completer.Complete(ctx, prompt.Build(question, passages))
	if err != nil {
		return nil, fmt.Errorf("pipeline: generating answer: %w", err)
	}

	return &rag.QueryResult{
		Answer:  strings.TrimSpace(answer),
		Sources: rag.ExtractCitations(passages),
	}, nil
}

// IndexSize reports the vector count of the current index handle, loading
// a persisted index if none is cached yet. It returns 0 when no index
// exists.
func (p *Pipeline) IndexSize(ctx context.Context) int {
	idx, err := p.currentIndex(ctx)
	if err != nil {
		return 0
	}
	return idx.Len()
}

// currentIndex returns the cached handle, lazily loading the persisted
// index on first use. Concurrent first calls may both load; the handle is
// immutable so either winner is correct.
func (p *Pipeline) currentIndex(ctx context.Context) (rag.Index, error) {
	if c := p.cached.Load(); c != nil {
		return c.idx, nil
	}

	idx, err := p.store.Load(ctx, p.cfg.StoreDir)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	p.cached.Store(&cachedIndex{idx: idx})
	return idx, nil
}

// countDocuments counts the distinct source files in a chunk slice.
func countDocuments(chunks []rag.Chunk) int {
	seen := make(map[string]struct{}, 8)
	for _, c := range chunks {
		seen[c.SourceFile] = struct{}{}
	}
	return len(seen)
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			return i
		}
	}
	return fallback
}
