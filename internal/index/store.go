// Package index builds, persists, and loads the vector index that backs
// retrieval. A Store is the lifecycle handle: Build produces a fresh
// searchable index from chunks (a full rebuild, never an incremental
// update), Persist writes it durably, and Load restores a previously
// persisted index. Two backends exist: a local single-file store built on
// chromem-go, and a Qdrant-backed store for shared deployments.
package index

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/juris-ai/lexrag-go/internal/embedder"
	"github.com/juris-ai/lexrag-go/internal/rag"
)

// Metadata keys attached to every stored vector. They carry the citation
// fields back out of the index at search time.
const (
	metaSource = "source"
	metaPage   = "page"
	metaChunk  = "chunk"
)

// Store manages the full lifecycle of a vector index.
//
// Build always produces a complete new index from the given chunks; callers
// that want to refresh an index rebuild it from scratch and swap the handle.
// Persist and Load operate on the directory passed at call time so a single
// Store can serve multiple index locations.
type Store interface {
	// Build embeds every chunk and assembles a searchable index. The
	// returned index is independent of any previously built one.
	Build(ctx context.Context, chunks []rag.Chunk, emb rag.Embedder) (rag.Index, error)

	// Persist writes idx durably under dir. Indexes from a different Store
	// implementation are rejected.
	Persist(ctx context.Context, idx rag.Index, dir string) error

	// Load restores the index persisted under dir. It returns
	// rag.ErrIndexNotFound when nothing has been persisted there.
	Load(ctx context.Context, dir string) (rag.Index, error)
}

// NewStoreFromEnv selects a Store backend from the environment.
//
//	VECTOR_BACKEND = local | qdrant   (default: local)
//
// The qdrant backend additionally reads QDRANT_HOST, QDRANT_PORT,
// QDRANT_COLLECTION, QDRANT_API_KEY and QDRANT_USE_TLS. The vector size is
// taken from the embedding configuration so collection creation matches the
// embedder in use.
func NewStoreFromEnv(ctx context.Context) (Store, error) {
	backend := os.Getenv("VECTOR_BACKEND")
	if backend == "" {
		backend = "local"
	}

	switch backend {
	case "local":
		return NewLocalStore(), nil

	case "qdrant":
		port := 6334
		if v := os.Getenv("QDRANT_PORT"); v != "" {
			p, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("index: %w: invalid QDRANT_PORT %q", rag.ErrConfiguration, v)
			}
			port = p
		}
		collection := os.Getenv("QDRANT_COLLECTION")
		if collection == "" {
			collection = "lexrag"
		}
		dims := embedder.DefaultDimensions(os.Getenv("EMBEDDING_PROVIDER"))
		return NewQdrantStore(ctx, &QdrantConfig{
			Host:       os.Getenv("QDRANT_HOST"),
			Port:       port,
			Collection: collection,
			VectorSize: uint64(dims),
			APIKey:     os.Getenv("QDRANT_API_KEY"),
			UseTLS:     os.Getenv("QDRANT_USE_TLS") == "true",
		})

	default:
		return nil, fmt.Errorf("index: %w: unknown backend %q (valid values: local, qdrant)",
			rag.ErrConfiguration, backend)
	}
}
