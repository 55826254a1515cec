package index

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"

	"github.com/juris-ai/lexrag-go/internal/rag"
)

// QdrantConfig holds connection parameters for a Qdrant-backed store.
type QdrantConfig struct {
	// Host is the Qdrant server hostname (default: localhost).
	Host string

	// Port is the Qdrant gRPC port (default: 6334).
	Port int

	// Collection is the Qdrant collection name to use.
	Collection string

	// VectorSize is the dimensionality of the embeddings stored in this collection.
	VectorSize uint64

	// APIKey is the optional Qdrant API key for authenticated clusters.
	APIKey string

	// UseTLS enables TLS for the gRPC connection.
	UseTLS bool
}

// QdrantStore implements Store backed by a Qdrant instance. Durability is
// handled server-side, so Persist is a no-op and Load only verifies the
// collection exists. Build drops and recreates the collection: the index is
// always a full rebuild, matching the local backend's semantics.
type QdrantStore struct {
	client *qdrant.Client
	cfg    *QdrantConfig
}

// NewQdrantStore creates a Qdrant-backed Store. The collection itself is
// created lazily by Build.
func NewQdrantStore(ctx context.Context, cfg *QdrantConfig) (*QdrantStore, error) {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 6334
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: failed to create client: %w", err)
	}

	return &QdrantStore{client: client, cfg: cfg}, nil
}

// qdrantIndex is a searchable handle over one Qdrant collection. count is
// the collection size observed when the handle was created.
type qdrantIndex struct {
	client     *qdrant.Client
	collection string
	count      int
}

// Build embeds every chunk and replaces the collection's contents with the
// result.
func (s *QdrantStore) Build(ctx context.Context, chunks []rag.Chunk, emb rag.Embedder) (rag.Index, error) {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	embeddings, err := emb.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("qdrant: embedding %d chunks: %w", len(chunks), err)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("qdrant: %w: embedder returned %d vectors for %d chunks",
			rag.ErrUpstream, len(embeddings), len(chunks))
	}

	if err := s.recreateCollection(ctx); err != nil {
		return nil, err
	}

	points := make([]*qdrant.PointStruct, 0, len(chunks))
	for i, c := range chunks {
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(uint64(i)),
			Vectors: qdrant.NewVectors(embeddings[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"content":  c.Text,
				metaSource: c.SourceFile,
				metaPage:   int64(c.Page),
				metaChunk:  int64(c.ChunkIndex),
			}),
		})
	}
	if len(points) > 0 {
		if _, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: s.cfg.Collection,
			Points:         points,
		}); err != nil {
			return nil, fmt.Errorf("qdrant: upsert failed: %w", err)
		}
	}

	return &qdrantIndex{client: s.client, collection: s.cfg.Collection, count: len(chunks)}, nil
}

// recreateCollection drops the collection if it exists and creates a fresh
// one sized for the configured embeddings.
func (s *QdrantStore) recreateCollection(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, s.cfg.Collection)
	if err != nil {
		return fmt.Errorf("qdrant: failed to check collection existence: %w", err)
	}
	if exists {
		if err := s.client.DeleteCollection(ctx, s.cfg.Collection); err != nil {
			return fmt.Errorf("qdrant: failed to drop collection %q: %w", s.cfg.Collection, err)
		}
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.cfg.Collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     s.cfg.VectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("qdrant: failed to create collection %q: %w", s.cfg.Collection, err)
	}

	return nil
}

// Persist is a no-op: Qdrant durably stores points at Upsert time.
func (s *QdrantStore) Persist(ctx context.Context, idx rag.Index, dir string) error {
	if _, ok := idx.(*qdrantIndex); !ok {
		return fmt.Errorf("qdrant: cannot persist %T with a qdrant store", idx)
	}
	return nil
}

// Load returns a handle to the existing collection, or rag.ErrIndexNotFound
// when nothing has been ingested yet.
func (s *QdrantStore) Load(ctx context.Context, dir string) (rag.Index, error) {
	exists, err := s.client.CollectionExists(ctx, s.cfg.Collection)
	if err != nil {
		return nil, fmt.Errorf("qdrant: failed to check collection existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("qdrant: %w: collection %q", rag.ErrIndexNotFound, s.cfg.Collection)
	}

	count, err := s.client.Count(ctx, &qdrant.CountPoints{CollectionName: s.cfg.Collection})
	if err != nil {
		return nil, fmt.Errorf("qdrant: failed to count collection %q: %w", s.cfg.Collection, err)
	}

	return &qdrantIndex{client: s.client, collection: s.cfg.Collection, count: int(count)}, nil
}

// Ping reports whether the Qdrant server is reachable.
func (s *QdrantStore) Ping(ctx context.Context) error {
	if _, err := s.client.HealthCheck(ctx); err != nil {
		return fmt.Errorf("qdrant: health check failed: %w", err)
	}
	return nil
}

// Close closes the underlying Qdrant gRPC connection.
func (s *QdrantStore) Close() error {
	return s.client.Close()
}

// Search performs a cosine similarity search and returns the top-k passages,
// best first.
func (idx *qdrantIndex) Search(ctx context.Context, queryEmbedding []float32, k int) ([]rag.Passage, error) {
	if k <= 0 {
		return nil, nil
	}

	limit := uint64(k)
	results, err := idx.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: idx.collection,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: search failed: %w", err)
	}

	passages := make([]rag.Passage, 0, len(results))
	for i, r := range results {
		chunk := rag.Chunk{}
		if p := r.Payload; p != nil {
			if v, ok := p["content"]; ok {
				chunk.Text = v.GetStringValue()
			}
			if v, ok := p[metaSource]; ok {
				chunk.SourceFile = v.GetStringValue()
			}
			if v, ok := p[metaPage]; ok {
				chunk.Page = int(v.GetIntegerValue())
			}
			if v, ok := p[metaChunk]; ok {
				chunk.ChunkIndex = int(v.GetIntegerValue())
			}
		}
		passages = append(passages, rag.Passage{Chunk: chunk, Rank: i + 1})
	}

	return passages, nil
}

// Len reports the collection size observed when this handle was created.
func (idx *qdrantIndex) Len() int {
	return idx.count
}
