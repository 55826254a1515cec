package rag

import (
	"context"
	"fmt"
)

// DefaultRetriever embeds a query and delegates similarity search to an
// Index handle. No query-side filtering, reranking, or score thresholding
// is applied — results pass through in the index's similarity order.
type DefaultRetriever struct {
	// embedder converts query text to a dense vector.
	embedder Embedder

	// defaultTopK is the number of results to return when the caller passes 0.
	defaultTopK int
}

// NewRetriever constructs a DefaultRetriever from the given Embedder.
// defaultTopK sets the fallback result count when Retrieve is called with
// topK=0; it defaults to 5 when non-positive.
func NewRetriever(embedder Embedder, defaultTopK int) (*DefaultRetriever, error) {
	if embedder == nil {
		return nil, fmt.Errorf("rag: embedder must not be nil")
	}
	if defaultTopK <= 0 {
		defaultTopK = 5
	}
	return &DefaultRetriever{
		embedder:    embedder,
		defaultTopK: defaultTopK,
	}, nil
}

// Retrieve embeds the query and returns the top-k passages from idx,
// nearest first. The Index handle is a per-call argument rather than a
// struct field because the pipeline swaps handles atomically on rebuild —
// a retrieval must run entirely against one consistent handle.
func (r *DefaultRetriever) Retrieve(ctx context.Context, idx Index, query string, topK int) ([]Passage, error) {
	if idx == nil {
		return nil, fmt.Errorf("rag: index must not be nil")
	}
	if topK <= 0 {
		topK = r.defaultTopK
	}

	embeddings, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("rag: embedding query failed: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("rag: embedder returned empty result for query: %w", ErrUpstream)
	}

	passages, err := idx.Search(ctx, embeddings[0], topK)
	if err != nil {
		return nil, fmt.Errorf("rag: vector search failed: %w", err)
	}

	return passages, nil
}
