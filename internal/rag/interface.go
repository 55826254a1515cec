// Package rag defines the domain types and capability interfaces for the
// retrieval-augmented answer pipeline: document chunks, embeddings, the
// vector index handle, and retrieval. Concrete implementations (chromem,
// Qdrant, Ollama, OpenAI-compatible APIs) satisfy these interfaces so the
// pipeline layer never depends on a specific backend.
package rag

import (
	"context"
)

// Chunk is a bounded span of source-document text tagged with its origin.
// Chunks are created during ingest and immutable thereafter; a rebuild of
// the index replaces them wholesale.
type Chunk struct {
	// Text is the raw text content of the chunk.
	Text string

	// SourceFile is the basename of the originating document (e.g.
	// "companies_act.pdf"), never a full path.
	SourceFile string

	// Page is the 1-based page number the chunk's text starts on.
	// Page numbers are 1-based everywhere in this codebase — internally,
	// in the persisted index, and in citations.
	Page int

	// ChunkIndex is the position of this chunk within its source file's
	// chunk sequence.
	ChunkIndex int
}

// Passage is a Chunk returned from a similarity search, together with its
// rank among the results for that query. Passages are per-request and
// never persisted.
type Passage struct {
	// Chunk is the retrieved chunk; its fields are promoted onto the
	// passage.
	Chunk

	// Rank is the 1-based position of this passage in the result list,
	// nearest first.
	Rank int
}

// Citation is a (file, page) pointer back to the source material backing a
// claim in a generated answer.
type Citation struct {
	// File is the source document basename.
	File string `json:"file"`

	// Page is the 1-based page number.
	Page int `json:"page"`

	// Snippet is a fixed-length, whitespace-trimmed prefix of the chunk
	// text — a preview of the cited location, not a summary.
	Snippet string `json:"snippet"`
}

// QueryResult is the top-level response for a single question: the
// synthesized answer plus the de-duplicated citation list, ordered by
// retrieval rank.
type QueryResult struct {
	// Answer is the whitespace-trimmed answer text.
	Answer string `json:"answer"`

	// Sources lists the unique (file, page) locations the answer draws on.
	Sources []Citation `json:"sources"`
}

// Embedder converts text into dense vector embeddings.
// Single-text embedding is a one-element batch.
// Implementations must be safe to call from multiple goroutines.
type Embedder interface {
	// Embed converts a batch of texts into their corresponding embeddings.
	// The returned slice is parallel to the input slice.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Index is a query-ready, read-only handle over an embedded chunk corpus.
// Handles are immutable after construction, so concurrent Search calls are
// always safe; a rebuild produces a new handle rather than mutating one.
type Index interface {
	// Search returns the k chunks nearest to queryEmbedding, nearest first.
	// If the index holds fewer than k entries, all of them are returned; an
	// empty index yields an empty slice, not an error.
	Search(ctx context.Context, queryEmbedding []float32, k int) ([]Passage, error)

	// Len returns the number of vectors in the index.
	Len() int
}
