package rag

import (
	"context"
	"errors"
	"testing"
)

// fakeEmbedder returns a fixed vector for every input text.
type fakeEmbedder struct {
	vector []float32
	err    error
	calls  int
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = f.vector
	}
	return out, nil
}

// fakeIndex records the search it was asked to perform and returns canned
// passages.
type fakeIndex struct {
	passages []Passage
	gotK     int
	gotQuery []float32
}

func (f *fakeIndex) Search(_ context.Context, query []float32, k int) ([]Passage, error) {
	f.gotQuery = query
	f.gotK = k
	if k > len(f.passages) {
		k = len(f.passages)
	}
	return f.passages[:k], nil
}

func (f *fakeIndex) Len() int { return len(f.passages) }

func TestRetrieve_PassesThroughIndexOrder(t *testing.T) {
	t.Parallel()

	idx := &fakeIndex{passages: []Passage{
		{Chunk: Chunk{SourceFile: "a.pdf", Page: 1}, Rank: 1},
		{Chunk: Chunk{SourceFile: "b.pdf", Page: 2}, Rank: 2},
		{Chunk: Chunk{SourceFile: "c.pdf", Page: 3}, Rank: 3},
	}}
	emb := &fakeEmbedder{vector: []float32{0.1, 0.2}}

	r, err := NewRetriever(emb, 5)
	if err != nil {
		t.Fatalf("NewRetriever: %v", err)
	}

	got, err := r.Retrieve(context.Background(), idx, "what powers do directors have?", 3)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}

	if idx.gotK != 3 {
		t.Errorf("expected k=3 passed to index, got %d", idx.gotK)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 passages, got %d", len(got))
	}
	for i, p := range got {
		if p.Rank != i+1 {
			t.Errorf("passage %d: rank %d, want %d", i, p.Rank, i+1)
		}
	}
}

func TestRetrieve_DefaultTopK(t *testing.T) {
	t.Parallel()

	idx := &fakeIndex{}
	emb := &fakeEmbedder{vector: []float32{1}}

	r, err := NewRetriever(emb, 7)
	if err != nil {
		t.Fatalf("NewRetriever: %v", err)
	}

	if _, err := r.Retrieve(context.Background(), idx, "q", 0); err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if idx.gotK != 7 {
		t.Errorf("expected configured default k=7, got %d", idx.gotK)
	}
}

func TestRetrieve_EmbedderFailurePropagates(t *testing.T) {
	t.Parallel()

	embErr := errors.New("connection refused")
	emb := &fakeEmbedder{err: embErr}

	r, err := NewRetriever(emb, 5)
	if err != nil {
		t.Fatalf("NewRetriever: %v", err)
	}

	_, err = r.Retrieve(context.Background(), &fakeIndex{}, "q", 5)
	if !errors.Is(err, embErr) {
		t.Errorf("expected wrapped embedder error, got %v", err)
	}
}

func TestNewRetriever_NilEmbedder(t *testing.T) {
	t.Parallel()

	if _, err := NewRetriever(nil, 5); err == nil {
		t.Error("expected error for nil embedder")
	}
}
