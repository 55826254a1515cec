package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	chromem "github.com/philippgille/chromem-go"

	"github.com/juris-ai/lexrag-go/internal/rag"
)

const (
	// collectionName is the single chromem collection each index file holds.
	collectionName = "chunks"

	// indexFileName is the persisted index file inside the store directory.
	indexFileName = "index.chromem"
)

// noQueryEmbedding is installed as the collection's embedding function.
// Every document is added with a precomputed embedding and every query goes
// through QueryEmbedding, so chromem must never embed on our behalf; if it
// tries, something upstream handed it a document without a vector.
func noQueryEmbedding(ctx context.Context, text string) ([]float32, error) {
	return nil, fmt.Errorf("index: embedding requested for %d bytes of text, but all embeddings are precomputed", len(text))
}

// LocalStore persists indexes as a single compressed export file on local
// disk. Build assembles an in-memory chromem-go database; Persist snapshots
// it to dir/index.chromem; Load restores the snapshot into a fresh database.
type LocalStore struct{}

// NewLocalStore returns a Store backed by chromem-go and the local
// filesystem.
func NewLocalStore() *LocalStore {
	return &LocalStore{}
}

// localIndex is a searchable handle over one in-memory chromem database.
type localIndex struct {
	db   *chromem.DB
	coll *chromem.Collection
}

// Build embeds all chunks and assembles a fresh in-memory index.
func (s *LocalStore) Build(ctx context.Context, chunks []rag.Chunk, emb rag.Embedder) (rag.Index, error) {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	embeddings, err := emb.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("index: embedding %d chunks: %w", len(chunks), err)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("index: %w: embedder returned %d vectors for %d chunks",
			rag.ErrUpstream, len(embeddings), len(chunks))
	}

	db := chromem.NewDB()
	coll, err := db.CreateCollection(collectionName, nil, noQueryEmbedding)
	if err != nil {
		return nil, fmt.Errorf("index: creating collection: %w", err)
	}

	docs := make([]chromem.Document, len(chunks))
	for i, c := range chunks {
		docs[i] = chromem.Document{
			ID:        fmt.Sprintf("%s-%d-%d", c.SourceFile, c.Page, c.ChunkIndex),
			Content:   c.Text,
			Embedding: embeddings[i],
			Metadata: map[string]string{
				metaSource: c.SourceFile,
				metaPage:   strconv.Itoa(c.Page),
				metaChunk:  strconv.Itoa(c.ChunkIndex),
			},
		}
	}
	if len(docs) > 0 {
		if err := coll.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
			return nil, fmt.Errorf("index: adding %d documents: %w", len(docs), err)
		}
	}

	return &localIndex{db: db, coll: coll}, nil
}

// Persist snapshots the index to dir/index.chromem. The export is written
// to a uniquely named temporary file first and renamed into place, so a
// crash mid-write never leaves a truncated index behind and overlapping
// persists to the same directory cannot interleave their exports.
func (s *LocalStore) Persist(ctx context.Context, idx rag.Index, dir string) error {
	li, ok := idx.(*localIndex)
	if !ok {
		return fmt.Errorf("index: cannot persist %T with a local store", idx)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("index: creating store directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, indexFileName+".*")
	if err != nil {
		return fmt.Errorf("index: creating temp file in %s: %w", dir, err)
	}
	tmp := tmpFile.Name()
	tmpFile.Close()

	final := filepath.Join(dir, indexFileName)
	if err := li.db.ExportToFile(tmp, true, "", collectionName); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("index: exporting to %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("index: installing %s: %w", final, err)
	}

	return nil
}

// Load restores a persisted index from dir/index.chromem. A missing file
// maps to rag.ErrIndexNotFound so callers can tell "never ingested" apart
// from a corrupt or unreadable store.
func (s *LocalStore) Load(ctx context.Context, dir string) (rag.Index, error) {
	path := filepath.Join(dir, indexFileName)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("index: %w: %s", rag.ErrIndexNotFound, path)
		}
		return nil, fmt.Errorf("index: checking %s: %w", path, err)
	}

	db := chromem.NewDB()
	if err := db.ImportFromFile(path, ""); err != nil {
		return nil, fmt.Errorf("index: importing %s: %w", path, err)
	}
	coll := db.GetCollection(collectionName, noQueryEmbedding)
	if coll == nil {
		return nil, fmt.Errorf("index: %w: %s holds no %q collection", rag.ErrIndexNotFound, path, collectionName)
	}

	return &localIndex{db: db, coll: coll}, nil
}

// Search returns the k most similar passages by cosine similarity, best
// first. k is clamped to the index size; an empty index yields no passages
// and no error.
func (idx *localIndex) Search(ctx context.Context, queryEmbedding []float32, k int) ([]rag.Passage, error) {
	count := idx.coll.Count()
	if count == 0 || k <= 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	results, err := idx.coll.QueryEmbedding(ctx, queryEmbedding, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("index: querying: %w", err)
	}

	passages := make([]rag.Passage, 0, len(results))
	for i, r := range results {
		page, _ := strconv.Atoi(r.Metadata[metaPage])
		chunkIndex, _ := strconv.Atoi(r.Metadata[metaChunk])
		passages = append(passages, rag.Passage{
			Chunk: rag.Chunk{
				Text:       r.Content,
				SourceFile: r.Metadata[metaSource],
				Page:       page,
				ChunkIndex: chunkIndex,
			},
			Rank: i + 1,
		})
	}

	return passages, nil
}

// Len reports the number of indexed chunks.
func (idx *localIndex) Len() int {
	return idx.coll.Count()
}
