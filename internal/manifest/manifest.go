// Package manifest records ingest runs in a SQLite database stored next to
// the vector index. The manifest is advisory: answering never consults it,
// the index file alone is authoritative. It exists so operators can ask
// "what was last ingested, when, and how big was it" without re-reading the
// document corpus.
package manifest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register "sqlite" driver
)

// Ingest describes one completed ingest run.
type Ingest struct {
	// Source is the file or directory that was ingested.
	Source string
	// Documents is the number of source files chunked.
	Documents int
	// Chunks is the number of chunks indexed.
	Chunks int
	// Elapsed is how long the run took.
	Elapsed time.Duration
	// CreatedAt is when the run finished.
	CreatedAt time.Time
}

// ErrEmpty is returned by Last when no ingest has ever been recorded.
var ErrEmpty = errors.New("manifest: no ingests recorded")

// Store persists ingest runs. Implementations must be safe for concurrent
// use.
type Store interface {
	// Record persists one completed ingest run.
	Record(ctx context.Context, ing Ingest) error
	// Last returns the most recent ingest run, or ErrEmpty.
	Last(ctx context.Context) (Ingest, error)
	// Close releases any resources held by the store.
	Close() error
}

// SQLiteStore is a Store backed by a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (or creates) a SQLiteStore at dir/manifest.db and runs the
// schema migration. Pass ":memory:" as dir for an in-memory database in
// tests.
func Open(dir string) (*SQLiteStore, error) {
	path := dir
	if dir != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("manifest: could not create %s: %w", dir, err)
		}
		path = filepath.Join(dir, "manifest.db")
	}

	// WAL mode improves concurrent read performance and is safe for single-host use.
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", path, err)
	}
	// Limit to a single writer connection to avoid SQLITE_BUSY under concurrent writes.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// migrate creates the schema if it does not already exist.
func (s *SQLiteStore) migrate() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS ingests (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    source      TEXT    NOT NULL,
    documents   INTEGER NOT NULL,
    chunks      INTEGER NOT NULL,
    elapsed_ms  INTEGER NOT NULL,
    created_at  INTEGER NOT NULL  -- Unix timestamp (seconds)
);
CREATE INDEX IF NOT EXISTS idx_ingests_created ON ingests (created_at);
`
	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("manifest: migrate: %w", err)
	}
	return nil
}

// Record persists one completed ingest run.
func (s *SQLiteStore) Record(ctx context.Context, ing Ingest) error {
	createdAt := ing.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	const q = `INSERT INTO ingests (source, documents, chunks, elapsed_ms, created_at) VALUES (?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, q,
		ing.Source, ing.Documents, ing.Chunks, ing.Elapsed.Milliseconds(), createdAt.Unix()); err != nil {
		return fmt.Errorf("manifest: record: %w", err)
	}
	return nil
}

// Last returns the most recent ingest run.
func (s *SQLiteStore) Last(ctx context.Context) (Ingest, error) {
	const q = `
SELECT source, documents, chunks, elapsed_ms, created_at
FROM   ingests
ORDER  BY created_at DESC, id DESC
LIMIT  1`

	var (
		ing       Ingest
		elapsedMS int64
		ts        int64
	)
	err := s.db.QueryRowContext(ctx, q).Scan(&ing.Source, &ing.Documents, &ing.Chunks, &elapsedMS, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return Ingest{}, ErrEmpty
	}
	if err != nil {
		return Ingest{}, fmt.Errorf("manifest: last: %w", err)
	}
	ing.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	ing.CreatedAt = time.Unix(ts, 0)
	return ing, nil
}

// Close releases the database connection pool.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("manifest: close: %w", err)
	}
	return nil
}
