package manifest

import (
	"context"
	"errors"
	"testing"
	"time"
)

// openTestStore opens an in-memory SQLiteStore for use in tests.
func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func Test_Manifest_RecordAndLast(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	want := Ingest{
		Source:    "/docs",
		Documents: 3,
		Chunks:    128,
		Elapsed:   4200 * time.Millisecond,
		CreatedAt: time.Unix(1700000000, 0),
	}
	if err := s.Record(ctx, want); err != nil {
		t.Fatalf("record: %v", err)
	}

	got, err := s.Last(ctx)
	if err != nil {
		t.Fatalf("last: %v", err)
	}
	if got.Source != want.Source || got.Documents != want.Documents || got.Chunks != want.Chunks {
		t.Errorf("last = %+v, want %+v", got, want)
	}
	if got.Elapsed != want.Elapsed {
		t.Errorf("elapsed = %v, want %v", got.Elapsed, want.Elapsed)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("created at = %v, want %v", got.CreatedAt, want.CreatedAt)
	}
}

func Test_Manifest_LastReturnsNewestRun(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	runs := []Ingest{
		{Source: "/docs", Chunks: 10, CreatedAt: time.Unix(1000, 0)},
		{Source: "/docs", Chunks: 20, CreatedAt: time.Unix(2000, 0)},
		{Source: "/more", Chunks: 30, CreatedAt: time.Unix(3000, 0)},
	}
	for _, r := range runs {
		if err := s.Record(ctx, r); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	got, err := s.Last(ctx)
	if err != nil {
		t.Fatalf("last: %v", err)
	}
	if got.Source != "/more" || got.Chunks != 30 {
		t.Errorf("last = %+v, want the newest run", got)
	}
}

func Test_Manifest_EmptyReturnsErrEmpty(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	_, err := s.Last(context.Background())
	if !errors.Is(err, ErrEmpty) {
		t.Errorf("want ErrEmpty, got %v", err)
	}
}

func Test_Manifest_CreatedAtDefaultsToNow(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	before := time.Now().Add(-time.Second)
	if err := s.Record(ctx, Ingest{Source: "/docs", Chunks: 1}); err != nil {
		t.Fatalf("record: %v", err)
	}

	got, err := s.Last(ctx)
	if err != nil {
		t.Fatalf("last: %v", err)
	}
	if got.CreatedAt.Before(before) {
		t.Errorf("created at %v not defaulted to now", got.CreatedAt)
	}
}

func Test_Manifest_OpenCreatesDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir() + "/nested/store"
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	if err := s.Record(context.Background(), Ingest{Source: "x", Chunks: 1}); err != nil {
		t.Errorf("record into fresh directory: %v", err)
	}
}
