package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/juris-ai/lexrag-go/internal/rag"
)

func TestSplit_MissingSource(t *testing.T) {
	t.Parallel()

	_, err := Split(filepath.Join(t.TempDir(), "does-not-exist.pdf"), Config{})
	if !errors.Is(err, rag.ErrSourceNotFound) {
		t.Errorf("expected ErrSourceNotFound, got %v", err)
	}
}

func TestSplit_EmptyDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	// A directory with non-PDF content still counts as empty.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Split(dir, Config{})
	if !errors.Is(err, rag.ErrNoDocumentsFound) {
		t.Errorf("expected ErrNoDocumentsFound, got %v", err)
	}
}

func TestResolveSources_LexicographicOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"b_act.pdf", "a_act.pdf", "c_act.PDF"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	paths, err := resolveSources(dir)
	if err != nil {
		t.Fatalf("resolveSources: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("expected 3 paths, got %d", len(paths))
	}
	for i := 1; i < len(paths); i++ {
		if paths[i-1] >= paths[i] {
			t.Errorf("paths not sorted: %v", paths)
		}
	}
}

func TestSplitPages_CoversFullText(t *testing.T) {
	t.Parallel()

	// For every valid (size, overlap) pair, de-overlapping the chunk
	// sequence must reconstruct the full concatenated text — no runes
	// silently dropped between windows.
	text := strings.Repeat("the directors of a company may exercise all powers ", 40)
	cases := []struct{ size, overlap int }{
		{100, 20},
		{256, 0},
		{64, 63},
		{1000, 200},
	}

	for _, tc := range cases {
		chunks := splitPages("act.pdf", []page{{number: 1, text: text}}, Config{
			ChunkSize:    tc.size,
			ChunkOverlap: tc.overlap,
		})
		if len(chunks) == 0 {
			t.Fatalf("size=%d overlap=%d: no chunks", tc.size, tc.overlap)
		}

		var sb strings.Builder
		sb.WriteString(chunks[0].Text)
		for _, c := range chunks[1:] {
			runes := []rune(c.Text)
			if len(runes) < tc.overlap {
				// Final short chunk: fully contained in the previous
				// window's overlap region.
				continue
			}
			sb.WriteString(string(runes[tc.overlap:]))
		}

		if sb.String() != strings.TrimSpace(text) {
			t.Errorf("size=%d overlap=%d: reconstruction mismatch (got %d runes, want %d)",
				tc.size, tc.overlap, len([]rune(sb.String())), len([]rune(strings.TrimSpace(text))))
		}
	}
}

func TestSplitPages_TagsStartingPage(t *testing.T) {
	t.Parallel()

	pages := []page{
		{number: 1, text: strings.Repeat("a", 150)},
		{number: 2, text: strings.Repeat("b", 150)},
	}
	chunks := splitPages("act.pdf", pages, Config{ChunkSize: 100, ChunkOverlap: 10})

	if chunks[0].Page != 1 {
		t.Errorf("first chunk page: got %d, want 1", chunks[0].Page)
	}
	// A chunk starting inside page 2's text carries page 2, even though the
	// window may have begun mid-overlap.
	last := chunks[len(chunks)-1]
	if last.Page != 2 {
		t.Errorf("last chunk page: got %d, want 2", last.Page)
	}
	// A chunk that starts on page 1 and spills into page 2 keeps page 1.
	for _, c := range chunks {
		if strings.Contains(c.Text, "a") && strings.Contains(c.Text, "b") && c.Page != 1 {
			t.Errorf("boundary-spanning chunk tagged page %d, want 1", c.Page)
		}
	}
}

func TestSplitPages_ChunkIndexSequential(t *testing.T) {
	t.Parallel()

	chunks := splitPages("act.pdf", []page{{number: 1, text: strings.Repeat("x", 500)}},
		Config{ChunkSize: 100, ChunkOverlap: 20})

	for i, c := range chunks {
		if c.ChunkIndex != i {
			t.Errorf("chunk %d: index %d", i, c.ChunkIndex)
		}
		if c.SourceFile != "act.pdf" {
			t.Errorf("chunk %d: source %q", i, c.SourceFile)
		}
	}
}

func TestSplitPages_EmptyPagesSkipped(t *testing.T) {
	t.Parallel()

	chunks := splitPages("act.pdf", []page{
		{number: 1, text: "   "},
		{number: 2, text: "substantive content on page two"},
	}, Config{ChunkSize: 100, ChunkOverlap: 10})

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Page != 2 {
		t.Errorf("chunk page: got %d, want 2", chunks[0].Page)
	}
}

func TestConfigResolve_Defaults(t *testing.T) {
	t.Parallel()

	cfg := Config{}.resolve()
	if cfg.ChunkSize != 1000 || cfg.ChunkOverlap != 200 {
		t.Errorf("defaults: got size=%d overlap=%d", cfg.ChunkSize, cfg.ChunkOverlap)
	}

	// Overlap must stay below size.
	cfg = Config{ChunkSize: 100, ChunkOverlap: 100}.resolve()
	if cfg.ChunkOverlap >= cfg.ChunkSize {
		t.Errorf("overlap %d not clamped below size %d", cfg.ChunkOverlap, cfg.ChunkSize)
	}
}
