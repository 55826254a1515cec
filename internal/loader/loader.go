// Package loader implements the document chunking stage of the ingest
// pipeline. It reads PDF sources (a single file or a directory scanned in
// lexicographic order), extracts page-tagged text, and splits each document
// into overlapping fixed-size windows that preserve source file and page
// metadata for citation building. The loader performs no I/O beyond reading
// the source files.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/juris-ai/lexrag-go/internal/rag"
)

// sourceExt is the file extension of supported documents.
const sourceExt = ".pdf"

// Config holds the chunking parameters.
type Config struct {
	// ChunkSize is the maximum number of runes per chunk.
	// Defaults to 1000 if zero.
	ChunkSize int

	// ChunkOverlap is the number of runes shared between consecutive
	// chunks. Must be smaller than ChunkSize; defaults to 200 if negative
	// or out of range.
	ChunkOverlap int
}

// resolve applies the default chunking parameters.
func (c Config) resolve() Config {
	if c.ChunkSize <= 0 {
		c.ChunkSize = 1000
	}
	if c.ChunkOverlap <= 0 || c.ChunkOverlap >= c.ChunkSize {
		c.ChunkOverlap = c.ChunkSize / 5
	}
	return c
}

// Split loads documents from source (a PDF file or a directory of PDFs) and
// returns their chunked text. Directory entries are processed in
// lexicographic order so repeated ingests of the same corpus produce
// identical chunk sequences.
//
// Fails with rag.ErrSourceNotFound when source does not exist and with
// rag.ErrNoDocumentsFound when a directory contains no PDFs.
func Split(source string, cfg Config) ([]rag.Chunk, error) {
	paths, err := resolveSources(source)
	if err != nil {
		return nil, err
	}

	cfg = cfg.resolve()

	var chunks []rag.Chunk
	for _, path := range paths {
		pages, err := extractPages(path)
		if err != nil {
			return nil, fmt.Errorf("loader: extracting %s: %w", path, err)
		}
		chunks = append(chunks, splitPages(filepath.Base(path), pages, cfg)...)
	}

	return chunks, nil
}

// resolveSources expands source into the ordered list of document paths.
func resolveSources(source string) ([]string, error) {
	info, err := os.Stat(source)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("loader: %w: %s", rag.ErrSourceNotFound, source)
		}
		return nil, fmt.Errorf("loader: stat %s: %w", source, err)
	}

	if !info.IsDir() {
		return []string{source}, nil
	}

	entries, err := os.ReadDir(source)
	if err != nil {
		return nil, fmt.Errorf("loader: reading directory %s: %w", source, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), sourceExt) {
			paths = append(paths, filepath.Join(source, e.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("loader: %w: no %s files in %s", rag.ErrNoDocumentsFound, sourceExt, source)
	}

	sort.Strings(paths)
	return paths, nil
}

// page is the extracted text of one document page. Pages are 1-based to
// match PDF page numbering and citation display.
type page struct {
	// number is the 1-based page number.
	number int
	// text is the extracted plain text of the page.
	text string
}

// splitPages windows the concatenated page text of one document into
// overlapping chunks. Each chunk is tagged with the page its first rune
// falls on; a chunk whose text runs across a page boundary keeps the page
// it started on.
func splitPages(sourceFile string, pages []page, cfg Config) []rag.Chunk {
	// Concatenate pages with a newline separator, recording the rune
	// offset at which each page starts so a chunk offset maps back to its
	// starting page.
	var full []rune
	starts := make([]int, 0, len(pages))
	numbers := make([]int, 0, len(pages))
	for _, p := range pages {
		text := strings.TrimSpace(p.text)
		if text == "" {
			continue
		}
		if len(full) > 0 {
			full = append(full, '\n')
		}
		starts = append(starts, len(full))
		numbers = append(numbers, p.number)
		full = append(full, []rune(text)...)
	}
	if len(full) == 0 {
		return nil
	}

	pageAt := func(offset int) int {
		n := numbers[0]
		for i, s := range starts {
			if s > offset {
				break
			}
			n = numbers[i]
		}
		return n
	}

	var chunks []rag.Chunk
	step := cfg.ChunkSize - cfg.ChunkOverlap
	idx := 0
	for start := 0; start < len(full); start += step {
		end := start + cfg.ChunkSize
		if end > len(full) {
			end = len(full)
		}
		chunks = append(chunks, rag.Chunk{
			Text:       string(full[start:end]),
			SourceFile: sourceFile,
			Page:       pageAt(start),
			ChunkIndex: idx,
		})
		idx++
		if end == len(full) {
			break
		}
	}

	return chunks
}
