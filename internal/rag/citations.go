package rag

import "strings"

// snippetRunes is the length of the citation snippet: a fixed prefix of the
// chunk text, measured in runes so multi-byte characters are never split.
const snippetRunes = 200

// ExtractCitations converts retrieved passages into a de-duplicated,
// ordered citation list. The de-duplication key is (file, page): two
// passages from the same page collapse into one citation even when their
// text differs, keeping the first-seen snippet. This cites the location,
// not the exact overlapping text. Order follows retrieval rank, first
// occurrence wins, so extraction is stable and idempotent.
func ExtractCitations(passages []Passage) []Citation {
	type key struct {
		file string
		page int
	}

	seen := make(map[key]bool, len(passages))
	citations := make([]Citation, 0, len(passages))

	for _, p := range passages {
		k := key{file: p.Chunk.SourceFile, page: p.Chunk.Page}
		if seen[k] {
			continue
		}
		seen[k] = true
		citations = append(citations, Citation{
			File:    p.Chunk.SourceFile,
			Page:    p.Chunk.Page,
			Snippet: snippet(p.Chunk.Text),
		})
	}

	return citations
}

// snippet returns the whitespace-trimmed prefix of text, at most
// snippetRunes runes long.
func snippet(text string) string {
	runes := []rune(text)
	if len(runes) > snippetRunes {
		runes = runes[:snippetRunes]
	}
	return strings.TrimSpace(string(runes))
}
