// Package budget provides token budget estimation and passage trimming for
// prompt construction. Because the pipeline supports multiple LLM backends
// with different tokenizers, this package uses a conservative character-based
// heuristic of roughly 4 characters per token for English prose. This
// deliberately under-estimates so there is headroom for model-specific
// overhead.
package budget

import (
	"github.com/juris-ai/lexrag-go/internal/rag"
)

const (
	// charsPerToken is the conservative character-to-token ratio used for
	// estimation. 4 chars/token is standard for English text; legal prose
	// with long Latin terms tends to run slightly denser, which only adds
	// headroom.
	charsPerToken = 4

	// passageOverheadTokens approximates the per-passage framing added by
	// the prompt template (the source header line and separators).
	passageOverheadTokens = 16

	// DefaultMaxContextTokens is the default budget for retrieved passages
	// within the prompt. Conservative enough to fit 8k-context models
	// together with the instruction block and question.
	DefaultMaxContextTokens = 6000
)

// Estimate returns a rough token count for s using the character heuristic.
func Estimate(s string) int {
	n := len(s) / charsPerToken
	if n == 0 && len(s) > 0 {
		return 1
	}
	return n
}

// TrimPassages drops the lowest-ranked passages until the estimated token
// cost of the remainder fits within maxTokens. Passages arrive ordered by
// descending similarity, so trimming from the tail always discards the least
// relevant context first. A single oversized passage is kept rather than
// returning nothing; the provider's own limits are the final arbiter.
func TrimPassages(passages []rag.Passage, maxTokens int) []rag.Passage {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxContextTokens
	}

	total := 0
	for i, p := range passages {
		cost := passageOverheadTokens + Estimate(p.Chunk.SourceFile) + Estimate(p.Chunk.Text)
		if total+cost > maxTokens && i > 0 {
			return passages[:i]
		}
		total += cost
	}
	return passages
}
