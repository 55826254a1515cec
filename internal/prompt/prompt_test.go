package prompt

import (
	"strings"
	"testing"

	"github.com/juris-ai/lexrag-go/internal/rag"
)

func TestBuild_ContainsQuestionAndInstructions(t *testing.T) {
	t.Parallel()

	got := Build("What notice period applies?", []rag.Passage{
		{Chunk: rag.Chunk{Text: "Thirty days written notice.", SourceFile: "contract.pdf", Page: 4}, Rank: 1},
	})

	for _, want := range []string{
		"### QUESTION\nWhat notice period applies?",
		"[Source: <filename>, Page <N>]",
		"Do NOT speculate",
		"### ANSWER",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuild_PassageBlocks(t *testing.T) {
	t.Parallel()

	got := Build("q", []rag.Passage{
		{Chunk: rag.Chunk{Text: "first text", SourceFile: "a.pdf", Page: 1}, Rank: 1},
		{Chunk: rag.Chunk{Text: "second text", SourceFile: "b.pdf", Page: 12}, Rank: 2},
	})

	first := "--- Passage 1 [Source: a.pdf, Page 1] ---\nfirst text"
	second := "--- Passage 2 [Source: b.pdf, Page 12] ---\nsecond text"
	if !strings.Contains(got, first) {
		t.Errorf("prompt missing first passage block:\n%s", got)
	}
	if !strings.Contains(got, second) {
		t.Errorf("prompt missing second passage block:\n%s", got)
	}
	if strings.Index(got, first) > strings.Index(got, second) {
		t.Error("passages not in rank order")
	}

	if !strings.Contains(got, first+"\n\n"+second) {
		t.Error("passage blocks not separated by a blank line")
	}
}

func TestBuild_FallbackSentenceMatchesInstruction(t *testing.T) {
	t.Parallel()

	// The sentence must appear verbatim on a single line so a model that
	// copies it exactly produces a string-matchable answer.
	got := Build("q", nil)
	if !strings.Contains(got, `"`+InsufficientContextAnswer+`"`) {
		t.Error("instructions do not spell out the exact insufficient-context sentence on one line")
	}
}
