package budget

import (
	"strings"
	"testing"

	"github.com/juris-ai/lexrag-go/internal/rag"
)

func Test_Estimate(t *testing.T) {
	t.Parallel()
	cases := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"a", 1},        // < 4 chars rounds up to 1
		{"abcd", 1},     // exactly 4 chars
		{"abcdefgh", 2}, // 8 chars
		{strings.Repeat("x", 400), 100},
	}
	for _, tc := range cases {
		got := Estimate(tc.input)
		if got != tc.want {
			t.Errorf("Estimate(%q) = %d, want %d", tc.input, got, tc.want)
		}
	}
}

func passageOf(text string, rank int) rag.Passage {
	return rag.Passage{
		Chunk: rag.Chunk{Text: text, SourceFile: "act.pdf", Page: 1},
		Rank:  rank,
	}
}

func Test_TrimPassages_NoTrimNeeded(t *testing.T) {
	t.Parallel()
	passages := []rag.Passage{
		passageOf("short clause", 1),
		passageOf("another short clause", 2),
	}
	got := TrimPassages(passages, DefaultMaxContextTokens)
	if len(got) != 2 {
		t.Errorf("want 2 passages, got %d", len(got))
	}
}

func Test_TrimPassages_DropsLowestRanked(t *testing.T) {
	t.Parallel()
	// Each passage costs 16 overhead + 2 (source "act.pdf") + 100 (text) = 118
	// tokens. A budget of 250 fits two passages (236) but not three (354).
	text := strings.Repeat("x", 400)
	passages := []rag.Passage{
		passageOf(text, 1),
		passageOf(text, 2),
		passageOf(text, 3),
	}
	got := TrimPassages(passages, 250)
	if len(got) != 2 {
		t.Fatalf("want 2 passages after trim, got %d", len(got))
	}
	if got[0].Rank != 1 || got[1].Rank != 2 {
		t.Errorf("want top-ranked passages retained, got ranks %d, %d", got[0].Rank, got[1].Rank)
	}
}

func Test_TrimPassages_KeepsOversizedFirstPassage(t *testing.T) {
	t.Parallel()
	passages := []rag.Passage{
		passageOf(strings.Repeat("x", 4*7000), 1),
	}
	got := TrimPassages(passages, 6000)
	if len(got) != 1 {
		t.Errorf("want the single oversized passage kept, got %d", len(got))
	}
}

func Test_TrimPassages_Empty(t *testing.T) {
	t.Parallel()
	if got := TrimPassages(nil, 100); len(got) != 0 {
		t.Errorf("want empty, got %d", len(got))
	}
}

func Test_TrimPassages_ZeroBudgetUsesDefault(t *testing.T) {
	t.Parallel()
	passages := []rag.Passage{passageOf("clause", 1)}
	if got := TrimPassages(passages, 0); len(got) != 1 {
		t.Errorf("want 1 passage under default budget, got %d", len(got))
	}
}
