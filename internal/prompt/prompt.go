// Package prompt renders retrieved passages and a user question into the
// citation-enforcing prompt sent to the language model.
package prompt

import (
	"fmt"
	"strings"

	"github.com/juris-ai/lexrag-go/internal/rag"
)

// InsufficientContextAnswer is the exact sentence the model is instructed
// to return, and the pipeline returns directly, when retrieval produces no
// usable context. Clients may match on it verbatim.
const InsufficientContextAnswer = "The provided documents do not contain enough information to answer this question."

// template is deliberately prescriptive: it dictates the inline citation
// format so answers are consistently traceable, and the NOT FOUND clause
// keeps the model from speculating beyond the retrieved passages.
const template = `### ROLE
You are an expert legal research assistant specialising in Indian law.
Your answers are used by practising lawyers, so precision and traceability
are paramount.

### INSTRUCTIONS
1. Answer the question using **ONLY** the context provided below.
   The passages may come from **different legal documents** (e.g. the
   Companies Act, SEBI reports, securities regulations, etc.).
   Synthesise information across all relevant passages to give a
   comprehensive answer.
2. For **every factual claim** in your answer, include an inline citation
   in the format:  [Source: <filename>, Page <N>]
3. If multiple context passages, even from different documents, support
   the same point, cite all of them.
4. If the context does **not** contain sufficient information to answer
   the question, respond with exactly:
   "The provided documents do not contain enough information to answer this question."
   Do NOT speculate or add information from outside the context.
5. Use clear, professional language.  Structure long answers with bullet
   points or numbered lists for readability.

### CONTEXT (retrieved from legal documents)
%s

### QUESTION
%s

### ANSWER
`

// Build renders the full prompt for one question. Passages appear in rank
// order, each prefixed with the citation tag the model is told to copy
// verbatim into its answer.
func Build(question string, passages []rag.Passage) string {
	return fmt.Sprintf(template, formatContext(passages), question)
}

// formatContext joins passages into the context block. Passage numbering is
// 1-based and follows retrieval rank.
func formatContext(passages []rag.Passage) string {
	parts := make([]string, 0, len(passages))
	for i, p := range passages {
		parts = append(parts, fmt.Sprintf("--- Passage %d [Source: %s, Page %d] ---\n%s",
			i+1, p.SourceFile, p.Page, p.Text))
	}
	return strings.Join(parts, "\n\n")
}
