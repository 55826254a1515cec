// Command lexrag is the entry point for the LexRAG legal document assistant.
// It provides a CLI interface (via Cobra) for document ingestion and one-shot
// questions, plus an HTTP server with a web UI for interactive use.
package main

import (
	"fmt"
	"os"

	"github.com/juris-ai/lexrag-go/cmd/lexrag/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
