package commands

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/juris-ai/lexrag-go/internal/logging"
)

// NewIngestCmd constructs the `lexrag ingest` command, which chunks and
// embeds PDF documents into the vector index.
func NewIngestCmd() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest PDF documents into the vector index",
		Long: `Chunk, embed, and index PDF documents so they can be queried with ask.

Without --source the configured documents directory is ingested
(DOCUMENTS_DIR, default ./data/documents). Ingestion rebuilds the index
from scratch; previously indexed chunks that are no longer on disk are
dropped.

Relevant environment variables:
  DOCUMENTS_DIR        Directory of PDFs to ingest (default: ./data/documents)
  VECTORSTORE_DIR      Where the local index is persisted (default: ./data/vectorstore)
  VECTOR_BACKEND       local (chromem) or qdrant (default: local)
  EMBEDDING_PROVIDER   ollama or openai (default: ollama)
  CHUNK_SIZE           Characters per chunk (default: 1000)
  CHUNK_OVERLAP        Overlap between adjacent chunks (default: CHUNK_SIZE/5)

Examples:
  lexrag ingest
  lexrag ingest --source ./contracts/master_agreement.pdf
  CHUNK_SIZE=1500 lexrag ingest --source ./statutes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			p, _, closePipeline, err := buildPipeline(ctx, log)
			if err != nil {
				return fmt.Errorf("ingest: %w", err)
			}
			defer closePipeline()

			start := time.Now()
			chunks, err := p.CreateIndex(ctx, source)
			if err != nil {
				return fmt.Errorf("ingest: %w", err)
			}

			log.Info("ingest complete",
				slog.Int("chunks", chunks),
				slog.Duration("elapsed", time.Since(start)),
			)
			fmt.Printf("Indexed %d chunks in %s.\n", chunks, time.Since(start).Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "PDF file or directory to ingest (default: DOCUMENTS_DIR)")

	return cmd
}
