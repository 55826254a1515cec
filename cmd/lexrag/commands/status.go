package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/juris-ai/lexrag-go/internal/manifest"
	"github.com/juris-ai/lexrag-go/internal/pipeline"
)

// NewStatusCmd constructs the `lexrag status` command, which reports the
// most recent ingestion run recorded in the manifest.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the most recent ingestion run",
		Long: `Show when the vector index was last built and what went into it.

Reads the ingest manifest stored alongside the vector index
(VECTORSTORE_DIR, default ./data/vectorstore).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := pipeline.ConfigFromEnv()

			man, err := manifest.Open(cfg.StoreDir)
			if err != nil {
				return fmt.Errorf("status: opening manifest: %w", err)
			}
			defer man.Close()

			last, err := man.Last(cmd.Context())
			if errors.Is(err, manifest.ErrEmpty) {
				fmt.Println("No ingestion runs recorded. Run 'lexrag ingest' to build the index.")
				return nil
			}
			if err != nil {
				return fmt.Errorf("status: reading manifest: %w", err)
			}

			source := last.Source
			if source == "" {
				source = cfg.DocumentsDir
			}

			fmt.Printf("Last ingest: %s\n", last.CreatedAt.Local().Format(time.RFC1123))
			fmt.Printf("  Source:    %s\n", source)
			fmt.Printf("  Documents: %d\n", last.Documents)
			fmt.Printf("  Chunks:    %d\n", last.Chunks)
			fmt.Printf("  Elapsed:   %s\n", last.Elapsed.Round(time.Millisecond))
			return nil
		},
	}
}
