package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/juris-ai/lexrag-go/internal/logging"
)

// NewAskCmd constructs the `lexrag ask` command, which answers a single
// question from the indexed documents and prints the cited sources.
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a question about your indexed documents",
		Long: `Ask a natural language question answered only from ingested documents.

Every claim in the answer cites its source file and page. When the indexed
documents do not cover the question, the assistant says so instead of
guessing. Run ingest first to build the index.

Examples:
  lexrag ask "what is the termination notice period?"
  lexrag ask "which party bears the cost of arbitration?"
  LLM_PROVIDER=openai lexrag ask "summarise the confidentiality obligations"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			p, _, closePipeline, err := buildPipeline(ctx, log)
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}
			defer closePipeline()

			question := strings.Join(args, " ")

			result, err := p.Answer(ctx, question)
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}

			fmt.Println(result.Answer)
			if len(result.Sources) > 0 {
				fmt.Println("\nSources:")
				for _, src := range result.Sources {
					fmt.Printf("  - %s, page %d\n", src.File, src.Page)
				}
			}
			return nil
		},
	}

	return cmd
}
