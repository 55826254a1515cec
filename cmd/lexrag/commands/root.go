// Package commands defines all Cobra CLI commands for the lexrag binary.
package commands

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/juris-ai/lexrag-go/internal/audit"
	"github.com/juris-ai/lexrag-go/internal/config"
	"github.com/juris-ai/lexrag-go/internal/logging"
)

// configPath holds the --config flag value for YAML config file override.
var configPath string

// loadedConfigPath stores the resolved config file path for audit logging.
var loadedConfigPath string

// NewRootCmd constructs the root Cobra command that all subcommands attach to.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lexrag",
		Short: "LexRAG answers questions about your legal documents with citations",
		Long: `LexRAG is a retrieval-augmented assistant for legal documents.

It ingests PDF documents into a vector index and answers natural language
questions grounded exclusively in those documents, citing the source file
and page for every claim. When the documents do not cover a question it
says so instead of guessing.

LLM provider is selected via the LLM_PROVIDER environment variable
(ollama, openai, groq, together) or a YAML config file (~/.lexrag/config.yaml).
See 'lexrag --help' for available commands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// A missing .env file is fine; real environments set vars directly.
			_ = godotenv.Load()

			log := logging.New()

			// Load YAML config (env vars always override YAML values).
			path, err := config.Load(configPath, log)
			if err != nil {
				return err
			}
			loadedConfigPath = path

			// Emit structured audit log for every command invocation.
			audit.LogCommandStart(log, cmd.Name(), loadedConfigPath)

			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file (default: ~/.lexrag/config.yaml)")

	root.AddCommand(
		NewAskCmd(),
		NewIngestCmd(),
		NewServeCmd(),
		NewStatusCmd(),
		NewVersionCmd(),
	)

	return root
}
