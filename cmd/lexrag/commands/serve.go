package commands

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cloudwego/eino/callbacks"
	"github.com/spf13/cobra"

	"github.com/juris-ai/lexrag-go/internal/logging"
	"github.com/juris-ai/lexrag-go/internal/server"
	"github.com/juris-ai/lexrag-go/internal/tracing"
)

// NewServeCmd constructs the `lexrag serve` command, which starts the HTTP
// server and serves the web UI for interactive use.
func NewServeCmd() *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the LexRAG HTTP server and web UI",
		Long: `Start the LexRAG HTTP server on localhost.

The server exposes a REST API (POST /api/ask, POST /api/ingest) and serves
the web UI for interactive question answering over ingested documents.
Existing indexes are loaded lazily on the first question, so a restart does
not require re-ingestion.

Examples:
  lexrag serve
  lexrag serve --port 9090
  LLM_PROVIDER=groq lexrag serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			log.Info("serve starting", slog.String("provider", getEnvOrDefault("LLM_PROVIDER", "ollama")))

			// Langfuse tracing is opt-in and a no-op when keys are absent.
			handler, flush, ok := tracing.Setup()
			if ok {
				callbacks.AppendGlobalHandlers(handler)
				defer flush()
				log.Info("langfuse tracing enabled")
			} else {
				log.Info("langfuse tracing disabled", slog.String("reason", "LANGFUSE_PUBLIC_KEY not set"))
			}

			p, store, closePipeline, err := buildPipeline(ctx, log)
			if err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			defer closePipeline()

			var origins []string
			if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
				for _, o := range strings.Split(raw, ",") {
					if o = strings.TrimSpace(o); o != "" {
						origins = append(origins, o)
					}
				}
			}

			if host == "" {
				host = getEnvOrDefault("SERVER_HOST", "127.0.0.1")
			}
			if port == 0 {
				port = getEnvInt("SERVER_PORT", 8000)
			}

			srv, err := server.New(p, p, &server.Config{
				Host:           host,
				Port:           port,
				Logger:         log,
				AllowedOrigins: origins,
				Pingers:        buildPingers(p, store),
			})
			if err != nil {
				return fmt.Errorf("serve: failed to create server: %w", err)
			}

			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Host address to bind to (default: SERVER_HOST or 127.0.0.1)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "TCP port to listen on (default: SERVER_PORT or 8000)")

	return cmd
}
