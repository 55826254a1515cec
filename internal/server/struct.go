package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/juris-ai/lexrag-go/internal/rag"
)

// Config holds the HTTP server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1).
	Host string
	// Port is the TCP port to listen on (default: 8000).
	Port int
	// ReadTimeout is the maximum duration for reading the request.
	ReadTimeout time.Duration
	// WriteTimeout is the maximum duration for writing the response.
	// Answer generation can take minutes on local models.
	WriteTimeout time.Duration
	// ShutdownTimeout is the maximum duration for a graceful shutdown.
	ShutdownTimeout time.Duration
	// Logger is the structured logger used by the server and its handlers.
	// If nil, [slog.Default] is used.
	Logger *slog.Logger
	// AllowedOrigins is the list of CORS origins permitted to call the API.
	// "*" allows any origin. Empty disables cross-origin access entirely.
	AllowedOrigins []string
	// Pingers is the ordered list of dependency probes run by GET /api/ready.
	// If empty, /api/ready returns 200 with no checks (liveness-only mode).
	Pingers []Pinger
	// RateLimit is the sustained request rate allowed per IP on rate-limited
	// endpoints (requests/second). Defaults to 10 if zero.
	RateLimit float64
	// RateBurst is the maximum instantaneous burst per IP. Defaults to 20 if zero.
	RateBurst int
	// UIDir is the directory of static UI files served at /. If empty, "ui".
	UIDir string
}

// asker answers one question. *pipeline.Pipeline satisfies it; tests inject
// a fake.
type asker interface {
	Answer(ctx context.Context, question string) (*rag.QueryResult, error)
}

// indexer rebuilds the vector index from a document source. *pipeline.Pipeline
// satisfies it; tests inject a fake.
type indexer interface {
	CreateIndex(ctx context.Context, source string) (int, error)
}

// Server is the HTTP server exposing the ask/ingest pipeline.
type Server struct {
	// asker answers /api/ask requests.
	asker asker
	// indexer rebuilds the index for /api/ingest requests.
	indexer indexer
	// cfg holds the resolved server configuration.
	cfg *Config
	// httpServer is the underlying net/http server.
	httpServer *http.Server
	// log is the structured logger for this server instance.
	log *slog.Logger
	// pingers is the ordered list of dependency probes for GET /api/ready.
	pingers []Pinger
	// metrics holds the Prometheus instruments owned by this server.
	metrics *serverMetrics
	// stopRL stops the rate limiter's background eviction goroutine on shutdown.
	stopRL func()
}

// askRequest is the JSON body for POST /api/ask.
type askRequest struct {
	// Question is the legal question to answer.
	Question string `json:"question"`
}

// ingestRequest is the JSON body for POST /api/ingest. The body is optional;
// an empty or absent source falls back to the configured documents directory.
type ingestRequest struct {
	// Source is a file or directory to ingest instead of the default corpus.
	Source string `json:"source,omitempty"`
}

// ingestResponse is the JSON response for POST /api/ingest.
type ingestResponse struct {
	// Status is "success" when the index was rebuilt.
	Status string `json:"status"`
	// ChunksIndexed is the number of chunks in the new index.
	ChunksIndexed int `json:"chunks_indexed"`
}

// errorResponse is the JSON body for all error statuses.
type errorResponse struct {
	// Detail is a human-readable description of the failure.
	Detail string `json:"detail"`
}
