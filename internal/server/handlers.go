package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/juris-ai/lexrag-go/internal/logging"
	"github.com/juris-ai/lexrag-go/internal/rag"
)

// handleAsk handles POST /api/ask: run the question through the pipeline
// and return the answer with its citation list.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())
	started := time.Now()

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.askRequestsTotal.WithLabelValues("bad_request").Inc()
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		s.metrics.askRequestsTotal.WithLabelValues("bad_request").Inc()
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	result, err := s.asker.Answer(r.Context(), req.Question)
	if err != nil {
		outcome, status, detail := classifyAskError(err)
		s.metrics.askRequestsTotal.WithLabelValues(outcome).Inc()
		log.Error("ask failed", slog.Any("error", err))
		writeError(w, status, detail)
		return
	}

	s.metrics.askRequestsTotal.WithLabelValues("ok").Inc()
	s.metrics.askDurationSeconds.Observe(time.Since(started).Seconds())
	writeJSON(w, http.StatusOK, result)
}

// classifyAskError maps pipeline errors to an outcome label, HTTP status,
// and client-facing detail string.
func classifyAskError(err error) (outcome string, status int, detail string) {
	switch {
	case errors.Is(err, rag.ErrIndexNotFound):
		return "no_index", http.StatusServiceUnavailable,
			"Vector index not found. Call POST /api/ingest first to build the index."
	case errors.Is(err, rag.ErrUpstream):
		return "upstream", http.StatusBadGateway, "Upstream model request failed."
	default:
		return "error", http.StatusInternalServerError, "Internal error."
	}
}

// handleIngest handles POST /api/ingest: rebuild the index from the request
// source (or the configured documents directory) and report the chunk count.
// The body is optional.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())
	started := time.Now()

	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		s.metrics.ingestRequestsTotal.WithLabelValues("bad_request").Inc()
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	chunks, err := s.indexer.CreateIndex(r.Context(), req.Source)
	if err != nil {
		outcome, status, detail := classifyIngestError(err)
		s.metrics.ingestRequestsTotal.WithLabelValues(outcome).Inc()
		log.Error("ingest failed", slog.Any("error", err))
		writeError(w, status, detail)
		return
	}

	s.metrics.ingestRequestsTotal.WithLabelValues("ok").Inc()
	s.metrics.ingestDurationSeconds.Observe(time.Since(started).Seconds())
	s.metrics.indexedChunks.Set(float64(chunks))
	writeJSON(w, http.StatusOK, ingestResponse{Status: "success", ChunksIndexed: chunks})
}

// classifyIngestError maps ingest errors to an outcome label, HTTP status,
// and client-facing detail string.
func classifyIngestError(err error) (outcome string, status int, detail string) {
	switch {
	case errors.Is(err, rag.ErrSourceNotFound):
		return "not_found", http.StatusNotFound, "Ingest source not found: " + err.Error()
	case errors.Is(err, rag.ErrNoDocumentsFound):
		return "not_found", http.StatusNotFound, "No documents found: " + err.Error()
	case errors.Is(err, rag.ErrUpstream):
		return "upstream", http.StatusBadGateway, "Upstream embedding request failed."
	default:
		return "error", http.StatusInternalServerError, "Ingestion failed."
	}
}

// handleHealth handles GET /api/health for liveness checks.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON encodes v as the JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error body in the shape clients expect.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}
