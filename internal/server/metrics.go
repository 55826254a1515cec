// Package server — metrics.go registers all Prometheus metrics for the HTTP
// server and exposes helpers used by handlers and middleware.
package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// labelHandler partitions HTTP metrics by logical endpoint name rather than
// the raw URL path.
const labelHandler = "handler"

// serverMetrics holds all Prometheus metrics owned by the HTTP server.
// A single instance is created in New and stored on Server so that tests can
// inject a fresh prometheus.Registry without polluting the default one.
type serverMetrics struct {
	// askRequestsTotal counts completed /api/ask requests, partitioned by
	// outcome: "ok", "bad_request", "no_index", "upstream", or "error".
	askRequestsTotal *prometheus.CounterVec

	// askDurationSeconds records the wall-clock duration of successful
	// /api/ask requests, retrieval through generation.
	askDurationSeconds prometheus.Histogram

	// ingestRequestsTotal counts completed /api/ingest requests, partitioned
	// by outcome: "ok", "bad_request", "not_found", "upstream", or "error".
	ingestRequestsTotal *prometheus.CounterVec

	// ingestDurationSeconds records the wall-clock duration of successful
	// /api/ingest requests, chunking through persist.
	ingestDurationSeconds prometheus.Histogram

	// indexedChunks is the chunk count of the most recently built index.
	indexedChunks prometheus.Gauge

	// httpRequestsTotal counts all HTTP requests handled by the mux,
	// partitioned by method, path, and status class.
	httpRequestsTotal *prometheus.CounterVec

	// httpDurationSeconds records the latency of all HTTP requests.
	httpDurationSeconds *prometheus.HistogramVec
}

// newServerMetrics registers all server metrics against reg and returns the
// populated serverMetrics. promauto.With(reg) is used so that each call
// registers into the provided registry rather than the global default,
// which keeps unit tests hermetic.
func newServerMetrics(reg prometheus.Registerer) *serverMetrics {
	factory := promauto.With(reg)

	return &serverMetrics{
		askRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lexrag",
			Subsystem: "ask",
			Name:      "requests_total",
			Help:      "Total number of /api/ask requests completed, partitioned by outcome.",
		}, []string{"outcome"}),

		askDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lexrag",
			Subsystem: "ask",
			Name:      "duration_seconds",
			Help:      "Wall-clock duration of successful /api/ask requests.",
			Buckets:   []float64{0.5, 1, 5, 10, 30, 60, 120, 300},
		}),

		ingestRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lexrag",
			Subsystem: "ingest",
			Name:      "requests_total",
			Help:      "Total number of /api/ingest requests completed, partitioned by outcome.",
		}, []string{"outcome"}),

		ingestDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lexrag",
			Subsystem: "ingest",
			Name:      "duration_seconds",
			Help:      "Wall-clock duration of successful /api/ingest requests.",
			Buckets:   []float64{1, 5, 15, 60, 300, 900, 1800},
		}),

		indexedChunks: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "lexrag",
			Subsystem: "ingest",
			Name:      "indexed_chunks",
			Help:      "Chunk count of the most recently built index.",
		}),

		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lexrag",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled by the server, partitioned by method, handler, and status class.",
		}, []string{"method", labelHandler, "code"}),

		httpDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lexrag",
			Subsystem: "http",
			Name:      "duration_seconds",
			Help:      "Latency of HTTP requests handled by the server.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", labelHandler}),
	}
}
