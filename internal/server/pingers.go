package server

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// HTTPPinger probes an HTTP endpoint with a GET request. It is used for the
// Ollama and OpenAI-compatible embedding endpoints, whose base URLs answer
// plain GETs cheaply. It satisfies the Pinger interface.
type HTTPPinger struct {
	// url is the endpoint to probe.
	url string
	// name identifies the dependency in readiness responses.
	name string
	// client is the HTTP client used for probes.
	client *http.Client
}

// NewHTTPPinger constructs an HTTPPinger for the given base URL and label.
func NewHTTPPinger(url, name string) *HTTPPinger {
	return &HTTPPinger{
		url:    url,
		name:   name,
		client: &http.Client{Timeout: probeTimeout},
	}
}

// Name returns the dependency label used in readiness responses.
func (p *HTTPPinger) Name() string { return p.name }

// Ping sends a GET to the configured URL. Any response, including an HTTP
// error status below 500, counts as reachable; only transport failures and
// server errors fail the probe.
func (p *HTTPPinger) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return fmt.Errorf("building probe request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("returned status %d", resp.StatusCode)
	}
	return nil
}

// storePinger is the subset of the qdrant store used for readiness probes.
type storePinger interface {
	Ping(ctx context.Context) error
}

// StorePinger adapts a vector store's Ping method to the Pinger interface.
type StorePinger struct {
	store storePinger
	name  string
}

// NewStorePinger constructs a StorePinger for the given store and label.
func NewStorePinger(store storePinger, name string) *StorePinger {
	return &StorePinger{store: store, name: name}
}

// Name returns the dependency label used in readiness responses.
func (p *StorePinger) Name() string { return p.name }

// Ping delegates to the underlying store.
func (p *StorePinger) Ping(ctx context.Context) error {
	return p.store.Ping(ctx)
}

// indexSizer reports the current index size; *pipeline.Pipeline satisfies it.
type indexSizer interface {
	IndexSize(ctx context.Context) int
}

// IndexPinger reports whether a query-ready index exists. It never fails
// hard within the probe window; an absent index is a readiness failure with
// an actionable message.
type IndexPinger struct {
	sizer indexSizer
}

// NewIndexPinger constructs an IndexPinger over the pipeline.
func NewIndexPinger(sizer indexSizer) *IndexPinger {
	return &IndexPinger{sizer: sizer}
}

// Name returns the dependency label used in readiness responses.
func (p *IndexPinger) Name() string { return "index" }

// Ping reports an error when no index has been built yet.
func (p *IndexPinger) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if p.sizer.IndexSize(ctx) == 0 {
		return fmt.Errorf("no index built; POST /api/ingest to build one")
	}
	return nil
}
