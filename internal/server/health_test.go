package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

// fakePinger is a test double for the Pinger interface.
type fakePinger struct {
	// name is returned by Name().
	name string
	// err is returned by Ping(); nil means healthy.
	err error
}

func (f *fakePinger) Name() string                 { return f.name }
func (f *fakePinger) Ping(_ context.Context) error { return f.err }

func TestHandleReady_NoPingers(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, nil, nil, nil)
	w := doJSON(t, s, http.MethodGet, "/api/ready", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var res readyResponse
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !res.Ready {
		t.Error("expected ready:true with no pingers")
	}
}

func TestHandleReady_AllHealthy(t *testing.T) {
	t.Parallel()

	cfg := &Config{Pingers: []Pinger{
		&fakePinger{name: "ollama"},
		&fakePinger{name: "qdrant"},
	}}
	s := newTestServer(t, nil, nil, cfg)
	w := doJSON(t, s, http.MethodGet, "/api/ready", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var res readyResponse
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !res.Ready || len(res.Checks) != 2 {
		t.Errorf("unexpected response: %+v", res)
	}
}

func TestHandleReady_OneFailing(t *testing.T) {
	t.Parallel()

	cfg := &Config{Pingers: []Pinger{
		&fakePinger{name: "ollama"},
		&fakePinger{name: "qdrant", err: errors.New("connection refused")},
	}}
	s := newTestServer(t, nil, nil, cfg)
	w := doJSON(t, s, http.MethodGet, "/api/ready", "")

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	var res readyResponse
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Ready {
		t.Error("expected ready:false")
	}
	if res.Checks[1].OK || res.Checks[1].Error == "" {
		t.Errorf("failing check not reported: %+v", res.Checks[1])
	}
	if !res.Checks[0].OK {
		t.Errorf("healthy check reported unhealthy: %+v", res.Checks[0])
	}
}

func TestMultiPinger_FirstFailureWins(t *testing.T) {
	t.Parallel()

	m := NewMultiPinger(
		&fakePinger{name: "a"},
		&fakePinger{name: "b", err: errors.New("down")},
		&fakePinger{name: "c", err: errors.New("also down")},
	)
	err := m.Ping(context.Background())
	if err == nil || err.Error() != "b: down" {
		t.Errorf("expected first failure, got %v", err)
	}
}

func TestIndexPinger(t *testing.T) {
	t.Parallel()

	if err := NewIndexPinger(sizerOf(0)).Ping(context.Background()); err == nil {
		t.Error("expected failure for empty index")
	}
	if err := NewIndexPinger(sizerOf(42)).Ping(context.Background()); err != nil {
		t.Errorf("expected success for populated index, got %v", err)
	}
}

// sizerOf returns an indexSizer that always reports n.
type sizerOf int

func (s sizerOf) IndexSize(_ context.Context) int { return int(s) }
