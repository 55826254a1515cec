package rag

import "errors"

// Sentinel errors for the failure kinds the pipeline distinguishes.
// They are wrapped with fmt.Errorf("...: %w", Err...) at the point of
// detection and surfaced unmodified to the caller — no layer retries or
// swallows them. Callers discriminate with errors.Is.
var (
	// ErrSourceNotFound indicates an explicit ingest source path that does
	// not exist on disk.
	ErrSourceNotFound = errors.New("source path not found")

	// ErrNoDocumentsFound indicates an ingest source directory that exists
	// but contains no documents of a supported type.
	ErrNoDocumentsFound = errors.New("no documents found")

	// ErrIndexNotFound indicates a query attempted before any successful
	// ingest has built and persisted an index.
	ErrIndexNotFound = errors.New("vector index not found")

	// ErrConfiguration indicates an unusable configuration: an unknown
	// provider name, or a provider selected without its required credential.
	ErrConfiguration = errors.New("configuration error")

	// ErrUpstream indicates a failed call to the embedding or language-model
	// provider (network, auth, rate limit, malformed response).
	ErrUpstream = errors.New("upstream service error")
)
