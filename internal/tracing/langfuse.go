// Package tracing wires optional Langfuse observability into the eino
// callback chain. Tracing is opt-in: without Langfuse credentials in the
// environment the package does nothing and the rest of the application is
// unaffected.
package tracing

import (
	"os"

	"github.com/cloudwego/eino-ext/callbacks/langfuse"
	"github.com/cloudwego/eino/callbacks"
)

// Setup initialises the Langfuse callback handler when LANGFUSE_PUBLIC_KEY
// and LANGFUSE_SECRET_KEY are both set. The returned flush function must be
// called before process exit so buffered traces are delivered. When Langfuse
// is not configured all return values are zero and tracing stays disabled.
func Setup() (callbacks.Handler, func(), bool) {
	publicKey := os.Getenv("LANGFUSE_PUBLIC_KEY")
	secretKey := os.Getenv("LANGFUSE_SECRET_KEY")
	if publicKey == "" || secretKey == "" {
		return nil, nil, false
	}

	host := os.Getenv("LANGFUSE_HOST")
	if host == "" {
		host = "http://localhost:3000"
	}

	handler, flusher := langfuse.NewLangfuseHandler(&langfuse.Config{
		Host:      host,
		PublicKey: publicKey,
		SecretKey: secretKey,
	})

	return handler, flusher, true
}
