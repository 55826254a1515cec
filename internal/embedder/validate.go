package embedder

import (
	"log/slog"
	"os"
	"strings"
)

// knownChatModelFragments contains name fragments that identify
// chat/completion models, which produce poor or broken embeddings. If
// EMBEDDING_MODEL matches any of these, a startup warning is emitted so the
// operator knows the pipeline is probably misconfigured.
var knownChatModelFragments = []string{
	"gpt-4",
	"gpt-3.5",
	"o1",
	"o3",
	"llama3",
	"llama-3",
	"mistral",
	"mixtral",
	"gemma",
	"phi-",
	"claude",
	"deepseek",
	"qwen",
}

// looksLikeChatModel returns true when the model name resembles a known
// chat/completion model rather than a dedicated embedding model.
func looksLikeChatModel(model string) bool {
	lower := strings.ToLower(model)
	for _, fragment := range knownChatModelFragments {
		if strings.Contains(lower, fragment) {
			return true
		}
	}
	return false
}

// WarnOnSuspectModel logs a warning if EMBEDDING_MODEL looks like a chat
// model. Call it before ingest so the operator gets a clear hint at startup
// rather than a silently useless index.
func WarnOnSuspectModel(log *slog.Logger) {
	model := os.Getenv("EMBEDDING_MODEL")
	if model == "" || !looksLikeChatModel(model) {
		return
	}
	log.Warn("embedder: EMBEDDING_MODEL looks like a chat model, not an embedding model",
		slog.String("model", model),
		slog.String("hint", "use a dedicated embedding model e.g. nomic-embed-text, text-embedding-3-small"),
	)
}
