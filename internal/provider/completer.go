package provider

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/juris-ai/lexrag-go/internal/rag"
)

// chatCompleter adapts an eino chat model to the Completer interface. The
// prompt arrives fully rendered, so the exchange is a single user message
// with no history and no tools.
type chatCompleter struct {
	model model.ToolCallingChatModel
}

// Complete sends the prompt and returns the model's text response. Backend
// failures wrap rag.ErrUpstream; there is no retry, a failed generation
// fails the request.
func (c *chatCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return "", fmt.Errorf("provider: %w: generation failed: %v", rag.ErrUpstream, err)
	}
	if resp == nil {
		return "", fmt.Errorf("provider: %w: empty response from model", rag.ErrUpstream)
	}
	return resp.Content, nil
}
