package domain

import "context"

// GenerationRequest carries one text generation call to the model provider.
type GenerationRequest struct {
	Prompt       string
	SystemPrompt string
	Model        string
	MaxTokens    int
	Temperature  float32
}

// TokenStream is a lazy, finite, non-restartable sequence of text fragments.
// Recv blocks for the next fragment and returns io.EOF when the completion
// ends. Close releases the underlying connection; abandoning the stream via
// Close (or cancelling the request context) is the cancellation mechanism.
type TokenStream interface {
	Recv() (string, error)
	Close()
}

// TextGenerator is the model provider contract.
type TextGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
	GenerateStream(ctx context.Context, req GenerationRequest) (TokenStream, error)
}
