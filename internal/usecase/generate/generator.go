package generate

import (
	"context"

	"github.com/pandect-io/pandect/internal/domain"
)

// Options holds the completion parameters forwarded with every call.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature float32
}

// Generator wraps the model provider, applying the configured model,
// temperature and token limit.
type Generator struct {
	provider domain.TextGenerator
	opts     Options
}

// New creates a generator.
func New(provider domain.TextGenerator, opts Options) *Generator {
	return &Generator{provider: provider, opts: opts}
}

// Generate runs a single-shot completion.
func (g *Generator) Generate(ctx context.Context, prompt, systemPrompt string) (string, error) {
	return g.provider.Generate(ctx, g.request(prompt, systemPrompt))
}

// GenerateStream starts a streamed completion. The caller owns the returned
// stream: it pulls fragments one at a time and stops pulling (or closes) to
// cancel.
func (g *Generator) GenerateStream(
	ctx context.Context, prompt, systemPrompt string,
) (domain.TokenStream, error) {
	return g.provider.GenerateStream(ctx, g.request(prompt, systemPrompt))
}

func (g *Generator) request(prompt, systemPrompt string) domain.GenerationRequest {
	return domain.GenerationRequest{
		Prompt:       prompt,
		SystemPrompt: systemPrompt,
		Model:        g.opts.Model,
		MaxTokens:    g.opts.MaxTokens,
		Temperature:  g.opts.Temperature,
	}
}
