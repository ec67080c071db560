package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/pandect-io/pandect/internal/domain"
	"github.com/pandect-io/pandect/internal/metrics"
)

// Compile-time check: Generator implements domain.TextGenerator.
var _ domain.TextGenerator = (*Generator)(nil)

// Generator produces completions through an OpenAI-compatible API.
type Generator struct {
	client *openai.Client
	logger *zap.Logger
}

// Config holds the model provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewGenerator creates an OpenAI-compatible completion provider.
func NewGenerator(cfg *Config) *Generator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		client: openai.NewClientWithConfig(clientCfg),
		logger: logger,
	}
}

// Generate runs a single-shot completion.
func (g *Generator) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	start := time.Now()

	resp, err := g.client.CreateChatCompletion(ctx, chatRequest(req, false))

	duration := time.Since(start)

	if err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues(req.Model, "sync", "error").Inc()
		return "", fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
	}
	if len(resp.Choices) == 0 {
		metrics.GenerationRequestsTotal.WithLabelValues(req.Model, "sync", "error").Inc()
		return "", fmt.Errorf("%w: empty completion response", domain.ErrGenerationFailed)
	}

	metrics.GenerationRequestsTotal.WithLabelValues(req.Model, "sync", "success").Inc()
	metrics.GenerationDuration.WithLabelValues(req.Model, "sync").Observe(duration.Seconds())

	return resp.Choices[0].Message.Content, nil
}

// GenerateStream starts a streamed completion. The returned stream yields one
// text fragment per Recv and io.EOF when the completion ends.
func (g *Generator) GenerateStream(
	ctx context.Context, req domain.GenerationRequest,
) (domain.TokenStream, error) {
	stream, err := g.client.CreateChatCompletionStream(ctx, chatRequest(req, true))
	if err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues(req.Model, "stream", "error").Inc()
		return nil, fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
	}
	metrics.GenerationRequestsTotal.WithLabelValues(req.Model, "stream", "success").Inc()
	return &tokenStream{inner: stream, model: req.Model, started: time.Now()}, nil
}

func chatRequest(req domain.GenerationRequest, stream bool) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	return openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Stream:      stream,
	}
}

// tokenStream adapts the provider stream to domain.TokenStream. It skips
// empty deltas so every fragment handed to the consumer carries text.
type tokenStream struct {
	inner   *openai.ChatCompletionStream
	model   string
	started time.Time
	done    bool
}

func (s *tokenStream) Recv() (string, error) {
	for {
		resp, err := s.inner.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if !s.done {
					s.done = true
					metrics.GenerationDuration.WithLabelValues(s.model, "stream").
						Observe(time.Since(s.started).Seconds())
				}
				return "", io.EOF
			}
			return "", fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if delta := resp.Choices[0].Delta.Content; delta != "" {
			return delta, nil
		}
	}
}

func (s *tokenStream) Close() {
	_ = s.inner.Close()
}
