package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/pandect-io/pandect/internal/domain"
	"github.com/pandect-io/pandect/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterRAGMetrics()
	os.Exit(m.Run())
}

// chatCompletionRequest mirrors the OpenAI-compatible chat completion request.
type chatCompletionRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float32 `json:"temperature"`
	Stream      bool    `json:"stream"`
}

func TestGenerator_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}

		var req chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("model = %q", req.Model)
		}
		if len(req.Messages) != 2 {
			t.Fatalf("expected system + user messages, got %d", len(req.Messages))
		}
		if req.Messages[0].Role != "system" || req.Messages[0].Content != "You are a legal assistant." {
			t.Errorf("system message = %+v", req.Messages[0])
		}
		if req.Messages[1].Role != "user" {
			t.Errorf("user message role = %q", req.Messages[1].Role)
		}
		if req.Stream {
			t.Error("sync request flagged as streaming")
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "cmpl-1",
			"object": "chat.completion",
			"model":  "test-model",
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]any{"role": "assistant", "content": "Le préavis est de deux mois."},
					"finish_reason": "stop",
				},
			},
		})
	}))
	defer server.Close()

	gen := NewGenerator(&Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Logger:  zap.NewNop(),
	})

	answer, err := gen.Generate(context.Background(), domain.GenerationRequest{
		Prompt:       "Quel est le délai de préavis ?",
		SystemPrompt: "You are a legal assistant.",
		Model:        "test-model",
		MaxTokens:    256,
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if answer != "Le préavis est de deux mois." {
		t.Errorf("answer = %q", answer)
	}
}

func TestGenerator_GenerateNoSystemPrompt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("messages = %+v, want a single user message", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"object": "chat.completion",
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "ok"}},
			},
		})
	}))
	defer server.Close()

	gen := NewGenerator(&Config{APIKey: "test-key", BaseURL: server.URL, Logger: zap.NewNop()})

	if _, err := gen.Generate(context.Background(), domain.GenerationRequest{
		Prompt: "question", Model: "test-model",
	}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
}

func TestGenerator_GenerateAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"message": "rate limit exceeded",
				"type":    "rate_limit_error",
			},
		})
	}))
	defer server.Close()

	gen := NewGenerator(&Config{APIKey: "test-key", BaseURL: server.URL, Logger: zap.NewNop()})

	_, err := gen.Generate(context.Background(), domain.GenerationRequest{
		Prompt: "question", Model: "test-model",
	})
	if !errors.Is(err, domain.ErrGenerationFailed) {
		t.Fatalf("err = %v, want ErrGenerationFailed", err)
	}
}

func TestGenerator_GenerateEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"object":  "chat.completion",
			"choices": []map[string]any{},
		})
	}))
	defer server.Close()

	gen := NewGenerator(&Config{APIKey: "test-key", BaseURL: server.URL, Logger: zap.NewNop()})

	_, err := gen.Generate(context.Background(), domain.GenerationRequest{
		Prompt: "question", Model: "test-model",
	})
	if !errors.Is(err, domain.ErrGenerationFailed) {
		t.Fatalf("err = %v, want ErrGenerationFailed", err)
	}
}

func sseChunk(content string) string {
	chunk := map[string]any{
		"id":     "cmpl-1",
		"object": "chat.completion.chunk",
		"model":  "test-model",
		"choices": []map[string]any{
			{"index": 0, "delta": map[string]any{"content": content}},
		},
	}
	data, _ := json.Marshal(chunk)
	return "data: " + string(data) + "\n\n"
}

func TestGenerator_GenerateStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if !req.Stream {
			t.Error("stream request not flagged as streaming")
		}

		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, sseChunk("Deux "))
		io.WriteString(w, sseChunk(""))
		io.WriteString(w, sseChunk("mois."))
		io.WriteString(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	gen := NewGenerator(&Config{APIKey: "test-key", BaseURL: server.URL, Logger: zap.NewNop()})

	stream, err := gen.GenerateStream(context.Background(), domain.GenerationRequest{
		Prompt: "Quel est le délai de préavis ?", Model: "test-model",
	})
	if err != nil {
		t.Fatalf("GenerateStream failed: %v", err)
	}
	defer stream.Close()

	var answer strings.Builder
	var fragments int
	for {
		tok, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Recv failed: %v", err)
		}
		fragments++
		answer.WriteString(tok)
	}

	if answer.String() != "Deux mois." {
		t.Errorf("answer = %q", answer.String())
	}
	// The empty delta chunk is skipped, not surfaced.
	if fragments != 2 {
		t.Errorf("fragments = %d, want 2", fragments)
	}
}

func TestGenerator_GenerateStreamAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "overloaded", "type": "server_error"},
		})
	}))
	defer server.Close()

	gen := NewGenerator(&Config{APIKey: "test-key", BaseURL: server.URL, Logger: zap.NewNop()})

	_, err := gen.GenerateStream(context.Background(), domain.GenerationRequest{
		Prompt: "question", Model: "test-model",
	})
	if !errors.Is(err, domain.ErrGenerationFailed) {
		t.Fatalf("err = %v, want ErrGenerationFailed", err)
	}
}
