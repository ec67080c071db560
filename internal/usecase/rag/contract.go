package rag

import (
	"context"

	"github.com/pandect-io/pandect/internal/domain"
	"github.com/pandect-io/pandect/internal/usecase/analytics"
)

// Classifier assigns a domain, intent, and entities to a question.
type Classifier interface {
	Classify(question string) domain.Classification
}

// Retriever runs hybrid retrieval and rank fusion. It degrades rather than
// fails: an empty slice means no usable candidates.
type Retriever interface {
	Retrieve(ctx context.Context, query string, filters map[string]string) []domain.Candidate
}

// Reranker rescores, filters, and truncates fused candidates.
type Reranker interface {
	Rerank(question string, candidates []domain.Candidate) []domain.Candidate
}

// Augmenter renders the question and sources into the generation prompt.
type Augmenter interface {
	BuildPrompt(question string, sources []domain.Candidate, lang domain.Language) string
}

// Generator produces the answer text.
type Generator interface {
	Generate(ctx context.Context, prompt, systemPrompt string) (string, error)
	GenerateStream(ctx context.Context, prompt, systemPrompt string) (domain.TokenStream, error)
}

// AnswerCache stores and retrieves full answers by question fingerprint.
type AnswerCache interface {
	Get(ctx context.Context, question string, lang domain.Language, filters map[string]string) (*domain.CachedAnswer, bool)
	Set(ctx context.Context, question string, lang domain.Language, filters map[string]string, entry *domain.CachedAnswer)
}

// Memory manages conversation sessions.
type Memory interface {
	GetOrCreate(ctx context.Context, sessionID, userID string, lang domain.Language) (*domain.Session, error)
	AddUserMessage(ctx context.Context, session *domain.Session, content string, cls *domain.ClassificationSummary) error
	AddAssistantMessage(ctx context.Context, session *domain.Session, content string, sources []domain.SourceRef) error
	ContextHistory(session *domain.Session) []domain.Message
	IsFollowUp(question string, lang domain.Language) bool
	DominantDomain(session *domain.Session) string
}

// Analytics records answered queries, fire-and-forget.
type Analytics interface {
	Record(event analytics.Event)
}
