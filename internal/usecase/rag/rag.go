package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pandect-io/pandect/internal/domain"
	"github.com/pandect-io/pandect/internal/usecase/analytics"
)

// retrievalConfidenceTarget is the source count at which retrieval coverage
// counts as full.
const retrievalConfidenceTarget = 5

// Combined confidence weights.
const (
	retrievalConfidenceWeight      = 0.7
	classificationConfidenceWeight = 0.3
)

// Request is one question to answer.
type Request struct {
	Question   string
	Language   domain.Language
	Filters    map[string]string
	MaxSources int
	SessionID  string
	UserID     string
	UseCache   bool
}

// Options holds orchestrator settings.
type Options struct {
	CacheEnabled bool
}

// Service composes classification, retrieval, reranking, augmentation,
// generation, caching, conversation memory, and analytics into the
// end-to-end query pipeline.
type Service struct {
	classifier Classifier
	retriever  Retriever
	reranker   Reranker
	augmenter  Augmenter
	generator  Generator
	cache      AnswerCache
	memory     Memory
	analytics  Analytics
	opts       Options
	logger     *zap.Logger
	now        func() time.Time
}

// New creates the query orchestrator.
func New(
	classifier Classifier,
	retriever Retriever,
	reranker Reranker,
	augmenter Augmenter,
	generator Generator,
	cache AnswerCache,
	memory Memory,
	analyticsSvc Analytics,
	opts Options,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		classifier: classifier,
		retriever:  retriever,
		reranker:   reranker,
		augmenter:  augmenter,
		generator:  generator,
		cache:      cache,
		memory:     memory,
		analytics:  analyticsSvc,
		opts:       opts,
		logger:     logger,
		now:        time.Now,
	}
}

// Execute answers a question synchronously.
func (s *Service) Execute(ctx context.Context, req Request) (*domain.Result, error) {
	started := s.now()

	if strings.TrimSpace(req.Question) == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidRequest)
	}
	lang := domain.NormalizeLanguage(string(req.Language))

	// Classification always runs first: it is pure, and both the cache path
	// and the full pipeline need it.
	cls := s.classifier.Classify(req.Question)

	// A supplied session id unconditionally disables cache lookup: the
	// answer may depend on conversation context.
	if s.cacheUsable(req) && req.SessionID == "" {
		if entry, ok := s.cache.Get(ctx, req.Question, lang, req.Filters); ok {
			return s.replayFromCache(ctx, req, lang, cls, entry, started)
		}
	}

	session, err := s.memory.GetOrCreate(ctx, req.SessionID, req.UserID, lang)
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}

	// Follow-up questions pull recent history into the prompt. A fresh
	// session has no history to pull.
	var history []domain.Message
	if req.SessionID != "" && len(session.Messages) > 0 && s.memory.IsFollowUp(req.Question, lang) {
		history = s.memory.ContextHistory(session)
		// A vague follow-up ("et pour le délai ?") often classifies as
		// general; inherit the domain the conversation is about.
		if cls.Domain == domain.DomainGeneral {
			if d := s.memory.DominantDomain(session); d != "" {
				cls.Domain = d
				if cls.SuggestedFilters == nil {
					cls.SuggestedFilters = map[string]string{}
				}
				cls.SuggestedFilters["domain"] = d
			}
		}
	}

	clsSummary := cls.Summary()
	if err := s.memory.AddUserMessage(ctx, session, req.Question, &clsSummary); err != nil {
		return nil, fmt.Errorf("append user message: %w", err)
	}

	filters := mergeFilters(req.Filters, cls.SuggestedFilters)
	systemPrompt := buildSystemPrompt(lang, cls, history)

	candidates := s.retriever.Retrieve(ctx, req.Question, filters)
	ranked := s.reranker.Rerank(req.Question, candidates)
	if req.MaxSources > 0 && len(ranked) > req.MaxSources {
		ranked = ranked[:req.MaxSources]
	}

	if len(ranked) == 0 {
		return s.finishNoResults(ctx, req, lang, cls, session, started)
	}

	prompt := s.augmenter.BuildPrompt(req.Question, ranked, lang)
	sources := projectSources(ranked, lang)

	answer, err := s.generator.Generate(ctx, prompt, systemPrompt)
	if err != nil {
		// Generation failure after sources were found is a degraded
		// answer, not an error: the sources stay visible.
		s.logger.Error("generation failed", zap.Error(err))
		return s.finish(ctx, req, lang, cls, session, fallbackMessage(lang), sources, 0, started)
	}

	confidence := combinedConfidence(len(sources), cls.Confidence)

	// Only fresh, sessionless queries populate the cache; the cache itself
	// gates on confidence and sources.
	if s.cacheUsable(req) && req.SessionID == "" {
		s.cache.Set(ctx, req.Question, lang, req.Filters, &domain.CachedAnswer{
			Answer:     answer,
			Sources:    sources,
			Confidence: confidence,
			Domain:     cls.Domain,
			Intent:     cls.Intent,
			Language:   lang,
			CachedAt:   s.now().UTC(),
		})
	}

	return s.finish(ctx, req, lang, cls, session, answer, sources, confidence, started)
}

// replayFromCache serves a cached answer, synthesizing a new session seeded
// with the cached exchange so the client can follow up.
func (s *Service) replayFromCache(
	ctx context.Context, req Request, lang domain.Language,
	cls domain.Classification, entry *domain.CachedAnswer, started time.Time,
) (*domain.Result, error) {
	session, err := s.memory.GetOrCreate(ctx, "", req.UserID, lang)
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}

	clsSummary := cls.Summary()
	if err := s.memory.AddUserMessage(ctx, session, req.Question, &clsSummary); err != nil {
		return nil, fmt.Errorf("append user message: %w", err)
	}
	if err := s.memory.AddAssistantMessage(ctx, session, entry.Answer, entry.Sources); err != nil {
		return nil, fmt.Errorf("append assistant message: %w", err)
	}

	s.record(req, lang, cls, entry.Confidence, true, started)

	return &domain.Result{
		Answer:         entry.Answer,
		Sources:        entry.Sources,
		Language:       lang,
		Confidence:     entry.Confidence,
		Classification: clsSummary,
		SessionID:      session.ID,
		FromCache:      true,
	}, nil
}

func (s *Service) finishNoResults(
	ctx context.Context, req Request, lang domain.Language,
	cls domain.Classification, session *domain.Session, started time.Time,
) (*domain.Result, error) {
	return s.finish(ctx, req, lang, cls, session, noResultsMessage(lang), nil, 0, started)
}

// finish appends the assistant turn, records analytics, and assembles the
// result.
func (s *Service) finish(
	ctx context.Context, req Request, lang domain.Language, cls domain.Classification,
	session *domain.Session, answer string, sources []domain.SourceRef,
	confidence float64, started time.Time,
) (*domain.Result, error) {
	if err := s.memory.AddAssistantMessage(ctx, session, answer, sources); err != nil {
		return nil, fmt.Errorf("append assistant message: %w", err)
	}

	s.record(req, lang, cls, confidence, false, started)

	return &domain.Result{
		Answer:         answer,
		Sources:        sources,
		Language:       lang,
		Confidence:     confidence,
		Classification: cls.Summary(),
		SessionID:      session.ID,
		FromCache:      false,
	}, nil
}

func (s *Service) record(
	req Request, lang domain.Language, cls domain.Classification,
	confidence float64, fromCache bool, started time.Time,
) {
	s.analytics.Record(analytics.Event{
		Question:   req.Question,
		Language:   lang,
		Domain:     cls.Domain,
		Intent:     cls.Intent,
		Confidence: confidence,
		FromCache:  fromCache,
		Duration:   s.now().Sub(started),
	})
}

func (s *Service) cacheUsable(req Request) bool {
	return s.opts.CacheEnabled && req.UseCache
}

// combinedConfidence blends retrieval coverage with classification certainty.
func combinedConfidence(sourceCount int, classificationConfidence float64) float64 {
	retrieval := float64(sourceCount) / retrievalConfidenceTarget
	if retrieval > 1 {
		retrieval = 1
	}
	return retrievalConfidenceWeight*retrieval + classificationConfidenceWeight*classificationConfidence
}

// mergeFilters lays suggested filters beneath the caller's: a key the caller
// already set is never overridden.
func mergeFilters(caller, suggested map[string]string) map[string]string {
	if len(suggested) == 0 {
		return caller
	}
	merged := make(map[string]string, len(caller)+len(suggested))
	for k, v := range suggested {
		merged[k] = v
	}
	for k, v := range caller {
		merged[k] = v
	}
	return merged
}

// projectSources maps ranked candidates to client-facing source references.
func projectSources(candidates []domain.Candidate, lang domain.Language) []domain.SourceRef {
	out := make([]domain.SourceRef, len(candidates))
	for i, c := range candidates {
		out[i] = domain.SourceRefFrom(c, lang)
	}
	return out
}
