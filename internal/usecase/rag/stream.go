package rag

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pandect-io/pandect/internal/domain"
)

// streamBuffer smooths over bursty token delivery without letting the
// producer run far ahead of a slow consumer.
const streamBuffer = 16

// ExecuteStream answers a question as an ordered event stream: start,
// sources, zero or more tokens, then exactly one of done or error. The
// returned error covers failures before the stream begins; the channel is
// closed after the terminal event. Cancelling ctx stops the producer.
func (s *Service) ExecuteStream(ctx context.Context, req Request) (<-chan domain.StreamEvent, error) {
	started := s.now()

	if strings.TrimSpace(req.Question) == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidRequest)
	}
	lang := domain.NormalizeLanguage(string(req.Language))

	cls := s.classifier.Classify(req.Question)

	var cached *domain.CachedAnswer
	if s.cacheUsable(req) && req.SessionID == "" {
		cached, _ = s.cache.Get(ctx, req.Question, lang, req.Filters)
	}

	sessionID := req.SessionID
	if cached != nil {
		sessionID = ""
	}
	session, err := s.memory.GetOrCreate(ctx, sessionID, req.UserID, lang)
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}

	var history []domain.Message
	if cached == nil && req.SessionID != "" && len(session.Messages) > 0 && s.memory.IsFollowUp(req.Question, lang) {
		history = s.memory.ContextHistory(session)
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

	events := make(chan domain.StreamEvent, streamBuffer)
	go func() {
		defer close(events)
		if cached != nil {
			s.streamCached(ctx, events, req, lang, cls, session, cached, started)
			return
		}
		s.streamGenerate(ctx, events, req, lang, cls, session, history, started)
	}()
	return events, nil
}

// streamCached replays a cached answer token by token.
func (s *Service) streamCached(
	ctx context.Context, events chan<- domain.StreamEvent, req Request,
	lang domain.Language, cls domain.Classification, session *domain.Session,
	entry *domain.CachedAnswer, started time.Time,
) {
	if err := s.memory.AddAssistantMessage(ctx, session, entry.Answer, entry.Sources); err != nil {
		s.logger.Error("append assistant message", zap.Error(err))
		s.emit(ctx, events, errorEvent(lang))
		return
	}

	clsSummary := cls.Summary()
	if !s.emit(ctx, events, domain.StreamEvent{
		Type:           domain.StreamStart,
		Language:       lang,
		Classification: &clsSummary,
		SessionID:      session.ID,
		FromCache:      true,
	}) {
		return
	}
	if !s.emit(ctx, events, domain.StreamEvent{Type: domain.StreamSources, Sources: entry.Sources, SessionID: session.ID}) {
		return
	}
	for _, tok := range strings.Fields(entry.Answer) {
		if !s.emit(ctx, events, domain.StreamEvent{Type: domain.StreamToken, Token: tok + " "}) {
			return
		}
	}

	s.record(req, lang, cls, entry.Confidence, true, started)
	s.emit(ctx, events, domain.StreamEvent{
		Type:       domain.StreamDone,
		SessionID:  session.ID,
		Confidence: entry.Confidence,
		FromCache:  true,
	})
}

// streamGenerate runs the full pipeline and forwards generation tokens as
// they arrive.
func (s *Service) streamGenerate(
	ctx context.Context, events chan<- domain.StreamEvent, req Request,
	lang domain.Language, cls domain.Classification, session *domain.Session,
	history []domain.Message, started time.Time,
) {
	filters := mergeFilters(req.Filters, cls.SuggestedFilters)
	systemPrompt := buildSystemPrompt(lang, cls, history)

	candidates := s.retriever.Retrieve(ctx, req.Question, filters)
	ranked := s.reranker.Rerank(req.Question, candidates)
	if req.MaxSources > 0 && len(ranked) > req.MaxSources {
		ranked = ranked[:req.MaxSources]
	}

	clsSummary := cls.Summary()
	if !s.emit(ctx, events, domain.StreamEvent{
		Type:           domain.StreamStart,
		Language:       lang,
		Classification: &clsSummary,
		SessionID:      session.ID,
	}) {
		return
	}

	if len(ranked) == 0 {
		s.streamCanned(ctx, events, req, lang, cls, session, noResultsMessage(lang), started)
		return
	}

	sources := projectSources(ranked, lang)
	if !s.emit(ctx, events, domain.StreamEvent{Type: domain.StreamSources, Sources: sources, SessionID: session.ID}) {
		return
	}

	prompt := s.augmenter.BuildPrompt(req.Question, ranked, lang)
	stream, err := s.generator.GenerateStream(ctx, prompt, systemPrompt)
	if err != nil {
		s.logger.Error("generation stream failed to start", zap.Error(err))
		s.emit(ctx, events, errorEvent(lang))
		return
	}
	defer stream.Close()

	var answer strings.Builder
	for {
		tok, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			s.logger.Error("generation stream broke", zap.Error(err))
			s.emit(ctx, events, errorEvent(lang))
			return
		}
		answer.WriteString(tok)
		if !s.emit(ctx, events, domain.StreamEvent{Type: domain.StreamToken, Token: tok}) {
			return
		}
	}

	if err := s.memory.AddAssistantMessage(ctx, session, answer.String(), sources); err != nil {
		s.logger.Error("append assistant message", zap.Error(err))
		s.emit(ctx, events, errorEvent(lang))
		return
	}

	confidence := combinedConfidence(len(sources), cls.Confidence)

	if s.cacheUsable(req) && req.SessionID == "" {
		s.cache.Set(ctx, req.Question, lang, req.Filters, &domain.CachedAnswer{
			Answer:     answer.String(),
			Sources:    sources,
			Confidence: confidence,
			Domain:     cls.Domain,
			Intent:     cls.Intent,
			Language:   lang,
			CachedAt:   s.now().UTC(),
		})
	}

	s.record(req, lang, cls, confidence, false, started)
	s.emit(ctx, events, domain.StreamEvent{
		Type:       domain.StreamDone,
		SessionID:  session.ID,
		Confidence: confidence,
	})
}

// streamCanned delivers a fixed message through the normal event sequence so
// clients need no special handling for the no-results path.
func (s *Service) streamCanned(
	ctx context.Context, events chan<- domain.StreamEvent, req Request,
	lang domain.Language, cls domain.Classification, session *domain.Session,
	message string, started time.Time,
) {
	if err := s.memory.AddAssistantMessage(ctx, session, message, nil); err != nil {
		s.logger.Error("append assistant message", zap.Error(err))
		s.emit(ctx, events, errorEvent(lang))
		return
	}

	if !s.emit(ctx, events, domain.StreamEvent{Type: domain.StreamSources, SessionID: session.ID}) {
		return
	}
	for _, tok := range strings.Fields(message) {
		if !s.emit(ctx, events, domain.StreamEvent{Type: domain.StreamToken, Token: tok + " "}) {
			return
		}
	}

	s.record(req, lang, cls, 0, false, started)
	s.emit(ctx, events, domain.StreamEvent{
		Type:      domain.StreamDone,
		SessionID: session.ID,
	})
}

// emit delivers one event unless the consumer is gone. A false return means
// the stream was abandoned and the producer must stop.
func (s *Service) emit(ctx context.Context, events chan<- domain.StreamEvent, ev domain.StreamEvent) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// errorEvent carries a user-safe message; the underlying error only goes to
// the logs.
func errorEvent(lang domain.Language) domain.StreamEvent {
	return domain.StreamEvent{Type: domain.StreamError, Language: lang, Message: fallbackMessage(lang)}
}
