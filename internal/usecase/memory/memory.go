package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pandect-io/pandect/internal/db"
	"github.com/pandect-io/pandect/internal/domain"
)

// store is the consumer interface for session persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Options holds session lifetime settings.
type Options struct {
	KeyPrefix    string
	TTL          time.Duration
	HistoryLimit int
}

// Memory manages conversation sessions in the key-value store. Sessions are
// append-only message logs with an idle TTL; every append refreshes the TTL.
type Memory struct {
	store  store
	opts   Options
	logger *zap.Logger
	now    func() time.Time
}

// New creates a conversation memory.
func New(s store, opts Options, logger *zap.Logger) *Memory {
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = "pandect:"
	}
	if opts.TTL <= 0 {
		opts.TTL = 30 * time.Minute
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 6
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Memory{store: s, opts: opts, logger: logger, now: time.Now}
}

// GetOrCreate resolves an existing session or creates a fresh one. An unknown
// or expired session id yields a fresh session under that id rather than an
// error, so clients survive session expiry transparently.
func (m *Memory) GetOrCreate(
	ctx context.Context, sessionID, userID string, lang domain.Language,
) (*domain.Session, error) {
	if sessionID != "" {
		session, err := m.get(ctx, sessionID)
		switch {
		case err == nil:
			return session, nil
		case errors.Is(err, domain.ErrSessionNotFound):
			// fall through to creation under the supplied id
		default:
			return nil, err
		}
	}

	now := m.now().UTC()
	session := &domain.Session{
		ID:             sessionID,
		UserID:         userID,
		Language:       lang,
		CreatedAt:      now,
		LastActivityAt: now,
	}
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if err := m.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// AddUserMessage appends a user turn, updates the aggregated metadata, and
// persists the session. Persistence failure propagates: losing the user turn
// would corrupt the conversation.
func (m *Memory) AddUserMessage(
	ctx context.Context, session *domain.Session, content string, cls *domain.ClassificationSummary,
) error {
	session.Append(domain.Message{
		Role:           domain.RoleUser,
		Content:        content,
		Timestamp:      m.now().UTC(),
		Classification: cls,
	})

	session.Metadata.QuestionCount++
	if cls != nil {
		session.Metadata.Domains = appendUnique(session.Metadata.Domains, cls.Domain)
		session.Metadata.Intents = appendUnique(session.Metadata.Intents, cls.Intent)
	}

	return m.save(ctx, session)
}

// AddAssistantMessage appends an assistant turn with its cited sources and
// persists the session.
func (m *Memory) AddAssistantMessage(
	ctx context.Context, session *domain.Session, content string, sources []domain.SourceRef,
) error {
	session.Append(domain.Message{
		Role:      domain.RoleAssistant,
		Content:   content,
		Timestamp: m.now().UTC(),
		Sources:   sources,
	})
	return m.save(ctx, session)
}

// ContextHistory returns the trailing messages included in prompts. Storage
// is uncapped; only the prompt window is limited.
func (m *Memory) ContextHistory(session *domain.Session) []domain.Message {
	return session.LastN(m.opts.HistoryLimit)
}

// DominantDomain returns the most recently seen classification domain, a
// cheap topic-continuity proxy for follow-up questions.
func (m *Memory) DominantDomain(session *domain.Session) string {
	for i := len(session.Messages) - 1; i >= 0; i-- {
		if cls := session.Messages[i].Classification; cls != nil && cls.Domain != domain.DomainGeneral {
			return cls.Domain
		}
	}
	return ""
}

// Delete removes a session and its history before the TTL would. An unknown
// or already-expired id is ErrSessionNotFound.
func (m *Memory) Delete(ctx context.Context, sessionID string) error {
	if _, err := m.get(ctx, sessionID); err != nil {
		return err
	}
	if err := m.store.Del(ctx, m.key(sessionID)); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	return nil
}

func (m *Memory) get(ctx context.Context, sessionID string) (*domain.Session, error) {
	data, err := m.store.Get(ctx, m.key(sessionID))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrSessionNotFound)
		}
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", sessionID, err)
	}
	return &session, nil
}

func (m *Memory) save(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", session.ID, err)
	}
	if err := m.store.SetWithTTL(ctx, m.key(session.ID), data, m.opts.TTL); err != nil {
		return fmt.Errorf("save session %s: %w", session.ID, err)
	}
	return nil
}

func (m *Memory) key(sessionID string) string {
	return m.opts.KeyPrefix + "sessions:" + sessionID
}

func appendUnique(values []string, v string) []string {
	if v == "" {
		return values
	}
	for _, existing := range values {
		if existing == v {
			return values
		}
	}
	return append(values, v)
}
