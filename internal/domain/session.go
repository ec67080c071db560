package domain

import "time"

// Role identifies the author of a conversation message.
type Role string

// Message roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation. Messages are append-only: never
// reordered or mutated after creation.
type Message struct {
	Role           Role                   `json:"role"`
	Content        string                 `json:"content"`
	Timestamp      time.Time              `json:"timestamp"`
	Sources        []SourceRef            `json:"sources,omitempty"`
	Classification *ClassificationSummary `json:"classification,omitempty"`
}

// SessionMetadata aggregates what has been seen over a session's lifetime.
type SessionMetadata struct {
	QuestionCount int      `json:"question_count"`
	Domains       []string `json:"domains,omitempty"`
	Intents       []string `json:"intents,omitempty"`
}

// Session is a bounded-lifetime conversation record. It expires by idle TTL
// in the backing store; there is no explicit close.
type Session struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id,omitempty"`
	Language       Language        `json:"language"`
	Messages       []Message       `json:"messages"`
	CreatedAt      time.Time       `json:"created_at"`
	LastActivityAt time.Time       `json:"last_activity_at"`
	Metadata       SessionMetadata `json:"metadata"`
}

// Append adds a message and bumps the activity timestamp.
func (s *Session) Append(m Message) {
	s.Messages = append(s.Messages, m)
	s.LastActivityAt = m.Timestamp
}

// LastN returns the trailing n messages without copying the backing array.
func (s *Session) LastN(n int) []Message {
	if n <= 0 || len(s.Messages) <= n {
		return s.Messages
	}
	return s.Messages[len(s.Messages)-n:]
}
