package domain

import "time"

// CachedAnswer is a previously generated answer stored under a question
// fingerprint. Only HitCount mutates after creation; entries expire by TTL.
type CachedAnswer struct {
	Answer     string      `json:"answer"`
	Sources    []SourceRef `json:"sources"`
	Confidence float64     `json:"confidence"`
	Domain     string      `json:"domain"`
	Intent     string      `json:"intent"`
	Language   Language    `json:"language"`
	CachedAt   time.Time   `json:"cached_at"`
	HitCount   int64       `json:"hit_count"`
}

// Result is the complete outcome of one query.
type Result struct {
	Answer         string                `json:"answer"`
	Sources        []SourceRef           `json:"sources"`
	Language       Language              `json:"language"`
	Confidence     float64               `json:"confidence"`
	Classification ClassificationSummary `json:"classification"`
	SessionID      string                `json:"session_id"`
	FromCache      bool                  `json:"from_cache"`
}

// StreamEventType discriminates streamed query events.
type StreamEventType string

// Stream event types, in emission order: start, sources, token*, then
// exactly one of done or error.
const (
	StreamStart   StreamEventType = "start"
	StreamSources StreamEventType = "sources"
	StreamToken   StreamEventType = "token"
	StreamDone    StreamEventType = "done"
	StreamError   StreamEventType = "error"
)

// StreamEvent is one element of the ordered event sequence emitted by a
// streaming query. Only the fields relevant to the event type are set.
type StreamEvent struct {
	Type           StreamEventType        `json:"type"`
	Language       Language               `json:"language,omitempty"`
	Classification *ClassificationSummary `json:"classification,omitempty"`
	Sources        []SourceRef            `json:"sources,omitempty"`
	SessionID      string                 `json:"session_id,omitempty"`
	Token          string                 `json:"token,omitempty"`
	Confidence     float64                `json:"confidence,omitempty"`
	FromCache      bool                   `json:"from_cache,omitempty"`
	Message        string                 `json:"message,omitempty"`
}
