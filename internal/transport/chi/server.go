package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pandect-io/pandect/internal/db"
	"github.com/pandect-io/pandect/internal/domain"
	analyticsuc "github.com/pandect-io/pandect/internal/usecase/analytics"
	raguc "github.com/pandect-io/pandect/internal/usecase/rag"
)

const maxQuestionLen = 2000

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// sessionStore is the slice of conversation memory the transport needs (ISP).
type sessionStore interface {
	Delete(ctx context.Context, sessionID string) error
}

// Server exposes the query pipeline over HTTP.
type Server struct {
	rag           *raguc.Service
	analytics     *analyticsuc.Analytics
	sessions      sessionStore
	pinger        db.Pinger
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	rag *raguc.Service,
	analytics *analyticsuc.Analytics,
	sessions sessionStore,
	pinger db.Pinger,
	logger *zap.Logger,
) *Server {
	s := &Server{
		rag:       rag,
		analytics: analytics,
		sessions:  sessions,
		pinger:    pinger,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, codeInvalidRequest),
		sentinelHandler(domain.ErrSessionNotFound, http.StatusNotFound, codeSessionNotFound),
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, codeDocumentNotFound),
		sentinelHandler(domain.ErrSearchUnavailable, http.StatusBadGateway, codeSearchUnavailable),
		sentinelHandler(domain.ErrGenerationFailed, http.StatusBadGateway, codeGenerationFailed),
	}
	return s
}

// Routes mounts all handlers on a fresh router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/v1/query", s.Query)
	r.Post("/v1/query/stream", s.QueryStream)
	r.Delete("/v1/sessions/{sessionID}", s.DeleteSession)
	r.Get("/v1/stats/{day}", s.Stats)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	return r
}

type queryRequest struct {
	Question   string            `json:"question"`
	Language   string            `json:"language,omitempty"`
	Filters    map[string]string `json:"filters,omitempty"`
	MaxSources int               `json:"max_sources,omitempty"`
	SessionID  string            `json:"session_id,omitempty"`
	UserID     string            `json:"user_id,omitempty"`
	UseCache   *bool             `json:"use_cache,omitempty"`
}

func (q queryRequest) toRequest() raguc.Request {
	useCache := true
	if q.UseCache != nil {
		useCache = *q.UseCache
	}
	return raguc.Request{
		Question:   q.Question,
		Language:   domain.Language(q.Language),
		Filters:    q.Filters,
		MaxSources: q.MaxSources,
		SessionID:  q.SessionID,
		UserID:     q.UserID,
		UseCache:   useCache,
	}
}

func (q queryRequest) validate() (string, bool) {
	if q.Question == "" {
		return "question is required", false
	}
	if len([]rune(q.Question)) > maxQuestionLen {
		return "question exceeds maximum length", false
	}
	return "", true
}

// Query handles POST /v1/query.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "Invalid request body: "+err.Error())
		return
	}
	if msg, ok := req.validate(); !ok {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, msg)
		return
	}

	result, err := s.rag.Execute(r.Context(), req.toRequest())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// QueryStream handles POST /v1/query/stream with server-sent events.
func (s *Server) QueryStream(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "Invalid request body: "+err.Error())
		return
	}
	if msg, ok := req.validate(); !ok {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, msg)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, codeInternalError, "streaming unsupported")
		return
	}

	events, err := s.rag.ExecuteStream(r.Context(), req.toRequest())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for ev := range events {
		if err := writeSSE(w, ev); err != nil {
			// Client is gone; draining the channel lets the producer
			// notice via context cancellation.
			s.logger.Debug("sse write failed", zap.Error(err))
			return
		}
		flusher.Flush()
	}
}

// DeleteSession handles DELETE /v1/sessions/{sessionID}. Clients call it to
// end a conversation and purge its history ahead of the idle TTL.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "session id is required")
		return
	}

	if err := s.sessions.Delete(r.Context(), sessionID); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

var dayPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Stats handles GET /v1/stats/{day}.
func (s *Server) Stats(w http.ResponseWriter, r *http.Request) {
	day := chi.URLParam(r, "day")
	if !dayPattern.MatchString(day) {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "day must be formatted YYYY-MM-DD")
		return
	}
	if _, err := time.Parse("2006-01-02", day); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "day must be a valid date")
		return
	}

	stats, err := s.analytics.Stats(r.Context(), day)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	httpStatus := http.StatusOK
	checks := map[string]string{"database": "ok"}

	if err := s.pinger.Ping(r.Context()); err != nil {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
		checks["database"] = "unreachable"
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": status,
		"checks": checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// writeSSE emits one event in SSE framing, typed by the event kind.
func writeSSE(w http.ResponseWriter, ev domain.StreamEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte("event: " + string(ev.Type) + "\n")); err != nil {
		return err
	}
	if _, err := w.Write([]byte("data: ")); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	_, err = w.Write([]byte("\n\n"))
	return err
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidRequest,
		domain.ErrSessionNotFound,
		domain.ErrDocumentNotFound,
		domain.ErrSearchUnavailable,
		domain.ErrGenerationFailed,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}
