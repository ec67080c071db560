package analytics

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pandect-io/pandect/internal/domain"
	"github.com/pandect-io/pandect/internal/metrics"
	"github.com/pandect-io/pandect/internal/usecase/answercache"
)

// store is the consumer interface for analytics counters (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	IncrBy(ctx context.Context, key string, val int64) error
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}

// Event describes one answered query.
type Event struct {
	Question   string
	Language   domain.Language
	Domain     string
	Intent     string
	Confidence float64
	FromCache  bool
	Duration   time.Duration
}

// DailyStats aggregates one day of usage counters. Eventually consistent and
// write-mostly; never read back for correctness.
type DailyStats struct {
	Day       string           `json:"day"`
	Queries   int64            `json:"queries"`
	CacheHits int64            `json:"cache_hits"`
	Languages map[string]int64 `json:"languages,omitempty"`
}

// Options holds analytics settings.
type Options struct {
	KeyPrefix string
	Retention time.Duration
}

// Analytics aggregates usage counters in the key-value store. Recording is
// fire-and-forget: every event runs on a detached goroutine, and failures are
// logged and discarded, never surfaced to the caller.
type Analytics struct {
	store   store
	opts    Options
	logger  *zap.Logger
	wg      sync.WaitGroup
	enabled bool
}

// New creates an analytics aggregator. A disabled aggregator drops every
// event.
func New(s store, enabled bool, opts Options, logger *zap.Logger) *Analytics {
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = "pandect:"
	}
	if opts.Retention <= 0 {
		opts.Retention = 48 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analytics{store: s, opts: opts, logger: logger, enabled: enabled}
}

// Record dispatches the event without awaiting completion. Prometheus
// counters update synchronously; KV aggregation runs detached.
func (a *Analytics) Record(event Event) {
	source := "generated"
	if event.FromCache {
		source = "cache"
	}
	metrics.QueriesTotal.WithLabelValues(
		string(event.Language), event.Domain, event.Intent, source,
	).Inc()
	metrics.QueryDuration.WithLabelValues(source).Observe(event.Duration.Seconds())

	if !a.enabled {
		return
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		a.aggregate(ctx, event)
	}()
}

// Close waits briefly for in-flight events, then gives up. Shutdown never
// blocks on analytics.
func (a *Analytics) Close() {
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		a.logger.Warn("analytics shutdown grace expired with events in flight")
	}
}

// Stats reads the aggregated counters for a day (2006-01-02).
func (a *Analytics) Stats(ctx context.Context, day string) (DailyStats, error) {
	stats := DailyStats{
		Day:       day,
		Languages: map[string]int64{},
	}
	stats.Queries = a.readCounter(ctx, a.statsKey(day, "queries"))
	stats.CacheHits = a.readCounter(ctx, a.statsKey(day, "cache_hits"))

	for _, lang := range []domain.Language{domain.LangFR, domain.LangDE, domain.LangEN} {
		if n := a.readCounter(ctx, a.statsKey(day, "lang:"+string(lang))); n > 0 {
			stats.Languages[string(lang)] = n
		}
	}
	return stats, nil
}

func (a *Analytics) aggregate(ctx context.Context, event Event) {
	day := time.Now().UTC().Format("2006-01-02")

	fields := []string{
		"queries",
		"lang:" + string(event.Language),
		"domain:" + event.Domain,
		"intent:" + event.Intent,
	}
	if event.FromCache {
		fields = append(fields, "cache_hits")
	}

	for _, field := range fields {
		a.incr(ctx, a.statsKey(day, field))
	}

	// Question frequency, keyed by normalized fingerprint.
	qhash := sha256.Sum256([]byte(answercache.Normalize(event.Question)))
	a.incr(ctx, a.opts.KeyPrefix+"freq:"+hex.EncodeToString(qhash[:8]))
}

func (a *Analytics) incr(ctx context.Context, key string) {
	if err := a.store.IncrBy(ctx, key, 1); err != nil {
		a.logger.Debug("analytics increment failed", zap.String("key", key), zap.Error(err))
		return
	}
	// NX keeps the first write's retention window.
	if err := a.store.Expire(ctx, key, a.opts.Retention, true); err != nil {
		a.logger.Debug("analytics expire failed", zap.String("key", key), zap.Error(err))
	}
}

func (a *Analytics) readCounter(ctx context.Context, key string) int64 {
	data, err := a.store.Get(ctx, key)
	if err != nil {
		return 0
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func (a *Analytics) statsKey(day, field string) string {
	return a.opts.KeyPrefix + "stats:" + day + ":" + field
}
