package answercache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/pandect-io/pandect/internal/db"
	"github.com/pandect-io/pandect/internal/domain"
	"github.com/pandect-io/pandect/internal/metrics"
)

// store is the consumer interface for the answer cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Options holds cache gating settings.
type Options struct {
	KeyPrefix     string
	MinConfidence float64
	TTL           time.Duration
}

// Cache stores full answers under question fingerprints. Writes are gated on
// confidence and sources; entries expire by TTL and concurrent writes are
// last-writer-wins.
type Cache struct {
	store  store
	opts   Options
	logger *zap.Logger
}

// New creates an answer cache.
func New(s store, opts Options, logger *zap.Logger) *Cache {
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = "pandect:"
	}
	if opts.MinConfidence <= 0 {
		opts.MinConfidence = 0.7
	}
	if opts.TTL <= 0 {
		opts.TTL = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{store: s, opts: opts, logger: logger}
}

// Get looks up an answer by exact normalized match. A hit increments the
// entry's hit count and refreshes its TTL. Store failures count as misses.
func (c *Cache) Get(
	ctx context.Context, question string, lang domain.Language, filters map[string]string,
) (*domain.CachedAnswer, bool) {
	key := c.key(question, lang, filters)

	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to read cached answer", zap.String("key", key), zap.Error(err))
		}
		metrics.AnswerCacheTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	var entry domain.CachedAnswer
	if err := json.Unmarshal(data, &entry); err != nil {
		c.logger.Warn("Failed to parse cached answer", zap.String("key", key), zap.Error(err))
		metrics.AnswerCacheTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	metrics.AnswerCacheTotal.WithLabelValues("hit").Inc()

	// Last-writer-wins: the incremented entry is written back without
	// locking, which also refreshes the TTL.
	entry.HitCount++
	c.put(ctx, key, &entry)

	return &entry, true
}

// Set stores an answer unless gating rejects it: entries below the minimum
// confidence or without sources are never cached.
func (c *Cache) Set(
	ctx context.Context, question string, lang domain.Language,
	filters map[string]string, entry *domain.CachedAnswer,
) {
	if entry == nil || entry.Confidence < c.opts.MinConfidence || len(entry.Sources) == 0 {
		return
	}
	c.put(ctx, c.key(question, lang, filters), entry)
}

func (c *Cache) put(ctx context.Context, key string, entry *domain.CachedAnswer) {
	data, err := json.Marshal(entry)
	if err != nil {
		c.logger.Warn("Failed to marshal cached answer", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.opts.TTL); err != nil {
		c.logger.Warn("Failed to write cached answer", zap.String("key", key), zap.Error(err))
	}
}

func (c *Cache) key(question string, lang domain.Language, filters map[string]string) string {
	return c.opts.KeyPrefix + "answers:" + Fingerprint(question, lang, filters)
}
