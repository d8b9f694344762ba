package listing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/dalil-cloud/dalil/internal/db"
	"github.com/dalil-cloud/dalil/internal/domain"
)

const cacheKeyPrefix = "dalil:listings:"

// store is the consumer interface for the listing cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// source is the inner fetcher being decorated.
type source interface {
	Fetch(ctx context.Context, h domain.FetchHint) ([]domain.Business, error)
}

// CachedSource caches listing pages in a key-value store. Cache failures are
// logged and treated as misses so a dead store never takes the search down.
type CachedSource struct {
	inner      source
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// NewCached creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func NewCached(
	inner source,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedSource {
	return &CachedSource{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Fetch returns a cached listing page or calls the inner source.
func (c *CachedSource) Fetch(ctx context.Context, h domain.FetchHint) ([]domain.Business, error) {
	key := c.cacheKey(h)

	if records, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return records, nil
	}

	c.incCache("miss")

	records, err := c.inner.Fetch(ctx, h)
	if err != nil {
		return nil, fmt.Errorf("fetch listings: %w", err)
	}

	c.putToCache(ctx, key, records)
	return records, nil
}

func (c *CachedSource) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey hashes the canonical backend query so equivalent hints share an
// entry regardless of field order.
func (c *CachedSource) cacheKey(h domain.FetchHint) string {
	sum := sha256.Sum256([]byte(buildQuery(h).Encode()))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

func (c *CachedSource) getFromCache(ctx context.Context, key string) ([]domain.Business, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached listings", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	var records []domain.Business
	if err := json.Unmarshal(data, &records); err != nil {
		c.logger.Warn("Failed to parse cached listings", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return records, true
}

func (c *CachedSource) putToCache(ctx context.Context, key string, records []domain.Business) {
	data, err := json.Marshal(records)
	if err != nil {
		c.logger.Warn("Failed to encode listings for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache listings", zap.String("key", key), zap.Error(err))
	}
}
