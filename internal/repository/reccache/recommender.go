// Package reccache decorates the recommendation engine with a key-value
// result cache. Cache trouble never fails a request; it degrades to a
// recompute with a warn log.
package reccache

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

	"github.com/hearthside/cartfill/internal/db"
	"github.com/hearthside/cartfill/internal/domain"
)

const cacheKeyPrefix = "cartfill:rec_cache:"

// store is the consumer interface for the result cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Recommender is the cached contract: both ranked entry points.
type Recommender interface {
	SuggestForItem(ctx context.Context, item string, topK int) ([]domain.Suggestion, error)
	AdditionalRecommendations(ctx context.Context, customerID string, topK int) ([]domain.Suggestion, error)
}

// CachedRecommender caches ranked suggestion lists in a key-value store.
type CachedRecommender struct {
	inner      Recommender
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner Recommender,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedRecommender {
	return &CachedRecommender{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// SuggestForItem returns cached per-item suggestions or computes them.
func (c *CachedRecommender) SuggestForItem(ctx context.Context, item string, topK int) ([]domain.Suggestion, error) {
	return c.cached(ctx, cacheKey("item", item, topK), func() ([]domain.Suggestion, error) {
		return c.inner.SuggestForItem(ctx, item, topK)
	})
}

// AdditionalRecommendations returns cached per-customer suggestions or computes them.
func (c *CachedRecommender) AdditionalRecommendations(ctx context.Context, customerID string, topK int) ([]domain.Suggestion, error) {
	return c.cached(ctx, cacheKey("customer", customerID, topK), func() ([]domain.Suggestion, error) {
		return c.inner.AdditionalRecommendations(ctx, customerID, topK)
	})
}

func (c *CachedRecommender) cached(ctx context.Context, key string, compute func() ([]domain.Suggestion, error)) ([]domain.Suggestion, error) {
	if out, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return out, nil
	}
	c.incCache("miss")

	out, err := compute()
	if err != nil {
		return nil, err
	}
	c.putToCache(ctx, key, out)
	return out, nil
}

func (c *CachedRecommender) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func cacheKey(kind, anchor string, topK int) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d", kind, anchor, topK)))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedRecommender) getFromCache(ctx context.Context, key string) ([]domain.Suggestion, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached suggestions", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	var out []domain.Suggestion
	if err := json.Unmarshal(data, &out); err != nil {
		c.logger.Warn("Failed to parse cached suggestions", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return out, true
}

func (c *CachedRecommender) putToCache(ctx context.Context, key string, out []domain.Suggestion) {
	data, err := json.Marshal(out)
	if err != nil {
		c.logger.Warn("Failed to encode suggestions for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache suggestions", zap.String("key", key), zap.Error(err))
	}
}
