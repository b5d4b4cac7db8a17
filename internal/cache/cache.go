package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/ReviewsGo/internal/domain"
)

const keyPrefix = "reviews:"

// ResultCache caches the aggregated retrieval result for a product in Redis.
// All failures are soft: a broken cache degrades to a miss and is logged,
// never surfaced to the caller.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewResultCache creates a cache over the given Redis client. A nil client
// disables caching entirely.
func NewResultCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *ResultCache {
	return &ResultCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func cacheKey(productHandle string, source *domain.Source) string {
	if source != nil {
		return keyPrefix + productHandle + ":" + source.String()
	}
	return keyPrefix + productHandle
}

// Get returns the cached aggregate for a product, or ok=false on a miss.
func (c *ResultCache) Get(ctx context.Context, productHandle string, source *domain.Source) (*domain.ReviewBatch, bool) {
	if c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, cacheKey(productHandle, source)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "review cache read failed",
				slog.String("product_handle", productHandle),
				slog.String("error", err.Error()),
			)
		}
		return nil, false
	}

	var batch domain.ReviewBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		c.logger.WarnContext(ctx, "review cache entry corrupt, ignoring",
			slog.String("product_handle", productHandle),
			slog.String("error", err.Error()),
		)
		return nil, false
	}
	return &batch, true
}

// Set stores the aggregated result for a product.
func (c *ResultCache) Set(ctx context.Context, productHandle string, source *domain.Source, batch *domain.ReviewBatch) {
	if c.client == nil {
		return
	}

	data, err := json.Marshal(batch)
	if err != nil {
		c.logger.WarnContext(ctx, "review cache marshal failed",
			slog.String("product_handle", productHandle),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := c.client.Set(ctx, cacheKey(productHandle, source), data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "review cache write failed",
			slog.String("product_handle", productHandle),
			slog.String("error", err.Error()),
		)
	}
}

// Invalidate drops every cached aggregate for a product: the cross-source key
// plus one key per known source.
func (c *ResultCache) Invalidate(ctx context.Context, productHandle string) {
	if c.client == nil {
		return
	}

	keys := make([]string, 0, len(domain.AllSources)+1)
	keys = append(keys, cacheKey(productHandle, nil))
	for _, s := range domain.AllSources {
		s := s
		keys = append(keys, cacheKey(productHandle, &s))
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.WarnContext(ctx, "review cache invalidation failed",
			slog.String("product_handle", productHandle),
			slog.String("error", err.Error()),
		)
	}
}
