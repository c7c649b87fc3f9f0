// internal/catalog/cache.go
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"parche-recommender/internal/models"
)

const DefaultCacheKey = "parche:catalog:snapshot"

// CachedSnapshotter keeps a JSON copy of the source snapshot in Redis.
// Redis failures are logged and the source is read directly.
type CachedSnapshotter struct {
	source Snapshotter
	rdb    redis.Cmdable
	key    string
	ttl    time.Duration
	logger Logger
}

type CacheOption func(*CachedSnapshotter)

func WithCacheKey(key string) CacheOption {
	return func(c *CachedSnapshotter) { c.key = key }
}

func WithCacheLogger(l Logger) CacheOption {
	return func(c *CachedSnapshotter) { c.logger = l }
}

func NewCachedSnapshotter(source Snapshotter, rdb redis.Cmdable, ttl time.Duration, opts ...CacheOption) *CachedSnapshotter {
	c := &CachedSnapshotter{
		source: source,
		rdb:    rdb,
		key:    DefaultCacheKey,
		ttl:    ttl,
		logger: nopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CachedSnapshotter) Snapshot(ctx context.Context) ([]models.PlanRecord, error) {
	raw, err := c.rdb.Get(ctx, c.key).Bytes()
	switch {
	case err == nil:
		var plans []models.PlanRecord
		if jsonErr := json.Unmarshal(raw, &plans); jsonErr == nil && plans != nil {
			return plans, nil
		}
		c.logger.Warn("discarding unreadable catalog snapshot", map[string]interface{}{"key": c.key})
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("catalog cache read failed", map[string]interface{}{"key": c.key, "error": err.Error()})
	}

	plans, err := c.source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(plans)
	if err == nil {
		err = c.rdb.Set(ctx, c.key, data, c.ttl).Err()
	}
	if err != nil {
		c.logger.Warn("catalog cache write failed", map[string]interface{}{"key": c.key, "error": err.Error()})
	}
	return plans, nil
}

// Invalidate drops the cached snapshot so the next read hits the source.
func (c *CachedSnapshotter) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, c.key).Err()
}
