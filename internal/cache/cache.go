// Package cache is an optional Redis read-through for event lookups. A nil
// *EventCache is a valid no-op, so deployments without Redis run the same
// code paths.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/zeventbooks/event-gateway/internal/model"
)

const eventTTL = 30 * time.Second

// EventCache caches events by id for a short window. Ids are globally
// unique, so entries are not brand-scoped. Misses and Redis faults both
// read as "not cached"; the store stays authoritative.
type EventCache struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// New connects to Redis at addr. An empty addr disables caching and returns
// nil, which every method accepts.
func New(addr string, logger *zap.Logger) *EventCache {
	if addr == "" {
		return nil
	}
	return &EventCache{
		rdb:    redis.NewClient(&redis.Options{Addr: addr}),
		logger: logger,
	}
}

func key(id string) string {
	return "evt:" + id
}

func (c *EventCache) Get(ctx context.Context, id string) (*model.Event, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, key(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("event cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var e model.Event
	if err := json.Unmarshal(raw, &e); err != nil {
		c.logger.Warn("event cache entry corrupt", zap.String("key", key(id)))
		return nil, false
	}
	return &e, true
}

func (c *EventCache) Set(ctx context.Context, e *model.Event) {
	if c == nil || e == nil {
		return
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key(e.ID), raw, eventTTL).Err(); err != nil {
		c.logger.Warn("event cache write failed", zap.Error(err))
	}
}

// Invalidate drops the event's entry so stale bundles disappear no later
// than the write that changed them.
func (c *EventCache) Invalidate(ctx context.Context, e *model.Event) {
	if c == nil || e == nil {
		return
	}
	if err := c.rdb.Del(ctx, key(e.ID)).Err(); err != nil {
		c.logger.Warn("event cache invalidation failed", zap.Error(err))
	}
}

// Close releases the Redis connection pool.
func (c *EventCache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
