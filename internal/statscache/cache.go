// Package statscache caches computed match statistics in Redis so the
// dashboard does not trigger a full ranking pass on every page load. Seekers
// who request statistics are remembered in a Redis set; the scheduler
// re-warms their entries periodically.
package statscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/matching"
)

const (
	keyPrefix     = "matchstats:"
	activeSetKey  = "matchstats:active"
	activeSetDays = 7
)

// Cache is a TTL'd Redis cache for matching.Statistics.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New returns a Cache with the given entry TTL.
func New(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// Get returns the cached statistics for a seeker, or nil, nil on a miss.
func (c *Cache) Get(ctx context.Context, seekerID string) (*matching.Statistics, error) {
	raw, err := c.rdb.Get(ctx, keyPrefix+seekerID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached stats for %s: %w", seekerID, err)
	}

	var stats matching.Statistics
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, fmt.Errorf("decode cached stats for %s: %w", seekerID, err)
	}
	return &stats, nil
}

// Put stores the statistics and marks the seeker as recently active so the
// scheduler keeps the entry warm.
func (c *Cache) Put(ctx context.Context, seekerID string, stats *matching.Statistics) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode stats for %s: %w", seekerID, err)
	}
	if err := c.rdb.Set(ctx, keyPrefix+seekerID, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache stats for %s: %w", seekerID, err)
	}

	pipe := c.rdb.Pipeline()
	pipe.SAdd(ctx, activeSetKey, seekerID)
	pipe.Expire(ctx, activeSetKey, activeSetDays*24*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("mark seeker %s active: %w", seekerID, err)
	}
	return nil
}

// ActiveSeekers lists the seekers whose entries the scheduler should keep
// warm.
func (c *Cache) ActiveSeekers(ctx context.Context) ([]string, error) {
	ids, err := c.rdb.SMembers(ctx, activeSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list active seekers: %w", err)
	}
	return ids, nil
}
