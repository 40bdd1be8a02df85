package buyers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

// Stats holds the dashboard aggregates for one owner.
type Stats struct {
	OwnerID        string  `json:"owner_id"`
	Total          int64   `json:"total_leads"`
	New            int64   `json:"new_leads"`
	Converted      int64   `json:"converted_leads"`
	Urgent         int64   `json:"urgent_leads"`
	ConversionRate float64 `json:"conversion_rate"`
}

// conversionRate returns converted/total as a percentage rounded to one
// decimal place; zero when there are no leads.
func conversionRate(converted, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(converted)/float64(total)*1000) / 10
}

// StatsCache keeps dashboard aggregates in Redis for a short TTL so the list
// page doesn't hammer Postgres. A nil cache is a no-op.
type StatsCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewStatsCache wraps a Redis client. Returns nil when the client is nil so
// callers can wire it unconditionally.
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &StatsCache{redis: client, ttl: ttl}
}

func (c *StatsCache) key(ownerID string) string {
	return "leadhub:stats:" + ownerID
}

// Get returns the cached stats for the owner, or (nil, false) on a miss.
func (c *StatsCache) Get(ctx context.Context, ownerID string) (*Stats, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, c.key(ownerID)).Bytes()
	if err != nil {
		return nil, false
	}
	var s Stats
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, false
	}
	return &s, true
}

// Set stores the stats under the owner's key.
func (c *StatsCache) Set(ctx context.Context, s *Stats) error {
	if c == nil || s == nil {
		return nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("buyers: marshal stats: %w", err)
	}
	if err := c.redis.Set(ctx, c.key(s.OwnerID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("buyers: cache stats: %w", err)
	}
	return nil
}

// Invalidate drops the owner's cached stats after a write.
func (c *StatsCache) Invalidate(ctx context.Context, ownerID string) {
	if c == nil {
		return
	}
	c.redis.Del(ctx, c.key(ownerID))
}
