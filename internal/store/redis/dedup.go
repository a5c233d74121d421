package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DedupCache is a best-effort register of provider event ids already
// delivered. It short-circuits obvious redeliveries before they hit the
// database; the payment store's status guards remain the authority, so a
// cache miss (or Redis outage) is always safe.
type DedupCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewDedupCache creates the cache, or returns nil when no Redis address is
// configured. A nil *DedupCache is usable; all methods degrade to "not seen".
func NewDedupCache(addr string, ttl time.Duration) *DedupCache {
	if addr == "" {
		return nil
	}
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &DedupCache{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
		ttl: ttl,
	}
}

// SeenOrMark returns true when eventID was delivered before, and otherwise
// records it. Fails open on any Redis error.
func (c *DedupCache) SeenOrMark(ctx context.Context, eventID string) bool {
	if c == nil || eventID == "" {
		return false
	}

	set, err := c.rdb.SetNX(ctx, "hook:seen:"+eventID, 1, c.ttl).Result()
	if err != nil {
		log.Warn().Err(err).Str("event_id", eventID).Msg("dedup cache unavailable")
		return false
	}
	return !set
}

// Forget drops an event id from the register, used by replay so a requeued
// event is not swallowed by its own dedup entry.
func (c *DedupCache) Forget(ctx context.Context, eventID string) {
	if c == nil || eventID == "" {
		return
	}
	if err := c.rdb.Del(ctx, "hook:seen:"+eventID).Err(); err != nil {
		log.Warn().Err(err).Str("event_id", eventID).Msg("dedup cache delete failed")
	}
}

// Close releases the underlying Redis connection.
func (c *DedupCache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
