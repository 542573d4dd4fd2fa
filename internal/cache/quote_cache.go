package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"rentiva/internal/entities"
	"rentiva/internal/logger"
)

// QuoteCache keeps recent search responses in Redis. Quotes are ephemeral, so
// a short TTL is enough; a nil cache (or nil client) disables caching.
type QuoteCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewQuoteCache(rdb *redis.Client, ttl time.Duration) *QuoteCache {
	return &QuoteCache{rdb: rdb, ttl: ttl}
}

// Key builds a deterministic cache key from the org and the search parameters.
func (c *QuoteCache) Key(orgSlug string, p entities.SearchParams) string {
	return fmt.Sprintf("search:%s:%s:%s:%d:%d:%s",
		orgSlug,
		p.PickupDate.Format(time.RFC3339),
		p.DropoffDate.Format(time.RFC3339),
		p.PickupLocationID,
		p.DropoffLocationID,
		p.VehicleType,
	)
}

func (c *QuoteCache) Get(ctx context.Context, key string) (*entities.SearchResponse, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("quote cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	var resp entities.SearchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		logger.Warn("quote cache entry corrupt, dropping", "key", key, "error", err)
		c.rdb.Del(ctx, key)
		return nil, false
	}
	return &resp, true
}

func (c *QuoteCache) Set(ctx context.Context, key string, resp *entities.SearchResponse) {
	if c == nil || c.rdb == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Warn("quote cache write failed", "key", key, "error", err)
	}
}
