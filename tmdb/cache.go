package tmdb

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

const (
	searchCacheTTL = 12 * time.Hour
	searchCacheNil = "-" // cached "no result"
)

func searchCacheKey(title string) string {
	return "tmdb:search:" + strings.ToLower(strings.TrimSpace(title))
}

// cachedSearch returns (result, true) on a cache hit; the result itself may
// be nil when a miss was cached. Cache errors are treated as cache misses.
func (c *Client) cachedSearch(ctx context.Context, title string) (*SearchResult, bool) {
	if c.cache == nil {
		return nil, false
	}
	raw, err := c.cache.Get(ctx, searchCacheKey(title)).Result()
	if err != nil {
		return nil, false
	}
	if raw == searchCacheNil {
		return nil, true
	}
	var r SearchResult
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, false
	}
	return &r, true
}

func (c *Client) storeSearch(ctx context.Context, title string, r *SearchResult) {
	if c.cache == nil {
		return
	}
	val := searchCacheNil
	if r != nil {
		raw, err := json.Marshal(r)
		if err != nil {
			return
		}
		val = string(raw)
	}
	c.cache.Set(ctx, searchCacheKey(title), val, searchCacheTTL)
}
