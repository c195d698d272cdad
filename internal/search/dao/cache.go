// Package dao persists cached responses and stats counters in Redis.
package dao

import (
	"context"
	"encoding/json"
	"time"

	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"

	"github.com/Laisky/ai-search/internal/search/dto"
	"github.com/Laisky/ai-search/library/db/redis"
	appLog "github.com/Laisky/ai-search/library/log"
)

const (
	keyPrefixCache = "cache:"

	// cacheDeadline bounds every cache round-trip; the cache is an
	// optimization, never a source of correctness.
	cacheDeadline = 250 * time.Millisecond
)

// Cache maps request fingerprints to serialized responses.
type Cache struct {
	db     *redis.DB
	logger logSDK.Logger
}

// NewCache creates a Cache over db.
func NewCache(db *redis.DB) *Cache {
	return &Cache{
		db:     db,
		logger: appLog.Logger.Named("cache"),
	}
}

// Get returns the cached response for fingerprint. Any I/O or
// deserialization error is swallowed and reported as a miss.
func (c *Cache) Get(ctx context.Context, fingerprint string) (*dto.SearchResponse, bool) {
	ctx, cancel := context.WithTimeout(ctx, cacheDeadline)
	defer cancel()

	raw, err := c.db.GetItem(ctx, keyPrefixCache+fingerprint)
	if err != nil {
		c.logger.Warn("cache lookup failed", zap.Error(err),
			zap.String("fingerprint", fingerprint[:8]))
		return nil, false
	}
	if raw == "" {
		return nil, false
	}

	var resp dto.SearchResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		// Stale or corrupt entry; it will be overwritten on the next store.
		c.logger.Warn("cache entry undecodable", zap.Error(err),
			zap.String("fingerprint", fingerprint[:8]))
		return nil, false
	}

	return &resp, true
}

// Set stores resp under fingerprint with ttl. The stored copy always has
// cache_hit=false; read paths flip it. Write errors are swallowed.
func (c *Cache) Set(ctx context.Context, fingerprint string, resp *dto.SearchResponse, ttl time.Duration) {
	stored := resp.Clone()
	stored.CacheHit = false

	raw, err := json.Marshal(stored)
	if err != nil {
		c.logger.Warn("cache entry unencodable", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, cacheDeadline)
	defer cancel()

	if err := c.db.SetItem(ctx, keyPrefixCache+fingerprint, string(raw), ttl); err != nil {
		c.logger.Warn("cache store failed", zap.Error(err),
			zap.String("fingerprint", fingerprint[:8]))
	}
}
