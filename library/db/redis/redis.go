// Package redis wraps go-redis for the cache and stats key-value store.
package redis

import (
	"context"
	"time"

	"github.com/Laisky/errors/v2"
	gredis "github.com/Laisky/go-redis/v2"
	"github.com/redis/go-redis/v9"
)

// DB is a wrapper for go-redis
type DB struct {
	db *gredis.Utils
}

// NewDB creates a new DB instance
func NewDB(opt *redis.Options) *DB {
	rdb := redis.NewClient(opt)
	rutils := gredis.NewRedisUtils(rdb)

	return &DB{
		db: rutils,
	}
}

// NewDBFromURL creates a new DB instance from a redis:// URL.
func NewDBFromURL(url string) (*DB, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrapf(err, "parse redis url %q", url)
	}

	return NewDB(opt), nil
}

// Ping verifies the server is reachable.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.db.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, "ping redis")
	}

	return nil
}

// GetItem returns the string value stored at key. A missing key returns
// ("", nil) so callers can treat it as a plain miss.
func (db *DB) GetItem(ctx context.Context, key string) (string, error) {
	val, err := db.db.GetItem(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}

		return "", errors.Wrapf(err, "get %q", key)
	}

	return val, nil
}

// SetItem stores value at key with a TTL.
func (db *DB) SetItem(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := db.db.SetItem(ctx, key, value, ttl); err != nil {
		return errors.Wrapf(err, "set %q", key)
	}

	return nil
}

// IncrBy atomically increments an integer counter.
func (db *DB) IncrBy(ctx context.Context, key string, delta int64) error {
	if err := db.db.IncrBy(ctx, key, delta).Err(); err != nil {
		return errors.Wrapf(err, "incr %q", key)
	}

	return nil
}

// IncrByFloat atomically increments a float counter.
func (db *DB) IncrByFloat(ctx context.Context, key string, delta float64) error {
	if err := db.db.IncrByFloat(ctx, key, delta).Err(); err != nil {
		return errors.Wrapf(err, "incrbyfloat %q", key)
	}

	return nil
}

// ScanKeys returns all keys matching pattern.
func (db *DB) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)
	for {
		batch, next, err := db.db.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, errors.Wrapf(err, "scan %q", pattern)
		}

		keys = append(keys, batch...)
		if next == 0 {
			return keys, nil
		}

		cursor = next
	}
}
