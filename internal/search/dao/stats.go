package dao

import (
	"context"
	"strconv"
	"strings"

	"github.com/Laisky/errors/v2"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"

	"github.com/Laisky/ai-search/internal/search/model"
	"github.com/Laisky/ai-search/library/db/redis"
	appLog "github.com/Laisky/ai-search/library/log"
)

const (
	keyQueriesTotal    = "stats:queries_total"
	keyCacheHits       = "stats:cache_hits"
	keyLatencySumMS    = "stats:latency_sum_ms"
	keyLatencyCount    = "stats:latency_count"
	keyByIntentPrefix  = "stats:by_intent:"
	keyByIntentPattern = keyByIntentPrefix + "*"
)

// Stats tracks process-wide query counters. Counters persist across
// requests and are never decremented.
type Stats struct {
	db     *redis.DB
	logger logSDK.Logger
}

// NewStats creates a Stats over db.
func NewStats(db *redis.DB) *Stats {
	return &Stats{
		db:     db,
		logger: appLog.Logger.Named("stats"),
	}
}

// RecordQuery increments the per-request counters. Increments are
// best-effort and must never fail the request.
func (s *Stats) RecordQuery(ctx context.Context, intent string, latencyMS float64, cacheHit bool) {
	for _, err := range []error{
		s.db.IncrBy(ctx, keyQueriesTotal, 1),
		s.db.IncrBy(ctx, keyByIntentPrefix+intent, 1),
		s.db.IncrByFloat(ctx, keyLatencySumMS, latencyMS),
		s.db.IncrBy(ctx, keyLatencyCount, 1),
	} {
		if err != nil {
			s.logger.Warn("stats increment failed", zap.Error(err))
		}
	}

	if cacheHit {
		if err := s.db.IncrBy(ctx, keyCacheHits, 1); err != nil {
			s.logger.Warn("stats increment failed", zap.Error(err))
		}
	}
}

// Snapshot reads all counters.
func (s *Stats) Snapshot(ctx context.Context) (*model.StatsCounters, error) {
	counters := &model.StatsCounters{ByIntent: map[string]int64{}}

	var err error
	if counters.QueriesTotal, err = s.readInt(ctx, keyQueriesTotal); err != nil {
		return nil, err
	}
	if counters.CacheHits, err = s.readInt(ctx, keyCacheHits); err != nil {
		return nil, err
	}
	if counters.LatencyCount, err = s.readInt(ctx, keyLatencyCount); err != nil {
		return nil, err
	}
	if counters.LatencySumMS, err = s.readFloat(ctx, keyLatencySumMS); err != nil {
		return nil, err
	}

	keys, err := s.db.ScanKeys(ctx, keyByIntentPattern)
	if err != nil {
		return nil, errors.Wrap(err, "scan intent counters")
	}
	for _, key := range keys {
		count, err := s.readInt(ctx, key)
		if err != nil {
			return nil, err
		}

		counters.ByIntent[strings.TrimPrefix(key, keyByIntentPrefix)] = count
	}

	return counters, nil
}

func (s *Stats) readInt(ctx context.Context, key string) (int64, error) {
	raw, err := s.db.GetItem(ctx, key)
	if err != nil {
		return 0, errors.Wrapf(err, "read counter %q", key)
	}
	if raw == "" {
		return 0, nil
	}

	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parse counter %q", key)
	}

	return val, nil
}

func (s *Stats) readFloat(ctx context.Context, key string) (float64, error) {
	raw, err := s.db.GetItem(ctx, key)
	if err != nil {
		return 0, errors.Wrapf(err, "read counter %q", key)
	}
	if raw == "" {
		return 0, nil
	}

	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parse counter %q", key)
	}

	return val, nil
}
