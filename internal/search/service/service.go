// Package service implements the multi-stage search ranking pipeline.
package service

import (
	"context"
	"time"

	logSDK "github.com/Laisky/go-utils/v6/log"
	"golang.org/x/sync/singleflight"

	"github.com/Laisky/ai-search/internal/search/dto"
	"github.com/Laisky/ai-search/internal/search/model"
	"github.com/Laisky/ai-search/library/llm"
	appLog "github.com/Laisky/ai-search/library/log"
	"github.com/Laisky/ai-search/library/searxng"
)

// Per-stage deadlines. Each deadline triggers the stage's degradation
// path; only the backend fetch is fatal.
const (
	classifierDeadline = 3 * time.Second
	backendDeadline    = 8 * time.Second
	rerankDeadline     = 5 * time.Second
	pipelineDeadline   = 15 * time.Second
)

// Cache reads and writes serialized responses keyed by fingerprint.
// Failures are swallowed inside the implementation; the pipeline treats
// every error as a miss.
type Cache interface {
	Get(ctx context.Context, fingerprint string) (*dto.SearchResponse, bool)
	Set(ctx context.Context, fingerprint string, resp *dto.SearchResponse, ttl time.Duration)
}

// Stats records per-request counters, best-effort.
type Stats interface {
	RecordQuery(ctx context.Context, intent string, latencyMS float64, cacheHit bool)
	Snapshot(ctx context.Context) (*model.StatsCounters, error)
}

// Backend is the meta-search upstream performing the engine fan-out.
type Backend interface {
	Search(ctx context.Context, query string, engines, categories []string) ([]searxng.Result, error)
	Ping(ctx context.Context) error
}

// QueryAnalyzer classifies and expands the raw query.
type QueryAnalyzer interface {
	AnalyzeQuery(ctx context.Context, query string) (*llm.Classification, error)
}

// SemanticScorer scores (query, document) pairs with the cross-encoder.
type SemanticScorer interface {
	Score(ctx context.Context, query string, docs []string) ([]float64, error)
	Ready() bool
	Probe(ctx context.Context) error
}

// Pinger reports reachability of the cache/stats store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Option customises a Service during construction.
type Option func(*Service)

// WithSemanticScorer enables the cross-encoder re-ranking stage. Without
// it every request takes the degraded metadata-only scoring path.
func WithSemanticScorer(scorer SemanticScorer) Option {
	return func(s *Service) {
		s.scorer = scorer
	}
}

// WithStorePinger wires the store reachability probe used by Health.
func WithStorePinger(pinger Pinger) Option {
	return func(s *Service) {
		s.store = pinger
	}
}

// WithCacheTTL overrides the cached-response TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithDefaultLimit overrides the result limit applied when the caller
// omits one.
func WithDefaultLimit(limit int) Option {
	return func(s *Service) {
		if limit >= model.MinLimit && limit <= model.MaxLimit {
			s.defaultLimit = limit
		}
	}
}

// WithLogger overrides the fallback logger.
func WithLogger(logger logSDK.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Service runs the ranking pipeline. One instance serves all requests;
// the only mutable shared state is the single-flight group.
type Service struct {
	cache      Cache
	stats      Stats
	backend    Backend
	classifier QueryAnalyzer
	scorer     SemanticScorer
	store      Pinger

	cacheTTL     time.Duration
	defaultLimit int

	flight    singleflight.Group
	logger    logSDK.Logger
	startedAt time.Time
}

// New constructs a Service.
func New(cache Cache, stats Stats, backend Backend, classifier QueryAnalyzer, opts ...Option) *Service {
	svc := &Service{
		cache:        cache,
		stats:        stats,
		backend:      backend,
		classifier:   classifier,
		cacheTTL:     24 * time.Hour,
		defaultLimit: 8,
		logger:       appLog.Logger.Named("search_service"),
		startedAt:    time.Now(),
	}
	for _, opt := range opts {
		opt(svc)
	}

	return svc
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
