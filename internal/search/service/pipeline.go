package service

import (
	"context"
	"math"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"

	"github.com/Laisky/ai-search/internal/search/dto"
	"github.com/Laisky/ai-search/internal/search/model"
)

// Search runs the full pipeline for req: cache lookup, then on miss the
// classify → route → fetch → dedup → score → rerank chain. Concurrent
// requests with the same fingerprint are coalesced into one in-flight
// execution.
func (s *Service) Search(ctx context.Context, req *model.Request) (*dto.SearchResponse, error) {
	if err := req.Validate(s.defaultLimit); err != nil {
		return nil, err
	}

	start := time.Now()
	fingerprint := Fingerprint(req)

	if cached, ok := s.cache.Get(ctx, fingerprint); ok {
		elapsed := msSince(start)
		cached.CacheHit = true
		cached.QueryTimeMS = round1(elapsed)
		s.stats.RecordQuery(ctx, cached.Intent, elapsed, true)
		s.logger.Info("cache hit",
			zap.String("fingerprint", fingerprint[:8]),
			zap.Float64("latency_ms", cached.QueryTimeMS))
		return cached, nil
	}

	result, err, _ := s.flight.Do(fingerprint, func() (any, error) {
		// Detached from the caller so one disconnecting client cannot
		// kill coalesced followers; the overall budget still applies.
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pipelineDeadline)
		defer cancel()

		return s.runPipeline(pctx, req, fingerprint)
	})
	if err != nil {
		return nil, err
	}

	resp, ok := result.(*dto.SearchResponse)
	if !ok {
		return nil, errors.Wrap(model.ErrInternal, "unexpected pipeline result type")
	}

	// Each coalesced caller gets its own copy with its own latency.
	elapsed := msSince(start)
	out := resp.Clone()
	out.CacheHit = false
	out.QueryTimeMS = round1(elapsed)
	s.stats.RecordQuery(ctx, out.Intent, elapsed, false)
	return out, nil
}

func (s *Service) runPipeline(ctx context.Context, req *model.Request, fingerprint string) (*dto.SearchResponse, error) {
	start := time.Now()

	expanded := s.analyzeQuery(ctx, req.Query)

	plan := Route(expanded.Intent)

	hits, err := s.fetch(ctx, expanded.Text, plan)
	if err != nil {
		s.logger.Error("backend fetch failed", zap.Error(err))
		return nil, err
	}

	canonical := Deduplicate(hits)

	coarse := CoarseFilter(canonical, time.Now())

	// The cross-encoder judges against the query the user actually typed.
	ranked, degraded := s.rerank(ctx, req.Query, coarse, req.Limit)

	resp := BuildResponse(req, expanded, ranked, msSince(start), degraded)

	s.cache.Set(ctx, fingerprint, resp, s.cacheTTL)

	s.logger.Info("pipeline complete",
		zap.String("intent", string(expanded.Intent)),
		zap.Int("raw", len(hits)),
		zap.Int("unique", len(canonical)),
		zap.Int("results", len(resp.Results)),
		zap.Bool("reranker_degraded", degraded),
		zap.Float64("latency_ms", resp.QueryTimeMS))
	return resp, nil
}

// Health probes the cache store, the backend, and the cross-encoder.
// Status is "ok" iff the store and the backend are both reachable.
func (s *Service) Health(ctx context.Context) *dto.HealthResponse {
	health := &dto.HealthResponse{
		Status:        "ok",
		Redis:         "connected",
		Searxng:       "reachable",
		CrossEncoder:  "unavailable",
		UptimeSeconds: math.Round(time.Since(s.startedAt).Seconds()*10) / 10,
	}

	if s.store == nil || s.store.Ping(ctx) != nil {
		health.Redis = "unavailable"
		health.Status = "degraded"
	}

	if err := s.backend.Ping(ctx); err != nil {
		health.Searxng = "unreachable"
		health.Status = "degraded"
	}

	if s.scorer != nil {
		if s.scorer.Ready() {
			health.CrossEncoder = "loaded"
		} else if s.scorer.Probe(ctx) == nil {
			health.CrossEncoder = "loaded"
		}
	}

	return health
}

// Stats derives the aggregate view from the raw counters.
func (s *Service) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	counters, err := s.stats.Snapshot(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "snapshot stats")
	}

	resp := &dto.StatsResponse{
		QueriesTotal:    counters.QueriesTotal,
		QueriesByIntent: counters.ByIntent,
	}
	if counters.QueriesTotal > 0 {
		resp.CacheHitRate = round4(float64(counters.CacheHits) / float64(counters.QueriesTotal))
	}
	if counters.LatencyCount > 0 {
		resp.AvgLatencyMS = round1(counters.LatencySumMS / float64(counters.LatencyCount))
	}

	return resp, nil
}
