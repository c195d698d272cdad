package service

import (
	"context"
	"sort"
	"strings"

	"github.com/Laisky/zap"

	"github.com/Laisky/ai-search/internal/search/model"
)

// Final blend weights. The non-semantic weights sum to 0.55; the degraded
// path renormalizes by that sum so final scores stay in [0,1].
const (
	finalWeightSemantic    = 0.45
	finalWeightAuthority   = 0.20
	finalWeightRecency     = 0.15
	finalWeightEngineTrust = 0.10
	finalWeightPosition    = 0.10

	metadataWeightSum = finalWeightAuthority + finalWeightRecency +
		finalWeightEngineTrust + finalWeightPosition
)

// rerank applies the cross-encoder to (query, title+snippet) pairs and
// computes the final blended score for the coarse survivors. On any
// scorer failure the stage degrades: semantic is zero everywhere and the
// metadata weights are renormalized. Returns the hits sorted by final
// score, trimmed to limit.
func (s *Service) rerank(ctx context.Context, query string, hits []model.ScoredHit, limit int) ([]model.ScoredHit, bool) {
	if len(hits) == 0 {
		return hits, false
	}

	semantic, degraded := s.semanticScores(ctx, query, hits)
	for i := range hits {
		hits[i].Breakdown.Semantic = semantic[i]
		hits[i].Final = blendScore(hits[i].Breakdown, degraded)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Final != hits[j].Final {
			return hits[i].Final > hits[j].Final
		}
		if hits[i].Breakdown.Semantic != hits[j].Breakdown.Semantic {
			return hits[i].Breakdown.Semantic > hits[j].Breakdown.Semantic
		}
		return hits[i].Position < hits[j].Position
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}

	return hits, degraded
}

// blendScore combines the breakdown into the final score. In degraded
// mode the semantic component is absent and the metadata weights are
// renormalized to sum to one.
func blendScore(b model.ScoreBreakdown, degraded bool) float64 {
	metadata := finalWeightAuthority*b.Authority +
		finalWeightRecency*b.Recency +
		finalWeightEngineTrust*b.EngineTrust +
		finalWeightPosition*b.Position
	if degraded {
		return metadata / metadataWeightSum
	}

	return finalWeightSemantic*b.Semantic + metadata
}

// semanticScores runs the cross-encoder within its stage deadline.
// The pair document is the title joined with the snippet; empty snippets
// fall back to the title alone.
func (s *Service) semanticScores(ctx context.Context, query string, hits []model.ScoredHit) ([]float64, bool) {
	zeros := make([]float64, len(hits))
	if s.scorer == nil {
		return zeros, true
	}

	docs := make([]string, len(hits))
	for i, hit := range hits {
		docs[i] = strings.TrimSpace(hit.Title + " " + hit.Snippet)
	}

	ctx, cancel := context.WithTimeout(ctx, rerankDeadline)
	defer cancel()

	scores, err := s.scorer.Score(ctx, query, docs)
	if err != nil || len(scores) != len(hits) {
		s.logger.Warn("reranker_degraded",
			zap.Error(err),
			zap.Int("hits", len(hits)))
		return zeros, true
	}

	for i := range scores {
		scores[i] = clamp01(scores[i])
	}

	return scores, false
}
