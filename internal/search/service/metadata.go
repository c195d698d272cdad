package service

import (
	"math"
	"sort"
	"time"

	"github.com/Laisky/ai-search/internal/search/model"
)

// Coarse-filter parameters.
const (
	coarseTopK = 12

	coarseWeightAuthority   = 0.35
	coarseWeightRecency     = 0.20
	coarseWeightEngineTrust = 0.25
	coarseWeightPosition    = 0.20

	recencyUnknown      = 0.30
	recencyHalfLifeDays = 365.0
)

// CoarseFilter computes the metadata sub-scores for every hit and keeps
// the top coarseTopK by the coarse blend. The coarse score selects only;
// it is never reported.
func CoarseFilter(hits []model.CanonicalHit, now time.Time) []model.ScoredHit {
	scored := make([]model.ScoredHit, 0, len(hits))
	for _, hit := range hits {
		breakdown := model.ScoreBreakdown{
			Authority:   authorityScore(hit.Domain),
			Recency:     recencyScore(hit.PublishedAt, now),
			EngineTrust: mergedEngineTrust(hit),
			Position:    positionScore(hit.Position),
		}

		scored = append(scored, model.ScoredHit{
			CanonicalHit: hit,
			Breakdown:    breakdown,
			Coarse: coarseWeightAuthority*breakdown.Authority +
				coarseWeightRecency*breakdown.Recency +
				coarseWeightEngineTrust*breakdown.EngineTrust +
				coarseWeightPosition*breakdown.Position,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Coarse != scored[j].Coarse {
			return scored[i].Coarse > scored[j].Coarse
		}
		if scored[i].Position != scored[j].Position {
			return scored[i].Position < scored[j].Position
		}
		return scored[i].CanonicalURL < scored[j].CanonicalURL
	})

	if len(scored) > coarseTopK {
		scored = scored[:coarseTopK]
	}

	return scored
}

// recencyScore decays with a one-year half-life. Missing dates score a
// flat 0.30; future dates clamp to age zero.
func recencyScore(publishedAt *time.Time, now time.Time) float64 {
	if publishedAt == nil {
		return recencyUnknown
	}

	ageDays := now.Sub(*publishedAt).Hours() / 24.0
	if ageDays < 0 {
		ageDays = 0
	}

	return clamp01(math.Pow(0.5, ageDays/recencyHalfLifeDays))
}

// positionScore dampens logarithmically: position 1 scores 1.0.
func positionScore(position int) float64 {
	if position < 1 {
		position = 1
	}

	return clamp01(1.0 / (1.0 + math.Log(float64(position))))
}

// mergedEngineTrust takes the best trust across the hit's engine and any
// engines merged into it during exact dedup.
func mergedEngineTrust(hit model.CanonicalHit) float64 {
	trust := engineTrustScore(hit.Engine)
	for _, engine := range hit.MergedEngines {
		if t := engineTrustScore(engine); t > trust {
			trust = t
		}
	}

	return trust
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}

	return v
}
