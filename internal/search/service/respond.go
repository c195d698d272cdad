package service

import (
	"math"
	"time"

	"github.com/Laisky/ai-search/internal/search/dto"
	"github.com/Laisky/ai-search/internal/search/model"
)

// maxSnippetRunes bounds the snippet size in the response; the pipeline
// never stores full document content.
const maxSnippetRunes = 500

// BuildResponse assembles the wire response from the ranked hits. The
// reported final score is recomputed from the rounded breakdown so the
// two always agree exactly; ordering was already fixed by the re-ranker.
func BuildResponse(req *model.Request, expanded model.ExpandedQuery,
	hits []model.ScoredHit, queryTimeMS float64, degraded bool,
) *dto.SearchResponse {
	results := make([]dto.SearchResult, 0, len(hits))
	for _, hit := range hits {
		breakdown := model.ScoreBreakdown{
			Semantic:    round4(clamp01(hit.Breakdown.Semantic)),
			Authority:   round4(clamp01(hit.Breakdown.Authority)),
			Recency:     round4(clamp01(hit.Breakdown.Recency)),
			EngineTrust: round4(clamp01(hit.Breakdown.EngineTrust)),
			Position:    round4(clamp01(hit.Breakdown.Position)),
		}

		results = append(results, dto.SearchResult{
			Title:         hit.Title,
			URL:           hit.URL,
			Snippet:       truncateRunes(hit.Snippet, maxSnippetRunes),
			Domain:        hit.Domain,
			SourceEngine:  hit.Engine,
			PublishedDate: formatPublishedDate(hit.PublishedAt),
			FinalScore:    blendScore(breakdown, degraded),
			Breakdown:     breakdown,
		})
	}

	return &dto.SearchResponse{
		Query:         req.Query,
		ExpandedQuery: expanded.Text,
		Intent:        string(expanded.Intent),
		CacheHit:      false,
		QueryTimeMS:   round1(queryTimeMS),
		Results:       results,
	}
}

func formatPublishedDate(t *time.Time) *string {
	if t == nil {
		return nil
	}

	formatted := t.Format("2006-01")
	return &formatted
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}

	return string(runes[:n])
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
