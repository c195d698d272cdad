package service

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Laisky/ai-search/internal/search/model"
)

func TestRecencyScore(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	require.InDelta(t, 0.30, recencyScore(nil, now), 1e-9)

	today := now
	require.InDelta(t, 1.0, recencyScore(&today, now), 1e-9)

	// One half-life.
	yearAgo := now.AddDate(-1, 0, 0)
	require.InDelta(t, 0.5, recencyScore(&yearAgo, now), 0.01)

	twoYearsAgo := now.AddDate(-2, 0, 0)
	require.InDelta(t, 0.25, recencyScore(&twoYearsAgo, now), 0.01)

	// Future dates clamp to age zero.
	future := now.AddDate(1, 0, 0)
	require.InDelta(t, 1.0, recencyScore(&future, now), 1e-9)
}

func TestPositionScore(t *testing.T) {
	require.InDelta(t, 1.0, positionScore(1), 1e-9)
	require.InDelta(t, 1.0/(1.0+math.Log(3)), positionScore(3), 1e-9)
	require.InDelta(t, 0.477, positionScore(3), 0.001)
	require.InDelta(t, 1.0, positionScore(0), 1e-9) // clamped to 1
	for pos := 1; pos < 100; pos *= 2 {
		score := positionScore(pos)
		require.GreaterOrEqual(t, score, 0.0)
		require.LessOrEqual(t, score, 1.0)
	}
}

func TestAuthorityScoreTiers(t *testing.T) {
	require.Equal(t, 1.00, authorityScore("arxiv.org"))
	require.Equal(t, 1.00, authorityScore("nih.gov"))
	require.Equal(t, 0.85, authorityScore("github.com"))
	require.Equal(t, 0.85, authorityScore("en.wikipedia.org")) // subdomain inherits
	require.Equal(t, 1.00, authorityScore("pubmed.ncbi.nlm.nih.gov"))
	require.Equal(t, 0.70, authorityScore("medium.com"))
	require.Equal(t, 0.50, authorityScore("random-blog.example"))
}

func TestEngineTrustScore(t *testing.T) {
	require.Equal(t, 1.00, engineTrustScore("arxiv"))
	require.Equal(t, 0.90, engineTrustScore("github"))
	require.Equal(t, 0.75, engineTrustScore("duckduckgo"))
	require.Equal(t, 0.80, engineTrustScore("bing_news"))
	require.Equal(t, 0.60, engineTrustScore("mystery_engine"))
}

func TestCoarseFilterBlendAndOrder(t *testing.T) {
	now := time.Now()
	hits := []model.CanonicalHit{
		{
			RawHit: model.RawHit{Title: "ddg hit", Engine: "duckduckgo", Position: 3},
			Domain: "random-blog.example", CanonicalURL: "https://random-blog.example/a",
		},
		{
			RawHit: model.RawHit{Title: "arxiv hit", Engine: "arxiv", Position: 1},
			Domain: "arxiv.org", CanonicalURL: "https://arxiv.org/abs/1",
		},
	}

	scored := CoarseFilter(hits, now)
	require.Len(t, scored, 2)
	require.Equal(t, "arxiv.org", scored[0].Domain)

	breakdown := scored[0].Breakdown
	wantCoarse := 0.35*breakdown.Authority + 0.20*breakdown.Recency +
		0.25*breakdown.EngineTrust + 0.20*breakdown.Position
	require.InDelta(t, wantCoarse, scored[0].Coarse, 1e-9)
	require.Zero(t, breakdown.Semantic)
}

func TestCoarseFilterKeepsTopTwelve(t *testing.T) {
	now := time.Now()
	var hits []model.CanonicalHit
	for i := 1; i <= 20; i++ {
		hits = append(hits, model.CanonicalHit{
			RawHit: model.RawHit{
				Title:    fmt.Sprintf("hit %d", i),
				Engine:   "duckduckgo",
				Position: i,
			},
			Domain:       "example.com",
			CanonicalURL: fmt.Sprintf("https://example.com/%02d", i),
		})
	}

	scored := CoarseFilter(hits, now)
	require.Len(t, scored, coarseTopK)
	// Identical metadata except position: earlier positions win.
	for i, hit := range scored {
		require.Equal(t, i+1, hit.Position)
	}
}

func TestCoarseFilterTieBreakByURL(t *testing.T) {
	now := time.Now()
	hits := []model.CanonicalHit{
		{
			RawHit: model.RawHit{Title: "b", Engine: "duckduckgo", Position: 1},
			Domain: "example.com", CanonicalURL: "https://example.com/b",
		},
		{
			RawHit: model.RawHit{Title: "a", Engine: "duckduckgo", Position: 1},
			Domain: "example.com", CanonicalURL: "https://example.com/a",
		},
	}

	scored := CoarseFilter(hits, now)
	require.Equal(t, "https://example.com/a", scored[0].CanonicalURL)
}

func TestMergedEngineTrustUpgrade(t *testing.T) {
	hit := model.CanonicalHit{
		RawHit:        model.RawHit{Engine: "duckduckgo"},
		MergedEngines: []string{"arxiv"},
	}
	require.Equal(t, 1.00, mergedEngineTrust(hit))

	hit.MergedEngines = nil
	require.Equal(t, 0.75, mergedEngineTrust(hit))
}
