package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Laisky/ai-search/internal/search/model"
)

func TestRouteCoversEveryIntent(t *testing.T) {
	for _, intent := range model.Intents {
		plan := Route(intent)
		require.NotEmpty(t, plan.Engines, "intent %s", intent)
		require.NotEmpty(t, plan.Categories, "intent %s", intent)
	}
}

func TestRouteTable(t *testing.T) {
	plan := Route(model.IntentResearch)
	require.Equal(t, []string{"arxiv", "semantic_scholar", "duckduckgo"}, plan.Engines)
	require.Equal(t, []string{"science"}, plan.Categories)

	plan = Route(model.IntentBiomedical)
	require.Equal(t, []string{"pubmed", "arxiv", "duckduckgo"}, plan.Engines)

	plan = Route(model.IntentCode)
	require.Equal(t, []string{"github", "stackoverflow", "duckduckgo"}, plan.Engines)
	require.Equal(t, []string{"it"}, plan.Categories)

	plan = Route(model.IntentNews)
	require.Equal(t, []string{"bing_news", "duckduckgo_news", "duckduckgo"}, plan.Engines)

	plan = Route(model.IntentGeneral)
	require.Equal(t, []string{"duckduckgo", "bing", "brave"}, plan.Engines)
	require.Equal(t, []string{"general"}, plan.Categories)
}

func TestRouteUnknownIntentFallsBack(t *testing.T) {
	plan := Route(model.Intent("xyz"))
	require.Equal(t, Route(model.IntentGeneral), plan)

	// ParseIntent guards the same boundary upstream of the router.
	require.Equal(t, model.IntentGeneral, model.ParseIntent("xyz"))
	require.Equal(t, model.IntentResearch, model.ParseIntent("  Research "))
}

func TestRouteReturnsCopies(t *testing.T) {
	plan := Route(model.IntentGeneral)
	plan.Engines[0] = "mutated"
	require.Equal(t, "duckduckgo", Route(model.IntentGeneral).Engines[0])
}
