package service

import (
	"github.com/Laisky/ai-search/internal/search/model"
)

// enginePlans is the closed intent→engines registry. Adding an engine is
// a recompilation-time change, not runtime config.
var enginePlans = map[model.Intent]model.EnginePlan{
	model.IntentResearch: {
		Engines:    []string{"arxiv", "semantic_scholar", "duckduckgo"},
		Categories: []string{"science"},
	},
	model.IntentBiomedical: {
		Engines:    []string{"pubmed", "arxiv", "duckduckgo"},
		Categories: []string{"science"},
	},
	model.IntentCode: {
		Engines:    []string{"github", "stackoverflow", "duckduckgo"},
		Categories: []string{"it"},
	},
	model.IntentNews: {
		Engines:    []string{"bing_news", "duckduckgo_news", "duckduckgo"},
		Categories: []string{"news"},
	},
	model.IntentGeneral: {
		Engines:    []string{"duckduckgo", "bing", "brave"},
		Categories: []string{"general"},
	},
}

// Route maps intent to its engine plan. The function is total: any value
// outside the registry gets the general plan. Returned slices are copies
// so callers cannot mutate the registry.
func Route(intent model.Intent) model.EnginePlan {
	plan, ok := enginePlans[intent]
	if !ok {
		plan = enginePlans[model.IntentGeneral]
	}

	return model.EnginePlan{
		Engines:    append([]string(nil), plan.Engines...),
		Categories: append([]string(nil), plan.Categories...),
	}
}
