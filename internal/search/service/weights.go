package service

import "strings"

// Authority tiers. The tables are the single source of truth for domain
// and engine weighting; keep additions here rather than scattering
// literals through the scorer.
const (
	authorityTierA   = 1.00
	authorityTierB   = 0.85
	authorityTierC   = 0.70
	authorityDefault = 0.50
)

var tierADomains = map[string]struct{}{
	"arxiv.org":   {},
	"nature.com":  {},
	"science.org": {},
	"nejm.org":    {},
	"nih.gov":     {},
	"ieee.org":    {},
	"acm.org":     {},
}

var tierBDomains = map[string]struct{}{
	"github.com":          {},
	"stackoverflow.com":   {},
	"semanticscholar.org": {},
	"wikipedia.org":       {},
	"nytimes.com":         {},
	"bbc.co.uk":           {},
	"reuters.com":         {},
}

// tierCDomains is the curated allowlist of reasonable-but-unranked
// sources.
var tierCDomains = map[string]struct{}{
	"huggingface.co":         {},
	"paperswithcode.com":     {},
	"springer.com":           {},
	"sciencedirect.com":      {},
	"thelancet.com":          {},
	"jamanetwork.com":        {},
	"bmj.com":                {},
	"cell.com":               {},
	"openai.com":             {},
	"anthropic.com":          {},
	"deepmind.google":        {},
	"towardsdatascience.com": {},
	"kdnuggets.com":          {},
	"medium.com":             {},
	"reddit.com":             {},
	"theguardian.com":        {},
	"apnews.com":             {},
}

var engineTrust = map[string]float64{
	"arxiv":            1.00,
	"pubmed":           1.00,
	"semantic_scholar": 1.00,
	"github":           0.90,
	"stackoverflow":    0.90,
	"duckduckgo":       0.75,
	"bing":             0.75,
	"brave":            0.75,
	"bing_news":        0.80,
	"duckduckgo_news":  0.80,
}

const engineTrustDefault = 0.60

// authorityScore looks up domain in the tier tables, walking up the label
// chain so subdomains inherit their registrable parent's tier
// (pubmed.ncbi.nlm.nih.gov matches nih.gov).
func authorityScore(domain string) float64 {
	for candidate := domain; candidate != ""; {
		if _, ok := tierADomains[candidate]; ok {
			return authorityTierA
		}
		if _, ok := tierBDomains[candidate]; ok {
			return authorityTierB
		}
		if _, ok := tierCDomains[candidate]; ok {
			return authorityTierC
		}

		idx := strings.IndexByte(candidate, '.')
		if idx < 0 {
			break
		}
		candidate = candidate[idx+1:]
	}

	return authorityDefault
}

// engineTrustScore returns the fixed trust weight for engine.
func engineTrustScore(engine string) float64 {
	if trust, ok := engineTrust[engine]; ok {
		return trust
	}

	return engineTrustDefault
}
