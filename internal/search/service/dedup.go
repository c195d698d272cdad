package service

import (
	"strings"
	"unicode"

	"github.com/Laisky/ai-search/internal/search/model"
	"github.com/Laisky/ai-search/library/urlnorm"
)

// titleSimilarityThreshold marks two hits as near-duplicates.
const titleSimilarityThreshold = 0.85

// Deduplicate canonicalizes URLs and removes exact and near-duplicate
// hits. Exact duplicates keep the earliest occurrence and merge the later
// hit's engine for the engine-trust upgrade during scoring; near
// duplicates by title are dropped outright. Order of survivors follows
// first occurrence.
func Deduplicate(hits []model.RawHit) []model.CanonicalHit {
	kept := make([]model.CanonicalHit, 0, len(hits))
	keptTokens := make([][]string, 0, len(hits))
	byURL := make(map[string]int, len(hits))

	for _, hit := range hits {
		canonical, err := urlnorm.Canonicalize(hit.URL)
		if err != nil {
			continue
		}

		if idx, ok := byURL[canonical]; ok {
			mergeEngine(&kept[idx], hit.Engine)
			continue
		}

		tokens := titleTokens(hit.Title)
		if duplicateOfKept(tokens, keptTokens) {
			continue
		}

		byURL[canonical] = len(kept)
		kept = append(kept, model.CanonicalHit{
			RawHit:       hit,
			Domain:       urlnorm.Domain(canonical),
			CanonicalURL: canonical,
		})
		keptTokens = append(keptTokens, tokens)
	}

	return kept
}

func mergeEngine(hit *model.CanonicalHit, engine string) {
	if engine == "" || engine == hit.Engine {
		return
	}
	for _, merged := range hit.MergedEngines {
		if merged == engine {
			return
		}
	}

	hit.MergedEngines = append(hit.MergedEngines, engine)
}

func duplicateOfKept(tokens []string, keptTokens [][]string) bool {
	for _, kept := range keptTokens {
		if titleSimilarity(tokens, kept) >= titleSimilarityThreshold {
			return true
		}
	}

	return false
}

// titleTokens lowercases the title, strips punctuation, and splits on
// whitespace.
func titleTokens(title string) []string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	return strings.Fields(b.String())
}

// titleSimilarity is the ratio of the token-level longest common
// subsequence to the longer token sequence.
func titleSimilarity(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	longer := len(a)
	if len(b) > longer {
		longer = len(b)
	}

	return float64(lcsLen(a, b)) / float64(longer)
}

func lcsLen(a, b []string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
