// Package model holds the pipeline's internal data types.
package model

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Laisky/errors/v2"
)

// Intent is the coarse topical label driving engine selection.
type Intent string

const (
	IntentResearch   Intent = "research"
	IntentBiomedical Intent = "biomedical"
	IntentCode       Intent = "code"
	IntentNews       Intent = "news"
	IntentGeneral    Intent = "general"
)

// Intents enumerates the closed intent set.
var Intents = []Intent{
	IntentResearch,
	IntentBiomedical,
	IntentCode,
	IntentNews,
	IntentGeneral,
}

// ParseIntent normalizes raw to a known intent. Unknown values map to
// IntentGeneral; classifier output is never trusted in control flow.
func ParseIntent(raw string) Intent {
	switch Intent(strings.ToLower(strings.TrimSpace(raw))) {
	case IntentResearch:
		return IntentResearch
	case IntentBiomedical:
		return IntentBiomedical
	case IntentCode:
		return IntentCode
	case IntentNews:
		return IntentNews
	default:
		return IntentGeneral
	}
}

// Request validation bounds.
const (
	MaxQueryLen      = 512
	MinLimit         = 1
	MaxLimit         = 20
	MaxDomainHintLen = 128
)

// Request is a validated search request.
type Request struct {
	Query      string
	Limit      int
	DomainHint string
}

// Validate trims the query, checks bounds, and clamps Limit into
// [MinLimit, MaxLimit]. defaultLimit applies when Limit is unset.
func (r *Request) Validate(defaultLimit int) error {
	r.Query = strings.TrimSpace(r.Query)
	if r.Query == "" {
		return errors.Wrap(ErrInvalidRequest, "query cannot be empty")
	}
	if utf8.RuneCountInString(r.Query) > MaxQueryLen {
		return errors.Wrapf(ErrInvalidRequest, "query exceeds %d characters", MaxQueryLen)
	}

	r.DomainHint = strings.TrimSpace(r.DomainHint)
	if utf8.RuneCountInString(r.DomainHint) > MaxDomainHintLen {
		return errors.Wrapf(ErrInvalidRequest, "domain_hint exceeds %d characters", MaxDomainHintLen)
	}

	if r.Limit == 0 {
		r.Limit = defaultLimit
	}
	if r.Limit < MinLimit {
		r.Limit = MinLimit
	}
	if r.Limit > MaxLimit {
		r.Limit = MaxLimit
	}

	return nil
}

// ExpandedQuery is the classifier output after validation.
type ExpandedQuery struct {
	Intent Intent
	// Text is the expanded query used for fetching and semantic scoring.
	Text string
	// Rewritten is the clean display form of the query.
	Rewritten string
}

// EnginePlan names the backend engines and categories for one request.
type EnginePlan struct {
	Engines    []string
	Categories []string
}

// RawHit is a parsed backend hit before normalization.
type RawHit struct {
	Title   string
	URL     string
	Snippet string
	Engine  string
	// PublishedAt is nil when the backend reported no date.
	PublishedAt *time.Time
	// Position is the 1-based rank within the hit's engine subset.
	Position int
}

// CanonicalHit is a RawHit after URL canonicalization and dedup.
type CanonicalHit struct {
	RawHit
	Domain       string
	CanonicalURL string
	// MergedEngines lists engines of exact-duplicate hits folded into this
	// one, for the engine-trust upgrade during scoring.
	MergedEngines []string
}

// ScoreBreakdown carries the per-component scores, each in [0,1].
type ScoreBreakdown struct {
	Semantic    float64 `json:"semantic"`
	Authority   float64 `json:"authority"`
	Recency     float64 `json:"recency"`
	EngineTrust float64 `json:"engine_trust"`
	Position    float64 `json:"position"`
}

// ScoredHit is a CanonicalHit with its scores attached.
type ScoredHit struct {
	CanonicalHit
	Breakdown ScoreBreakdown
	// Coarse is the metadata-only selection score; never reported.
	Coarse float64
	Final  float64
}
