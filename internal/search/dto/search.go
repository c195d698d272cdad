// Package dto defines the wire types of the HTTP surface.
package dto

import (
	"github.com/Laisky/ai-search/internal/search/model"
)

// SearchResult is one ranked hit in the search response.
type SearchResult struct {
	Title         string               `json:"title"`
	URL           string               `json:"url"`
	Snippet       string               `json:"snippet"`
	Domain        string               `json:"domain"`
	SourceEngine  string               `json:"source_engine"`
	PublishedDate *string              `json:"published_date"`
	FinalScore    float64              `json:"final_score"`
	Breakdown     model.ScoreBreakdown `json:"score_breakdown"`
}

// SearchResponse is the body of GET /search.
type SearchResponse struct {
	Query         string         `json:"query"`
	ExpandedQuery string         `json:"expanded_query"`
	Intent        string         `json:"intent"`
	CacheHit      bool           `json:"cache_hit"`
	QueryTimeMS   float64        `json:"query_time_ms"`
	Results       []SearchResult `json:"results"`
}

// Clone returns a deep enough copy for per-caller mutation of CacheHit
// and QueryTimeMS; coalesced requests share the original.
func (r *SearchResponse) Clone() *SearchResponse {
	if r == nil {
		return nil
	}

	cp := *r
	cp.Results = make([]SearchResult, len(r.Results))
	copy(cp.Results, r.Results)
	return &cp
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status        string  `json:"status"`
	Redis         string  `json:"redis"`
	Searxng       string  `json:"searxng"`
	CrossEncoder  string  `json:"cross_encoder"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// StatsResponse is the body of GET /stats.
type StatsResponse struct {
	QueriesTotal    int64            `json:"queries_total"`
	CacheHitRate    float64          `json:"cache_hit_rate"`
	AvgLatencyMS    float64          `json:"avg_latency_ms"`
	QueriesByIntent map[string]int64 `json:"queries_by_intent"`
}

// ErrorResponse is the body of any non-2xx response.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}
