package service

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"

	"github.com/Laisky/ai-search/internal/search/model"
)

// publishedDateLayouts are tried in order against a prefix of the raw
// value; SearXNG engines report dates in many shapes.
var publishedDateLayouts = []struct {
	layout string
	length int
}{
	{"2006-01-02T15:04:05Z07:00", 25},
	{"2006-01-02T15:04:05", 19},
	{"2006-01-02", 10},
	{"2006-01", 7},
	{"2006", 4},
}

// fetch issues the single backend request and parses the raw hits.
// A hard backend failure is fatal for the whole pipeline.
func (s *Service) fetch(ctx context.Context, query string, plan model.EnginePlan) ([]model.RawHit, error) {
	ctx, cancel := context.WithTimeout(ctx, backendDeadline)
	defer cancel()

	results, err := s.backend.Search(ctx, query, plan.Engines, plan.Categories)
	if err != nil {
		return nil, errors.Wrapf(model.ErrBackendUnavailable, "fetch results: %v", err)
	}

	hits := make([]model.RawHit, 0, len(results))
	positions := make(map[string]int, len(plan.Engines))
	dropped := 0
	for _, result := range results {
		title := strings.TrimSpace(result.Title)
		if title == "" || !isAbsoluteHTTPURL(result.URL) {
			dropped++
			continue
		}

		positions[result.Engine]++
		hits = append(hits, model.RawHit{
			Title:       title,
			URL:         result.URL,
			Snippet:     strings.TrimSpace(result.Content),
			Engine:      result.Engine,
			PublishedAt: parsePublishedDate(result.PublishedDate),
			Position:    positions[result.Engine],
		})
	}

	s.logger.Debug("raw hits fetched",
		zap.Int("count", len(hits)),
		zap.Int("dropped", dropped))
	return hits, nil
}

func isAbsoluteHTTPURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}

	scheme := strings.ToLower(parsed.Scheme)
	return (scheme == "http" || scheme == "https") && parsed.Host != ""
}

func parsePublishedDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	for _, candidate := range publishedDateLayouts {
		if len(raw) < candidate.length {
			continue
		}

		if parsed, err := time.Parse(candidate.layout, raw[:candidate.length]); err == nil {
			return &parsed
		}
	}

	return nil
}
