package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Laisky/ai-search/internal/search/model"
	"github.com/Laisky/ai-search/library/searxng"
)

func TestFetchAssignsPerEnginePositions(t *testing.T) {
	backend := &fakeBackend{results: []searxng.Result{
		{Title: "a1", URL: "https://example.com/a1", Engine: "arxiv"},
		{Title: "d1", URL: "https://example.com/d1", Engine: "duckduckgo"},
		{Title: "a2", URL: "https://example.com/a2", Engine: "arxiv"},
		{Title: "d2", URL: "https://example.com/d2", Engine: "duckduckgo"},
		{Title: "a3", URL: "https://example.com/a3", Engine: "arxiv"},
	}}
	svc := newTestService(newFakeCache(), newFakeStats(), backend, &fakeAnalyzer{}, nil)

	hits, err := svc.fetch(context.Background(), "q",
		model.EnginePlan{Engines: []string{"arxiv", "duckduckgo"}, Categories: []string{"science"}})
	require.NoError(t, err)
	require.Len(t, hits, 5)

	positions := map[string][]int{}
	for _, hit := range hits {
		positions[hit.Engine] = append(positions[hit.Engine], hit.Position)
	}
	require.Equal(t, []int{1, 2, 3}, positions["arxiv"])
	require.Equal(t, []int{1, 2}, positions["duckduckgo"])
}

func TestFetchDropsInvalidHits(t *testing.T) {
	backend := &fakeBackend{results: []searxng.Result{
		{Title: "", URL: "https://example.com/untitled", Engine: "bing"},
		{Title: "relative", URL: "/no/host", Engine: "bing"},
		{Title: "gopher", URL: "gopher://example.com/x", Engine: "bing"},
		{Title: "keep", URL: "https://example.com/keep", Engine: "bing"},
	}}
	svc := newTestService(newFakeCache(), newFakeStats(), backend, &fakeAnalyzer{}, nil)

	hits, err := svc.fetch(context.Background(), "q",
		model.EnginePlan{Engines: []string{"bing"}, Categories: []string{"general"}})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, "keep", hits[0].Title)
	require.Equal(t, 1, hits[0].Position)
}

func TestParsePublishedDate(t *testing.T) {
	cases := map[string]string{
		"2024-03-05T12:30:00+02:00": "2024-03-05",
		"2024-03-05T12:30:00":       "2024-03-05",
		"2024-03-05":                "2024-03-05",
		"2024-03":                   "2024-03-01",
		"2024":                      "2024-01-01",
	}
	for raw, want := range cases {
		parsed := parsePublishedDate(raw)
		require.NotNil(t, parsed, "raw %q", raw)
		require.Equal(t, want, parsed.UTC().Format("2006-01-02"), "raw %q", raw)
	}

	require.Nil(t, parsePublishedDate(""))
	require.Nil(t, parsePublishedDate("yesterday"))
	require.Nil(t, parsePublishedDate("20-3"))
}

func TestFormatPublishedDate(t *testing.T) {
	ts := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	formatted := formatPublishedDate(&ts)
	require.NotNil(t, formatted)
	require.Equal(t, "2024-03", *formatted)
	require.Nil(t, formatPublishedDate(nil))
}
