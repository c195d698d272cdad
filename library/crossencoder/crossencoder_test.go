package crossencoder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogistic(t *testing.T) {
	require.InDelta(t, 0.5, Logistic(0), 1e-9)
	require.Greater(t, Logistic(4.0), 0.98)
	require.Less(t, Logistic(-4.0), 0.02)
}

func TestScoreAppliesLogisticInInputOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rerank", r.URL.Path)

		var req rerankRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.True(t, req.RawScores)
		require.Len(t, req.Texts, 3)

		// Out-of-order response; the client must realign by index.
		_ = json.NewEncoder(w).Encode([]rerankEntry{
			{Index: 2, Score: -2.0},
			{Index: 0, Score: 3.0},
			{Index: 1, Score: 0.0},
		})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, WithPoolSize(2))
	require.NoError(t, err)
	defer client.Close()

	scores, err := client.Score(context.Background(),
		"query", []string{"doc a", "doc b", "doc c"})
	require.NoError(t, err)
	require.Len(t, scores, 3)
	require.InDelta(t, Logistic(3.0), scores[0], 1e-9)
	require.InDelta(t, 0.5, scores[1], 1e-9)
	require.InDelta(t, Logistic(-2.0), scores[2], 1e-9)
	require.True(t, client.Ready())
}

func TestScoreCountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]rerankEntry{{Index: 0, Score: 1.0}})
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Score(context.Background(), "query", []string{"a", "b"})
	require.Error(t, err)
	require.False(t, client.Ready())
}

func TestScoreServiceDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Score(context.Background(), "query", []string{"a"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "[503]")
}

func TestScoreEmptyDocs(t *testing.T) {
	client, err := NewClient("http://localhost:1")
	require.NoError(t, err)
	defer client.Close()

	scores, err := client.Score(context.Background(), "query", nil)
	require.NoError(t, err)
	require.Empty(t, scores)
}

func TestProbe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))

	client, err := NewClient(server.URL)
	require.NoError(t, err)
	defer client.Close()

	require.False(t, client.Ready())
	require.NoError(t, client.Probe(context.Background()))
	require.True(t, client.Ready())

	server.Close()
	require.Error(t, client.Probe(context.Background()))
	require.False(t, client.Ready())
}
