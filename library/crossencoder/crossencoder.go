// Package crossencoder scores (query, document) pairs against a locally
// served cross-encoder model (ms-marco-MiniLM style rerankers behind a
// /rerank HTTP endpoint).
package crossencoder

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"runtime"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Laisky/errors/v2"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	"github.com/panjf2000/ants/v2"

	appLog "github.com/Laisky/ai-search/library/log"
)

const (
	defaultHTTPTimeout = 6 * time.Second

	// maxDocChars keeps each document within the model's token window.
	maxDocChars = 2000
)

type rerankRequest struct {
	Query     string   `json:"query"`
	Texts     []string `json:"texts"`
	RawScores bool     `json:"raw_scores"`
}

type rerankEntry struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

// Option customises a Client during construction.
type Option func(*Client) error

// WithHTTPClient overrides the underlying HTTP client, primarily for testing.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) error {
		if httpc != nil {
			c.httpc = httpc
		}

		return nil
	}
}

// WithPoolSize bounds how many inference calls may run concurrently.
// Default is runtime.NumCPU(), minimum 1.
func WithPoolSize(size int) Option {
	return func(c *Client) error {
		if size < 1 {
			size = 1
		}

		if c.pool != nil {
			c.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return errors.Wrap(err, "new inference pool")
		}
		c.pool = pool

		return nil
	}
}

// WithLogger overrides the fallback logger.
func WithLogger(logger logSDK.Logger) Option {
	return func(c *Client) error {
		if logger != nil {
			c.logger = logger
		}

		return nil
	}
}

// Client calls the cross-encoder inference service. Inference runs on a
// process-wide worker pool so CPU-bound scoring cannot starve the request
// dispatcher; excess calls queue until a worker frees up.
type Client struct {
	baseURL string
	httpc   *http.Client
	pool    *ants.Pool
	logger  logSDK.Logger
	ready   atomic.Bool
}

// NewClient constructs a Client for the inference service at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("cross encoder base url cannot be empty")
	}

	client := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpc:   &http.Client{Timeout: defaultHTTPTimeout},
		logger:  appLog.Logger.Named("cross_encoder"),
	}
	for _, opt := range opts {
		if err := opt(client); err != nil {
			return nil, err
		}
	}

	if client.pool == nil {
		size := runtime.NumCPU()
		if size < 1 {
			size = 1
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return nil, errors.Wrap(err, "new inference pool")
		}
		client.pool = pool
	}

	return client, nil
}

// Close releases the inference pool.
func (c *Client) Close() {
	c.pool.Release()
}

// Ready reports whether the most recent probe or inference succeeded.
func (c *Client) Ready() bool {
	return c.ready.Load()
}

// Probe checks the inference service health endpoint and records the result.
func (c *Client) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return errors.Wrap(err, "create probe request")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.ready.Store(false)
		return errors.Wrap(err, "probe cross encoder")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		c.ready.Store(false)
		return errors.Errorf("cross encoder probe returned [%d]", resp.StatusCode)
	}

	c.ready.Store(true)
	return nil
}

// Score returns one relevance score in [0,1] per document, in input order.
// Raw model logits are squashed through a logistic transform. The call is
// scheduled on the worker pool; waiting for a free worker does not observe
// ctx, but the inference request and the wait for its result do.
func (c *Client) Score(ctx context.Context, query string, docs []string) ([]float64, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	type result struct {
		scores []float64
		err    error
	}

	resCh := make(chan result, 1)
	if err := c.pool.Submit(func() {
		scores, err := c.score(ctx, query, docs)
		resCh <- result{scores: scores, err: err}
	}); err != nil {
		return nil, errors.Wrap(err, "submit inference task")
	}

	select {
	case res := <-resCh:
		if res.err != nil {
			c.ready.Store(false)
			return nil, res.err
		}

		c.ready.Store(true)
		return res.scores, nil
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), "wait for inference")
	}
}

func (c *Client) score(ctx context.Context, query string, docs []string) ([]float64, error) {
	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = truncate(doc, maxDocChars)
	}

	var reqBody bytes.Buffer
	if err := json.NewEncoder(&reqBody).Encode(rerankRequest{
		Query:     query,
		Texts:     texts,
		RawScores: true,
	}); err != nil {
		return nil, errors.Wrap(err, "marshal rerank request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/rerank", &reqBody)
	if err != nil {
		return nil, errors.Wrap(err, "create rerank request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request cross encoder")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, errors.Errorf("cross encoder returned [%d]%s",
			resp.StatusCode, string(body))
	}

	var entries []rerankEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, errors.Wrap(err, "decode rerank response")
	}
	if len(entries) != len(docs) {
		return nil, errors.Errorf("cross encoder returned %d scores for %d documents",
			len(entries), len(docs))
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Index < entries[j].Index })

	scores := make([]float64, len(docs))
	for i, entry := range entries {
		if entry.Index != i {
			return nil, errors.Errorf("cross encoder response misses index %d", i)
		}

		scores[i] = Logistic(entry.Score)
	}

	c.logger.Debug("scored pairs", zap.Int("count", len(scores)))
	return scores, nil
}

// Logistic maps a raw logit to (0,1).
func Logistic(logit float64) float64 {
	return 1.0 / (1.0 + math.Exp(-logit))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n]
}
