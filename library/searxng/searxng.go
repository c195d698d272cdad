// Package searxng is the HTTP client for the local SearXNG meta-search backend.
package searxng

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"

	appLog "github.com/Laisky/ai-search/library/log"
)

const defaultHTTPTimeout = 10 * time.Second

// Result is a single raw hit as returned by SearXNG.
type Result struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Content       string `json:"content"`
	Engine        string `json:"engine"`
	PublishedDate string `json:"publishedDate"`
}

type searchResponse struct {
	Results []Result `json:"results"`
}

// Option customises a Client during construction.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client, primarily for testing.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		if httpc != nil {
			c.httpc = httpc
		}
	}
}

// WithLogger overrides the fallback logger.
func WithLogger(logger logSDK.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client queries a locally running SearXNG instance.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  logSDK.Logger
}

// NewClient constructs a Client for the SearXNG instance at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("searxng base url cannot be empty")
	}

	client := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpc:   &http.Client{Timeout: defaultHTTPTimeout},
		logger:  appLog.Logger.Named("searxng"),
	}
	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Ping issues a lightweight GET / to verify the instance is reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return errors.Wrap(err, "create ping request")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return errors.Wrap(err, "ping searxng")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("searxng ping returned [%d]", resp.StatusCode)
	}

	return nil
}

// Search fetches raw results for query from the given engines and categories.
// Any transport error, non-2xx status, or malformed body is returned to the
// caller; SearXNG is local, so there are no retries.
func (c *Client) Search(ctx context.Context,
	query string, engines, categories []string,
) ([]Result, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("engines", strings.Join(engines, ","))
	params.Set("categories", strings.Join(categories, ","))
	params.Set("format", "json")

	endpoint := c.baseURL + "/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create search request")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request searxng")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, errors.Errorf("searxng search returned [%d]%s",
			resp.StatusCode, string(body))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrap(err, "decode searxng response")
	}

	c.logger.Debug("searxng results received",
		zap.Int("count", len(parsed.Results)))
	return parsed.Results, nil
}
