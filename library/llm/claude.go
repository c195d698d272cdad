// Package llm wraps the Anthropic API for query intelligence.
package llm

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/Laisky/errors/v2"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"

	appLog "github.com/Laisky/ai-search/library/log"
)

const (
	defaultModel     = "claude-haiku-4-5"
	defaultMaxTokens = 256
)

const systemPrompt = "You are a search query optimizer. Given a user query, return ONLY valid JSON with these fields:\n" +
	"- intent: one of [research, biomedical, code, news, general]\n" +
	"- expanded_query: improved version with synonyms, related terms, year range if relevant\n" +
	"- rewritten_query: clean display version"

// Classification is the raw classifier output before intent validation.
type Classification struct {
	Intent         string `json:"intent"`
	ExpandedQuery  string `json:"expanded_query"`
	RewrittenQuery string `json:"rewritten_query"`
}

// Option customises a ClaudeClient during construction.
type Option func(*ClaudeClient)

// WithModel injects an alternative llms.Model, primarily for testing.
func WithModel(model llms.Model) Option {
	return func(c *ClaudeClient) {
		if model != nil {
			c.model = model
		}
	}
}

// WithLogger overrides the fallback logger.
func WithLogger(logger logSDK.Logger) Option {
	return func(c *ClaudeClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// ClaudeClient asks Claude Haiku to classify and expand search queries.
// One instance is shared across requests; the SDK maintains its own
// connection pool.
type ClaudeClient struct {
	model  llms.Model
	logger logSDK.Logger
}

// NewClaudeClient constructs a client authenticated with apiKey.
func NewClaudeClient(apiKey string, opts ...Option) (*ClaudeClient, error) {
	client := &ClaudeClient{
		logger: appLog.Logger.Named("claude"),
	}
	for _, opt := range opts {
		opt(client)
	}

	if client.model == nil {
		if strings.TrimSpace(apiKey) == "" {
			return nil, errors.New("anthropic api key cannot be empty")
		}

		model, err := anthropic.New(
			anthropic.WithToken(apiKey),
			anthropic.WithModel(defaultModel),
		)
		if err != nil {
			return nil, errors.Wrap(err, "new anthropic client")
		}
		client.model = model
	}

	return client, nil
}

// AnalyzeQuery asks the model to classify query and expand it with related
// terms. The single call carries the caller's deadline and is not retried.
func (c *ClaudeClient) AnalyzeQuery(ctx context.Context, query string) (*Classification, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(systemPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(query)},
		},
	}

	resp, err := c.model.GenerateContent(ctx, content,
		llms.WithMaxTokens(defaultMaxTokens),
		llms.WithTemperature(0))
	if err != nil {
		return nil, errors.Wrap(err, "generate content")
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("empty model response")
	}

	raw := ExtractJSONObject(resp.Choices[0].Content)
	if raw == "" {
		return nil, errors.Errorf("no json object in model response %q",
			truncate(resp.Choices[0].Content, 120))
	}

	var cls Classification
	if err := json.Unmarshal([]byte(raw), &cls); err != nil {
		return nil, errors.Wrapf(err, "parse model response %q", truncate(raw, 120))
	}

	c.logger.Debug("query analyzed",
		zap.String("intent", cls.Intent),
		zap.String("expanded", truncate(cls.ExpandedQuery, 80)))
	return &cls, nil
}

// ExtractJSONObject returns the first balanced {...} object in text,
// ignoring surrounding prose and markdown fences. Returns "" when none
// is found.
func ExtractJSONObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}

	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n]
}
