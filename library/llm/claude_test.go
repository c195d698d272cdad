package llm

import (
	"context"
	"testing"

	"github.com/Laisky/errors/v2"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type fakeModel struct {
	content string
	err     error
	calls   int
}

func (m *fakeModel) GenerateContent(ctx context.Context,
	messages []llms.MessageContent, options ...llms.CallOption,
) (*llms.ContentResponse, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: m.content}},
	}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return m.content, m.err
}

func TestAnalyzeQueryParsesStrictJSON(t *testing.T) {
	model := &fakeModel{
		content: `{"intent": "research", "expanded_query": "transformer self-attention 2017..2024", "rewritten_query": "transformer attention"}`,
	}
	client, err := NewClaudeClient("", WithModel(model))
	require.NoError(t, err)

	cls, err := client.AnalyzeQuery(context.Background(), "transformer attention")
	require.NoError(t, err)
	require.Equal(t, "research", cls.Intent)
	require.Equal(t, "transformer self-attention 2017..2024", cls.ExpandedQuery)
	require.Equal(t, "transformer attention", cls.RewrittenQuery)
	require.Equal(t, 1, model.calls)
}

func TestAnalyzeQueryStripsSurroundingProse(t *testing.T) {
	model := &fakeModel{
		content: "Sure, here is the JSON you asked for:\n```json\n" +
			`{"intent": "code", "expanded_query": "golang context cancellation"}` +
			"\n```\nLet me know if you need anything else.",
	}
	client, err := NewClaudeClient("", WithModel(model))
	require.NoError(t, err)

	cls, err := client.AnalyzeQuery(context.Background(), "go context")
	require.NoError(t, err)
	require.Equal(t, "code", cls.Intent)
	require.Equal(t, "golang context cancellation", cls.ExpandedQuery)
}

func TestAnalyzeQueryTransportError(t *testing.T) {
	model := &fakeModel{err: errors.New("api unreachable")}
	client, err := NewClaudeClient("", WithModel(model))
	require.NoError(t, err)

	_, err = client.AnalyzeQuery(context.Background(), "anything")
	require.Error(t, err)
}

func TestAnalyzeQueryNoJSONObject(t *testing.T) {
	model := &fakeModel{content: "I cannot help with that."}
	client, err := NewClaudeClient("", WithModel(model))
	require.NoError(t, err)

	_, err = client.AnalyzeQuery(context.Background(), "anything")
	require.Error(t, err)
}

func TestNewClaudeClientRequiresAPIKey(t *testing.T) {
	_, err := NewClaudeClient("")
	require.Error(t, err)
}

func TestExtractJSONObject(t *testing.T) {
	require.Equal(t, `{"a":1}`, ExtractJSONObject(`prefix {"a":1} suffix`))
	require.Equal(t, `{"a":{"b":2}}`, ExtractJSONObject(`{"a":{"b":2}} {"c":3}`))
	require.Equal(t, `{"a":"br{ce}s"}`, ExtractJSONObject(`{"a":"br{ce}s"}`))
	require.Equal(t, `{"a":"\"q{\""}`, ExtractJSONObject(`{"a":"\"q{\""}`))
	require.Empty(t, ExtractJSONObject("no object here"))
	require.Empty(t, ExtractJSONObject(`{"unbalanced":`))
}
