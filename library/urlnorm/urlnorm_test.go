package urlnorm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanonicalizeLowercasesSchemeAndHost(t *testing.T) {
	got, err := Canonicalize("HTTPS://Example.COM/Path")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/Path", got)
}

func TestCanonicalizeStripsDefaultPorts(t *testing.T) {
	got, err := Canonicalize("http://example.com:80/a")
	require.NoError(t, err)
	require.Equal(t, "http://example.com/a", got)

	got, err = Canonicalize("https://example.com:443/a")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/a", got)

	// Non-default ports survive.
	got, err = Canonicalize("https://example.com:8443/a")
	require.NoError(t, err)
	require.Equal(t, "https://example.com:8443/a", got)
}

func TestCanonicalizeDropsFragment(t *testing.T) {
	got, err := Canonicalize("https://example.com/a#section-2")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/a", got)
}

func TestCanonicalizeStripsTrackingParams(t *testing.T) {
	got, err := Canonicalize("https://example.com/a?utm_source=t&utm_campaign=x&fbclid=123&gclid=9&ref=home&q=keep")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/a?q=keep", got)
}

func TestCanonicalizeSortsQueryParams(t *testing.T) {
	got, err := Canonicalize("https://example.com/a?z=1&a=2&m=3")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/a?a=2&m=3&z=1", got)
}

func TestCanonicalizePathRules(t *testing.T) {
	got, err := Canonicalize("https://example.com//a///b/")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/a/b", got)

	// A trailing slash at root is kept.
	got, err = Canonicalize("https://example.com/")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/", got)

	got, err = Canonicalize("https://example.com")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/", got)
}

func TestCanonicalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"HTTPS://Example.COM:443//x//y/?utm_medium=a&b=2&a=1#frag",
		"http://example.com:80/",
		"https://sub.example.co.uk/path/?ref=x",
	}
	for _, input := range inputs {
		once, err := Canonicalize(input)
		require.NoError(t, err)
		twice, err := Canonicalize(once)
		require.NoError(t, err)
		require.Equal(t, once, twice, "input %q", input)
	}
}

func TestCanonicalizeRejectsNonHTTP(t *testing.T) {
	_, err := Canonicalize("ftp://example.com/a")
	require.Error(t, err)

	_, err = Canonicalize("/relative/path")
	require.Error(t, err)
}

func TestDomain(t *testing.T) {
	require.Equal(t, "arxiv.org", Domain("https://arxiv.org/abs/1706.03762"))
	require.Equal(t, "arxiv.org", Domain("https://www.ArXiv.org/abs/1706.03762"))
	require.Equal(t, "example.com", Domain("https://example.com:8080/a"))
	require.Equal(t, "", Domain("://bad"))
}
