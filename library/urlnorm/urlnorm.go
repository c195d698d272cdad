// Package urlnorm canonicalizes result URLs for deduplication.
package urlnorm

import (
	"net/url"
	"strings"

	"github.com/Laisky/errors/v2"
)

// trackingParams are query parameters that carry analytics noise only.
// utm_* is matched by prefix, the rest exactly.
var trackingParams = map[string]struct{}{
	"fbclid":  {},
	"gclid":   {},
	"mc_eid":  {},
	"mc_cid":  {},
	"ref":     {},
	"ref_src": {},
	"ref_url": {},
}

const trackingPrefix = "utm_"

// isTrackingParam reports whether name belongs to the tracking-param set.
func isTrackingParam(name string) bool {
	if strings.HasPrefix(strings.ToLower(name), trackingPrefix) {
		return true
	}

	_, ok := trackingParams[strings.ToLower(name)]
	return ok
}

// Canonicalize returns the canonical form of rawURL.
//
// Rules, applied in order: lowercase scheme and host; strip default
// ports; drop the fragment; drop tracking query parameters; sort the
// remaining parameters by name; collapse duplicate slashes in the path;
// strip a single trailing slash except at root. Only absolute http(s)
// URLs are accepted.
func Canonicalize(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Wrapf(err, "parse url %q", rawURL)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", errors.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", errors.Errorf("url %q has no host", rawURL)
	}

	host := strings.ToLower(parsed.Host)
	switch {
	case scheme == "http" && strings.HasSuffix(host, ":80"):
		host = strings.TrimSuffix(host, ":80")
	case scheme == "https" && strings.HasSuffix(host, ":443"):
		host = strings.TrimSuffix(host, ":443")
	}

	query := parsed.Query()
	for name := range query {
		if isTrackingParam(name) {
			delete(query, name)
		}
	}

	path := collapseSlashes(parsed.Path)
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	if path == "" {
		path = "/"
	}

	canonical := url.URL{
		Scheme:   scheme,
		Host:     host,
		Path:     path,
		RawQuery: query.Encode(), // Encode sorts by key
	}

	return canonical.String(), nil
}

// Domain returns the lowercased hostname of rawURL without port or a
// leading "www." label. Returns "" when the URL cannot be parsed.
func Domain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	host := strings.ToLower(parsed.Hostname())
	return strings.TrimPrefix(host, "www.")
}

func collapseSlashes(path string) string {
	if !strings.Contains(path, "//") {
		return path
	}

	var b strings.Builder
	b.Grow(len(path))
	prevSlash := false
	for _, r := range path {
		if r == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteRune(r)
	}

	return b.String()
}
