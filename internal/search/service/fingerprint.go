package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Laisky/ai-search/internal/search/model"
)

// Fingerprint returns the stable cache key for req: a SHA-256 hex digest
// over (normalized query, limit, domain hint). The query is lowercased
// with whitespace collapsed so trivially different spellings share one
// cache entry.
func Fingerprint(req *model.Request) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(req.Query)), " ")

	h := sha256.New()
	h.Write([]byte(normalized))
	h.Write([]byte{0})
	fmt.Fprintf(h, "%d", req.Limit)
	h.Write([]byte{0})
	h.Write([]byte(req.DomainHint))

	return hex.EncodeToString(h.Sum(nil))
}
