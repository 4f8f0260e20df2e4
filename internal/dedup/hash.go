// Package dedup implements deterministic content hashing and batch
// deduplication for ingested articles. Everything here is pure logic; the
// record store is reached only through an injected lookup.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// NormalizeURL canonicalizes a URL before hashing: trims whitespace, strips
// the fragment and any trailing slash, and lower-cases scheme and host.
// Normalization must be identical at every call site or trivially different
// URLs would mint spurious records.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		// Not parseable as an absolute URL; fall back to a lexical cleanup.
		return strings.TrimRight(strings.ToLower(raw), "/")
	}
	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Path = strings.TrimRight(u.Path, "/")
	return u.String()
}

// NormalizeBody collapses internal whitespace runs to single spaces and
// trims the result, so formatting-only differences hash identically.
func NormalizeBody(body string) string {
	return strings.Join(strings.Fields(body), " ")
}

// HashURL returns the sha256 hex digest of the normalized URL.
func HashURL(raw string) string {
	return digest(NormalizeURL(raw))
}

// HashBody returns the sha256 hex digest of the normalized body text.
func HashBody(body string) string {
	return digest(NormalizeBody(body))
}

func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
