// Package urlutil normalizes and resolves URLs discovered in HTML documents.
package urlutil

import (
	"net/url"
	"strings"
)

// IsHTTPScheme returns true if the URL has an http or https scheme.
// Returns false for empty strings, non-HTTP schemes, or unparseable URLs.
func IsHTTPScheme(rawURL string) bool {
	if rawURL == "" {
		return false
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	return HasScheme(parsed, "http", "https")
}

// HasScheme reports whether u's scheme is one of schemes, ignoring case.
func HasScheme(u *url.URL, schemes ...string) bool {
	if u == nil {
		return false
	}
	for _, scheme := range schemes {
		if strings.EqualFold(u.Scheme, scheme) {
			return true
		}
	}
	return false
}
