// Package linkparse turns raw HTML into the absolute URLs a crawler should
// visit next.
//
// The crawler hands over a page's markup and the page's own URL, and gets
// back the href of every anchor tag, resolved against that URL, stripped of
// its fragment, and with a properly encoded query, in document order.
// Malformed markup and unusable references are skipped rather than
// reported: an empty result is the only failure signal.
//
// The packages underneath can be used directly: urlutil for normalization
// and resolution, links for a configurable scanner, fetch for retrieving
// pages.
package linkparse

import (
	"context"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/lukemcguire/linkparse/fetch"
	"github.com/lukemcguire/linkparse/links"
	"github.com/lukemcguire/linkparse/urlutil"
)

var defaultFetcher = fetch.New(fetch.DefaultConfig(), zerolog.Nop())

// Clean returns u without its fragment and with its query percent-encoded.
// It returns u's value unchanged when u cannot be cleaned.
func Clean(u *url.URL) *url.URL {
	return urlutil.Clean(u)
}

// ListLinks returns the cleaned absolute URLs referenced by anchor hrefs in
// html, resolved against base, in document order with duplicates kept.
func ListLinks(base *url.URL, html string) []*url.URL {
	return links.ListLinks(base, html)
}

// FetchHTML returns the markup of the page at u, or false if u is not an
// HTML document or could not be fetched.
func FetchHTML(ctx context.Context, u *url.URL) (string, bool) {
	return defaultFetcher.FetchHTML(ctx, u)
}
