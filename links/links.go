// Package links extracts hyperlink targets from raw HTML.
//
// The scan is lexical: it finds <a ...> tag boundaries and reads the href
// attribute inside each one, without building a document tree. This keeps
// it tolerant of the broken markup crawlers see every day. Each href is
// resolved against the page's own URL and cleaned with urlutil before it is
// returned.
package links

import (
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lukemcguire/linkparse/urlutil"
)

// Scanner extracts links from HTML documents. A Scanner is immutable after
// New and safe for concurrent use.
type Scanner struct {
	logger  zerolog.Logger
	schemes []string
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger used to report dropped hrefs at debug level.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// WithSchemes replaces the set of schemes a URL may have to be emitted,
// compared case-insensitively. The default set is http and https. With no
// schemes every scheme is allowed.
func WithSchemes(schemes ...string) Option {
	return func(s *Scanner) {
		s.schemes = make([]string, 0, len(schemes))
		for _, scheme := range schemes {
			s.schemes = append(s.schemes, strings.ToLower(scheme))
		}
	}
}

// New creates a Scanner with the given options.
func New(opts ...Option) *Scanner {
	s := &Scanner{
		logger:  zerolog.Nop(),
		schemes: []string{"http", "https"},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var defaultScanner = New()

// ListLinks returns the absolute URLs referenced by the href attribute of
// every anchor tag in html, in document order with duplicates kept. It uses
// a Scanner with default options, so only http and https URLs are returned.
func ListLinks(base *url.URL, html string) []*url.URL {
	return defaultScanner.ListLinks(base, html)
}

// ListLinks returns the cleaned, absolute URLs referenced by anchor hrefs in
// html, resolved against base. Hrefs that do not resolve to a URL with a
// scheme and a host, or whose scheme is not in the Scanner's set, are
// dropped. The result is never nil.
func (s *Scanner) ListLinks(base *url.URL, html string) []*url.URL {
	links := []*url.URL{}
	if base == nil || html == "" {
		return links
	}

	for _, a := range scanAnchors(html) {
		resolved, ok := urlutil.Resolve(base, a.href)
		if !ok {
			s.logger.Debug().
				Str("base", base.String()).
				Str("href", a.href).
				Int("offset", a.offset).
				Msg("dropping unresolvable href")
			continue
		}
		if len(s.schemes) > 0 && !urlutil.HasScheme(resolved, s.schemes...) {
			s.logger.Debug().
				Str("url", resolved.String()).
				Int("offset", a.offset).
				Msg("dropping href with filtered scheme")
			continue
		}
		links = append(links, urlutil.Clean(resolved))
	}

	return links
}

// Anchors returns the raw href values of the anchor tags in html, in
// document order, exactly as written between the quotes.
func (s *Scanner) Anchors(html string) []string {
	found := scanAnchors(html)
	hrefs := make([]string, 0, len(found))
	for _, a := range found {
		hrefs = append(hrefs, a.href)
	}
	return hrefs
}
