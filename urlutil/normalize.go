package urlutil

import (
	"net/url"
	"strings"
)

// htmlSpace is the set of ASCII whitespace characters HTML allows around
// attribute values.
const htmlSpace = " \t\n\f\r"

const upperHex = "0123456789ABCDEF"

// Clean returns a copy of u with the fragment removed and the query
// re-encoded for a generic URI query string. Scheme, userinfo, host, port
// and path are carried over as they are.
//
// Clean is a best-effort cosmetic pass: a URL that cannot be expressed in
// hierarchical form (an opaque URL such as mailto:, or a host paired with a
// rootless path) comes back unchanged. Clean(Clean(u)) equals Clean(u).
func Clean(u *url.URL) *url.URL {
	if u == nil {
		return nil
	}

	cleaned := *u
	if u.Opaque != "" {
		return &cleaned
	}
	if u.Host != "" && u.Path != "" && !strings.HasPrefix(u.Path, "/") {
		return &cleaned
	}

	cleaned.Fragment = ""
	cleaned.RawFragment = ""
	cleaned.RawQuery = EncodeQuery(u.RawQuery)
	return &cleaned
}

// Resolve resolves ref against base following RFC 3986 section 5.2.
// It reports false when base is not absolute, ref is blank or not a valid
// URI reference, or the result has no host (mailto:, javascript:, data: and
// other opaque targets). A '%' in the query that does not start a valid
// escape makes ref invalid.
func Resolve(base *url.URL, ref string) (*url.URL, bool) {
	if base == nil || !base.IsAbs() {
		return nil, false
	}

	ref = strings.Trim(ref, htmlSpace)
	if ref == "" {
		return nil, false
	}

	refURL, err := url.Parse(ref)
	if err != nil || hasBadEscape(refURL.RawQuery) {
		return nil, false
	}

	resolved := base.ResolveReference(refURL)
	if resolved.Opaque != "" || resolved.Host == "" {
		return nil, false
	}
	return resolved, true
}

// Equal reports whether a and b name the same resource, ignoring fragments.
func Equal(a, b *url.URL) bool {
	if a == nil || b == nil {
		return a == b
	}
	ca, cb := Clean(a), Clean(b)
	ca.Fragment, ca.RawFragment = "", ""
	cb.Fragment, cb.RawFragment = "", ""
	return ca.String() == cb.String()
}

// EncodeQuery percent-encodes every byte of a raw query that is not legal
// in an RFC 3986 query. Well-formed escapes are kept, with their hex digits
// uppercased; a stray '%' is encoded as %25.
func EncodeQuery(raw string) string {
	if !needsQueryEncoding(raw) {
		return raw
	}

	var b strings.Builder
	b.Grow(len(raw) + 8)
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c == '%' && isEscape(raw, i):
			b.WriteByte('%')
			b.WriteByte(upper(raw[i+1]))
			b.WriteByte(upper(raw[i+2]))
			i += 2
		case isQueryChar(c):
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperHex[c>>4])
			b.WriteByte(upperHex[c&0x0f])
		}
	}
	return b.String()
}

func needsQueryEncoding(raw string) bool {
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c == '%' {
			if !isEscape(raw, i) || !isUpperHex(raw[i+1]) || !isUpperHex(raw[i+2]) {
				return true
			}
			i += 2
			continue
		}
		if !isQueryChar(c) {
			return true
		}
	}
	return false
}

// isQueryChar reports whether c may appear unescaped in a query:
// unreserved, sub-delims, ':', '@', '/' and '?'.
func isQueryChar(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '.', '_', '~',
		'!', '$', '&', '\'', '(', ')', '*', '+', ',', ';', '=',
		':', '@', '/', '?':
		return true
	}
	return false
}

// hasBadEscape reports whether s contains a '%' not followed by two hex
// digits. url.Parse checks this for paths and fragments but not queries.
func hasBadEscape(s string) bool {
	for i := strings.IndexByte(s, '%'); i >= 0; {
		if !isEscape(s, i) {
			return true
		}
		next := strings.IndexByte(s[i+1:], '%')
		if next < 0 {
			break
		}
		i += 1 + next
	}
	return false
}

func isEscape(s string, i int) bool {
	return i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2])
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func isUpperHex(c byte) bool {
	return '0' <= c && c <= '9' || 'A' <= c && c <= 'F'
}

func upper(c byte) byte {
	if 'a' <= c && c <= 'f' {
		return c - ('a' - 'A')
	}
	return c
}
