package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

var (
	// ErrNotHTML is returned when a response is not an HTML document.
	ErrNotHTML = errors.New("not an HTML document")
	// ErrUnsupportedScheme is returned for URLs that are not http or https.
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")
)

// StatusError reports an HTTP response with a 4xx or 5xx status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// ErrorCategory represents the classification of a fetch error.
type ErrorCategory string

const (
	CategoryTimeout           ErrorCategory = "timeout"
	CategoryDNSFailure        ErrorCategory = "dns_failure"
	CategoryConnectionRefused ErrorCategory = "connection_refused"
	Category4xx               ErrorCategory = "4xx"
	Category5xx               ErrorCategory = "5xx"
	CategoryNotHTML           ErrorCategory = "not_html"
	CategoryUnsupportedScheme ErrorCategory = "unsupported_scheme"
	CategoryUnknown           ErrorCategory = "unknown"
)

// Classify determines the category of an error returned by Fetch.
func Classify(err error) ErrorCategory {
	if err == nil {
		return CategoryUnknown
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode >= 500 {
			return Category5xx
		}
		return Category4xx
	}

	switch {
	case errors.Is(err, ErrNotHTML):
		return CategoryNotHTML
	case errors.Is(err, ErrUnsupportedScheme):
		return CategoryUnsupportedScheme
	case errors.Is(err, context.DeadlineExceeded):
		return CategoryTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return CategoryDNSFailure
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Op == "dial" && strings.Contains(opErr.Error(), "connection refused") {
			return CategoryConnectionRefused
		}
		if opErr.Timeout() {
			return CategoryTimeout
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CategoryTimeout
	}

	return CategoryUnknown
}

// FormatCategory returns a human-readable label for an error category.
func FormatCategory(cat ErrorCategory) string {
	switch cat {
	case CategoryTimeout:
		return "Timeouts"
	case CategoryDNSFailure:
		return "DNS Failures"
	case CategoryConnectionRefused:
		return "Connection Refused"
	case Category4xx:
		return "Client Errors (4xx)"
	case Category5xx:
		return "Server Errors (5xx)"
	case CategoryNotHTML:
		return "Not HTML"
	case CategoryUnsupportedScheme:
		return "Unsupported Schemes"
	default:
		return "Other Errors"
	}
}
