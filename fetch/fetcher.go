// Package fetch retrieves HTML documents over HTTP for link extraction.
//
// It is the page source for the links package: given a URL it returns the
// page markup decoded to UTF-8, or reports that the URL does not lead to an
// HTML document.
package fetch

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"

	"github.com/lukemcguire/linkparse/urlutil"
)

// Config holds fetcher configuration.
type Config struct {
	Timeout      time.Duration // Per-request timeout (default 10s)
	UserAgent    string        // User-Agent header (default "linkparse/1.0")
	MaxBodyBytes int64         // Bodies are truncated past this size (default 10 MiB)
	RetryPolicy  RetryPolicy   // Retry behavior for transient failures
	Client       *http.Client  // Optional; a fresh client is used when nil
}

const (
	defaultTimeout      = 10 * time.Second
	defaultUserAgent    = "linkparse/1.0 (+https://github.com/lukemcguire/linkparse)"
	defaultMaxBodyBytes = 10 << 20
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:      defaultTimeout,
		UserAgent:    defaultUserAgent,
		MaxBodyBytes: defaultMaxBodyBytes,
		RetryPolicy:  DefaultRetryPolicy(),
	}
}

// Fetcher downloads HTML pages. It is safe for concurrent use.
type Fetcher struct {
	cfg    Config
	client *http.Client
	logger zerolog.Logger
}

// New creates a Fetcher. Zero fields in cfg are replaced by defaults.
func New(cfg Config, logger zerolog.Logger) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	if cfg.RetryPolicy.MaxRetries < 0 {
		cfg.RetryPolicy.MaxRetries = 0
	}
	if cfg.RetryPolicy.MaxDelay <= 0 {
		cfg.RetryPolicy.MaxDelay = DefaultRetryPolicy().MaxDelay
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{}
	}

	return &Fetcher{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
}

// FetchHTML returns the markup of the page at u, or false when u is not an
// HTML document or cannot be fetched. Failures are logged at debug level.
func (f *Fetcher) FetchHTML(ctx context.Context, u *url.URL) (string, bool) {
	body, err := f.Fetch(ctx, u)
	if err != nil {
		cat := Classify(err)
		f.logger.Debug().
			Err(err).
			Str("category", string(cat)).
			Str("reason", FormatCategory(cat)).
			Msg("page not fetchable")
		return "", false
	}
	return body, true
}

// Fetch downloads the page at u and returns its markup decoded to UTF-8.
// Responses that are not text/html or application/xhtml+xml yield
// ErrNotHTML; 4xx and 5xx responses yield a *StatusError.
func (f *Fetcher) Fetch(ctx context.Context, u *url.URL) (string, error) {
	if u == nil {
		return "", fmt.Errorf("fetch nil URL: %w", ErrUnsupportedScheme)
	}
	rawURL := u.String()
	if !urlutil.IsHTTPScheme(rawURL) {
		return "", fmt.Errorf("fetch %q: %w", rawURL, ErrUnsupportedScheme)
	}
	return f.getWithRetry(ctx, rawURL)
}

// getOnce performs a single GET and decodes the body.
func (f *Fetcher) getOnce(ctx context.Context, rawURL string) (body string, err error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "text/html, application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("get %s: %w", rawURL, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close response body: %w", closeErr)
		}
	}()

	if resp.StatusCode >= 400 {
		return "", &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !isHTMLContentType(contentType) {
		return "", fmt.Errorf("%s served %q: %w", rawURL, contentType, ErrNotHTML)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, f.cfg.MaxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read body of %s: %w", rawURL, err)
	}

	if contentType == "" {
		contentType = http.DetectContentType(raw)
		if !isHTMLContentType(contentType) {
			return "", fmt.Errorf("%s served %q: %w", rawURL, contentType, ErrNotHTML)
		}
	}

	return decode(raw, contentType)
}

// decode converts raw to UTF-8 using the charset named in the content type,
// a byte order mark, or a <meta> declaration, in that order.
func decode(raw []byte, contentType string) (string, error) {
	enc, name, _ := charset.DetermineEncoding(raw, contentType)
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode %s body: %w", name, err)
	}
	return string(decoded), nil
}

// isHTMLContentType reports whether contentType names an HTML media type.
func isHTMLContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch mediaType {
	case "text/html", "application/xhtml+xml":
		return true
	}
	return false
}
