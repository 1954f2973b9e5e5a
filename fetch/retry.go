package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// RetryPolicy configures retry behavior for failed requests.
type RetryPolicy struct {
	MaxRetries int           // Maximum number of retries (2 = 3 total attempts)
	BaseDelay  time.Duration // Initial backoff delay (1s)
	MaxDelay   time.Duration // Maximum backoff cap (30s)
}

// DefaultRetryPolicy returns a RetryPolicy with sensible defaults:
// 2 retries (3 attempts), 1s base delay, 30s max delay.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 2,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// getWithRetry wraps getOnce with exponential backoff. It retries transient
// failures (network errors, 5xx, 429) but not permanent ones.
func (f *Fetcher) getWithRetry(ctx context.Context, rawURL string) (string, error) {
	policy := f.cfg.RetryPolicy
	backoff := policy.BaseDelay
	var lastErr error
	var attempts int

	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		attempts = attempt + 1

		if attempt > 0 {
			f.logger.Debug().
				Err(lastErr).
				Str("url", rawURL).
				Int("attempt", attempts).
				Dur("backoff", backoff).
				Msg("retrying fetch")

			select {
			case <-ctx.Done():
				return "", errors.Join(fmt.Errorf("fetch %s: %w", rawURL, ctx.Err()), lastErr)
			case <-time.After(backoff):
				backoff = min(backoff*2, policy.MaxDelay)
			}
		}

		body, err := f.getOnce(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !shouldRetry(err) {
			return "", err
		}
	}

	return "", fmt.Errorf("%w (after %d attempts)", lastErr, attempts)
}

// shouldRetry determines if a failed request should be retried.
// Returns true for timeouts, DNS failures, refused connections, HTTP 429
// and HTTP 5xx. Returns false for other 4xx, non-HTML responses and
// unclassified errors.
func shouldRetry(err error) bool {
	switch Classify(err) {
	case CategoryTimeout, CategoryDNSFailure, CategoryConnectionRefused, Category5xx:
		return true
	case Category4xx:
		var statusErr *StatusError
		return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusTooManyRequests
	default:
		return false
	}
}
