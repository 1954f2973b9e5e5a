package links

import (
	"context"
	"fmt"
	"net/url"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Document is one page handed to ListLinksBatch: the page's own URL and its
// already-fetched markup.
type Document struct {
	Base *url.URL
	HTML string
}

// ListLinksBatch scans docs concurrently with at most concurrency scans in
// flight (GOMAXPROCS when concurrency <= 0). Result i holds the links of
// docs[i]. The only error is cancellation of ctx.
func (s *Scanner) ListLinksBatch(ctx context.Context, docs []Document, concurrency int) ([][]*url.URL, error) {
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	results := make([][]*url.URL, len(docs))

	errGroup, groupCtx := errgroup.WithContext(ctx)
	errGroup.SetLimit(concurrency)

	for i, doc := range docs {
		if groupCtx.Err() != nil {
			break
		}
		errGroup.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			results[i] = s.ListLinks(doc.Base, doc.HTML)
			return nil
		})
	}

	if err := errGroup.Wait(); err != nil {
		return nil, fmt.Errorf("scan %d documents: %w", len(docs), err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan %d documents: %w", len(docs), err)
	}

	return results, nil
}

// ListLinksBatch scans docs concurrently with a Scanner with default options.
func ListLinksBatch(ctx context.Context, docs []Document, concurrency int) ([][]*url.URL, error) {
	return defaultScanner.ListLinksBatch(ctx, docs, concurrency)
}
