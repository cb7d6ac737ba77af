package feed

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/umputun/nwsalerts/pkg/domain"
)

// maxBodySize caps the feed body, national feeds are a few MB at most
const maxBodySize = 16 << 20

// accepted content types of a feed response, parameters are ignored
var feedContentTypes = map[string]bool{
	"application/atom+xml": true,
	"application/rss+xml":  true,
}

// HTTPFetcher retrieves alert feeds from the CAP server
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// NewHTTPFetcher creates a fetcher with request timeout and user agent
func NewHTTPFetcher(timeout time.Duration, userAgent string) *HTTPFetcher {
	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Get returns the raw feed body. Non-200 status, unexpected content type and transport
// failures are reported as domain.ErrNoFeedData.
func (f *HTTPFetcher) Get(ctx context.Context, feedURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request for %s: %w", feedURL, err)
	}
	addFeedHeaders(req, f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %w", domain.ErrNoFeedData, feedURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch %s: unexpected status %d", domain.ErrNoFeedData, feedURL, resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil || !feedContentTypes[mt] {
		return nil, fmt.Errorf("%w: fetch %s: unexpected content type %q", domain.ErrNoFeedData, feedURL, ct)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrNoFeedData, feedURL, err)
	}
	return body, nil
}
