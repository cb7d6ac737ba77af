package feed

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

//go:generate moq -out mocks/getter.go -pkg mocks -skip-ensure -fmt goimports . Getter

// Getter retrieves a raw feed body by url
type Getter interface {
	Get(ctx context.Context, feedURL string) ([]byte, error)
}

// CachedFetcher keeps successful feed bodies for a fixed TTL, keyed by feed url.
// Failures are never cached, the next request retries upstream.
type CachedFetcher struct {
	src   Getter
	ttl   time.Duration
	cache *expirable.LRU[string, []byte]
	group singleflight.Group

	hits, misses atomic.Uint64
}

// NewCachedFetcher wraps src with a TTL cache of up to size entries.
// Non-positive ttl disables caching.
func NewCachedFetcher(src Getter, ttl time.Duration, size int) *CachedFetcher {
	if size <= 0 {
		size = 1000
	}
	res := &CachedFetcher{src: src, ttl: ttl}
	if ttl > 0 {
		res.cache = expirable.NewLRU[string, []byte](size, nil, ttl)
	}
	return res
}

// Fetch returns the cached body for feedURL or retrieves it from the source.
// Concurrent misses on the same url share one upstream request, which is detached
// from the cancellation of the caller that started it.
func (c *CachedFetcher) Fetch(ctx context.Context, feedURL string) ([]byte, error) {
	if c.cache == nil {
		c.misses.Add(1)
		return c.src.Get(ctx, feedURL)
	}
	if body, ok := c.cache.Get(feedURL); ok {
		c.hits.Add(1)
		lgr.Printf("[DEBUG] feed cache hit for %s", feedURL)
		return body, nil
	}
	c.misses.Add(1)

	shareCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(feedURL, func() (any, error) {
		body, err := c.src.Get(shareCtx, feedURL)
		if err != nil {
			return nil, err
		}
		c.cache.Add(feedURL, body)
		return body, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("cached fetch %s: %w", feedURL, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("cached fetch %s: %w", feedURL, res.Err)
		}
		if res.Shared {
			lgr.Printf("[DEBUG] feed fetch for %s shared with concurrent request", feedURL)
		}
		return res.Val.([]byte), nil
	}
}

// Purge drops all cached feeds
func (c *CachedFetcher) Purge() {
	if c.cache != nil {
		c.cache.Purge()
	}
}

// Len returns the number of cached feeds
func (c *CachedFetcher) Len() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.Len()
}

// Hits returns the number of requests served from the cache
func (c *CachedFetcher) Hits() uint64 { return c.hits.Load() }

// Misses returns the number of requests that went upstream or joined an upstream request
func (c *CachedFetcher) Misses() uint64 { return c.misses.Load() }
