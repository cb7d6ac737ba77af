package feed

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/nwsalerts/pkg/domain"
	"github.com/umputun/nwsalerts/pkg/feed/mocks"
)

func TestCachedFetcher_Fetch(t *testing.T) {
	t.Run("hit after miss", func(t *testing.T) {
		src := &mocks.GetterMock{GetFunc: func(ctx context.Context, feedURL string) ([]byte, error) {
			return []byte("body of " + feedURL), nil
		}}
		c := NewCachedFetcher(src, time.Minute, 10)

		body, err := c.Fetch(context.Background(), "http://example.com/a")
		require.NoError(t, err)
		assert.Equal(t, "body of http://example.com/a", string(body))

		body, err = c.Fetch(context.Background(), "http://example.com/a")
		require.NoError(t, err)
		assert.Equal(t, "body of http://example.com/a", string(body))
		assert.Len(t, src.GetCalls(), 1)
		assert.Equal(t, 1, c.Len())
		assert.Equal(t, uint64(1), c.Hits())
		assert.Equal(t, uint64(1), c.Misses())
	})

	t.Run("different keys", func(t *testing.T) {
		src := &mocks.GetterMock{GetFunc: func(ctx context.Context, feedURL string) ([]byte, error) {
			return []byte("ok"), nil
		}}
		c := NewCachedFetcher(src, time.Minute, 10)

		_, err := c.Fetch(context.Background(), "http://example.com/a")
		require.NoError(t, err)
		_, err = c.Fetch(context.Background(), "http://example.com/b")
		require.NoError(t, err)
		assert.Len(t, src.GetCalls(), 2)
		assert.Equal(t, 2, c.Len())
	})

	t.Run("failures are not cached", func(t *testing.T) {
		var calls int32
		src := &mocks.GetterMock{GetFunc: func(ctx context.Context, feedURL string) ([]byte, error) {
			if atomic.AddInt32(&calls, 1) == 1 {
				return nil, domain.ErrNoFeedData
			}
			return []byte("ok"), nil
		}}
		c := NewCachedFetcher(src, time.Minute, 10)

		_, err := c.Fetch(context.Background(), "http://example.com")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNoFeedData)
		assert.Equal(t, 0, c.Len())

		body, err := c.Fetch(context.Background(), "http://example.com")
		require.NoError(t, err)
		assert.Equal(t, "ok", string(body))
		assert.Len(t, src.GetCalls(), 2)
	})

	t.Run("expired entry refetched", func(t *testing.T) {
		src := &mocks.GetterMock{GetFunc: func(ctx context.Context, feedURL string) ([]byte, error) {
			return []byte("ok"), nil
		}}
		c := NewCachedFetcher(src, 50*time.Millisecond, 10)

		_, err := c.Fetch(context.Background(), "http://example.com")
		require.NoError(t, err)
		time.Sleep(100 * time.Millisecond)
		_, err = c.Fetch(context.Background(), "http://example.com")
		require.NoError(t, err)
		assert.Len(t, src.GetCalls(), 2)
	})

	t.Run("zero ttl disables cache", func(t *testing.T) {
		src := &mocks.GetterMock{GetFunc: func(ctx context.Context, feedURL string) ([]byte, error) {
			return []byte("ok"), nil
		}}
		c := NewCachedFetcher(src, 0, 10)

		for range 3 {
			_, err := c.Fetch(context.Background(), "http://example.com")
			require.NoError(t, err)
		}
		assert.Len(t, src.GetCalls(), 3)
		assert.Equal(t, 0, c.Len())
		assert.Equal(t, uint64(0), c.Hits())
		assert.Equal(t, uint64(3), c.Misses())
		c.Purge()
	})

	t.Run("purge", func(t *testing.T) {
		src := &mocks.GetterMock{GetFunc: func(ctx context.Context, feedURL string) ([]byte, error) {
			return []byte("ok"), nil
		}}
		c := NewCachedFetcher(src, time.Minute, 10)
		_, err := c.Fetch(context.Background(), "http://example.com")
		require.NoError(t, err)
		c.Purge()
		assert.Equal(t, 0, c.Len())
	})
}

func TestCachedFetcher_ConcurrentMisses(t *testing.T) {
	release := make(chan struct{})
	var calls int32
	src := &mocks.GetterMock{GetFunc: func(ctx context.Context, feedURL string) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return []byte("ok"), nil
	}}
	c := NewCachedFetcher(src, time.Minute, 10)

	const workers = 10
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body, err := c.Fetch(context.Background(), "http://example.com")
			if err == nil && string(body) != "ok" {
				err = errors.New("unexpected body")
			}
			errs <- err
		}()
	}

	// let all workers reach the in-flight call before releasing it
	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCachedFetcher_KeyedByURL(t *testing.T) {
	src := &mocks.GetterMock{GetFunc: func(ctx context.Context, feedURL string) ([]byte, error) {
		return []byte("body of " + feedURL), nil
	}}
	c := NewCachedFetcher(src, time.Minute, 10)

	dallas := "https://alerts.weather.gov/cap/wwaatmget.php?x=TXC113&y=0"
	denver := "https://alerts.weather.gov/cap/wwaatmget.php?x=COC031&y=0"
	for range 2 {
		body, err := c.Fetch(context.Background(), dallas)
		require.NoError(t, err)
		assert.Equal(t, "body of "+dallas, string(body))
		body, err = c.Fetch(context.Background(), denver)
		require.NoError(t, err)
		assert.Equal(t, "body of "+denver, string(body))
	}

	calls := src.GetCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, dallas, calls[0].FeedURL)
	assert.Equal(t, denver, calls[1].FeedURL)
	assert.Equal(t, uint64(2), c.Hits())
}

func TestCachedFetcher_SharedFetchSurvivesCanceledCaller(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	src := &mocks.GetterMock{GetFunc: func(ctx context.Context, feedURL string) ([]byte, error) {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return []byte("ok"), nil
	}}
	c := NewCachedFetcher(src, time.Minute, 10)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Fetch(firstCtx, "http://example.com")
		firstErr <- err
	}()
	<-started

	secondRes := make(chan error, 1)
	go func() {
		body, err := c.Fetch(context.Background(), "http://example.com")
		if err == nil && string(body) != "ok" {
			err = errors.New("unexpected body")
		}
		secondRes <- err
	}()
	time.Sleep(20 * time.Millisecond) // second caller joins the in-flight fetch

	cancelFirst()
	err := <-firstErr
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	require.NoError(t, <-secondRes)
	assert.Len(t, src.GetCalls(), 1)
	assert.Equal(t, 1, c.Len(), "shared result is cached")
}
