package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/nwsalerts/pkg/alerts"
	"github.com/umputun/nwsalerts/pkg/domain"
	"github.com/umputun/nwsalerts/pkg/scheduler/mocks"
)

func TestNewScheduler(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		s := NewScheduler(Params{Builder: &mocks.BuilderMock{}})
		assert.Equal(t, 2*time.Minute, s.interval)
		assert.Equal(t, 3, s.maxWorkers)
		assert.NotNil(t, s.clock)
		assert.Empty(t, s.targets)
	})

	t.Run("custom", func(t *testing.T) {
		targets := []Target{{Zip: "10001", Scope: domain.ScopeCounty}}
		s := NewScheduler(Params{Builder: &mocks.BuilderMock{}, Targets: targets, Interval: time.Minute, MaxWorkers: 7})
		assert.Equal(t, time.Minute, s.interval)
		assert.Equal(t, 7, s.maxWorkers)
		assert.Equal(t, targets, s.targets)

		targets[0].Zip = "changed"
		assert.Equal(t, "10001", s.targets[0].Zip, "targets are copied")
	})
}

func TestScheduler_WarmAll(t *testing.T) {
	builder := &mocks.BuilderMock{
		BuildFunc: func(ctx context.Context, req alerts.Request) *domain.AlertSet {
			if req.Zip == "99999" {
				return &domain.AlertSet{Scope: req.Scope, Err: domain.ErrNoLocation}
			}
			return &domain.AlertSet{Scope: req.Scope, Entries: []domain.AlertEntry{{RawEntry: domain.RawEntry{Event: "Flood Warning"}}}}
		},
	}
	s := NewScheduler(Params{
		Builder: builder,
		Targets: []Target{
			{Zip: "10001", Scope: domain.ScopeCounty},
			{Zip: "99999", Scope: domain.ScopeCounty},
			{Scope: domain.ScopeNational},
		},
		MaxWorkers: 2,
	})

	ok := s.WarmAll(context.Background())
	assert.Equal(t, 2, ok)

	calls := builder.BuildCalls()
	require.Len(t, calls, 3)
	seen := map[string]domain.Scope{}
	for _, c := range calls {
		seen[c.Req.Zip] = c.Req.Scope
		assert.Zero(t, c.Req.Limit)
	}
	assert.Equal(t, map[string]domain.Scope{"10001": domain.ScopeCounty, "99999": domain.ScopeCounty, "": domain.ScopeNational}, seen)
}

func TestScheduler_WarmAllCanceled(t *testing.T) {
	builder := &mocks.BuilderMock{
		BuildFunc: func(ctx context.Context, req alerts.Request) *domain.AlertSet {
			return &domain.AlertSet{}
		},
	}
	s := NewScheduler(Params{Builder: builder, Targets: []Target{{Zip: "1"}, {Zip: "2"}}, MaxWorkers: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// with a canceled context a worker may still grab the free slot, never more than the targets
	ok := s.WarmAll(ctx)
	assert.LessOrEqual(t, ok, 2)
	assert.Len(t, builder.BuildCalls(), ok)
}

func TestScheduler_StartStop(t *testing.T) {
	var count atomic.Int32
	builder := &mocks.BuilderMock{
		BuildFunc: func(ctx context.Context, req alerts.Request) *domain.AlertSet {
			count.Add(1)
			return &domain.AlertSet{Scope: req.Scope}
		},
	}
	clock := clockwork.NewFakeClock()
	s := NewScheduler(Params{Builder: builder, Targets: []Target{{Scope: domain.ScopeNational}}, Interval: time.Minute, Clock: clock})

	s.Start(context.Background())
	require.Eventually(t, func() bool { return count.Load() == 1 }, time.Second, 5*time.Millisecond, "runs on start")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	clock.Advance(time.Minute)
	require.Eventually(t, func() bool { return count.Load() == 2 }, time.Second, 5*time.Millisecond, "runs on tick")

	clock.Advance(30 * time.Second)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(2), count.Load(), "no run before the next tick")

	s.Stop()
	clock.Advance(time.Minute)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(2), count.Load(), "no builds after stop")
}

func TestScheduler_StartWithoutTargets(t *testing.T) {
	builder := &mocks.BuilderMock{}
	s := NewScheduler(Params{Builder: builder})
	s.Start(context.Background())
	s.Stop()
	assert.Empty(t, builder.BuildCalls())
	assert.Nil(t, s.cancel)
}
