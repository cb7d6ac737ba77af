package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/jonboulle/clockwork"

	"github.com/umputun/nwsalerts/pkg/alerts"
	"github.com/umputun/nwsalerts/pkg/domain"
	"github.com/umputun/nwsalerts/pkg/location"
)

//go:generate moq -out mocks/builder.go -pkg mocks -skip-ensure -fmt goimports . Builder

// Builder builds an alert set, the feed cache behind it is what gets warmed
type Builder interface {
	Build(ctx context.Context, req alerts.Request) *domain.AlertSet
}

// Target is a location whose feed is kept in the cache
type Target struct {
	Zip   string
	Scope domain.Scope
}

// Params holds scheduler dependencies and settings
type Params struct {
	Builder    Builder
	Targets    []Target
	Interval   time.Duration
	MaxWorkers int
	Clock      clockwork.Clock // real clock if nil
}

// Scheduler periodically rebuilds alert sets for a fixed list of targets,
// so requests for popular locations are served from a warm feed cache
type Scheduler struct {
	builder    Builder
	targets    []Target
	interval   time.Duration
	maxWorkers int
	clock      clockwork.Clock
	wg         sync.WaitGroup
	cancel     context.CancelFunc
}

// NewScheduler creates a new scheduler instance
func NewScheduler(p Params) *Scheduler {
	if p.Interval <= 0 {
		p.Interval = 2 * time.Minute
	}
	if p.MaxWorkers <= 0 {
		p.MaxWorkers = 3
	}
	if p.Clock == nil {
		p.Clock = clockwork.NewRealClock()
	}
	return &Scheduler{
		builder:    p.Builder,
		targets:    append([]Target(nil), p.Targets...),
		interval:   p.Interval,
		maxWorkers: p.MaxWorkers,
		clock:      p.Clock,
	}
}

// Start begins the warm-up loop, nothing is started without targets
func (s *Scheduler) Start(ctx context.Context) {
	if len(s.targets) == 0 {
		lgr.Printf("[DEBUG] no warm targets, scheduler not started")
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.warmWorker(ctx)

	lgr.Printf("[INFO] scheduler started for %d targets with interval %v", len(s.targets), s.interval)
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	lgr.Printf("[INFO] stopping scheduler...")
	s.cancel()
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

func (s *Scheduler) warmWorker(ctx context.Context) {
	defer s.wg.Done()

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	// run immediately on start
	s.WarmAll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			s.WarmAll(ctx)
		}
	}
}

// WarmAll builds every target once and returns how many succeeded
func (s *Scheduler) WarmAll(ctx context.Context) int {
	sem := make(chan struct{}, s.maxWorkers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0

	for _, t := range s.targets {
		wg.Add(1)
		go func(t Target) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			if s.warm(ctx, t) {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}(t)
	}

	wg.Wait()
	lgr.Printf("[DEBUG] warmed %d of %d targets", ok, len(s.targets))
	return ok
}

func (s *Scheduler) warm(ctx context.Context, t Target) bool {
	set := s.builder.Build(ctx, alerts.Request{Query: location.Query{Zip: t.Zip}, Scope: t.Scope})
	if set.Err != nil {
		lgr.Printf("[WARN] failed to warm %s/%s: %v", t.Zip, t.Scope, set.Err)
		return false
	}
	lgr.Printf("[DEBUG] warmed %s/%s, %d alerts", t.Zip, t.Scope, len(set.Entries))
	return true
}
