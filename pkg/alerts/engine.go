package alerts

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/nwsalerts/pkg/domain"
	"github.com/umputun/nwsalerts/pkg/feed"
	"github.com/umputun/nwsalerts/pkg/location"
)

//go:generate moq -out mocks/resolver.go -pkg mocks -skip-ensure -fmt goimports . Resolver
//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher

// Resolver resolves a location query for the given scope
type Resolver interface {
	Resolve(ctx context.Context, q location.Query, scope domain.Scope) (domain.Location, error)
}

// Fetcher retrieves a raw feed body
type Fetcher interface {
	Fetch(ctx context.Context, feedURL string) ([]byte, error)
}

// Config is the process wide pipeline configuration
type Config struct {
	Filter  FilterConfig
	Rank    RankConfig
	Refresh RefreshConfig
}

// DefaultConfig returns the stock pipeline configuration
func DefaultConfig() Config {
	return Config{Filter: DefaultFilterConfig(), Rank: DefaultRankConfig(), Refresh: DefaultRefreshConfig()}
}

// Request is a single alert request
type Request struct {
	location.Query
	Scope domain.Scope
	Limit int // 0 for unlimited
}

// Engine builds alert sets: resolve location, fetch and parse the feed, filter, rank and aggregate
type Engine struct {
	resolver Resolver
	fetcher  Fetcher
	cfg      Config
}

// NewEngine makes an engine with the given collaborators and configuration
func NewEngine(resolver Resolver, fetcher Fetcher, cfg Config) *Engine {
	return &Engine{resolver: resolver, fetcher: fetcher, cfg: cfg}
}

// Build runs the whole pipeline for req. It never fails, the first failure is recorded
// in AlertSet.Err and leaves the entries empty.
func (e *Engine) Build(ctx context.Context, req Request) *domain.AlertSet {
	set := &domain.AlertSet{
		Scope:       req.Scope,
		Limit:       max(req.Limit, 0),
		Entries:     []domain.AlertEntry{},
		RefreshRate: e.cfg.Refresh.Default,
	}
	if set.Scope == "" {
		set.Scope = domain.ScopeCounty
	}

	entries, err := e.run(ctx, req.Query, set)
	if err != nil {
		lgr.Printf("[WARN] alerts for %+v, scope %s: %v", req.Query, set.Scope, err)
		set.Err = err
		return set
	}

	set.Entries = entries
	set.RefreshRate = RefreshRate(entries, e.cfg.Refresh)
	if lat, lon, ok := Centroid(entries); ok {
		set.Latitude, set.Longitude = lat, lon
	}
	lgr.Printf("[DEBUG] %d alerts for %s, scope %s, refresh %dm", len(entries), set.FeedURL, set.Scope, set.RefreshRate)
	return set
}

// run executes the stages in order and stops on the first failure
func (e *Engine) run(ctx context.Context, q location.Query, set *domain.AlertSet) ([]domain.AlertEntry, error) {
	loc, err := e.resolver.Resolve(ctx, q, set.Scope)
	if err != nil {
		if !errors.Is(err, domain.ErrNoLocation) {
			err = fmt.Errorf("%w: %w", domain.ErrNoLocation, err)
		}
		return nil, err
	}
	set.Location = loc
	set.Latitude, set.Longitude = loc.Latitude, loc.Longitude
	set.FeedURL = feed.URL(set.Scope, loc)

	body, err := e.fetcher.Fetch(ctx, set.FeedURL)
	if err != nil {
		if !errors.Is(err, domain.ErrNoFeedData) {
			err = fmt.Errorf("%w: %w", domain.ErrNoFeedData, err)
		}
		return nil, err
	}

	f, err := feed.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNoFeedData, err)
	}
	set.FeedID, set.FeedGenerator, set.FeedUpdated = f.ID, f.Generator, f.Updated
	set.FeedTitle, set.FeedLink = f.Title, f.Link

	entries := Filter(sequence(f.Entries), e.cfg.Filter)
	return Rank(entries, e.cfg.Rank, set.Limit), nil
}

// sequence numbers raw entries by their 1-based feed position
func sequence(raw []domain.RawEntry) []domain.AlertEntry {
	res := make([]domain.AlertEntry, len(raw))
	for i, r := range raw {
		res[i] = domain.AlertEntry{RawEntry: r, Seq: i + 1}
	}
	return res
}
