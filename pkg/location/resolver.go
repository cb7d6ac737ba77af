package location

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-pkgz/lgr"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/umputun/nwsalerts/pkg/domain"
)

//go:generate moq -out mocks/directory.go -pkg mocks -skip-ensure -fmt goimports . Directory

// Directory is the location lookup store. Lookups report domain.ErrNotFound
// when nothing matches.
type Directory interface {
	ByZip(ctx context.Context, zip string) (domain.Location, error)
	ByCityState(ctx context.Context, city, state string) (domain.Location, error)
	ByStateCounty(ctx context.Context, state, county string) (domain.Location, error)
	CountyCode(ctx context.Context, state, county string) (string, error)
}

// Query is the user supplied location, any field may be empty
type Query struct {
	Zip    string
	City   string
	State  string
	County string
}

// Resolver maps a Query to a directory Location
type Resolver struct {
	dir Directory
}

// NewResolver makes a Resolver backed by the given directory
func NewResolver(dir Directory) *Resolver {
	return &Resolver{dir: dir}
}

// Resolve looks up the location for q. National scope tolerates a failed lookup
// and returns a zero Location; other scopes fail with domain.ErrNoLocation.
func (r *Resolver) Resolve(ctx context.Context, q Query, scope domain.Scope) (domain.Location, error) {
	loc, err := r.lookup(ctx, q)
	if err != nil {
		if scope == domain.ScopeNational {
			lgr.Printf("[DEBUG] location not resolved for national scope, %v", err)
			return domain.Location{}, nil
		}
		return domain.Location{}, fmt.Errorf("%w: %w", domain.ErrNoLocation, err)
	}

	code, err := r.dir.CountyCode(ctx, loc.StateAbbrev, loc.County)
	if err != nil {
		// keep the location, the county feed will be requested with a zero code
		lgr.Printf("[WARN] no county code for %s/%s, %v", loc.StateAbbrev, loc.County, err)
		code = ""
	}
	loc.CountyCode = padCountyCode(code)

	title := cases.Title(language.English) // caser is stateful, not shared between requests
	loc.City = title.String(loc.City)
	loc.State = title.String(StateName(loc.StateAbbrev))
	return loc, nil
}

// lookup picks the first branch the query has enough data for.
// The directory keeps the raw state abbreviation in StateAbbrev.
func (r *Resolver) lookup(ctx context.Context, q Query) (domain.Location, error) {
	var (
		loc domain.Location
		err error
	)
	switch {
	case q.Zip != "" && isNumeric(q.Zip):
		loc, err = r.dir.ByZip(ctx, q.Zip)
	case q.City != "" && q.State != "":
		loc, err = r.dir.ByCityState(ctx, strings.ToLower(q.City), normalizeState(q.State))
	case q.State != "" && q.County != "":
		loc, err = r.dir.ByStateCounty(ctx, normalizeState(q.State), strings.ToLower(q.County))
	default:
		return domain.Location{}, fmt.Errorf("not enough location data: %w", domain.ErrNotFound)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Location{}, err
		}
		return domain.Location{}, fmt.Errorf("directory lookup: %w", err)
	}
	return loc, nil
}

// padCountyCode left pads the code with zeros to three characters
func padCountyCode(code string) string {
	code = strings.TrimSpace(code)
	if len(code) >= 3 {
		return code
	}
	return strings.Repeat("0", 3-len(code)) + code
}

func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}
