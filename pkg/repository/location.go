package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/nwsalerts/pkg/domain"
)

// LocationRepository is the sqlite backed location directory
type LocationRepository struct {
	db *sqlx.DB
}

// locationSQL represents a locations row
type locationSQL struct {
	Zip       string  `db:"zip"`
	Latitude  float64 `db:"latitude"`
	Longitude float64 `db:"longitude"`
	City      string  `db:"city"`
	State     string  `db:"state"`
	County    string  `db:"county"`
}

// NewLocationRepository creates a new location repository
func NewLocationRepository(db *sqlx.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

const locationColumns = "zip, latitude, longitude, city, state, county"

// ByZip returns the location with the exact zip
func (r *LocationRepository) ByZip(ctx context.Context, zip string) (domain.Location, error) {
	query := "SELECT " + locationColumns + " FROM locations WHERE zip = ? LIMIT 1"
	return r.getLocation(ctx, "by zip", query, zip)
}

// ByCityState returns the first location matching city and state, case-insensitive
func (r *LocationRepository) ByCityState(ctx context.Context, city, state string) (domain.Location, error) {
	query := "SELECT " + locationColumns + ` FROM locations
		WHERE city LIKE ? ESCAPE '\' AND state LIKE ? ESCAPE '\'
		ORDER BY zip LIMIT 1`
	return r.getLocation(ctx, "by city and state", query, likeEscaper.Replace(city), likeEscaper.Replace(state))
}

// ByStateCounty returns the first location in state whose county contains county
func (r *LocationRepository) ByStateCounty(ctx context.Context, state, county string) (domain.Location, error) {
	query := "SELECT " + locationColumns + ` FROM locations
		WHERE state LIKE ? ESCAPE '\' AND county LIKE ? ESCAPE '\'
		ORDER BY zip LIMIT 1`
	return r.getLocation(ctx, "by state and county", query, likeEscaper.Replace(state), "%"+likeEscaper.Replace(county)+"%")
}

// CountyCode returns the ansi code of the first county in state containing county
func (r *LocationRepository) CountyCode(ctx context.Context, state, county string) (string, error) {
	var code string
	query := `SELECT countyansi FROM codes
		WHERE state LIKE ? ESCAPE '\' AND county LIKE ? ESCAPE '\'
		ORDER BY county LIMIT 1`
	err := r.db.GetContext(ctx, &code, query, likeEscaper.Replace(state), "%"+likeEscaper.Replace(county)+"%")
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("county code for %s/%s: %w", state, county, domain.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get county code: %w", err)
	}
	return strings.TrimSpace(code), nil
}

// SaveLocation inserts or replaces a location keyed by zip
func (r *LocationRepository) SaveLocation(ctx context.Context, loc domain.Location) error {
	row := locationSQL{
		Zip:       loc.Zip,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		City:      strings.ToLower(loc.City),
		State:     strings.ToLower(loc.StateAbbrev),
		County:    strings.ToLower(loc.County),
	}
	if row.Zip == "" {
		return errors.New("save location: empty zip")
	}

	return newRetrier().Do(ctx, func() error {
		query := `
			INSERT INTO locations (zip, latitude, longitude, city, state, county)
			VALUES (:zip, :latitude, :longitude, :city, :state, :county)
			ON CONFLICT(zip) DO UPDATE SET
				latitude = excluded.latitude,
				longitude = excluded.longitude,
				city = excluded.city,
				state = excluded.state,
				county = excluded.county
		`
		if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("save location: %w", err)}
		}
		return nil
	}, errCritical)
}

// SaveCountyCode inserts or replaces the ansi code of a county
func (r *LocationRepository) SaveCountyCode(ctx context.Context, state, county, code string) error {
	return newRetrier().Do(ctx, func() error {
		query := `
			INSERT INTO codes (state, county, countyansi) VALUES (?, ?, ?)
			ON CONFLICT(state, county) DO UPDATE SET countyansi = excluded.countyansi
		`
		if _, err := r.db.ExecContext(ctx, query, strings.ToLower(state), strings.ToLower(county), code); err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("save county code: %w", err)}
		}
		return nil
	}, errCritical)
}

// Count returns the number of known locations
func (r *LocationRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM locations"); err != nil {
		return 0, fmt.Errorf("count locations: %w", err)
	}
	return n, nil
}

func (r *LocationRepository) getLocation(ctx context.Context, op, query string, args ...any) (domain.Location, error) {
	var row locationSQL
	err := r.db.GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Location{}, fmt.Errorf("location %s %v: %w", op, args, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Location{}, fmt.Errorf("get location %s: %w", op, err)
	}
	return row.toDomain(), nil
}

func (l locationSQL) toDomain() domain.Location {
	return domain.Location{
		Latitude:    l.Latitude,
		Longitude:   l.Longitude,
		Zip:         l.Zip,
		City:        l.City,
		StateAbbrev: l.State,
		County:      l.County,
	}
}
