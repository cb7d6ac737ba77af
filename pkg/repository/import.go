package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/nwsalerts/pkg/domain"
)

// ImportLocations reads a csv with zip, latitude, longitude, city, state and county columns
// and upserts every row. Rows without a zip or with bad coordinates are skipped.
func (r *LocationRepository) ImportLocations(ctx context.Context, src io.Reader) (int, error) {
	rows, err := readCSV(src, "zip", "latitude", "longitude", "city", "state", "county")
	if err != nil {
		return 0, fmt.Errorf("import locations: %w", err)
	}

	count := 0
	for i, row := range rows {
		lat, latErr := strconv.ParseFloat(row["latitude"], 64)
		lon, lonErr := strconv.ParseFloat(row["longitude"], 64)
		if row["zip"] == "" || latErr != nil || lonErr != nil {
			lgr.Printf("[WARN] skip location row %d, zip %q", i+2, row["zip"])
			continue
		}
		loc := domain.Location{Zip: row["zip"], Latitude: lat, Longitude: lon,
			City: row["city"], StateAbbrev: row["state"], County: row["county"]}
		if err := r.SaveLocation(ctx, loc); err != nil {
			return count, fmt.Errorf("import locations, row %d: %w", i+2, err)
		}
		count++
	}
	return count, nil
}

// ImportCountyCodes reads a csv with state, county and countyansi columns and upserts every row
func (r *LocationRepository) ImportCountyCodes(ctx context.Context, src io.Reader) (int, error) {
	rows, err := readCSV(src, "state", "county", "countyansi")
	if err != nil {
		return 0, fmt.Errorf("import county codes: %w", err)
	}

	count := 0
	for i, row := range rows {
		if row["state"] == "" || row["county"] == "" || row["countyansi"] == "" {
			lgr.Printf("[WARN] skip county code row %d", i+2)
			continue
		}
		if err := r.SaveCountyCode(ctx, row["state"], row["county"], row["countyansi"]); err != nil {
			return count, fmt.Errorf("import county codes, row %d: %w", i+2, err)
		}
		count++
	}
	return count, nil
}

// readCSV returns data rows as column->value maps, the header must name every required column
func readCSV(src io.Reader, required ...string) ([]map[string]string, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty csv")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	colIdx := map[string]int{}
	for i, h := range header {
		colIdx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range required {
		if _, ok := colIdx[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var res []map[string]string
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		row := make(map[string]string, len(required))
		for _, col := range required {
			if i := colIdx[col]; i < len(rec) {
				row[col] = strings.TrimSpace(rec[i])
			}
		}
		res = append(res, row)
	}
	return res, nil
}
