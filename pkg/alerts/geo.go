package alerts

import (
	"math"
	"strconv"
	"strings"

	"github.com/umputun/nwsalerts/pkg/domain"
)

// Point is a single polygon vertex
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ParsePolygon splits a CAP polygon ("lat,lon lat,lon ...") into points.
// Tokens that are not a pair of finite numbers are skipped.
func ParsePolygon(polygon string) []Point {
	fields := strings.Fields(polygon)
	res := make([]Point, 0, len(fields))
	for _, tok := range fields {
		latStr, lonStr, ok := strings.Cut(tok, ",")
		if !ok {
			continue
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
		if err != nil {
			continue
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
		if err != nil {
			continue
		}
		if !finite(lat) || !finite(lon) {
			continue
		}
		res = append(res, Point{Lat: lat, Lon: lon})
	}
	return res
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Centroid returns the mean of all polygon vertices of all entries.
// This is a flat vertex mean, not an area weighted centroid.
// ok is false when no entry has a usable vertex.
func Centroid(entries []domain.AlertEntry) (lat, lon float64, ok bool) {
	var sumLat, sumLon float64
	var n int
	for _, e := range entries {
		if e.Polygon == "" {
			continue
		}
		for _, p := range ParsePolygon(e.Polygon) {
			sumLat += p.Lat
			sumLon += p.Lon
			n++
		}
	}
	if n == 0 {
		return 0, 0, false
	}
	return sumLat / float64(n), sumLon / float64(n), true
}
