package domain

import "fmt"

// Scope is the geographic breadth of the requested alerts
type Scope string

// enum of supported scopes
const (
	ScopeCounty   Scope = "county"
	ScopeState    Scope = "state"
	ScopeNational Scope = "national"
)

// ParseScope converts a user supplied scope, empty string means county
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case "", ScopeCounty:
		return ScopeCounty, nil
	case ScopeState:
		return ScopeState, nil
	case ScopeNational:
		return ScopeNational, nil
	}
	return "", fmt.Errorf("unknown scope %q", s)
}

// Location is a resolved directory record used to build the feed URL.
// StateAbbrev keeps the raw two-letter form, State is the full title-cased name.
type Location struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Zip         string  `json:"zip,omitempty"`
	City        string  `json:"city,omitempty"`
	State       string  `json:"state,omitempty"`
	StateAbbrev string  `json:"state_abbrev,omitempty"`
	County      string  `json:"county,omitempty"`
	CountyCode  string  `json:"county_code,omitempty"`
}

// IsZero reports whether the location was never resolved
func (l Location) IsZero() bool {
	return l == Location{}
}
