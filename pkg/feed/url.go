package feed

import (
	"fmt"
	"strings"

	"github.com/umputun/nwsalerts/pkg/domain"
)

// feed locations on the NWS CAP server
const (
	NationalURL  = "https://alerts.weather.gov/cap/us.php?x=0"
	stateURLFmt  = "https://alerts.weather.gov/cap/%s.php?x=0"
	countyURLFmt = "https://alerts.weather.gov/cap/wwaatmget.php?x=%sC%s&y=0"
)

// URL returns the alert feed address for scope and resolved location.
// Any scope other than national and state is treated as county.
func URL(scope domain.Scope, loc domain.Location) string {
	switch scope {
	case domain.ScopeNational:
		return NationalURL
	case domain.ScopeState:
		return fmt.Sprintf(stateURLFmt, loc.StateAbbrev)
	default:
		return fmt.Sprintf(countyURLFmt, strings.ToUpper(loc.StateAbbrev), loc.CountyCode)
	}
}
