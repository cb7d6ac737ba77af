package alerts

import "github.com/umputun/nwsalerts/pkg/domain"

// Heading is the display header of an alert set
type Heading struct {
	Location string `json:"location"`
	Scope    string `json:"scope"`
	Alert    string `json:"alert,omitempty"`
}

// MakeHeading builds the heading for set. Non-empty locationTitle replaces the
// location derived from the scope.
func MakeHeading(set *domain.AlertSet, locationTitle string) Heading {
	res := Heading{Scope: "Local Weather Alerts"}

	switch {
	case len(set.Entries) > 0:
		res.Alert = set.Entries[0].Event
	case set.Err != nil:
		res.Alert = set.ErrorMessage()
	}

	switch {
	case locationTitle != "":
		res.Location = locationTitle
	case set.Scope == domain.ScopeNational:
		res.Location, res.Scope = "United States", "National Weather Alerts"
	case set.Scope == domain.ScopeState:
		res.Location, res.Scope = set.Location.State, "State Weather Alerts"
	default:
		res.Location = set.Location.City + ", " + set.Location.State
	}
	return res
}
