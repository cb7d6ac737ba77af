package location

import "strings"

// states maps USPS abbreviations to full names, covering every state and
// territory the NWS CAP server publishes a feed for
var states = map[string]string{
	"AL": "alabama", "AK": "alaska", "AS": "american samoa", "AZ": "arizona",
	"AR": "arkansas", "CA": "california", "CO": "colorado", "CT": "connecticut",
	"DE": "delaware", "DC": "district of columbia", "FL": "florida", "GA": "georgia",
	"GU": "guam", "HI": "hawaii", "ID": "idaho", "IL": "illinois",
	"IN": "indiana", "IA": "iowa", "KS": "kansas", "KY": "kentucky",
	"LA": "louisiana", "ME": "maine", "MD": "maryland", "MA": "massachusetts",
	"MI": "michigan", "MN": "minnesota", "MS": "mississippi", "MO": "missouri",
	"MT": "montana", "NE": "nebraska", "NV": "nevada", "NH": "new hampshire",
	"NJ": "new jersey", "NM": "new mexico", "NY": "new york", "NC": "north carolina",
	"ND": "north dakota", "MP": "northern mariana islands", "OH": "ohio", "OK": "oklahoma",
	"OR": "oregon", "PA": "pennsylvania", "PR": "puerto rico", "RI": "rhode island",
	"SC": "south carolina", "SD": "south dakota", "TN": "tennessee", "TX": "texas",
	"UT": "utah", "VT": "vermont", "VI": "virgin islands", "VA": "virginia",
	"WA": "washington", "WV": "west virginia", "WI": "wisconsin", "WY": "wyoming",
}

// abbrevs is the reverse of states, keyed by lower-cased full name
var abbrevs = func() map[string]string {
	res := make(map[string]string, len(states))
	for k, v := range states {
		res[v] = k
	}
	return res
}()

// StateAbbrev returns the two-letter abbreviation for a full state name.
// The lookup is case-insensitive; unknown names are returned unchanged.
func StateAbbrev(name string) string {
	if abbr, ok := abbrevs[strings.ToLower(strings.TrimSpace(name))]; ok {
		return abbr
	}
	return name
}

// StateName returns the lower-cased full name for a two-letter abbreviation.
// Unknown abbreviations are returned unchanged.
func StateName(abbrev string) string {
	if name, ok := states[strings.ToUpper(strings.TrimSpace(abbrev))]; ok {
		return name
	}
	return abbrev
}

// normalizeState converts a state given as a full name to its abbreviation,
// two-letter input is kept as is
func normalizeState(state string) string {
	if len(state) > 2 {
		return StateAbbrev(state)
	}
	return state
}
