package alerts

import "github.com/umputun/nwsalerts/pkg/domain"

// CAP attribute orderings, most important first
var (
	UrgencyOrder   = []string{"Immediate", "Expected", "Future", "Past", "Unknown"}
	SeverityOrder  = []string{"Extreme", "Severe", "Moderate", "Minor", "Unknown"}
	CertaintyOrder = []string{"Observed", "Very Likely", "Likely", "Possible", "Unlikely", "Unknown"}
)

// DefaultEventPriority is the display order of event types, warnings before watches,
// statements and advisories
var DefaultEventPriority = []string{
	"Tornado Warning",
	"Severe Thunderstorm Warning",
	"Flash Flood Warning",
	"Flood Warning",
	"Blizzard Warning",
	"Winter Storm Warning",
	"Freeze Warning",
	"Dust Storm Warning",
	"High Wind Warning",
	"Tornado Watch",
	"Severe Thunderstorm Watch",
	"Flash Flood Watch",
	"Flood Watch",
	"Winter Storm Watch",
	"Avalanche Watch",
	"High Wind Watch",
	"Fire Weather Watch",
	"Severe Weather Statement",
	"Flash Flood Statement",
	"Flood Statement",
	"Frost Advisory",
	"Heat Advisory",
}

// elevatedEvents switch the client refresh to the elevated rate when ranked first
var elevatedEvents = map[string]bool{
	"Tornado Warning":             true,
	"Severe Thunderstorm Warning": true,
}

// RankConfig defines the ordering of every ranking level
type RankConfig struct {
	EventPriority []string
	Urgency       []string
	Severity      []string
	Certainty     []string
}

// RefreshConfig defines client refresh rates in minutes
type RefreshConfig struct {
	Default  int
	Elevated int
}

// DefaultRankConfig returns the stock orderings
func DefaultRankConfig() RankConfig {
	return RankConfig{
		EventPriority: append([]string(nil), DefaultEventPriority...),
		Urgency:       append([]string(nil), UrgencyOrder...),
		Severity:      append([]string(nil), SeverityOrder...),
		Certainty:     append([]string(nil), CertaintyOrder...),
	}
}

// DefaultRefreshConfig returns the stock refresh rates
func DefaultRefreshConfig() RefreshConfig {
	return RefreshConfig{Default: 15, Elevated: 3}
}

// level extracts the value of one ranking level from an entry
type level struct {
	order []string
	key   func(domain.AlertEntry) string
}

// Rank orders entries by event priority, then urgency, severity and certainty,
// keeping feed order for equal keys. Events missing from the priority list are dropped.
// Values unknown at a level go after the listed ones in first-seen order.
// Positive limit truncates the result.
func Rank(entries []domain.AlertEntry, cfg RankConfig, limit int) []domain.AlertEntry {
	levels := []level{
		{order: cfg.Urgency, key: func(e domain.AlertEntry) string { return e.Urgency }},
		{order: cfg.Severity, key: func(e domain.AlertEntry) string { return e.Severity }},
		{order: cfg.Certainty, key: func(e domain.AlertEntry) string { return e.Certainty }},
	}

	res := make([]domain.AlertEntry, 0, len(entries))
	seenEvent := make(map[string]bool, len(cfg.EventPriority))
	for _, event := range cfg.EventPriority {
		if seenEvent[event] {
			continue
		}
		seenEvent[event] = true

		var byEvent []domain.AlertEntry
		for _, e := range entries {
			if e.Event == event {
				byEvent = append(byEvent, e)
			}
		}
		if len(byEvent) == 0 {
			continue
		}
		res = append(res, cascade(byEvent, levels)...)
	}

	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res
}

// cascade buckets entries by the first level and sorts every bucket by the remaining levels
func cascade(entries []domain.AlertEntry, levels []level) []domain.AlertEntry {
	if len(levels) == 0 || len(entries) < 2 {
		return entries
	}
	res := make([]domain.AlertEntry, 0, len(entries))
	for _, bucket := range buckets(entries, levels[0]) {
		res = append(res, cascade(bucket, levels[1:])...)
	}
	return res
}

// buckets groups entries by the level value, listed values first in list order,
// then unlisted values in the order they first appear
func buckets(entries []domain.AlertEntry, lv level) [][]domain.AlertEntry {
	groups := make(map[string][]domain.AlertEntry)
	var firstSeen []string
	for _, e := range entries {
		k := lv.key(e)
		if _, ok := groups[k]; !ok {
			firstSeen = append(firstSeen, k)
		}
		groups[k] = append(groups[k], e)
	}

	res := make([][]domain.AlertEntry, 0, len(groups))
	listed := make(map[string]bool, len(lv.order))
	for _, k := range lv.order {
		if listed[k] {
			continue
		}
		listed[k] = true
		if g, ok := groups[k]; ok {
			res = append(res, g)
		}
	}
	for _, k := range firstSeen {
		if !listed[k] {
			res = append(res, groups[k])
		}
	}
	return res
}

// RefreshRate returns the elevated rate when the top ranked entry is a tornado or
// severe thunderstorm warning, the default rate otherwise
func RefreshRate(ranked []domain.AlertEntry, cfg RefreshConfig) int {
	if len(ranked) > 0 && elevatedEvents[ranked[0].Event] {
		return cfg.Elevated
	}
	return cfg.Default
}
