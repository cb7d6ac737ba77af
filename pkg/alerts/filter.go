package alerts

import "github.com/umputun/nwsalerts/pkg/domain"

// FilterConfig holds the allow-lists an entry must pass, all three must match exactly
type FilterConfig struct {
	EventTypes  []string
	MsgTypes    []string
	StatusTypes []string
}

// default allow-lists
var (
	DefaultEventTypes = []string{
		"Tornado Warning",
		"Severe Thunderstorm Warning",
		"Flash Flood Warning",
		"Flood Warning",
		"Blizzard Warning",
		"Winter Storm Warning",
		"Freeze Warning",
		"Dust Storm Warning",
		"High Wind Warning",
	}
	DefaultMsgTypes    = []string{"Alert", "Update"}
	DefaultStatusTypes = []string{"Actual"}
)

// DefaultFilterConfig returns the stock allow-lists
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		EventTypes:  append([]string(nil), DefaultEventTypes...),
		MsgTypes:    append([]string(nil), DefaultMsgTypes...),
		StatusTypes: append([]string(nil), DefaultStatusTypes...),
	}
}

// Filter keeps entries whose event, message type and status are all allowed.
// Order of the kept entries is unchanged, the input slice is not modified.
func Filter(entries []domain.AlertEntry, cfg FilterConfig) []domain.AlertEntry {
	events, msgTypes, statuses := toSet(cfg.EventTypes), toSet(cfg.MsgTypes), toSet(cfg.StatusTypes)
	res := make([]domain.AlertEntry, 0, len(entries))
	for _, e := range entries {
		if events[e.Event] && msgTypes[e.MsgType] && statuses[e.Status] {
			res = append(res, e)
		}
	}
	return res
}

func toSet(vals []string) map[string]bool {
	res := make(map[string]bool, len(vals))
	for _, v := range vals {
		res[v] = true
	}
	return res
}
