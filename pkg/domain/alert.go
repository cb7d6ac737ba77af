package domain

import "time"

// RawEntry is a single feed entry as parsed, before filtering.
// String fields are empty and time fields nil when the feed omits them.
type RawEntry struct {
	ID        string     `json:"id,omitempty"`
	Updated   *time.Time `json:"updated,omitempty"`
	Published *time.Time `json:"published,omitempty"`
	Title     string     `json:"title,omitempty"`
	Link      string     `json:"link,omitempty"`
	Summary   string     `json:"summary,omitempty"`

	Event     string     `json:"cap_event,omitempty"`
	Effective *time.Time `json:"cap_effective,omitempty"`
	Expires   *time.Time `json:"cap_expires,omitempty"`
	Status    string     `json:"cap_status,omitempty"`
	MsgType   string     `json:"cap_msg_type,omitempty"`
	Category  string     `json:"cap_category,omitempty"`
	Urgency   string     `json:"cap_urgency,omitempty"`
	Severity  string     `json:"cap_severity,omitempty"`
	Certainty string     `json:"cap_certainty,omitempty"`
	AreaDesc  string     `json:"cap_area_desc,omitempty"`
	Polygon   string     `json:"cap_polygon,omitempty"`
}

// AlertEntry is a RawEntry accepted into an AlertSet.
// Seq is the 1-based position of the entry in the original feed.
type AlertEntry struct {
	RawEntry
	Seq int `json:"seq"`
}

// Feed is a parsed CAP-over-Atom document
type Feed struct {
	ID        string
	Generator string
	Updated   *time.Time
	Title     string
	Link      string
	Entries   []RawEntry
}
