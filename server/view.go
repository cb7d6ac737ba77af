package server

import (
	"html"
	"strings"
	"time"

	"github.com/umputun/nwsalerts/pkg/alerts"
	"github.com/umputun/nwsalerts/pkg/domain"
)

// alertSetView is the json body of the alerts endpoint
type alertSetView struct {
	Heading      alerts.Heading   `json:"heading"`
	Location     domain.Location  `json:"location"`
	Scope        domain.Scope     `json:"scope"`
	Limit        int              `json:"limit"`
	FeedURL      string           `json:"feed_url,omitempty"`
	Latitude     float64          `json:"latitude"`
	Longitude    float64          `json:"longitude"`
	RefreshRate  int              `json:"refresh_rate"`
	Error        domain.ErrorKind `json:"error,omitempty"`
	ErrorMessage string           `json:"error_message,omitempty"`
	Feed         *feedView        `json:"feed,omitempty"`
	Entries      []alertView      `json:"entries"`
	Settings     settingsView     `json:"settings"`
}

// feedView is the header of the source feed
type feedView struct {
	ID        string     `json:"id,omitempty"`
	Generator string     `json:"generator,omitempty"`
	Updated   *time.Time `json:"updated,omitempty"`
	Title     string     `json:"title,omitempty"`
	Link      string     `json:"link,omitempty"`
}

// alertView is a single ranked alert
type alertView struct {
	domain.AlertEntry
	SummaryHTML string `json:"summary_html,omitempty"`
	Text        string `json:"text,omitempty"`
}

// settingsView lets a client re-poll with the same parameters at the chosen rate
type settingsView struct {
	Zip           string       `json:"zip,omitempty"`
	Scope         domain.Scope `json:"scope"`
	Limit         int          `json:"limit"`
	RefreshRate   int          `json:"refresh_rate"`
	LocationTitle string       `json:"location_title"`
}

// mapView is the json body of the map endpoint
type mapView struct {
	Latitude     float64          `json:"latitude"`
	Longitude    float64          `json:"longitude"`
	RefreshRate  int              `json:"refresh_rate"`
	Error        domain.ErrorKind `json:"error,omitempty"`
	ErrorMessage string           `json:"error_message,omitempty"`
	Polygons     []polygonView    `json:"polygons"`
}

type polygonView struct {
	Seq      int            `json:"seq"`
	Event    string         `json:"event"`
	Severity string         `json:"severity,omitempty"`
	Points   []alerts.Point `json:"points"`
}

func (s *Server) makeAlertSetView(set *domain.AlertSet, req alerts.Request, locationTitle string) alertSetView {
	heading := alerts.MakeHeading(set, locationTitle)
	res := alertSetView{
		Heading:      heading,
		Location:     set.Location,
		Scope:        set.Scope,
		Limit:        set.Limit,
		FeedURL:      set.FeedURL,
		Latitude:     set.Latitude,
		Longitude:    set.Longitude,
		RefreshRate:  set.RefreshRate,
		Error:        set.ErrorKind(),
		ErrorMessage: set.ErrorMessage(),
		Entries:      make([]alertView, 0, len(set.Entries)),
		Settings: settingsView{
			Zip:           req.Zip,
			Scope:         set.Scope,
			Limit:         set.Limit,
			RefreshRate:   set.RefreshRate,
			LocationTitle: heading.Location,
		},
	}

	if set.FeedID != "" || set.FeedTitle != "" {
		res.Feed = &feedView{ID: set.FeedID, Generator: set.FeedGenerator, Updated: set.FeedUpdated,
			Title: set.FeedTitle, Link: set.FeedLink}
	}

	for _, e := range set.Entries {
		res.Entries = append(res.Entries, alertView{
			AlertEntry:  e,
			SummaryHTML: s.summaryHTML(e.Summary),
			Text:        s.summaryText(e.Summary),
		})
	}
	return res
}

// summaryHTML sanitizes the summary and keeps its line breaks
func (s *Server) summaryHTML(summary string) string {
	clean := s.htmlPolicy.Sanitize(strings.TrimSpace(summary))
	return strings.ReplaceAll(clean, "\n", "<br>\n")
}

// summaryText strips any markup from the summary
func (s *Server) summaryText(summary string) string {
	return strings.Join(strings.Fields(html.UnescapeString(s.textPolicy.Sanitize(summary))), " ")
}

func makeMapView(set *domain.AlertSet) mapView {
	res := mapView{
		Latitude:     set.Latitude,
		Longitude:    set.Longitude,
		RefreshRate:  set.RefreshRate,
		Error:        set.ErrorKind(),
		ErrorMessage: set.ErrorMessage(),
		Polygons:     []polygonView{},
	}
	for _, e := range set.Entries {
		points := alerts.ParsePolygon(e.Polygon)
		if len(points) == 0 {
			continue
		}
		res.Polygons = append(res.Polygons, polygonView{Seq: e.Seq, Event: e.Event, Severity: e.Severity, Points: points})
	}
	return res
}
