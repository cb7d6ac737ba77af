package alerts

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/umputun/nwsalerts/pkg/domain"
)

func TestMakeHeading(t *testing.T) {
	loc := domain.Location{City: "Norman", State: "Oklahoma", StateAbbrev: "ok"}
	warning := []domain.AlertEntry{{RawEntry: domain.RawEntry{Event: "Tornado Warning"}}}

	tests := []struct {
		name  string
		set   *domain.AlertSet
		title string
		want  Heading
	}{
		{name: "county", set: &domain.AlertSet{Scope: domain.ScopeCounty, Location: loc, Entries: warning},
			want: Heading{Location: "Norman, Oklahoma", Scope: "Local Weather Alerts", Alert: "Tornado Warning"}},
		{name: "state without alerts", set: &domain.AlertSet{Scope: domain.ScopeState, Location: loc},
			want: Heading{Location: "Oklahoma", Scope: "State Weather Alerts"}},
		{name: "national", set: &domain.AlertSet{Scope: domain.ScopeNational, Entries: warning},
			want: Heading{Location: "United States", Scope: "National Weather Alerts", Alert: "Tornado Warning"}},
		{name: "title override", set: &domain.AlertSet{Scope: domain.ScopeNational}, title: "Home",
			want: Heading{Location: "Home", Scope: "Local Weather Alerts"}},
		{name: "error", set: &domain.AlertSet{Scope: domain.ScopeCounty, Location: loc, Err: domain.ErrNoFeedData},
			want: Heading{Location: "Norman, Oklahoma", Scope: "Local Weather Alerts", Alert: "Weather alerts are currently unavailable"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MakeHeading(tc.set, tc.title))
		})
	}
}
