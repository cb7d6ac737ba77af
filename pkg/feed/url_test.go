package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/umputun/nwsalerts/pkg/domain"
)

func TestURL(t *testing.T) {
	loc := domain.Location{StateAbbrev: "ok", CountyCode: "027"}

	tests := []struct {
		name  string
		scope domain.Scope
		loc   domain.Location
		want  string
	}{
		{name: "national", scope: domain.ScopeNational, loc: loc, want: "https://alerts.weather.gov/cap/us.php?x=0"},
		{name: "national without location", scope: domain.ScopeNational, want: "https://alerts.weather.gov/cap/us.php?x=0"},
		{name: "state", scope: domain.ScopeState, loc: loc, want: "https://alerts.weather.gov/cap/ok.php?x=0"},
		{name: "county", scope: domain.ScopeCounty, loc: loc, want: "https://alerts.weather.gov/cap/wwaatmget.php?x=OKC027&y=0"},
		{name: "unknown scope is county", scope: "city", loc: loc, want: "https://alerts.weather.gov/cap/wwaatmget.php?x=OKC027&y=0"},
		{name: "unresolved county code", scope: domain.ScopeCounty, loc: domain.Location{StateAbbrev: "tx", CountyCode: "000"},
			want: "https://alerts.weather.gov/cap/wwaatmget.php?x=TXC000&y=0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, URL(tc.scope, tc.loc))
		})
	}
}
