package feed

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/nwsalerts/pkg/domain"
)

func TestParse(t *testing.T) {
	body, err := os.ReadFile("testdata/county.xml")
	require.NoError(t, err)

	f, err := Parse(body)
	require.NoError(t, err)

	assert.Equal(t, "https://alerts.weather.gov/cap/wwaatmget.php?x=OKC027&y=0", f.ID)
	assert.Equal(t, "NWS CAP Server", f.Generator)
	assert.Equal(t, "https://alerts.weather.gov/cap/wwaatmget.php?x=OKC027&y=0", f.Link)
	assert.Contains(t, f.Title, "Cleveland (OKC027)")
	require.NotNil(t, f.Updated)
	assert.True(t, f.Updated.Equal(time.Date(2024, 5, 6, 20, 19, 0, 0, time.UTC)))

	require.Len(t, f.Entries, 2)

	first := f.Entries[0]
	assert.Equal(t, "https://alerts.weather.gov/cap/wwacapget.php?x=OK1001", first.ID)
	assert.Equal(t, "https://alerts.weather.gov/cap/wwacapget.php?x=OK1001", first.Link)
	assert.Equal(t, "Tornado Watch", first.Event)
	assert.Equal(t, "Actual", first.Status)
	assert.Equal(t, "Alert", first.MsgType)
	assert.Equal(t, "Met", first.Category)
	assert.Equal(t, "Expected", first.Urgency)
	assert.Equal(t, "Extreme", first.Severity)
	assert.Equal(t, "Possible", first.Certainty)
	assert.Equal(t, "Cleveland; McClain; Oklahoma", first.AreaDesc)
	assert.Empty(t, first.Polygon)
	assert.Contains(t, first.Summary, "TORNADO WATCH 200")
	require.NotNil(t, first.Effective)
	require.NotNil(t, first.Expires)
	assert.True(t, first.Expires.Equal(time.Date(2024, 5, 7, 4, 0, 0, 0, time.UTC)))
	require.NotNil(t, first.Published)
	require.NotNil(t, first.Updated)

	second := f.Entries[1]
	assert.Equal(t, "Tornado Warning", second.Event)
	assert.Equal(t, "Immediate", second.Urgency)
	assert.Equal(t, "Observed", second.Certainty)
	assert.Equal(t, "35.10,-97.50 35.30,-97.30 35.20,-97.10 35.10,-97.50", second.Polygon)
	assert.NotNil(t, second.Effective)
	assert.Nil(t, second.Expires, "invalid date degrades to nil")
}

func TestParse_AlternatePrefix(t *testing.T) {
	body, err := os.ReadFile("testdata/alt_prefix.xml")
	require.NoError(t, err)

	f, err := Parse(body)
	require.NoError(t, err)
	require.Len(t, f.Entries, 1)

	e := f.Entries[0]
	assert.Equal(t, "Flood Warning", e.Event)
	assert.Equal(t, "Update", e.MsgType)
	assert.Equal(t, "Moderate", e.Severity)
	assert.Equal(t, "Grady", e.AreaDesc)
	assert.Empty(t, e.Category, "missing optional field is empty")
	assert.Nil(t, e.Effective)
	assert.Nil(t, e.Expires)
}

func TestParse_NoEntries(t *testing.T) {
	body, err := os.ReadFile("testdata/empty.xml")
	require.NoError(t, err)

	f, err := Parse(body)
	require.NoError(t, err)
	assert.Empty(t, f.Entries)
	assert.Equal(t, "https://alerts.weather.gov/cap/us.php?x=0", f.ID)
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ""},
		{name: "plain text", body: "service unavailable"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrMalformedFeed)
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want *time.Time
	}{
		{in: "2024-05-06T15:19:00-05:00", want: ptrTime(time.Date(2024, 5, 6, 20, 19, 0, 0, time.UTC))},
		{in: " 2024-05-06T23:00:00+00:00 ", want: ptrTime(time.Date(2024, 5, 6, 23, 0, 0, 0, time.UTC))},
		{in: "", want: nil},
		{in: "not a date", want: nil},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got := parseDate(tc.in)
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tc.want.Equal(*got), "got %v", got)
		})
	}
}

func ptrTime(t time.Time) *time.Time { return &t }
