package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocation_FallsBackToDefault(t *testing.T) {
	assert.Equal(t, DefaultTimezone, Location("").String())
	assert.Equal(t, DefaultTimezone, Location("Mars/Olympus").String())
	assert.Equal(t, "Europe/Lisbon", Location("Europe/Lisbon").String())
}

func TestDateKey_UsesLocalComponents(t *testing.T) {
	loc := Location("America/Los_Angeles")

	// 23:30 local on Jan 5 is already Jan 6 in UTC.
	late := time.Date(2026, 1, 5, 23, 30, 0, 0, loc)
	assert.Equal(t, "2026-01-05", DateKey(late))
	assert.Equal(t, "2026-01-06", DateKey(late.UTC()))
}

func TestParseDate(t *testing.T) {
	loc := Location("America/Los_Angeles")

	d, err := ParseDate("2026-03-09", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, loc), d)

	_, err = ParseDate("2026-13-01", loc)
	assert.Error(t, err)
	_, err = ParseDate("09/03/2026", loc)
	assert.Error(t, err)
}

func TestNextBusinessDay(t *testing.T) {
	loc := Location("America/Los_Angeles")

	cases := []struct {
		name string
		from time.Time
		want string
	}{
		{"thursday to friday", time.Date(2026, 1, 8, 15, 0, 0, 0, loc), "2026-01-09"},
		{"friday to monday", time.Date(2026, 1, 9, 8, 0, 0, 0, loc), "2026-01-12"},
		{"saturday to monday", time.Date(2026, 1, 10, 8, 0, 0, 0, loc), "2026-01-12"},
		{"sunday to monday", time.Date(2026, 1, 11, 23, 0, 0, 0, loc), "2026-01-12"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NextBusinessDay(tc.from, loc)
			assert.Equal(t, tc.want, DateKey(got))
			assert.Equal(t, 0, got.Hour())
		})
	}
}

func TestFormatClock(t *testing.T) {
	loc := Location("America/Los_Angeles")
	assert.Equal(t, "9:30 AM", FormatClock(time.Date(2026, 1, 5, 9, 30, 0, 0, loc), loc))
	assert.Equal(t, "4:00 PM", FormatClock(time.Date(2026, 1, 5, 16, 0, 0, 0, loc), loc))
}
