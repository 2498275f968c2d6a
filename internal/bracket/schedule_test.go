package bracket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoadLocation(t *testing.T, name string) *time.Location {
	t.Helper()

	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func assertInstant(t *testing.T, expected, actual time.Time) {
	t.Helper()
	assert.Truef(t, expected.Equal(actual), "expected %s, got %s", expected.UTC(), actual.UTC())
}

func TestKickoffAt(t *testing.T) {
	testCases := []struct {
		name        string
		timezone    string
		start       time.Time
		hour        int
		roundIndex  int
		spacingDays int
		expected    time.Time
	}{
		{
			name:        "First round on the start date",
			timezone:    "Europe/Istanbul",
			start:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			hour:        15,
			roundIndex:  0,
			spacingDays: 2,
			expected:    time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			name:        "Later rounds are spaced in days",
			timezone:    "Europe/Istanbul",
			start:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			hour:        15,
			roundIndex:  2,
			spacingDays: 2,
			expected:    time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC),
		},
		{
			name:        "Local date differs from the UTC date",
			timezone:    "Europe/Istanbul",
			start:       time.Date(2025, 1, 1, 22, 30, 0, 0, time.UTC),
			hour:        15,
			roundIndex:  0,
			spacingDays: 2,
			expected:    time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC),
		},
		{
			name:        "Spring forward keeps the local hour",
			timezone:    "Europe/London",
			start:       time.Date(2025, 3, 29, 12, 0, 0, 0, time.UTC),
			hour:        15,
			roundIndex:  1,
			spacingDays: 1,
			expected:    time.Date(2025, 3, 30, 14, 0, 0, 0, time.UTC),
		},
		{
			name:        "Fall back keeps the local hour",
			timezone:    "America/New_York",
			start:       time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC),
			hour:        15,
			roundIndex:  1,
			spacingDays: 1,
			expected:    time.Date(2025, 11, 2, 20, 0, 0, 0, time.UTC),
		},
		{
			name:        "Zero spacing keeps every round on the same day",
			timezone:    "UTC",
			start:       time.Date(2025, 5, 10, 8, 0, 0, 0, time.UTC),
			hour:        20,
			roundIndex:  3,
			spacingDays: 0,
			expected:    time.Date(2025, 5, 10, 20, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			loc := mustLoadLocation(t, tc.timezone)

			actual := KickoffAt(tc.start, loc, tc.hour, tc.roundIndex, tc.spacingDays)

			assertInstant(t, tc.expected, actual)
			assert.Equal(t, tc.hour, actual.In(loc).Hour())
			assert.Equal(t, 0, actual.In(loc).Minute())
		})
	}
}

func TestKickoffAtSkippedHour(t *testing.T) {
	testCases := []struct {
		name     string
		timezone string
		start    time.Time
		hour     int
		expected time.Time
	}{
		{
			// 02:00 EST jumps to 03:00 EDT
			name:     "West of UTC",
			timezone: "America/New_York",
			start:    time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC),
			hour:     2,
			expected: time.Date(2025, 3, 9, 7, 0, 0, 0, time.UTC),
		},
		{
			// 01:00 GMT jumps to 02:00 BST
			name:     "At UTC",
			timezone: "Europe/London",
			start:    time.Date(2025, 3, 30, 12, 0, 0, 0, time.UTC),
			hour:     1,
			expected: time.Date(2025, 3, 30, 1, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			loc := mustLoadLocation(t, tc.timezone)

			actual := KickoffAt(tc.start, loc, tc.hour, 0, 2)

			assertInstant(t, tc.expected, actual)
			assert.Equal(t, tc.hour+1, actual.In(loc).Hour())
			assert.Equal(t, tc.start.Day(), actual.In(loc).Day())
		})
	}
}

func TestParseDay(t *testing.T) {
	day, err := ParseDay("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, Day{Year: 2025, Month: time.March, Day: 10}, day)

	loc := mustLoadLocation(t, "America/New_York")
	assertInstant(t, time.Date(2025, 3, 10, 4, 0, 0, 0, time.UTC), day.In(loc))

	_, err = ParseDay("10/03/2025")
	assert.Error(t, err)
}

func TestResolveLegHours(t *testing.T) {
	testCases := []struct {
		name        string
		kickoffHour int
		legsPerTie  int
		explicit    []int
		expected    []int
	}{
		{name: "Single leg", kickoffHour: 15, legsPerTie: 1, expected: []int{15}},
		{name: "Later legs add six hours", kickoffHour: 11, legsPerTie: 2, expected: []int{11, 17}},
		{name: "Capped at 23", kickoffHour: 15, legsPerTie: 3, expected: []int{15, 21, 23}},
		{name: "Explicit hours win", kickoffHour: 10, legsPerTie: 2, explicit: []int{10, 20}, expected: []int{10, 20}},
		{name: "Surplus explicit hours ignored", kickoffHour: 10, legsPerTie: 2, explicit: []int{9, 20, 22}, expected: []int{9, 20}},
		{name: "Missing explicit hours derived", kickoffHour: 11, legsPerTie: 3, explicit: []int{-1, 14}, expected: []int{11, 14, 20}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ResolveLegHours(tc.kickoffHour, tc.legsPerTie, tc.explicit))
		})
	}
}
