package bracket

import (
	"time"
	_ "time/tzdata"
)

// Day is a calendar date with no zone attached. It is read in whatever timezone the
// bracket using it is scheduled in.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDay reads a YYYY-MM-DD date.
func ParseDay(value string) (Day, error) {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return Day{}, err
	}
	return Day{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// In returns midnight of d in loc.
func (d Day) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// KickoffAt returns hour:00 local time in loc on the calendar day that lies
// roundIndex*spacingDays days after start's local date. Days are counted on the local
// calendar, so a daylight saving change in between never moves the kickoff to another day.
//
// An hour skipped by a forward clock change does not exist on that day. It resolves to the
// instant the gap ends, so 02:00 on a night that jumps from 02:00 to 03:00 becomes 03:00.
func KickoffAt(start time.Time, loc *time.Location, hour, roundIndex, spacingDays int) time.Time {
	year, month, day := start.In(loc).Date()
	day += roundIndex * spacingDays

	kickoff := time.Date(year, month, day, hour, 0, 0, 0, loc)
	if kickoff.Hour() == hour {
		return kickoff
	}

	// Read the wall clock with the offset in force before the gap
	wall := time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
	_, before := wall.Add(-48 * time.Hour).In(loc).Zone()
	return wall.Add(-time.Duration(before) * time.Second).In(loc)
}

// ResolveLegHours picks the kickoff hour of every leg of a tie. Explicit hours win when
// present and non-negative; otherwise leg 1 uses kickoffHour and each later leg kicks off
// six hours after the previous one, never later than 23:00. Surplus explicit hours are ignored.
func ResolveLegHours(kickoffHour, legsPerTie int, explicit []int) []int {
	hours := make([]int, 0, legsPerTie)
	for leg := 0; leg < legsPerTie; leg++ {
		switch {
		case leg < len(explicit) && explicit[leg] >= 0:
			hours = append(hours, explicit[leg])
		case leg == 0:
			hours = append(hours, kickoffHour)
		default:
			hours = append(hours, min(hours[leg-1]+6, 23))
		}
	}
	return hours
}

func validHour(hour int) bool {
	return hour >= 0 && hour <= 23
}
