package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/weekwise/internal/schedule"
)

// LoadLocation loads an IANA timezone. "" and "Local" mean the system zone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// CurrentSlot maps now onto the planned week. inSchedule is false when the
// current hour is not a planned hour of today.
func CurrentSlot(now time.Time) (day time.Weekday, hour int, inSchedule bool) {
	day, hour = now.Weekday(), now.Hour()
	return day, hour, schedule.IsValidSlot(day, hour)
}

// NextSlot returns the first planned hour starting strictly after now's hour,
// wrapping into the following week.
func NextSlot(now time.Time) (time.Weekday, int, time.Time) {
	t := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, now.Location())
	for i := 1; i <= 7*24; i++ {
		c := t.Add(time.Duration(i) * time.Hour)
		if schedule.IsValidSlot(c.Weekday(), c.Hour()) {
			return c.Weekday(), c.Hour(), c
		}
	}
	return now.Weekday(), now.Hour(), now
}

// WeekStart returns midnight of the Monday that begins now's week.
func WeekStart(now time.Time) time.Time {
	offset := (int(now.Weekday()) + 6) % 7
	y, m, d := now.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, now.Location())
}

// DateOf returns the date of day within the week that starts at weekStart.
func DateOf(weekStart time.Time, day time.Weekday) time.Time {
	offset := (int(day) + 6) % 7
	y, m, d := weekStart.Date()
	return time.Date(y, m, d+offset, 0, 0, 0, 0, weekStart.Location())
}
