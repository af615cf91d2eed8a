// Package schedule defines which hours of the week are planned and how
// they are named and keyed.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/weekwise/internal/constants"
)

// Week lists the planner days in display order (Monday first).
var Week = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

// IsKnownDay reports whether day is one of the seven weekdays.
func IsKnownDay(day time.Weekday) bool {
	return day >= time.Sunday && day <= time.Saturday
}

// IsWeekendDay reports whether day is Saturday or Sunday.
func IsWeekendDay(day time.Weekday) bool {
	return day == time.Saturday || day == time.Sunday
}

// ValidHours returns the planned hours of day in ascending order.
// Weekdays cover 20..23 and weekends 8..23. Unknown days have no hours.
func ValidHours(day time.Weekday) []int {
	if !IsKnownDay(day) {
		return nil
	}
	start := constants.WeekdayStartHour
	if IsWeekendDay(day) {
		start = constants.WeekendStartHour
	}
	hours := make([]int, 0, constants.DayEndHour-start)
	for h := start; h < constants.DayEndHour; h++ {
		hours = append(hours, h)
	}
	return hours
}

// IsValidSlot reports whether hour is planned on day.
func IsValidSlot(day time.Weekday, hour int) bool {
	if !IsKnownDay(day) {
		return false
	}
	start := constants.WeekdayStartHour
	if IsWeekendDay(day) {
		start = constants.WeekendStartHour
	}
	return hour >= start && hour < constants.DayEndHour
}

// TotalScheduledHours returns the number of planned hours across the week.
func TotalScheduledHours() int {
	total := 0
	for _, day := range Week {
		total += len(ValidHours(day))
	}
	return total
}

// FormatHourLabel renders an hour of the day on a 12-hour clock, e.g. "8:00 PM".
func FormatHourLabel(hour int) string {
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:00 %s", h, suffix)
}

// shortHourLabel renders an hour without minutes, e.g. "8 PM".
func shortHourLabel(hour int) string {
	suffix := "AM"
	if hour%24 >= 12 {
		suffix = "PM"
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d %s", h, suffix)
}

// RangeLabel describes the planned span of day, from the first hour to midnight.
func RangeLabel(day time.Weekday) string {
	hours := ValidHours(day)
	if len(hours) == 0 {
		return ""
	}
	return shortHourLabel(hours[0]) + " — " + shortHourLabel(constants.DayEndHour)
}

// ShortName returns the three-letter day abbreviation used by charts.
func ShortName(day time.Weekday) string {
	return day.String()[:3]
}

// SlotID returns the persistence key for (day, hour), e.g. "Monday__20".
func SlotID(day time.Weekday, hour int) string {
	return day.String() + constants.SlotIDSeparator + strconv.Itoa(hour)
}

// ParseSlotID reverses SlotID. ok is false for malformed ids and for
// pairs outside the planned week.
func ParseSlotID(id string) (day time.Weekday, hour int, ok bool) {
	name, hourStr, found := strings.Cut(id, constants.SlotIDSeparator)
	if !found {
		return 0, 0, false
	}
	day, err := dayFromName(name)
	if err != nil {
		return 0, 0, false
	}
	hour, err = strconv.Atoi(hourStr)
	if err != nil || strconv.Itoa(hour) != hourStr {
		return 0, 0, false
	}
	if !IsValidSlot(day, hour) {
		return 0, 0, false
	}
	return day, hour, true
}

func dayFromName(name string) (time.Weekday, error) {
	for _, day := range Week {
		if day.String() == name {
			return day, nil
		}
	}
	return 0, fmt.Errorf("unknown day: %s", name)
}

var dayAliases = map[string]time.Weekday{
	"sun":       time.Sunday,
	"sunday":    time.Sunday,
	"mon":       time.Monday,
	"monday":    time.Monday,
	"tue":       time.Tuesday,
	"tues":      time.Tuesday,
	"tuesday":   time.Tuesday,
	"wed":       time.Wednesday,
	"wednesday": time.Wednesday,
	"thu":       time.Thursday,
	"thur":      time.Thursday,
	"thurs":     time.Thursday,
	"thursday":  time.Thursday,
	"fri":       time.Friday,
	"friday":    time.Friday,
	"sat":       time.Saturday,
	"saturday":  time.Saturday,
}

// ParseDay parses a day name, abbreviation, or number (0=Sunday, 6=Saturday).
func ParseDay(s string) (time.Weekday, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if day, ok := dayAliases[s]; ok {
		return day, nil
	}
	num, err := strconv.Atoi(s)
	if err == nil && num >= 0 && num <= 6 {
		return time.Weekday(num), nil
	}
	return 0, fmt.Errorf("invalid day: %s", s)
}

// ParseHour parses an hour given as 24-hour ("20"), "20:00", or 12-hour
// ("8pm", "8 PM", "8:00 PM") notation.
func ParseHour(s string) (int, error) {
	raw := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	suffix := ""
	if strings.HasSuffix(raw, "am") || strings.HasSuffix(raw, "pm") {
		suffix = raw[len(raw)-2:]
		raw = raw[:len(raw)-2]
	}
	raw = strings.TrimSuffix(raw, ":00")

	h, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid hour: %s", s)
	}

	switch suffix {
	case "":
		if h < 0 || h > 23 {
			return 0, fmt.Errorf("hour out of range: %d", h)
		}
	default:
		if h < 1 || h > 12 {
			return 0, fmt.Errorf("hour out of range: %s", s)
		}
		h %= 12
		if suffix == "pm" {
			h += 12
		}
	}
	return h, nil
}
