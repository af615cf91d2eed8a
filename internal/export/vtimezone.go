package export

import (
	"fmt"
	"time"
)

// zoneTransition is one UTC offset change inside a calendar year.
type zoneTransition struct {
	at         time.Time
	fromOffset int
	toOffset   int
	toName     string
}

// transitionsIn scans the year day by day and narrows each offset change
// down to the second.
func transitionsIn(loc *time.Location, year int) []zoneTransition {
	var out []zoneTransition
	prev := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	_, prevOffset := prev.Zone()
	for d := 1; d <= 366; d++ {
		next := time.Date(year, time.January, 1+d, 0, 0, 0, 0, loc)
		if _, offset := next.Zone(); offset != prevOffset {
			at := firstWithOffset(prev, next, offset)
			name, _ := at.Zone()
			out = append(out, zoneTransition{at: at, fromOffset: prevOffset, toOffset: offset, toName: name})
			prevOffset = offset
		}
		prev = next
	}
	return out
}

// firstWithOffset returns the first instant in (lo, hi] whose offset is want.
func firstWithOffset(lo, hi time.Time, want int) time.Time {
	l, h := lo.Unix(), hi.Unix()
	for h-l > 1 {
		mid := l + (h-l)/2
		if _, offset := time.Unix(mid, 0).In(lo.Location()).Zone(); offset == want {
			h = mid
		} else {
			l = mid
		}
	}
	return time.Unix(h, 0).In(lo.Location())
}

// writeVTimezone emits a VTIMEZONE for loc whose yearly rules are derived
// from the transitions of the anchor year.
func writeVTimezone(iw *icsWriter, loc *time.Location, anchor time.Time) {
	iw.line("BEGIN:VTIMEZONE")
	iw.line("TZID:%s", loc.String())

	transitions := transitionsIn(loc, anchor.Year())
	if len(transitions) == 0 {
		name, offset := anchor.Zone()
		iw.line("BEGIN:STANDARD")
		iw.line("DTSTART:19700101T000000")
		iw.line("TZOFFSETFROM:%s", formatOffset(offset))
		iw.line("TZOFFSETTO:%s", formatOffset(offset))
		iw.line("TZNAME:%s", name)
		iw.line("END:STANDARD")
	}
	for _, tr := range transitions {
		kind := "STANDARD"
		if tr.toOffset > tr.fromOffset {
			kind = "DAYLIGHT"
		}
		// DTSTART is the wall time just before the change, in the old offset.
		wall := tr.at.UTC().Add(time.Duration(tr.fromOffset) * time.Second)
		iw.line("BEGIN:%s", kind)
		iw.line("DTSTART:%s", wall.Format(icsTimeFormat))
		iw.line("RRULE:FREQ=YEARLY;BYMONTH=%d;BYDAY=%s", int(wall.Month()), ordinalWeekday(wall))
		iw.line("TZOFFSETFROM:%s", formatOffset(tr.fromOffset))
		iw.line("TZOFFSETTO:%s", formatOffset(tr.toOffset))
		iw.line("TZNAME:%s", tr.toName)
		iw.line("END:%s", kind)
	}
	iw.line("END:VTIMEZONE")
}

// ordinalWeekday renders the date as an RRULE BYDAY like 2SU or -1SU. The
// last occurrence in a month is always written as -1.
func ordinalWeekday(t time.Time) string {
	lastDay := time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if t.Day()+7 > lastDay {
		return "-1" + byDay[t.Weekday()]
	}
	return fmt.Sprintf("%d%s", (t.Day()-1)/7+1, byDay[t.Weekday()])
}

func formatOffset(seconds int) string {
	sign := '+'
	if seconds < 0 {
		sign = '-'
		seconds = -seconds
	}
	return fmt.Sprintf("%c%02d%02d", sign, seconds/3600, seconds%3600/60)
}
