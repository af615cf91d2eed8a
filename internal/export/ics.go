// Package export renders the planned week as iCalendar or JSON and reads
// JSON exports back.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/julianstephens/weekwise/internal/constants"
	"github.com/julianstephens/weekwise/internal/schedule"
	"github.com/julianstephens/weekwise/internal/scoring"
	"github.com/julianstephens/weekwise/internal/utils"
)

const (
	icsTimeFormat = "20060102T150405"
	// icsLineOctets is the longest content line before folding, CRLF excluded.
	icsLineOctets = 75
)

// uidNamespace seeds the per-slot event UIDs so they stay stable across
// exports and calendar clients update events in place.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://weekwise.app/slots"))

var byDay = map[time.Weekday]string{
	time.Monday:    "MO",
	time.Tuesday:   "TU",
	time.Wednesday: "WE",
	time.Thursday:  "TH",
	time.Friday:    "FR",
	time.Saturday:  "SA",
	time.Sunday:    "SU",
}

// ICSOptions controls calendar generation.
type ICSOptions struct {
	// Name becomes X-WR-CALNAME. Defaults to "weekwise".
	Name string
	// Now anchors the first occurrence to the current week.
	Now time.Time
}

// EventUID returns the stable UID of the event for a slot id.
func EventUID(slotID string) string {
	return uuid.NewSHA1(uidNamespace, []byte(slotID)).String() + "@weekwise"
}

// icsWriter keeps the first write error so callers check once.
type icsWriter struct {
	w   io.Writer
	err error
}

func (iw *icsWriter) line(format string, args ...interface{}) {
	if iw.err != nil {
		return
	}
	_, iw.err = io.WriteString(iw.w, foldLine(fmt.Sprintf(format, args...)))
}

// foldLine splits a content line into CRLF-terminated chunks of at most 75
// octets. Continuation chunks start with a space and never split a rune.
func foldLine(s string) string {
	var b strings.Builder
	limit := icsLineOctets
	for len(s) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		b.WriteString(s[:cut])
		b.WriteString("\r\n ")
		s = s[cut:]
		limit = icsLineOctets - 1
	}
	b.WriteString(s)
	b.WriteString("\r\n")
	return b.String()
}

// WriteICS writes one weekly recurring VEVENT per filled slot. Each event
// starts in the week containing opts.Now and lasts one hour. Times are
// floating unless opts.Now carries a named zone, in which case they carry a
// TZID and the calendar includes a matching VTIMEZONE.
func WriteICS(w io.Writer, src scoring.Source, opts ICSOptions) (int, error) {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	name := opts.Name
	if name == "" {
		name = constants.AppName
	}

	loc := opts.Now.Location()
	start := "DTSTART"
	end := "DTEND"
	zoned := loc.String() != "Local" && loc.String() != "UTC"
	if zoned {
		start = "DTSTART;TZID=" + loc.String()
		end = "DTEND;TZID=" + loc.String()
	}

	iw := &icsWriter{w: w}
	iw.line("BEGIN:VCALENDAR")
	iw.line("VERSION:2.0")
	iw.line("PRODID:%s", constants.ICSProductID)
	iw.line("CALSCALE:GREGORIAN")
	iw.line("METHOD:PUBLISH")
	iw.line("X-WR-CALNAME:%s", escapeText(name))
	if zoned {
		writeVTimezone(iw, loc, opts.Now)
	}

	stamp := opts.Now.UTC().Format(icsTimeFormat) + "Z"
	weekStart := utils.WeekStart(opts.Now)
	events := 0
	for _, day := range schedule.Week {
		date := utils.DateOf(weekStart, day)
		for _, hour := range schedule.ValidHours(day) {
			slot := src.Get(day, hour).Normalize()
			if !slot.IsFilled() {
				continue
			}
			id := schedule.SlotID(day, hour)
			from := time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, loc)
			to := from.Add(time.Hour)

			summary := slot.Title
			if summary == "" {
				summary = slot.Type.Label()
			}

			iw.line("BEGIN:VEVENT")
			iw.line("UID:%s", EventUID(id))
			iw.line("DTSTAMP:%s", stamp)
			iw.line("%s:%s", start, from.Format(icsTimeFormat))
			iw.line("%s:%s", end, to.Format(icsTimeFormat))
			iw.line("RRULE:FREQ=WEEKLY;BYDAY=%s", byDay[day])
			iw.line("SUMMARY:%s", escapeText(summary))
			iw.line("CATEGORIES:%s", escapeText(slot.Type.Label()))
			if slot.Notes != "" {
				iw.line("DESCRIPTION:%s", escapeText(slot.Notes))
			}
			iw.line("END:VEVENT")
			events++
		}
	}
	iw.line("END:VCALENDAR")

	if iw.err != nil {
		return events, fmt.Errorf("failed to write calendar: %w", iw.err)
	}
	return events, nil
}

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}
