package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/julianstephens/weekwise/internal/models"
	"github.com/julianstephens/weekwise/internal/schedule"
	"github.com/julianstephens/weekwise/internal/scoring"
)

const defaultWidth = 80

// Output describes the terminal a command writes to.
type Output struct {
	Styled bool
	Width  int
}

// DetectOutput styles output only when w is a terminal.
func DetectOutput(w io.Writer) Output {
	out := Output{Width: defaultWidth}
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return out
	}
	out.Styled = true
	if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
		out.Width = width
	}
	return out
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	nowStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))

	typeColors = map[models.SlotType]lipgloss.Color{
		models.SlotStudy:        lipgloss.Color("42"),
		models.SlotEssential:    lipgloss.Color("39"),
		models.SlotNonEssential: lipgloss.Color("203"),
		models.SlotEmpty:        lipgloss.Color("241"),
	}
)

func (o Output) style(s lipgloss.Style, text string) string {
	if !o.Styled {
		return text
	}
	return s.Render(text)
}

func (o Output) typeLabel(t models.SlotType) string {
	label := fmt.Sprintf("%-20s", t.Label())
	if !o.Styled {
		return label
	}
	return lipgloss.NewStyle().Foreground(typeColors[t]).Render(label)
}

// RenderDay lists every planned hour of day. The slot at now is marked
// when now falls on day.
func RenderDay(w io.Writer, src scoring.Source, day time.Weekday, now time.Time, out Output) {
	st := scoring.ComputeDayStatistics(day, src)
	header := fmt.Sprintf("%s  (%s)", day, schedule.RangeLabel(day))
	fmt.Fprintf(w, "%s  %s\n", out.style(headerStyle, header), out.style(dimStyle, fmt.Sprintf("score %d", st.Score)))

	curDay, curHour, hasNow := now.Weekday(), now.Hour(), !now.IsZero()
	for _, hour := range schedule.ValidHours(day) {
		slot := src.Get(day, hour).Normalize()
		marker := "  "
		if hasNow && curDay == day && curHour == hour {
			marker = out.style(nowStyle, "▶ ")
		}
		title := slot.Title
		if slot.Notes != "" {
			title += out.style(dimStyle, "  ("+slot.Notes+")")
		}
		fmt.Fprintf(w, "%s%-9s %s %s\n", marker, schedule.FormatHourLabel(hour), out.typeLabel(slot.Type), title)
	}
}

// RenderWeek renders every day, Monday first.
func RenderWeek(w io.Writer, src scoring.Source, now time.Time, out Output) {
	for i, day := range schedule.Week {
		if i > 0 {
			fmt.Fprintln(w)
		}
		RenderDay(w, src, day, now, out)
	}
}

// RenderDayStats prints one day's counts and score.
func RenderDayStats(w io.Writer, st models.DayStatistics, out Output) {
	fmt.Fprintln(w, out.style(headerStyle, st.DayName))
	fmt.Fprintf(w, "  Score:        %d\n", st.Score)
	fmt.Fprintf(w, "  Filled:       %d / %d\n", st.FilledCount, st.TotalSlots)
	fmt.Fprintf(w, "  Raw points:   %d / %d\n", st.RawScore, st.MaxPossible)
	for _, t := range models.SlotTypes {
		fmt.Fprintf(w, "  %s %d\n", out.typeLabel(t), st.Counts.Get(t))
	}
}

// RenderWeekStats prints a score bar per day followed by the slot mix.
func RenderWeekStats(w io.Writer, week models.WeekStatistics, out Output) {
	fmt.Fprintln(w, out.style(headerStyle, "Focus scores"))
	barWidth := out.Width - 16
	if barWidth > 50 {
		barWidth = 50
	}
	if barWidth < 10 {
		barWidth = 10
	}
	for _, bar := range scoring.ScoreBars(week) {
		fmt.Fprintf(w, "  %s %s %3d\n", bar.Label, ScoreBar(bar.Score, barWidth), bar.Score)
	}
	fmt.Fprintf(w, "  Average: %d   Filled hours: %d / %d\n\n", week.AvgScore, week.FilledTotal, schedule.TotalScheduledHours())

	fmt.Fprintln(w, out.style(headerStyle, "Slot mix"))
	for _, seg := range scoring.Distribution(week) {
		fmt.Fprintf(w, "  %s %3d  %5.1f%%\n", out.typeLabel(seg.Type), seg.Count, seg.Fraction*100)
	}
}

// ScoreBar draws score (0..100) as a bar width cells wide.
func ScoreBar(score, width int) string {
	if width < 1 {
		return ""
	}
	filled := score * width / 100
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
