package insights

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/weekwise/internal/models"
	"github.com/julianstephens/weekwise/internal/schedule"
	"github.com/julianstephens/weekwise/internal/scoring"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			MarginBottom(1)

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	trackStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("236"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	mixColors = map[models.SlotType]lipgloss.Color{
		models.SlotStudy:        lipgloss.Color("42"),
		models.SlotEssential:    lipgloss.Color("39"),
		models.SlotNonEssential: lipgloss.Color("203"),
		models.SlotEmpty:        lipgloss.Color("238"),
	}
)

const (
	minBarWidth = 10
	maxBarWidth = 60
)

// View renders the score chart and the slot mix for width columns.
func View(week models.WeekStatistics, width int) string {
	barWidth := width - 20
	if barWidth > maxBarWidth {
		barWidth = maxBarWidth
	}
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Focus score by day"),
		scoreChart(week, barWidth),
		"",
		dimStyle.Render(fmt.Sprintf("Average %d · %d of %d hours planned", week.AvgScore, week.FilledTotal, schedule.TotalScheduledHours())),
		"",
		titleStyle.Render("Slot mix"),
		mixBar(scoring.Distribution(week), barWidth),
		legend(scoring.Distribution(week)),
	)
}

func scoreChart(week models.WeekStatistics, width int) string {
	var rows []string
	for _, bar := range scoring.ScoreBars(week) {
		filled := bar.Score * width / 100
		rows = append(rows, fmt.Sprintf("%s %s%s %3d",
			bar.Label,
			barStyle.Render(strings.Repeat("█", filled)),
			trackStyle.Render(strings.Repeat("░", width-filled)),
			bar.Score,
		))
	}
	return strings.Join(rows, "\n")
}

// mixBar draws one stacked bar whose segments are proportional to each
// type's share of the week.
func mixBar(segments []scoring.Segment, width int) string {
	var b strings.Builder
	used := 0
	for i, seg := range segments {
		cells := int(seg.Fraction*float64(width) + 0.5)
		if i == len(segments)-1 {
			cells = width - used
		}
		if cells < 0 {
			cells = 0
		}
		if used+cells > width {
			cells = width - used
		}
		used += cells
		b.WriteString(lipgloss.NewStyle().Foreground(mixColors[seg.Type]).Render(strings.Repeat("█", cells)))
	}
	return b.String()
}

func legend(segments []scoring.Segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		swatch := lipgloss.NewStyle().Foreground(mixColors[seg.Type]).Render("■")
		parts = append(parts, fmt.Sprintf("%s %s %d (%.0f%%)", swatch, seg.Label, seg.Count, seg.Fraction*100))
	}
	return strings.Join(parts, "   ")
}
