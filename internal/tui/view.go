package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/weekwise/internal/constants"
	"github.com/julianstephens/weekwise/internal/schedule"
	"github.com/julianstephens/weekwise/internal/scoring"
	"github.com/julianstephens/weekwise/internal/tui/components/insights"
)

const (
	hourColumnWidth = 9
	minCellWidth    = 6
	maxCellWidth    = 18
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.state {
	case StateEditing:
		if m.form != nil {
			body = m.form.View()
		}
	case StateConfirmClear:
		body = m.confirmClearView()
	case StateDay:
		body = m.dayModel.View()
	case StateInsights:
		body = insights.View(scoring.ComputeWeekStatistics(m.store), m.width)
	default:
		body = m.weekView()
	}

	parts := []string{m.tabsView(), m.nowModel.View(m.store), "", body}
	if m.status != "" {
		parts = append(parts, "", statusStyle.Render(m.status))
	}
	parts = append(parts, "", m.help.View(m))

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) tabsView() string {
	active := m.state
	if active == StateEditing || active == StateConfirmClear {
		active = m.previousState
	}
	tabs := make([]string, 0, len(tabTitles))
	for i, title := range tabTitles {
		if SessionState(i) == active {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) cellWidth() int {
	if m.width == 0 {
		return 12
	}
	w := (m.width - hourColumnWidth - 4) / len(schedule.Week)
	if w < minCellWidth {
		return minCellWidth
	}
	if w > maxCellWidth {
		return maxCellWidth
	}
	return w
}

// weekView draws the grid of all seven days. Hours outside a day's
// planned range are dimmed.
func (m Model) weekView() string {
	cw := m.cellWidth()
	cell := lipgloss.NewStyle().Width(cw).MaxWidth(cw)
	hourCol := hourCellStyle.Width(hourColumnWidth)

	cursorDay, cursorHour := m.Cursor()
	nowDay, nowHour, inSchedule := m.nowModel.Current()

	var rows []string

	header := []string{hourCol.Render("")}
	for _, d := range schedule.Week {
		header = append(header, headerCellStyle.Width(cw).Render(schedule.ShortName(d)))
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, header...))

	for hour := constants.WeekendStartHour; hour < constants.DayEndHour; hour++ {
		row := []string{hourCol.Render(schedule.FormatHourLabel(hour))}
		for _, d := range schedule.Week {
			if !schedule.IsValidSlot(d, hour) {
				row = append(row, offCellStyle.Inherit(cell).Render("·"))
				continue
			}
			slot := m.store.Get(d, hour).Normalize()
			style := slotStyle(slot.Type).Inherit(cell)
			if inSchedule && d == nowDay && hour == nowHour {
				style = nowCellStyle.Inherit(style)
			}
			if d == cursorDay && hour == cursorHour {
				style = cursorCellStyle.Inherit(style)
			}
			row = append(row, style.Render(truncate(slot.DisplayTitle(), cw-1)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return strings.Join(rows, "\n")
}

func (m Model) confirmClearView() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		dangerStyle.Render("Clear the whole week?"),
		"",
		fmt.Sprintf("This removes all %d saved slots.", m.store.Len()),
		"",
		"(y) confirm   (n) cancel",
	)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
