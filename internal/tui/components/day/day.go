package day

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/weekwise/internal/schedule"
	"github.com/julianstephens/weekwise/internal/scoring"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(10)

	slotStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	notesStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// Model is a scrollable detail pane for one day: every planned hour with
// its type, title and notes.
type Model struct {
	viewport viewport.Model
	Day      time.Weekday
	width    int
	height   int
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// SetDay refreshes the pane with day's slots from src.
func (m *Model) SetDay(day time.Weekday, src scoring.Source) {
	m.Day = day
	m.viewport.SetContent(Render(day, src))
}

func (m Model) View() string {
	return m.viewport.View()
}

// Render lists the day's hours with their score heading.
func Render(day time.Weekday, src scoring.Source) string {
	st := scoring.ComputeDayStatistics(day, src)

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s · %s · score %d", day, schedule.RangeLabel(day), st.Score)))
	b.WriteString("\n\n")

	for _, hour := range schedule.ValidHours(day) {
		slot := src.Get(day, hour).Normalize()
		b.WriteString(timeStyle.Render(schedule.FormatHourLabel(hour)))
		b.WriteString(slotStyle.Render(slot.Type.Label()))
		if slot.Title != "" {
			b.WriteString("  " + slot.Title)
		}
		b.WriteString("\n")
		if slot.Notes != "" {
			b.WriteString(strings.Repeat(" ", 10) + notesStyle.Render(slot.Notes) + "\n")
		}
	}
	return b.String()
}
