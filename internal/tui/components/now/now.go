package now

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/weekwise/internal/constants"
	"github.com/julianstephens/weekwise/internal/schedule"
	"github.com/julianstephens/weekwise/internal/scoring"
	"github.com/julianstephens/weekwise/internal/utils"
)

var (
	clockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// Model tracks the wall clock in the planner's timezone.
type Model struct {
	Time time.Time
	loc  *time.Location
}

func New(loc *time.Location) Model {
	if loc == nil {
		loc = time.Local
	}
	return Model{Time: time.Now().In(loc), loc: loc}
}

type TickMsg time.Time

// tick fires on minute boundaries so the highlight moves on the hour.
func tick() tea.Cmd {
	return tea.Every(constants.NowRefreshInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(TickMsg); ok {
		m.Time = time.Time(msg).In(m.loc)
		return m, tick()
	}
	return m, nil
}

// Current returns the slot the clock is in; ok is false outside the
// planned hours.
func (m Model) Current() (day time.Weekday, hour int, ok bool) {
	return utils.CurrentSlot(m.Time)
}

// View renders a one-line summary of the current and next slot.
func (m Model) View(src scoring.Source) string {
	clock := clockStyle.Render(fmt.Sprintf("Now: %s %s", schedule.ShortName(m.Time.Weekday()), m.Time.Format("3:04 PM")))

	var current string
	if day, hour, ok := m.Current(); ok {
		slot := src.Get(day, hour)
		current = labelStyle.Render(slot.Type.Label())
		if slot.Title != "" {
			current += " · " + slot.Title
		}
	} else {
		current = dimStyle.Render("nothing planned")
	}

	nd, nh, _ := utils.NextSlot(m.Time)
	next := dimStyle.Render(fmt.Sprintf("next: %s %s %s", schedule.ShortName(nd), schedule.FormatHourLabel(nh), src.Get(nd, nh).DisplayTitle()))

	return lipgloss.JoinHorizontal(lipgloss.Top, clock, "  ", current, "  ", next)
}
