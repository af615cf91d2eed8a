package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/weekwise/internal/models"
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 1)

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	docStyle = lipgloss.NewStyle().Padding(1, 2)

	headerCellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	hourCellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	offCellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("236"))

	cursorCellStyle = lipgloss.NewStyle().
			Reverse(true)

	nowCellStyle = lipgloss.NewStyle().
			Underline(true).
			Bold(true)
)

var typeColors = map[models.SlotType]lipgloss.Color{
	models.SlotStudy:        lipgloss.Color("42"),
	models.SlotEssential:    lipgloss.Color("39"),
	models.SlotNonEssential: lipgloss.Color("203"),
	models.SlotEmpty:        lipgloss.Color("241"),
}

func slotStyle(t models.SlotType) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(typeColors[t])
}
