package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/weekwise/internal/models"
	"github.com/julianstephens/weekwise/internal/schedule"
	"github.com/julianstephens/weekwise/internal/slotstore"
	"github.com/julianstephens/weekwise/internal/tui/components/day"
	"github.com/julianstephens/weekwise/internal/tui/components/now"
)

type SessionState int

const (
	StateWeek SessionState = iota
	StateDay
	StateInsights
	StateEditing
	StateConfirmClear
)

// tabCount is the number of states reachable with tab.
const tabCount = 3

var tabTitles = []string{"Week", "Day", "Insights"}

// SlotFormModel backs the slot editor form.
type SlotFormModel struct {
	Type   models.SlotType
	Title  string
	Notes  string
	Action formAction
}

type formAction string

const (
	actionSave   formAction = "save"
	actionDelete formAction = "delete"
)

type Model struct {
	store         *slotstore.Store
	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model
	nowModel      now.Model
	dayModel      day.Model

	// cursor is an index into schedule.Week plus an hour valid on that day
	cursorDay  int
	cursorHour int

	form     *huh.Form
	slotForm *SlotFormModel
	editDay  time.Weekday
	editHour int
	status   string
	quitting bool
	width    int
	height   int
}

// NewModel builds the planner UI over store, with the clock in loc.
func NewModel(store *slotstore.Store, loc *time.Location) Model {
	m := Model{
		store:    store,
		state:    StateWeek,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		nowModel: now.New(loc),
		dayModel: day.New(0, 0),
	}
	m.jumpToNow()
	m.refreshDay()
	return m
}

func (m Model) Init() tea.Cmd {
	return m.nowModel.Init()
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateWeek, StateDay:
		keys = append(keys, m.keys.Edit, m.keys.Delete)
	case StateConfirmClear:
		keys = []key.Binding{m.keys.Confirm, m.keys.Cancel}
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right, m.keys.Today}
	actions := []key.Binding{m.keys.Edit, m.keys.Delete, m.keys.Clear}
	return [][]key.Binding{global, navigation, actions}
}

// Cursor returns the selected (day, hour).
func (m Model) Cursor() (time.Weekday, int) {
	return schedule.Week[m.cursorDay], m.cursorHour
}

func (m *Model) jumpToNow() {
	d, h, ok := m.nowModel.Current()
	if !ok {
		d = m.nowModel.Time.Weekday()
		h = schedule.ValidHours(d)[0]
	}
	for i, wd := range schedule.Week {
		if wd == d {
			m.cursorDay = i
		}
	}
	m.cursorHour = h
}

// moveDay shifts the cursor by delta days and keeps the hour inside the
// new day's planned range.
func (m *Model) moveDay(delta int) {
	n := len(schedule.Week)
	m.cursorDay = ((m.cursorDay+delta)%n + n) % n
	hours := schedule.ValidHours(schedule.Week[m.cursorDay])
	if m.cursorHour < hours[0] {
		m.cursorHour = hours[0]
	}
	if last := hours[len(hours)-1]; m.cursorHour > last {
		m.cursorHour = last
	}
}

func (m *Model) moveHour(delta int) {
	hours := schedule.ValidHours(schedule.Week[m.cursorDay])
	h := m.cursorHour + delta
	if h < hours[0] || h > hours[len(hours)-1] {
		return
	}
	m.cursorHour = h
}

func (m *Model) refreshDay() {
	d, _ := m.Cursor()
	m.dayModel.SetDay(d, m.store)
}
