package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/weekwise/internal/logger"
	"github.com/julianstephens/weekwise/internal/models"
	"github.com/julianstephens/weekwise/internal/schedule"
	"github.com/julianstephens/weekwise/internal/tui/components/now"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// the clock keeps running while a form or prompt is open
	if tick, ok := msg.(now.TickMsg); ok {
		var cmd tea.Cmd
		m.nowModel, cmd = m.nowModel.Update(tick)
		return m, cmd
	}

	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		m.help.Width = size.Width
		m.dayModel.SetSize(size.Width-4, size.Height-8)
		m.refreshDay()
		if m.state != StateEditing {
			return m, nil
		}
	}

	switch m.state {
	case StateEditing:
		return m.updateForm(msg)
	case StateConfirmClear:
		return m.updateConfirmClear(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.status = ""

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Tab):
		m.state = (m.state + 1) % tabCount
	case key.Matches(keyMsg, m.keys.ShiftTab):
		m.state = (m.state - 1 + tabCount) % tabCount
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(keyMsg, m.keys.Clear):
		if m.store.Len() == 0 {
			m.status = "Nothing to clear"
			return m, nil
		}
		m.previousState = m.state
		m.state = StateConfirmClear
	}

	if m.state != StateWeek && m.state != StateDay {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		m.moveHour(-1)
	case key.Matches(keyMsg, m.keys.Down):
		m.moveHour(1)
	case key.Matches(keyMsg, m.keys.Left):
		m.moveDay(-1)
		m.refreshDay()
	case key.Matches(keyMsg, m.keys.Right):
		m.moveDay(1)
		m.refreshDay()
	case key.Matches(keyMsg, m.keys.Today):
		m.jumpToNow()
		m.refreshDay()
	case key.Matches(keyMsg, m.keys.Edit):
		return m.startEditing()
	case key.Matches(keyMsg, m.keys.Delete):
		d, h := m.Cursor()
		if err := m.store.Delete(context.Background(), d, h); err != nil {
			m.status = fmt.Sprintf("Failed to clear slot: %v", err)
			logger.Error("failed to clear slot", "day", d, "hour", h, "error", err)
		}
		m.refreshDay()
	case m.state == StateDay:
		var cmd tea.Cmd
		m.dayModel, cmd = m.dayModel.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) startEditing() (tea.Model, tea.Cmd) {
	d, h := m.Cursor()
	slot := m.store.Get(d, h).Normalize()

	m.slotForm = &SlotFormModel{
		Type:   slot.Type,
		Title:  slot.Title,
		Notes:  slot.Notes,
		Action: actionSave,
	}
	m.editDay, m.editHour = d, h
	m.form = NewSlotForm(m.slotForm, d, h)
	m.previousState = m.state
	m.state = StateEditing
	return m, m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.previousState
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.applyForm()
		m.state = m.previousState
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, cmd
}

// applyForm writes the submitted form to the store. Failures leave the
// store unchanged and show in the status line.
func (m *Model) applyForm() {
	if m.slotForm == nil {
		return
	}
	ctx := context.Background()
	label := fmt.Sprintf("%s %s", m.editDay, schedule.FormatHourLabel(m.editHour))

	var err error
	switch m.slotForm.Action {
	case actionDelete:
		err = m.store.Delete(ctx, m.editDay, m.editHour)
		if err == nil {
			m.status = "Cleared " + label
		}
	default:
		slot := models.Slot{Type: m.slotForm.Type, Title: m.slotForm.Title, Notes: m.slotForm.Notes}
		err = m.store.Set(ctx, m.editDay, m.editHour, slot)
		if err == nil {
			m.status = "Saved " + label
		}
	}
	if err != nil {
		m.status = fmt.Sprintf("Failed to save %s: %v", label, err)
		logger.Error("failed to save slot", "day", m.editDay, "hour", m.editHour, "error", err)
	}
	m.slotForm = nil
	m.refreshDay()
}

func (m Model) updateConfirmClear(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		if err := m.store.Clear(context.Background()); err != nil {
			m.status = fmt.Sprintf("Failed to clear week: %v", err)
			logger.Error("failed to clear week", "error", err)
		} else {
			m.status = "Week cleared"
		}
		m.state = m.previousState
		m.refreshDay()
	case key.Matches(keyMsg, m.keys.Cancel):
		m.state = m.previousState
	}
	return m, nil
}
