package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/smallwins/internal/tui/components/winlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.SetWidth(min(msg.Width-4, 72))
		m.history.SetSize(msg.Width-4, msg.Height-6)
		m.statsModel.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case flashTimeoutMsg:
		if msg.id == m.flashID {
			m.flash = ""
		}
		return m, nil

	case winlist.RandomMsg:
		m.showRandom()
		m.state = StateHome
		cmd := m.input.Focus()
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.state == StateConfirmClear {
			return m.updateConfirmClear(msg)
		}
		if m.state == StateHistory && m.history.Filtering() {
			break
		}

		switch {
		case key.Matches(msg, m.keys.Tab):
			return m.switchTab(int(m.state) + 1)
		case key.Matches(msg, m.keys.ShiftTab):
			return m.switchTab(int(m.state) - 1 + tabCount)
		}

		if m.state == StateHome {
			return m.updateHome(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

		if m.state == StateSettings {
			return m.updateSettings(msg)
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateHome:
		m.input, cmd = m.input.Update(msg)
	case StateHistory:
		m.history, cmd = m.history.Update(msg)
	case StateStats:
		m.statsModel, cmd = m.statsModel.Update(msg)
	}
	return m, cmd
}

func (m Model) switchTab(next int) (tea.Model, tea.Cmd) {
	m.state = SessionState(next % tabCount)
	m.err = nil
	if m.state == StateHome {
		cmd := m.input.Focus()
		return m, cmd
	}
	m.input.Blur()
	return m, nil
}

func (m Model) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Save):
		cmd := m.save()
		return m, cmd
	case key.Matches(msg, m.keys.Random):
		m.showRandom()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.HourUp):
		cmd := m.shiftHour(1)
		return m, cmd
	case key.Matches(msg, m.keys.HourDown):
		cmd := m.shiftHour(-1)
		return m, cmd
	case key.Matches(msg, m.keys.Theme):
		cmd := m.toggleTheme()
		return m, cmd
	case key.Matches(msg, m.keys.Clear):
		m.state = StateConfirmClear
	}
	return m, nil
}

func (m Model) updateConfirmClear(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.state = StateSettings
		cmd := m.clearAll()
		return m, cmd
	case key.Matches(msg, m.keys.Cancel):
		m.state = StateSettings
	}
	return m, nil
}
