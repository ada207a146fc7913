package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/smallwins/internal/wins"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case StateHome:
		content = m.viewHome()
	case StateHistory:
		content = m.styles.Doc.Render(m.history.View())
	case StateStats:
		content = m.styles.Doc.Render(
			lipgloss.JoinVertical(lipgloss.Left, m.styles.Title.Render("Your Progress"), "", m.statsModel.View()),
		)
	case StateSettings:
		content = m.viewSettings()
	case StateConfirmClear:
		content = m.viewConfirmClear()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	active := m.state
	if active == StateConfirmClear {
		active = StateSettings
	}

	var tabs []string
	for i, title := range []string{"Home", "History", "Stats", "Settings"} {
		if active == SessionState(i) {
			tabs = append(tabs, m.styles.ActiveTab.Render(title))
		} else {
			tabs = append(tabs, m.styles.InactiveTab.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewHome() string {
	today := m.wins.Today().Display()
	lines := []string{
		m.styles.Title.Render("What's one small win from today?"),
		m.styles.Muted.Render(today),
		"",
		m.input.View(),
		m.viewCounter(),
	}

	if m.streak > 0 {
		lines = append(lines, "", m.styles.Streak.Render(fmt.Sprintf("🔥 %d day streak", m.streak)))
	}
	if m.hasToday && m.flash == "" {
		lines = append(lines, m.styles.Muted.Render("Today's win is in. Add another any time."))
	}
	if m.flash != "" {
		lines = append(lines, m.styles.Success.Render(m.flash))
	}
	if m.err != nil {
		lines = append(lines, m.styles.Danger.Render(errorText(m.err)))
	}
	if m.memory != nil {
		card := lipgloss.JoinVertical(lipgloss.Left,
			m.styles.Streak.Render("✨ Random Memory"),
			m.styles.Muted.Render(m.memory.Date.Display()),
			m.memory.Text,
		)
		lines = append(lines, "", m.styles.Card.Render(card))
	}

	return m.styles.Doc.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) viewCounter() string {
	remaining := wins.Remaining(m.input.Value())
	text := fmt.Sprintf("%d characters left", remaining)
	if remaining < 20 {
		return m.styles.CounterLow.Render(text)
	}
	return m.styles.Counter.Render(text)
}

func (m Model) viewSettings() string {
	theme := m.theme
	if theme == "" {
		theme = "system"
	}

	lines := []string{
		m.styles.Title.Render("Settings"),
		"",
		fmt.Sprintf("%s %s", m.styles.Muted.Width(18).Render("Reminder time"), fmt.Sprintf("%02d:00", m.hour)),
		fmt.Sprintf("%s %s", m.styles.Muted.Width(18).Render("Theme"), theme),
		"",
		m.styles.Danger.Render("[x] Clear all data"),
	}
	if m.flash != "" {
		lines = append(lines, "", m.styles.Success.Render(m.flash))
	}
	if m.err != nil {
		lines = append(lines, "", m.styles.Danger.Render(errorText(m.err)))
	}
	return m.styles.Doc.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) viewConfirmClear() string {
	return lipgloss.Place(m.width, max(m.height-4, 0),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			m.styles.Danger.Render("Delete every win? This cannot be undone."),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
