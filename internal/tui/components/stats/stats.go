package stats

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/smallwins/internal/models"
	"github.com/julianstephens/smallwins/internal/wins"
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8a8075")).
			Width(18)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4916f")).
			Bold(true)

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e8b89a")).
			Italic(true)
)

type Model struct {
	viewport viewport.Model
	Stats    *models.Stats
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

func (m Model) View() string {
	if m.Stats == nil || m.Stats.Total == 0 {
		return "No wins yet. Stats appear after your first one."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m *Model) SetStats(s models.Stats) {
	m.Stats = &s
	m.Render()
}

func (m *Model) Render() {
	if m.Stats == nil {
		m.viewport.SetContent("")
		return
	}

	s := m.Stats
	rows := []struct {
		label string
		value string
	}{
		{"Total wins", fmt.Sprint(s.Total)},
		{"This week", fmt.Sprint(s.ThisWeek)},
		{"This month", fmt.Sprint(s.ThisMonth)},
		{"Current streak", fmt.Sprintf("🔥 %d", s.Streak)},
		{"Longest streak", fmt.Sprint(s.LongestStreak)},
		{"Weekly average", fmt.Sprintf("%.1f", wins.RoundOneDecimal(s.WeeklyAverage))},
	}

	var b strings.Builder
	for _, r := range rows {
		b.WriteString(labelStyle.Render(r.label) + valueStyle.Render(r.value) + "\n")
	}
	if s.Milestone() {
		b.WriteString("\n" + noteStyle.Render(fmt.Sprintf("%d days in a row. That's a habit.", s.Streak)) + "\n")
	}
	m.viewport.SetContent(b.String())
}
