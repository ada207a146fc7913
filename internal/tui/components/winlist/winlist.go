package winlist

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/smallwins/internal/models"
)

// RandomMsg asks the parent for a random memory.
type RandomMsg struct{}

type Item struct {
	Win models.WinRecord
}

func (i Item) Title() string { return i.Win.Text }
func (i Item) Description() string { return i.Win.Date.Display() }
func (i Item) FilterValue() string { return i.Win.Text }

type KeyMap struct {
	Random key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Random: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "random memory"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(wins []models.WinRecord, width, height int) Model {
	l := list.New(items(wins), list.NewDefaultDelegate(), width, height)
	l.Title = "Your Wins"
	l.SetShowTitle(false)
	l.SetShowHelp(false) // We handle help globally in the main model

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Random}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Random}
	}

	return Model{list: l, keys: keys}
}

// items lists newest first.
func items(wins []models.WinRecord) []list.Item {
	out := make([]list.Item, len(wins))
	for i, w := range wins {
		out[len(wins)-1-i] = Item{Win: w}
	}
	return out
}

func (m *Model) SetWins(wins []models.WinRecord) {
	m.list.SetItems(items(wins))
}

func (m Model) Len() int {
	return len(m.list.Items())
}

// Filtering reports whether the list is capturing keystrokes.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Filtering() {
			break
		}
		if key.Matches(msg, m.keys.Random) && m.Len() > 0 {
			return m, func() tea.Msg { return RandomMsg{} }
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return "\n  No wins yet.\n  Your first one is waiting on the Home tab."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
