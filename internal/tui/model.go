package tui

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/smallwins/internal/constants"
	"github.com/julianstephens/smallwins/internal/errors"
	"github.com/julianstephens/smallwins/internal/models"
	"github.com/julianstephens/smallwins/internal/reminder"
	"github.com/julianstephens/smallwins/internal/settings"
	"github.com/julianstephens/smallwins/internal/tui/components/stats"
	"github.com/julianstephens/smallwins/internal/tui/components/winlist"
	"github.com/julianstephens/smallwins/internal/wins"
)

type SessionState int

const (
	StateHome SessionState = iota
	StateHistory
	StateStats
	StateSettings
	StateConfirmClear
)

const tabCount = 4

// flashDuration is how long a success message stays on screen.
const flashDuration = 2 * time.Second

type flashTimeoutMsg struct {
	id int
}

type Model struct {
	ctx       context.Context
	wins      *wins.Store
	settings  *settings.Store
	reminders *reminder.Scheduler

	state      SessionState
	keys       KeyMap
	help       help.Model
	input      textarea.Model
	history    winlist.Model
	statsModel stats.Model
	styles     Styles
	theme      string
	dark       bool

	streak   int
	hasToday bool
	hour     int
	memory   *models.WinRecord
	flash    string
	flashID  int
	err      error
	quitting bool
	width    int
	height   int
}

func NewModel(ctx context.Context, ws *wins.Store, ss *settings.Store, rs *reminder.Scheduler) Model {
	input := textarea.New()
	input.Placeholder = "What's one small win from today?"
	input.CharLimit = constants.MaxChars
	input.ShowLineNumbers = false
	input.SetHeight(4)
	input.KeyMap.InsertNewline.SetEnabled(false)
	input.Focus()

	m := Model{
		ctx:        ctx,
		wins:       ws,
		settings:   ss,
		reminders:  rs,
		state:      StateHome,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		input:      input,
		history:    winlist.New(nil, 0, 0),
		statsModel: stats.New(0, 0),
	}
	m.applyTheme(ss.GetTheme(ctx))
	m.hour = rs.GetConfiguredHour(ctx)
	m.refresh()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit}
	switch m.state {
	case StateHome:
		keys = append(keys, m.keys.Save, m.keys.Random)
	case StateSettings:
		keys = append(keys, m.keys.HourUp, m.keys.HourDown, m.keys.Theme, m.keys.Clear)
	case StateConfirmClear:
		keys = []key.Binding{m.keys.Confirm, m.keys.Cancel}
	}
	if m.state != StateHome && m.state != StateConfirmClear {
		keys = append(keys, m.keys.Help)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}

	var actions []key.Binding
	switch m.state {
	case StateHome:
		actions = []key.Binding{m.keys.Save, m.keys.Random}
	case StateSettings:
		actions = []key.Binding{m.keys.HourUp, m.keys.HourDown, m.keys.Theme, m.keys.Clear}
	}

	return [][]key.Binding{global, actions}
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// refresh re-reads everything derived from the win collection.
func (m *Model) refresh() {
	all := m.wins.GetAllWins(m.ctx)
	m.history.SetWins(all)
	m.statsModel.SetStats(m.wins.Stats(m.ctx))
	m.streak = m.wins.GetStreak(m.ctx)
	m.hasToday = m.wins.HasWinToday(m.ctx)
}

func (m *Model) applyTheme(theme string) {
	m.theme = theme
	palette := PaletteFor(theme)
	m.dark = palette == darkPalette
	m.styles = NewStyles(palette)
}

func (m *Model) setFlash(msg string) tea.Cmd {
	m.flash = msg
	m.flashID++
	id := m.flashID
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashTimeoutMsg{id: id}
	})
}

func (m *Model) save() tea.Cmd {
	if _, err := m.wins.SaveWin(m.ctx, m.input.Value()); err != nil {
		m.err = err
		return nil
	}
	m.err = nil
	m.memory = nil
	m.input.Reset()
	m.refresh()
	return m.setFlash("✓ Win saved")
}

func (m *Model) showRandom() {
	if w, ok := m.wins.RandomWin(m.ctx); ok {
		m.memory = &w
	}
}

func (m *Model) shiftHour(delta int) tea.Cmd {
	hour := (m.hour + delta + 24) % 24
	outcome, err := m.reminders.SetConfiguredHour(m.ctx, hour)
	m.hour = m.reminders.GetConfiguredHour(m.ctx)
	if err != nil {
		m.err = err
		return nil
	}
	m.err = nil
	if !outcome.Scheduled() {
		return m.setFlash(fmt.Sprintf("Reminder time saved: %02d:00 (notifications off)", m.hour))
	}
	return m.setFlash(fmt.Sprintf("✓ Reminder set for %02d:00", m.hour))
}

func (m *Model) toggleTheme() tea.Cmd {
	next := constants.ThemeDark
	if m.dark {
		next = constants.ThemeLight
	}
	if err := m.settings.SetTheme(m.ctx, next); err != nil {
		m.err = err
		return nil
	}
	m.applyTheme(next)
	return m.setFlash("✓ Theme: " + next)
}

func (m *Model) clearAll() tea.Cmd {
	if err := m.wins.ClearAll(m.ctx); err != nil {
		m.err = err
		return nil
	}
	m.err = nil
	m.memory = nil
	m.refresh()
	return m.setFlash("✓ All wins cleared")
}

// errorText strips the code prefix from application errors.
func errorText(err error) string {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
