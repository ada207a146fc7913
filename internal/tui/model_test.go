package tui

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/smallwins/internal/calendar"
	"github.com/julianstephens/smallwins/internal/constants"
	"github.com/julianstephens/smallwins/internal/kv"
	"github.com/julianstephens/smallwins/internal/notifier"
	"github.com/julianstephens/smallwins/internal/reminder"
	"github.com/julianstephens/smallwins/internal/settings"
	"github.com/julianstephens/smallwins/internal/wins"
)

var noon = time.Date(2024, time.May, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	ctx       context.Context
	wins      *wins.Store
	settings  *settings.Store
	reminders *reminder.Scheduler
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	orig := hasDarkBackground
	hasDarkBackground = func() bool { return true }
	t.Cleanup(func() { hasDarkBackground = orig })

	store := kv.NewMemoryStore()
	clock := calendar.Fixed(noon)
	platform := notifier.NewCronPlatform(store, notifier.NewConsoleSender(io.Discard), time.UTC)
	return fixture{
		ctx:       context.Background(),
		wins:      wins.New(store, wins.WithClock(clock), wins.WithLocation(time.UTC)),
		settings:  settings.New(store),
		reminders: reminder.New(store, platform, reminder.WithClock(clock), reminder.WithLocation(time.UTC)),
	}
}

func (f fixture) model() Model {
	return NewModel(f.ctx, f.wins, f.settings, f.reminders)
}

func send(m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter    = tea.KeyMsg{Type: tea.KeyEnter}
	tab      = tea.KeyMsg{Type: tea.KeyTab}
	shiftTab = tea.KeyMsg{Type: tea.KeyShiftTab}
	ctrlR    = tea.KeyMsg{Type: tea.KeyCtrlR}
)

func TestSaveWinFromHome(t *testing.T) {
	f := newFixture(t)

	m, cmd := send(f.model(), runes("ran 5k"), enter)

	require.NotNil(t, cmd)
	all := f.wins.GetAllWins(f.ctx)
	require.Len(t, all, 1)
	assert.Equal(t, "ran 5k", all[0].Text)
	assert.Equal(t, "✓ Win saved", m.flash)
	assert.Empty(t, m.input.Value())
	assert.Equal(t, 1, m.streak)
	assert.True(t, m.hasToday)
	assert.Contains(t, m.View(), "🔥 1 day streak")
}

func TestSaveEmptyShowsValidation(t *testing.T) {
	f := newFixture(t)

	m, _ := send(f.model(), runes("   "), enter)

	require.Error(t, m.err)
	assert.Equal(t, "win text cannot be empty", errorText(m.err))
	assert.Contains(t, m.View(), "win text cannot be empty")
	assert.Empty(t, f.wins.GetAllWins(f.ctx))
}

func TestQuitKeyTypesOnHome(t *testing.T) {
	f := newFixture(t)

	m, _ := send(f.model(), runes("q"))

	assert.False(t, m.quitting)
	assert.Equal(t, "q", m.input.Value())
}

func TestCounterShowsRemaining(t *testing.T) {
	f := newFixture(t)

	m, _ := send(f.model(), runes("hello"))

	assert.Contains(t, m.viewCounter(), "275 characters left")
}

func TestFlashTimeout(t *testing.T) {
	f := newFixture(t)
	m, _ := send(f.model(), runes("one"), enter)
	require.NotEmpty(t, m.flash)

	m, _ = send(m, flashTimeoutMsg{id: m.flashID - 1})
	assert.NotEmpty(t, m.flash, "stale timeout must not clear a newer message")

	m, _ = send(m, flashTimeoutMsg{id: m.flashID})
	assert.Empty(t, m.flash)
}

func TestTabCycle(t *testing.T) {
	f := newFixture(t)
	m := f.model()

	m, _ = send(m, tab)
	assert.Equal(t, StateHistory, m.state)
	assert.False(t, m.input.Focused())

	m, _ = send(m, tab, tab, tab)
	assert.Equal(t, StateHome, m.state)
	assert.True(t, m.input.Focused())

	m, _ = send(m, shiftTab)
	assert.Equal(t, StateSettings, m.state)
}

func TestSettingsHour(t *testing.T) {
	f := newFixture(t)
	m, _ := send(f.model(), shiftTab)
	require.Equal(t, StateSettings, m.state)
	require.Equal(t, constants.DefaultReminderHour, m.hour)

	m, _ = send(m, runes("k"))
	assert.Equal(t, 21, m.hour)
	assert.Equal(t, 21, f.reminders.GetConfiguredHour(f.ctx))
	assert.Contains(t, m.flash, "notifications off")

	f.reminders.RequestPermission(f.ctx)
	m, _ = send(m, runes("j"), runes("j"))
	assert.Equal(t, 19, m.hour)
	assert.Equal(t, "✓ Reminder set for 19:00", m.flash)
}

func TestSettingsHourWraps(t *testing.T) {
	f := newFixture(t)
	_, err := f.reminders.SetConfiguredHour(f.ctx, 23)
	require.NoError(t, err)

	m, _ := send(f.model(), shiftTab, runes("k"))
	assert.Equal(t, 0, m.hour)
}

func TestToggleTheme(t *testing.T) {
	f := newFixture(t)
	m, _ := send(f.model(), shiftTab)
	require.True(t, m.dark)

	m, _ = send(m, runes("t"))
	assert.False(t, m.dark)
	assert.Equal(t, constants.ThemeLight, f.settings.GetTheme(f.ctx))

	m, _ = send(m, runes("t"))
	assert.True(t, m.dark)
	assert.Equal(t, constants.ThemeDark, f.settings.GetTheme(f.ctx))
}

func TestClearAllNeedsConfirmation(t *testing.T) {
	f := newFixture(t)
	_, err := f.wins.SaveWin(f.ctx, "keep")
	require.NoError(t, err)

	m, _ := send(f.model(), shiftTab, runes("x"))
	require.Equal(t, StateConfirmClear, m.state)
	assert.Contains(t, m.View(), "Delete every win?")

	m, _ = send(m, runes("n"))
	assert.Equal(t, StateSettings, m.state)
	assert.Len(t, f.wins.GetAllWins(f.ctx), 1)

	m, _ = send(m, runes("x"), runes("y"))
	assert.Equal(t, StateSettings, m.state)
	assert.Empty(t, f.wins.GetAllWins(f.ctx))
	assert.Equal(t, 0, m.streak)
}

func TestRandomMemory(t *testing.T) {
	f := newFixture(t)
	_, err := f.wins.SaveWin(f.ctx, "found my keys")
	require.NoError(t, err)

	m, _ := send(f.model(), ctrlR)

	require.NotNil(t, m.memory)
	assert.Equal(t, "found my keys", m.memory.Text)
	assert.Contains(t, m.View(), "✨ Random Memory")
}

func TestRandomFromHistory(t *testing.T) {
	f := newFixture(t)
	_, err := f.wins.SaveWin(f.ctx, "history pick")
	require.NoError(t, err)

	m, cmd := send(f.model(), tab, runes("r"))
	require.NotNil(t, cmd)

	m, _ = send(m, cmd())
	assert.Equal(t, StateHome, m.state)
	require.NotNil(t, m.memory)
	assert.Equal(t, "history pick", m.memory.Text)
}

func TestQuitOutsideHome(t *testing.T) {
	f := newFixture(t)

	m, cmd := send(f.model(), tab, runes("q"))

	assert.True(t, m.quitting)
	require.NotNil(t, cmd)
	assert.Empty(t, m.View())
}

func TestViewTabs(t *testing.T) {
	f := newFixture(t)
	view := f.model().viewTabs()
	for _, title := range []string{"Home", "History", "Stats", "Settings"} {
		assert.True(t, strings.Contains(view, title), title)
	}
}
