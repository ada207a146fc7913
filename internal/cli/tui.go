package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/smallwins/internal/logger"
	"github.com/julianstephens/smallwins/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	// Perform automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup()

	// Ask once, then keep the daily reminder registered
	ctx.Reminders.RequestPermission(ctx)
	if _, err := ctx.Reminders.ScheduleDaily(ctx); err != nil {
		logger.Warn("Daily reminder not scheduled", "error", err)
	}

	model := tui.NewModel(ctx, ctx.Wins, ctx.Settings, ctx.Reminders)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("alas, there's been an error: %w", err)
	}
	return nil
}
