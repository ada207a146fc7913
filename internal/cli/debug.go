package cli

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/smallwins/internal/calendar"
	"github.com/julianstephens/smallwins/internal/logger"
	"github.com/julianstephens/smallwins/internal/models"
)

type DebugCmd struct {
	StorePath    *DebugStorePathCmd    `cmd:"" help:"Show store location."`
	DumpWins     *DebugDumpWinsCmd     `cmd:"" help:"Dump win records as JSON."`
	DumpReminder *DebugDumpReminderCmd `cmd:"" help:"Dump reminder state as JSON."`
}

type DebugStorePathCmd struct{}

func (cmd *DebugStorePathCmd) Run(ctx *Context) error {
	// Output in machine-readable format
	return writeJSON(ctx, map[string]string{
		"store":      ctx.Store.Location(),
		"config_dir": ctx.ConfigDir,
		"log_file":   logger.FilePath(ctx.ConfigDir),
	})
}

type DebugDumpWinsCmd struct {
	Date string `arg:"" optional:"" help:"Only records for this day (YYYY-MM-DD or 'today')."`
}

func (cmd *DebugDumpWinsCmd) Run(ctx *Context) error {
	all := ctx.Wins.GetAllWins(ctx)
	if cmd.Date == "" {
		return writeJSON(ctx, all)
	}

	day := ctx.Wins.Today()
	if cmd.Date != "today" {
		parsed, err := calendar.Parse(cmd.Date)
		if err != nil {
			return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD or 'today')", cmd.Date)
		}
		day = parsed
	}

	matching := []models.WinRecord{}
	for _, w := range all {
		if w.Date == day {
			matching = append(matching, w)
		}
	}
	return writeJSON(ctx, matching)
}

type DebugDumpReminderCmd struct{}

func (cmd *DebugDumpReminderCmd) Run(ctx *Context) error {
	output := map[string]any{
		"hour":       ctx.Reminders.GetConfiguredHour(ctx),
		"permission": ctx.Platform.PermissionGranted(ctx),
	}
	trigger, ok, err := ctx.Platform.Current(ctx)
	if err != nil {
		return fmt.Errorf("failed to read trigger: %w", err)
	}
	if ok {
		output["trigger"] = trigger
	}
	return writeJSON(ctx, output)
}

func writeJSON(ctx *Context, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(jsonBytes))
	return nil
}
