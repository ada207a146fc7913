package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/smallwins/internal/constants"
	"github.com/julianstephens/smallwins/internal/logger"
	"github.com/julianstephens/smallwins/internal/reminder"
)

type ReminderShowCmd struct{}

func (c *ReminderShowCmd) Run(ctx *Context) error {
	hour := ctx.Reminders.GetConfiguredHour(ctx)
	ctx.Printf("Reminder time: %02d:00\n", hour)

	if !ctx.Platform.PermissionGranted(ctx) {
		ctx.Println("Notifications: not enabled (run 'smallwins reminder permission')")
		return nil
	}
	ctx.Printf("Notifications: enabled via %s\n", ctx.Config.NotifyChannel)

	trigger, ok, err := ctx.Platform.Current(ctx)
	if err != nil {
		return fmt.Errorf("failed to read reminder: %w", err)
	}
	if !ok {
		ctx.Println("Scheduled: no (run 'smallwins reminder schedule')")
		return nil
	}
	next := reminder.NextFireTime(ctx.Now(), trigger.Hour)
	ctx.Printf("Next reminder: %s\n", next.Format("Mon Jan 2 15:04"))
	return nil
}

type ReminderSetCmd struct {
	Hour int `arg:"" help:"Hour of day (0-23) for the daily reminder."`
}

func (c *ReminderSetCmd) Run(ctx *Context) error {
	outcome, err := ctx.Reminders.SetConfiguredHour(ctx, c.Hour)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Reminder time set to %02d:00\n", c.Hour)
	printOutcome(ctx, outcome)
	return nil
}

type ReminderScheduleCmd struct{}

func (c *ReminderScheduleCmd) Run(ctx *Context) error {
	outcome, err := ctx.Reminders.ScheduleDaily(ctx)
	if err != nil {
		return err
	}
	printOutcome(ctx, outcome)
	return nil
}

type ReminderPermissionCmd struct{}

func (c *ReminderPermissionCmd) Run(ctx *Context) error {
	if ctx.Reminders.RequestPermission(ctx) {
		ctx.Printf("✓ Notifications enabled via %s\n", ctx.Config.NotifyChannel)
		return nil
	}
	ctx.Printf("Notifications unavailable: the %s channel is not ready\n", ctx.Config.NotifyChannel)
	if hint := ctx.Config.ChannelHint(); hint != "" {
		ctx.Printf("Hint: %s\n", hint)
	}
	return nil
}

func printOutcome(ctx *Context, outcome reminder.Outcome) {
	if !outcome.Scheduled() {
		ctx.Println("Reminder not scheduled: notifications are not enabled")
		return
	}
	ctx.Printf("Next reminder: %s\n", outcome.Next.Format("Mon Jan 2 15:04"))
}

// DaemonCmd delivers the daily reminder until interrupted
type DaemonCmd struct{}

func (c *DaemonCmd) Run(ctx *Context) error {
	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx.Printf("Delivering reminders via %s (Ctrl+C to stop)\n", ctx.Config.NotifyChannel)
	logger.Info("Reminder daemon started", "store", ctx.Store.Location())
	if err := ctx.Platform.Run(runCtx, constants.ReminderSyncEvery); err != nil {
		return err
	}
	logger.Info("Reminder daemon stopped")
	return nil
}
