package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/smallwins/internal/backup"
	"github.com/julianstephens/smallwins/internal/calendar"
	"github.com/julianstephens/smallwins/internal/config"
	"github.com/julianstephens/smallwins/internal/kv"
	"github.com/julianstephens/smallwins/internal/logger"
	"github.com/julianstephens/smallwins/internal/notifier"
	"github.com/julianstephens/smallwins/internal/reminder"
	"github.com/julianstephens/smallwins/internal/settings"
	"github.com/julianstephens/smallwins/internal/wins"
)

// Context is handed to every command. It embeds the process context so it
// can be passed straight to store calls.
type Context struct {
	context.Context

	Store     kv.Backend
	Wins      *wins.Store
	Reminders *reminder.Scheduler
	Platform  *notifier.CronPlatform
	Settings  *settings.Store
	Config    *config.Config
	ConfigDir string
	Location  *time.Location
	Clock     calendar.Clock
	Out       io.Writer
}

// NewContext wires the core services on top of store.
func NewContext(ctx context.Context, store kv.Backend, cfg *config.Config, configDir string, loc *time.Location) *Context {
	return newContext(ctx, store, cfg, configDir, loc, calendar.SystemClock)
}

func newContext(ctx context.Context, store kv.Backend, cfg *config.Config, configDir string, loc *time.Location, clock calendar.Clock) *Context {
	if cfg == nil {
		cfg = &config.Config{}
	}
	platform := notifier.NewCronPlatform(store, cfg.Sender(), loc)
	return &Context{
		Context:   ctx,
		Store:     store,
		Wins:      wins.New(store, wins.WithClock(clock), wins.WithLocation(loc)),
		Reminders: reminder.New(store, platform, reminder.WithClock(clock), reminder.WithLocation(loc)),
		Platform:  platform,
		Settings:  settings.New(store),
		Config:    cfg,
		ConfigDir: configDir,
		Location:  loc,
		Clock:     clock,
		Out:       os.Stdout,
	}
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// Now returns the current instant in the configured timezone.
func (c *Context) Now() time.Time {
	return c.Clock().In(c.Location)
}

// BackupManager returns the manager for this store's backup directory.
func (c *Context) BackupManager() *backup.Manager {
	return backup.NewManager(c.ConfigDir)
}

// PerformAutomaticBackup snapshots the wins and only logs a failure.
func (c *Context) PerformAutomaticBackup() {
	all := c.Wins.GetAllWins(c)
	if len(all) == 0 {
		return
	}
	if _, err := c.BackupManager().CreateBackup(all); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
