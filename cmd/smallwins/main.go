package main

import (
	"context"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/smallwins/internal/cli"
	"github.com/julianstephens/smallwins/internal/config"
	"github.com/julianstephens/smallwins/internal/constants"
	"github.com/julianstephens/smallwins/internal/errors"
	"github.com/julianstephens/smallwins/internal/kv"
	"github.com/julianstephens/smallwins/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	config.Config `embed:""`

	Init   cli.InitCmd   `cmd:"" help:"Initialize smallwins storage."`
	Doctor cli.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	Tui    cli.TuiCmd    `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Add    cli.AddCmd    `cmd:"" help:"Save a win for today."`
	List   cli.ListCmd   `cmd:"" help:"List all wins."`
	Random cli.RandomCmd `cmd:"" help:"Show a random past win."`
	Today  cli.TodayCmd  `cmd:"" help:"Show whether today has a win."`
	Stats  cli.StatsCmd  `cmd:"" help:"Show streaks and counts."`
	Clear  cli.ClearCmd  `cmd:"" help:"Delete all wins."`
	Export cli.ExportCmd `cmd:"" help:"Export wins as JSON, CSV or XLSX."`
	Theme  cli.ThemeCmd  `cmd:"" help:"Show or set the color theme."`
	Daemon cli.DaemonCmd `cmd:"" help:"Run reminder delivery in the foreground."`
	Debug  cli.DebugCmd  `cmd:"" help:"Debug commands for troubleshooting."`

	Reminder struct {
		Show       cli.ReminderShowCmd       `cmd:"" help:"Show the reminder time and next delivery." default:"1"`
		Set        cli.ReminderSetCmd        `cmd:"" help:"Set the reminder hour and reschedule."`
		Schedule   cli.ReminderScheduleCmd   `cmd:"" help:"Register the daily reminder."`
		Permission cli.ReminderPermissionCmd `cmd:"" help:"Enable notifications for the configured channel."`
	} `cmd:"" help:"Manage the daily reminder."`
	Backup struct {
		Create cli.BackupCreateCmd `cmd:"" help:"Create a manual backup." default:"1"`
		List   cli.BackupListCmd   `cmd:"" help:"List available backups."`
		Show   cli.BackupShowCmd   `cmd:"" help:"Show the wins in a backup."`
	} `cmd:"" help:"Manage win backups."`
	Secret struct {
		Set    cli.SecretSetCmd    `cmd:"" help:"Store a secret in the OS keyring."`
		Delete cli.SecretDeleteCmd `cmd:"" help:"Remove a secret from the OS keyring."`
		Status cli.SecretStatusCmd `cmd:"" help:"Check keyring availability."`
	} `cmd:"" help:"Manage secrets in the OS keyring."`
}

// Commands that manage their own storage lifecycle
var skipLoad = map[string]bool{
	"init":   true,
	"doctor": true,
	"secret": true,
}

func main() {
	config.LoadDotEnv()

	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Record one small win a day and keep the streak going"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg := &CLI.Config
	if err := cfg.Validate(); err != nil {
		kctx.FatalIfErrorf(err)
	}

	configDir, err := cfg.ConfigDir()
	errors.Fatal(err)
	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: configDir}); err != nil {
		errors.Fatal(err)
	}

	loc, err := cfg.Location()
	errors.Fatal(err)

	command := strings.Fields(kctx.Command())[0]

	var store kv.Backend
	if command == "secret" {
		// keyring commands must work before any store exists
		store = kv.NewMemoryStore()
	} else {
		target, err := cfg.ResolveStore()
		errors.Fatal(err)
		store, err = kv.Open(target)
		errors.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	if !skipLoad[command] {
		errors.Fatal(store.Load(ctx))
	}

	logger.Debug("Running command", "command", kctx.Command(), "store", store.Location())
	errors.Fatal(kctx.Run(cli.NewContext(ctx, store, cfg, configDir, loc)))
}
