package cli

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/julianstephens/smallwins/internal/config"
	"github.com/julianstephens/smallwins/internal/constants"
	"github.com/julianstephens/smallwins/internal/keyring"
	"github.com/julianstephens/smallwins/internal/kv"
	"github.com/julianstephens/smallwins/internal/models"
	"github.com/julianstephens/smallwins/internal/wins"
)

type DoctorCmd struct{}

type check struct {
	name       string
	run        func(ctx *Context) error
	warning    bool
	needsStore bool
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	storeReachable := false

	if err := checkStoreReachable(ctx); err != nil {
		ctx.Printf("❌ Store reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		ctx.Printf("✓ Store reachable: OK\n")
		storeReachable = true
	}

	checks := []check{
		{name: "Schema version", run: checkSchemaVersion, needsStore: true},
		{name: "Win data", run: checkWinData, needsStore: true},
		{name: "Backups present", run: checkBackupsPresent, warning: true},
		{name: "Clock/timezone", run: checkClockTimezone},
		{name: "Keyring", run: checkKeyring, warning: true},
		{name: "Reminder delivery", run: checkDelivery, warning: true},
	}

	for _, c := range checks {
		if c.needsStore && !storeReachable {
			ctx.Printf("⊘ %s: SKIPPED (store not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warning:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *Context) error {
	if err := ctx.Store.Load(ctx); err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}
	if _, err := ctx.Store.Get(ctx, constants.KeyWins); err != nil && !stderrors.Is(err, kv.ErrNotFound) {
		return fmt.Errorf("failed to read store: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *Context) error {
	sqlStore, ok := ctx.Store.(*kv.SQLStore)
	if !ok {
		// file and memory stores have no schema
		return nil
	}

	st, err := sqlStore.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	switch {
	case st.TooNew():
		return fmt.Errorf("store schema version (%d) is newer than supported version (%d)", st.Current, st.Latest)
	case !st.UpToDate():
		return fmt.Errorf("%d migration(s) pending: current version %d, latest version %d", len(st.Pending), st.Current, st.Latest)
	}
	return nil
}

func checkWinData(ctx *Context) error {
	data, err := ctx.Store.Get(ctx, constants.KeyWins)
	if stderrors.Is(err, kv.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	var records []models.WinRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("win collection is unreadable: %w", err)
	}

	ids := make(map[string]bool, len(records))
	for _, w := range records {
		if ids[w.ID] {
			return fmt.Errorf("duplicate win ID found: %s", w.ID)
		}
		ids[w.ID] = true
		if w.Date.IsZero() {
			return fmt.Errorf("win %s has no date", w.ID)
		}
		if _, err := wins.ValidateText(w.Text); err != nil {
			return fmt.Errorf("win %s: %w", w.ID, err)
		}
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	backups, err := ctx.BackupManager().ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found in %s", ctx.BackupManager().GetBackupDir())
	}

	newest := backups[0].Timestamp
	if age := ctx.Clock().Sub(newest); age > 30*24*time.Hour {
		return fmt.Errorf("most recent backup is %d days old", int(age.Hours()/24))
	}
	return nil
}

func checkClockTimezone(ctx *Context) error {
	now := ctx.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	if ctx.Location == time.UTC {
		// This might be intentional, so just note it
		ctx.Printf("   Note: calendar days are computed in UTC\n")
	}
	return nil
}

func checkKeyring(ctx *Context) error {
	needed := ctx.Config.Store == config.KeyringStore || ctx.Config.NotifyChannel == constants.ChannelTelegram
	if !needed {
		return nil
	}
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}

func checkDelivery(ctx *Context) error {
	sender := ctx.Config.Sender()
	if !sender.Available(ctx) {
		if hint := ctx.Config.ChannelHint(); hint != "" {
			return fmt.Errorf("%s channel is not available; %s", sender.Name(), hint)
		}
		return fmt.Errorf("%s channel is not available; reminders will not be delivered", sender.Name())
	}
	return nil
}
