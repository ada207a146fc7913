package cli

import (
	"fmt"
	"path/filepath"

	"github.com/julianstephens/smallwins/internal/constants"
)

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *Context) error {
	backupPath, err := ctx.BackupManager().CreateBackup(ctx.Wins.GetAllWins(ctx))
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	ctx.Printf("✓ Backup created: %s\n", filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	mgr := ctx.BackupManager()
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.Println("No backups found.")
		ctx.Printf("Backups are stored in: %s\n", mgr.GetBackupDir())
		return nil
	}

	ctx.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	for _, b := range backups {
		sizeKB := float64(b.Size) / 1024.0
		timestamp := b.Timestamp.Format("2006-01-02 15:04:05")
		ctx.Printf("  %s  %s  (%.1f KB)\n", timestamp, filepath.Base(b.Path), sizeKB)
	}
	ctx.Printf("\nBackup directory: %s\n", mgr.GetBackupDir())

	return nil
}

type BackupShowCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to show."`
}

func (c *BackupShowCmd) Run(ctx *Context) error {
	snap, err := ctx.BackupManager().LoadBackup(c.BackupFile)
	if err != nil {
		return err
	}

	ctx.Printf("Backup from %s (%d wins)\n\n", snap.CreatedAt.In(ctx.Location).Format("2006-01-02 15:04:05"), len(snap.Wins))
	for _, w := range snap.Wins {
		printWin(ctx, w)
	}
	return nil
}
