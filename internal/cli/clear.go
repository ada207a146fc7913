package cli

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/huh"
)

type ClearCmd struct {
	Yes      bool `short:"y" help:"Skip the confirmation prompt."`
	NoBackup bool `help:"Do not snapshot wins before clearing."`
}

func (c *ClearCmd) Run(ctx *Context) error {
	all := ctx.Wins.GetAllWins(ctx)
	if len(all) == 0 {
		ctx.Println("Nothing to clear.")
		return nil
	}

	if !c.Yes {
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Delete all %d wins?", len(all))).
			Description("This cannot be undone.").
			Affirmative("Delete").
			Negative("Cancel").
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			ctx.Println("Clear cancelled.")
			return nil
		}
	}

	if !c.NoBackup {
		backupPath, err := ctx.BackupManager().CreateBackup(all)
		if err != nil {
			return fmt.Errorf("backup before clear failed: %w", err)
		}
		ctx.Printf("✓ Backup created: %s\n", filepath.Base(backupPath))
	}

	if err := ctx.Wins.ClearAll(ctx); err != nil {
		return err
	}
	ctx.Printf("✓ Cleared %d wins\n", len(all))
	return nil
}
