package backups

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/julianstephens/weekwise/internal/backup"
	"github.com/julianstephens/weekwise/internal/cli"
)

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr := ctx.Backups()
	info, err := mgr.Create(ctx.Store)
	if errors.Is(err, backup.ErrUnchanged) {
		ctx.Printf("No changes since the last backup (%s)\n", filepath.Base(info.Path))
		return nil
	}
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	ctx.Printf("✓ Backup created: %s\n", filepath.Base(info.Path))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr := ctx.Backups()
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.Println("No backups found.")
		ctx.Printf("Backups are stored in: %s\n", mgr.Dir())
		return nil
	}

	ctx.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), ctx.Config.Backup.Max)
	for i, b := range backups {
		sizeKB := float64(b.Size) / 1024.0
		timestamp := b.Timestamp.Format("2006-01-02 15:04:05")
		ctx.Printf("  %2d  %s  %s  (%.1f KB)\n", i+1, timestamp, filepath.Base(b.Path), sizeKB)
	}
	ctx.Printf("\nBackup directory: %s\n", mgr.Dir())
	return nil
}

type BackupRestoreCmd struct {
	Backup string `arg:"" default:"1" help:"Backup number from 'backup list', file name, or path."`
	Yes    bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr := ctx.Backups()
	path, err := mgr.Resolve(c.Backup)
	if err != nil {
		return err
	}

	if !c.Yes {
		ctx.Println("⚠️  WARNING: This will replace your planned week with the backup.")
		ctx.Println("⚠️  Other running weekwise processes keep their own copy and will overwrite it on their next save.")
		ctx.Println("A backup of your current week will be created before restoring.")
		ctx.Printf("\nRestore from: %s\n", path)
		ok, err := ctx.Confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Restore cancelled.")
			return nil
		}
	}

	pre, err := mgr.Restore(ctx.Context(), path, ctx.Store)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	ctx.Printf("✓ Restored %d slots from %s\n", ctx.Store.Len(), filepath.Base(path))
	if pre.Path != "" {
		ctx.Printf("  Previous week saved as %s\n", filepath.Base(pre.Path))
	}
	return nil
}
