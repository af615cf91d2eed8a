package exports

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/weekwise/internal/cli"
	"github.com/julianstephens/weekwise/internal/export"
)

type ExportCmd struct {
	Format string `arg:"" enum:"ics,json" default:"ics" help:"Export format: ics or json."`
	Output string `short:"o" type:"path" help:"Write to this file instead of stdout."`
	Name   string `help:"Calendar name for ics exports."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	now, err := ctx.Now()
	if err != nil {
		return err
	}

	var w io.Writer = ctx.Stdout()
	if c.Output != "" {
		f, err := os.OpenFile(c.Output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch c.Format {
	case "json":
		if err := export.WriteJSON(w, ctx.Store.Snapshot(), now); err != nil {
			return err
		}
		if c.Output != "" {
			ctx.Printf("✓ Exported %d slots to %s\n", ctx.Store.Len(), c.Output)
		}
	default:
		n, err := export.WriteICS(w, ctx.Store, export.ICSOptions{Name: c.Name, Now: now})
		if err != nil {
			return err
		}
		if c.Output != "" {
			ctx.Printf("✓ Exported %d weekly events to %s\n", n, c.Output)
		}
	}
	return nil
}

type ImportCmd struct {
	File string `arg:"" type:"existingfile" help:"JSON export or slot record to import."`
	Yes  bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	slots, err := export.ReadJSON(f)
	if err != nil {
		return err
	}

	if !c.Yes && ctx.Store.Len() > 0 {
		ok, err := ctx.Confirm(fmt.Sprintf("Replace %d planned slots with %d imported slots?", ctx.Store.Len(), len(slots)))
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Import cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.Replace(ctx.Context(), slots); err != nil {
		return fmt.Errorf("failed to import slots: %w", err)
	}
	ctx.Printf("✓ Imported %d slots from %s\n", len(slots), c.File)
	return nil
}
