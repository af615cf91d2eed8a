package system

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/weekwise/internal/cli"
)

type InitCmd struct {
	Force bool `help:"Overwrite an existing config file with the current settings."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	cfg := ctx.Config
	_, err := os.Stat(cfg.Path)
	switch {
	case errors.Is(err, os.ErrNotExist) || c.Force:
		if err := cfg.Save(); err != nil {
			return err
		}
		ctx.Printf("Wrote config to: %s\n", cfg.Path)
	case err != nil:
		return fmt.Errorf("failed to access config file: %w", err)
	default:
		ctx.Printf("Using existing config: %s\n", cfg.Path)
	}

	if err := ctx.Open(ctx.Context()); err != nil {
		return err
	}
	ctx.Printf("Initialized weekwise storage at: %s\n", ctx.Store.Location())
	return nil
}
