package system

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/weekwise/internal/cli"
	"github.com/julianstephens/weekwise/internal/logger"
	"github.com/julianstephens/weekwise/internal/storage"
)

type DebugCmd struct {
	Path DebugPathCmd `cmd:"" help:"Show config, store, backup and log locations."`
	Dump DebugDumpCmd `cmd:"" help:"Dump the raw slot record as JSON."`
}

type DebugPathCmd struct{}

func (cmd *DebugPathCmd) Run(ctx *cli.Context) error {
	output := map[string]string{
		"config":  ctx.Config.Path,
		"store":   ctx.Backend.Location(),
		"key":     ctx.Config.Storage.Key,
		"backups": ctx.Config.BackupDir(),
		"log":     logger.LogFile(ctx.Config.Dir),
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(jsonBytes))
	return nil
}

type DebugDumpCmd struct{}

func (cmd *DebugDumpCmd) Run(ctx *cli.Context) error {
	data, err := ctx.Backend.Read(ctx.Context(), ctx.Store.Key())
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("no slot record stored under %s", ctx.Store.Key())
	}
	if err != nil {
		return fmt.Errorf("failed to read slot record: %w", err)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		// not JSON; show it as stored
		ctx.Println(string(data))
		return nil
	}
	ctx.Println(buf.String())
	return nil
}
