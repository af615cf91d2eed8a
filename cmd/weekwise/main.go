package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/weekwise/internal/cli"
	"github.com/julianstephens/weekwise/internal/cli/backups"
	"github.com/julianstephens/weekwise/internal/cli/exports"
	"github.com/julianstephens/weekwise/internal/cli/slots"
	"github.com/julianstephens/weekwise/internal/cli/system"
	"github.com/julianstephens/weekwise/internal/config"
	"github.com/julianstephens/weekwise/internal/constants"
	"github.com/julianstephens/weekwise/internal/errors"
	"github.com/julianstephens/weekwise/internal/logger"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Config file path (default ~/.config/weekwise/config.yaml)." type:"path"`
	Store    string `help:"Store path or URL, overrides storage.store. PostgreSQL URLs must not embed a password; use the keyring, PGPASSWORD or .pgpass."`
	Timezone string `help:"IANA timezone for the current slot, overrides timezone."`
	DebugLog bool   `name:"debug" help:"Log debug output to stderr."`

	Init   system.InitCmd    `cmd:"" help:"Write the config file and initialize storage."`
	Tui    system.TuiCmd     `cmd:"" help:"Launch the interactive planner." default:"1"`
	Show   slots.ShowCmd     `cmd:"" help:"Show the week, or one day."`
	Set    slots.SetCmd      `cmd:"" help:"Plan a slot."`
	Delete slots.DeleteCmd   `cmd:"" help:"Reset a slot to empty."`
	Clear  slots.ClearCmd    `cmd:"" help:"Remove every planned slot."`
	Stats  slots.StatsCmd    `cmd:"" help:"Show focus scores for the week or a day."`
	Now    slots.NowCmd      `cmd:"" help:"Show the current and next slot."`
	Export exports.ExportCmd `cmd:"" help:"Export the week as iCalendar or JSON."`
	Import exports.ImportCmd `cmd:"" help:"Replace the week from a JSON export."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage slot backups."`
	Serve   system.ServeCmd   `cmd:"" help:"Serve the planner over HTTP."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Debug   system.DebugCmd   `cmd:"" help:"Debug commands for troubleshooting."`
	Keyring system.KeyringCmd `cmd:"" help:"Manage secrets in the OS keyring."`
}

// opensItself lists commands that connect to the store on their own, or
// not at all.
var opensItself = []string{"init", "doctor", "keyring", "debug path"}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Weekly focus planner: evening and weekend hour slots with a focus score."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	if CLI.Store != "" {
		cfg.Storage.Store = CLI.Store
	}
	if CLI.Timezone != "" {
		cfg.Timezone = CLI.Timezone
	}
	if CLI.DebugLog {
		cfg.Log.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		errors.Fatal(err)
	}

	command := kctx.Command()
	if err := logger.Init(logger.Config{
		Debug:     cfg.Log.Debug,
		ConfigDir: cfg.Dir,
		Console:   strings.HasPrefix(command, "serve"),
	}); err != nil {
		errors.Fatalf("failed to initialize logger: %v", err)
	}
	logger.Debug("starting", "command", command, "store", cfg.Storage.Store)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCtx, err := cli.NewContext(cfg)
	if err != nil {
		errors.Fatal(err)
	}
	appCtx.Ctx = ctx

	if !skipsOpen(command) {
		if err := appCtx.Open(ctx); err != nil {
			errors.Fatal(err)
		}
	}

	runErr := kctx.Run(appCtx)
	if err := appCtx.Close(); err != nil {
		logger.Warn("failed to close store", "error", err)
	}
	errors.Fatal(runErr)
}

func skipsOpen(command string) bool {
	for _, name := range opensItself {
		if strings.HasPrefix(command, name) {
			return true
		}
	}
	return false
}
