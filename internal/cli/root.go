package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/weekwise/internal/backup"
	"github.com/julianstephens/weekwise/internal/config"
	"github.com/julianstephens/weekwise/internal/logger"
	"github.com/julianstephens/weekwise/internal/slotstore"
	"github.com/julianstephens/weekwise/internal/storage"
	"github.com/julianstephens/weekwise/internal/utils"
)

// Context is handed to every command's Run method.
type Context struct {
	Config  *config.Config
	Backend storage.Backend
	Store   *slotstore.Store

	// Out and In default to stdout and stdin.
	Out io.Writer
	In  io.Reader

	// Ctx is cancelled on SIGINT/SIGTERM.
	Ctx context.Context
}

// NewContext resolves the configured backend without connecting to it.
func NewContext(cfg *config.Config) (*Context, error) {
	backend, err := OpenBackend(cfg)
	if err != nil {
		return nil, err
	}
	return &Context{
		Config:  cfg,
		Backend: backend,
		Store:   slotstore.New(backend, slotstore.WithKey(cfg.Storage.Key)),
	}, nil
}

// Open initializes the backend and loads the slot record.
func (c *Context) Open(ctx context.Context) error {
	if err := c.Backend.Init(ctx); err != nil {
		return fmt.Errorf("failed to open store %s: %w", c.Backend.Location(), err)
	}
	c.Store.Load(ctx)
	return nil
}

func (c *Context) Close() error {
	if c.Backend == nil {
		return nil
	}
	return c.Backend.Close()
}

// Context returns the command's context, Background when unset.
func (c *Context) Context() context.Context {
	if c.Ctx != nil {
		return c.Ctx
	}
	return context.Background()
}

func (c *Context) Stdout() io.Writer {
	if c.Out != nil {
		return c.Out
	}
	return os.Stdout
}

func (c *Context) Stdin() io.Reader {
	if c.In != nil {
		return c.In
	}
	return os.Stdin
}

// Printf writes to the command's output.
func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Stdout(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Stdout(), args...)
}

// Backups returns the snapshot manager for the configured directory.
func (c *Context) Backups() *backup.Manager {
	return backup.NewManager(c.Config.BackupDir(), c.Config.Backup.Max)
}

// PerformAutomaticBackup snapshots the week when backup.auto is on. Errors
// are logged, never returned.
func (c *Context) PerformAutomaticBackup() {
	if !c.Config.Backup.Auto {
		return
	}
	if _, err := c.Backups().Create(c.Store); err != nil && !errors.Is(err, backup.ErrUnchanged) {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Now returns the current time in the configured timezone.
func (c *Context) Now() (time.Time, error) {
	return utils.NowInTimezone(c.Config.Timezone)
}

// Confirm asks a yes/no question on the command's input. Anything other
// than y or yes is a no.
func (c *Context) Confirm(question string) (bool, error) {
	c.Printf("%s [y/N]: ", question)
	reader := bufio.NewReader(c.Stdin())
	response, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}
