package system

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/weekwise/internal/cli"
	"github.com/julianstephens/weekwise/internal/keyring"
	"github.com/julianstephens/weekwise/internal/slotstore"
	"github.com/julianstephens/weekwise/internal/storage"
	"github.com/julianstephens/weekwise/internal/storage/postgres"
	"github.com/julianstephens/weekwise/internal/utils"
)

// versioned is implemented by backends that run schema migrations.
type versioned interface {
	SchemaVersion(ctx context.Context) (current, latest int, err error)
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	fail := func(name string, err error) {
		ctx.Printf("❌ %s: FAIL\n", name)
		ctx.Printf("   Error: %v\n", err)
		hasError = true
	}

	// Check 1: store reachable
	storeReachable := false
	if err := ctx.Open(ctx.Context()); err != nil {
		fail("Store reachable", err)
	} else {
		ctx.Printf("✓ Store reachable: OK (%s)\n", ctx.Store.Location())
		storeReachable = true
	}

	// Check 2: schema version, for SQL backends
	if storeReachable {
		if v, ok := ctx.Backend.(versioned); ok {
			if err := checkSchemaVersion(ctx.Context(), v); err != nil {
				fail("Schema version", err)
			} else {
				ctx.Printf("✓ Schema version: OK\n")
			}
		}
	} else {
		ctx.Printf("⊘ Schema version: SKIPPED (store not reachable)\n")
	}

	// Check 3: record readable
	if storeReachable {
		dropped, err := checkRecord(ctx)
		switch {
		case err != nil:
			fail("Slot record", err)
		case dropped > 0:
			ctx.Printf("⚠ Slot record: WARNING\n")
			ctx.Printf("   %d invalid entries are ignored and will be dropped on the next save\n", dropped)
		default:
			ctx.Printf("✓ Slot record: OK (%d slots)\n", ctx.Store.Len())
		}
	} else {
		ctx.Printf("⊘ Slot record: SKIPPED (store not reachable)\n")
	}

	// Check 4: backups present (warning only)
	if err := checkBackupsPresent(ctx); err != nil {
		ctx.Printf("⚠ Backups present: WARNING\n")
		ctx.Printf("   %v\n", err)
	} else {
		ctx.Printf("✓ Backups present: OK\n")
	}

	// Check 5: clock/timezone sanity
	if err := checkClockTimezone(ctx); err != nil {
		fail("Clock/timezone", err)
	} else {
		ctx.Printf("✓ Clock/timezone: OK (%s)\n", ctx.Config.Timezone)
	}

	// Check 6: other instances (warning only)
	if pids, err := utils.OtherInstances(); err != nil {
		ctx.Printf("⚠ Other instances: WARNING\n")
		ctx.Printf("   could not list processes: %v\n", err)
	} else if len(pids) > 0 {
		ctx.Printf("⚠ Other instances: WARNING\n")
		ctx.Printf("   %d other weekwise process(es) running %v; the last one to save wins\n", len(pids), pids)
	} else {
		ctx.Printf("✓ Other instances: OK\n")
	}

	// Check 7: keyring, only relevant for postgres
	if ctx.Config.Storage.Store == "postgres" || postgres.IsConnString(ctx.Config.Storage.Store) {
		if keyring.IsAvailable() {
			ctx.Printf("✓ OS keyring: OK\n")
		} else {
			ctx.Printf("⚠ OS keyring: WARNING\n")
			ctx.Printf("   keyring unavailable; use WEEKWISE_DB_CONNECTION or .pgpass\n")
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkSchemaVersion(ctx context.Context, v versioned) error {
	current, latest, err := v.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("schema version (%d) is behind the latest migration (%d)", current, latest)
	}
	return nil
}

// checkRecord re-reads the raw record and reports entries Load skipped.
func checkRecord(ctx *cli.Context) (int, error) {
	data, err := ctx.Backend.Read(ctx.Context(), ctx.Store.Key())
	if errors.Is(err, storage.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read slot record: %w", err)
	}
	_, dropped, err := slotstore.Decode(data)
	if err != nil {
		return 0, fmt.Errorf("slot record is malformed and loads as an empty week: %w", err)
	}
	return dropped, nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	latest, err := ctx.Backups().Latest()
	if err != nil {
		return fmt.Errorf("no backups found in %s", ctx.Backups().Dir())
	}
	if age := time.Since(latest.Timestamp); age > 7*24*time.Hour {
		return fmt.Errorf("newest backup is %d days old", int(age.Hours()/24))
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now, err := ctx.Now()
	if err != nil {
		return err
	}
	if now.Year() < 2000 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	return nil
}
