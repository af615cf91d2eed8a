package exports

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/weekwise/internal/cli"
	"github.com/julianstephens/weekwise/internal/config"
	"github.com/julianstephens/weekwise/internal/models"
)

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.Dir = t.TempDir()
	cfg.Path = filepath.Join(cfg.Dir, "config.yaml")
	cfg.Storage.Store = "memory"
	cfg.Timezone = "UTC"

	ctx, err := cli.NewContext(cfg)
	if err != nil {
		t.Fatalf("NewContext failed: %v", err)
	}
	if err := ctx.Open(context.Background()); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	var out bytes.Buffer
	ctx.Out = &out
	return ctx, &out
}

func seedWeek(t *testing.T, ctx *cli.Context) {
	t.Helper()
	slots := []struct {
		day  time.Weekday
		hour int
		slot models.Slot
	}{
		{time.Monday, 20, models.Slot{Type: models.SlotStudy, Title: "Calculus"}},
		{time.Saturday, 8, models.Slot{Type: models.SlotEssential, Title: "Groceries"}},
		{time.Sunday, 14, models.Slot{Type: models.SlotEmpty, Notes: "keep free"}},
	}
	for _, s := range slots {
		if err := ctx.Store.Set(ctx.Context(), s.day, s.hour, s.slot); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}
}

func TestExportICSToStdout(t *testing.T) {
	ctx, out := setupTestContext(t)
	seedWeek(t, ctx)

	if err := (&ExportCmd{Format: "ics", Name: "Focus"}).Run(ctx); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	ics := out.String()
	if !strings.HasPrefix(ics, "BEGIN:VCALENDAR\r\n") {
		t.Errorf("not an iCalendar document: %q", ics)
	}
	// the notes-only empty slot is not an event
	if got := strings.Count(ics, "BEGIN:VEVENT"); got != 2 {
		t.Errorf("got %d events, want 2", got)
	}
	if !strings.Contains(ics, "SUMMARY:Calculus") {
		t.Error("missing Calculus event")
	}
}

func TestExportJSONThenImport(t *testing.T) {
	src, _ := setupTestContext(t)
	seedWeek(t, src)

	path := filepath.Join(t.TempDir(), "week.json")
	exportCmd := &ExportCmd{Format: "json", Output: path}
	if err := exportCmd.Run(src); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("export file missing: %v", err)
	}

	dst, out := setupTestContext(t)
	if err := dst.Store.Set(dst.Context(), time.Tuesday, 21, models.Slot{Type: models.SlotNonEssential}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	dst.In = strings.NewReader("y\n")

	if err := (&ImportCmd{File: path}).Run(dst); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if dst.Store.Len() != 3 {
		t.Errorf("imported store has %d entries, want 3", dst.Store.Len())
	}
	if !dst.Store.Get(time.Tuesday, 21).IsDefault() {
		t.Error("import should replace, not merge")
	}
	if got := dst.Store.Get(time.Monday, 20).Title; got != "Calculus" {
		t.Errorf("Monday 20 title = %q", got)
	}
	if !strings.Contains(out.String(), "Imported 3 slots") {
		t.Errorf("output = %q", out.String())
	}

	backups, err := dst.Backups().List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 1 {
		t.Errorf("expected a backup before import, got %d", len(backups))
	}
}

func TestImportDeclined(t *testing.T) {
	ctx, out := setupTestContext(t)
	seedWeek(t, ctx)

	path := filepath.Join(t.TempDir(), "week.json")
	if err := os.WriteFile(path, []byte(`{"Friday__20":{"type":"study","title":"","notes":""}}`), 0o600); err != nil {
		t.Fatal(err)
	}
	ctx.In = strings.NewReader("n\n")

	if err := (&ImportCmd{File: path}).Run(ctx); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if ctx.Store.Len() != 3 {
		t.Errorf("declined import changed the store")
	}
	if !strings.Contains(out.String(), "Import cancelled.") {
		t.Errorf("output = %q", out.String())
	}
}

func TestImportRejectsBadFile(t *testing.T) {
	ctx, _ := setupTestContext(t)
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`[1, 2, 3]`), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := (&ImportCmd{File: path, Yes: true}).Run(ctx); err == nil {
		t.Error("expected error for non-object import")
	}
}
