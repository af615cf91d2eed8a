package slots

import (
	"bytes"
	"context"
	"encoding/json"
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

func TestSetCmd(t *testing.T) {
	tests := []struct {
		name      string
		cmd       SetCmd
		wantError bool
		wantOut   string
	}{
		{
			name:    "study slot with title",
			cmd:     SetCmd{Day: "monday", Hour: "20", Type: "study", Title: "Calculus"},
			wantOut: "Monday 8:00 PM: Study (Calculus)",
		},
		{
			name:    "twelve hour input",
			cmd:     SetCmd{Day: "sat", Hour: "9am", Type: "essential"},
			wantOut: "Saturday 9:00 AM: Essential",
		},
		{
			name:    "empty type clears",
			cmd:     SetCmd{Day: "tue", Hour: "21", Type: "empty"},
			wantOut: "Cleared Tuesday 9:00 PM",
		},
		{
			name:      "weekday morning is not planned",
			cmd:       SetCmd{Day: "monday", Hour: "9", Type: "study"},
			wantError: true,
		},
		{
			name:      "unknown type",
			cmd:       SetCmd{Day: "monday", Hour: "20", Type: "nap"},
			wantError: true,
		},
		{
			name:      "unknown day",
			cmd:       SetCmd{Day: "someday", Hour: "20", Type: "study"},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := setupTestContext(t)
			cmd := tt.cmd

			err := cmd.Run(ctx)
			if (err != nil) != tt.wantError {
				t.Fatalf("SetCmd.Run() error = %v, wantError %v", err, tt.wantError)
			}
			if tt.wantOut != "" && !strings.Contains(out.String(), tt.wantOut) {
				t.Errorf("output = %q, want substring %q", out.String(), tt.wantOut)
			}
		})
	}
}

func TestSetThenShow(t *testing.T) {
	ctx, out := setupTestContext(t)

	set := &SetCmd{Day: "sunday", Hour: "10", Type: "nonessential", Title: "Brunch", Notes: "with Sam"}
	if err := set.Run(ctx); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	slot := ctx.Store.Get(time.Sunday, 10)
	if slot.Type != models.SlotNonEssential || slot.Notes != "with Sam" {
		t.Errorf("stored slot = %+v", slot)
	}

	out.Reset()
	show := &ShowCmd{Day: "sun"}
	if err := show.Run(ctx); err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !strings.Contains(out.String(), "Brunch") {
		t.Errorf("day view missing title: %q", out.String())
	}

	out.Reset()
	week := &ShowCmd{}
	if err := week.Run(ctx); err != nil {
		t.Fatalf("show week failed: %v", err)
	}
	for _, day := range []string{"Monday", "Sunday"} {
		if !strings.Contains(out.String(), day) {
			t.Errorf("week view missing %s", day)
		}
	}
}

func TestDeleteCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	if err := ctx.Store.Set(ctx.Context(), time.Friday, 22, models.Slot{Type: models.SlotStudy}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	cmd := &DeleteCmd{Day: "fri", Hour: "10pm"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if ctx.Store.Len() != 0 {
		t.Errorf("store has %d entries after delete", ctx.Store.Len())
	}
	if !strings.Contains(out.String(), "Cleared Friday 10:00 PM") {
		t.Errorf("output = %q", out.String())
	}

	bad := &DeleteCmd{Day: "fri", Hour: "8"}
	if err := bad.Run(ctx); err == nil {
		t.Error("expected error for hour outside the planned range")
	}
}

func TestClearCmd(t *testing.T) {
	seed := func(t *testing.T, ctx *cli.Context) {
		t.Helper()
		for _, h := range []int{20, 21} {
			if err := ctx.Store.Set(ctx.Context(), time.Monday, h, models.Slot{Type: models.SlotStudy}); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
		}
	}

	t.Run("declined", func(t *testing.T) {
		ctx, out := setupTestContext(t)
		seed(t, ctx)
		ctx.In = strings.NewReader("n\n")

		if err := (&ClearCmd{}).Run(ctx); err != nil {
			t.Fatalf("clear failed: %v", err)
		}
		if ctx.Store.Len() != 2 {
			t.Errorf("declined clear removed slots")
		}
		if !strings.Contains(out.String(), "Clear cancelled.") {
			t.Errorf("output = %q", out.String())
		}
	})

	t.Run("confirmed backs up first", func(t *testing.T) {
		ctx, _ := setupTestContext(t)
		seed(t, ctx)
		ctx.In = strings.NewReader("y\n")

		if err := (&ClearCmd{}).Run(ctx); err != nil {
			t.Fatalf("clear failed: %v", err)
		}
		if ctx.Store.Len() != 0 {
			t.Errorf("store has %d entries after clear", ctx.Store.Len())
		}
		backups, err := ctx.Backups().List()
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(backups) != 1 {
			t.Errorf("got %d backups, want 1", len(backups))
		}
	})

	t.Run("yes flag skips prompt", func(t *testing.T) {
		ctx, out := setupTestContext(t)
		seed(t, ctx)

		if err := (&ClearCmd{Yes: true}).Run(ctx); err != nil {
			t.Fatalf("clear failed: %v", err)
		}
		if strings.Contains(out.String(), "[y/N]") {
			t.Error("--yes should not prompt")
		}
	})

	t.Run("empty week", func(t *testing.T) {
		ctx, out := setupTestContext(t)
		if err := (&ClearCmd{}).Run(ctx); err != nil {
			t.Fatalf("clear failed: %v", err)
		}
		if !strings.Contains(out.String(), "Nothing to clear.") {
			t.Errorf("output = %q", out.String())
		}
	})
}

func TestStatsCmdJSON(t *testing.T) {
	ctx, out := setupTestContext(t)
	for _, h := range []int{20, 21} {
		if err := ctx.Store.Set(ctx.Context(), time.Monday, h, models.Slot{Type: models.SlotStudy}); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	if err := (&StatsCmd{Day: "monday", JSON: true}).Run(ctx); err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	var day models.DayStatistics
	if err := json.Unmarshal(out.Bytes(), &day); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	// 4 points of a possible 8
	if day.Score != 50 || day.FilledCount != 2 || day.TotalSlots != 4 {
		t.Errorf("day stats = %+v", day)
	}

	out.Reset()
	if err := (&StatsCmd{}).Run(ctx); err != nil {
		t.Fatalf("week stats failed: %v", err)
	}
	if !strings.Contains(out.String(), "Focus scores") || !strings.Contains(out.String(), "Average: 7") {
		t.Errorf("week stats output = %q", out.String())
	}
}

func TestNowCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	if err := (&NowCmd{}).Run(ctx); err != nil {
		t.Fatalf("now failed: %v", err)
	}
	if !strings.Contains(out.String(), "Next (") {
		t.Errorf("output = %q", out.String())
	}
}

func TestParseDay(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC) // Saturday
	day, err := parseDay("today", now)
	if err != nil || day != time.Saturday {
		t.Errorf("parseDay(today) = %v, %v", day, err)
	}
	if _, err := parseDay("blursday", now); err == nil {
		t.Error("expected error for unknown day")
	}
}
