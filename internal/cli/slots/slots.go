package slots

import (
	"fmt"
	"time"

	"github.com/julianstephens/weekwise/internal/cli"
	"github.com/julianstephens/weekwise/internal/models"
	"github.com/julianstephens/weekwise/internal/schedule"
)

type ShowCmd struct {
	Day string `arg:"" optional:"" help:"Day to show (name, abbreviation, 0-6 or 'today'). Shows the whole week when omitted."`
}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	now, err := ctx.Now()
	if err != nil {
		return err
	}
	out := cli.DetectOutput(ctx.Stdout())

	if c.Day == "" {
		cli.RenderWeek(ctx.Stdout(), ctx.Store, now, out)
		return nil
	}
	day, err := parseDay(c.Day, now)
	if err != nil {
		return err
	}
	cli.RenderDay(ctx.Stdout(), ctx.Store, day, now, out)
	return nil
}

type SetCmd struct {
	Day   string `arg:"" help:"Day of the slot."`
	Hour  string `arg:"" help:"Hour of the slot (20, 20:00, 8pm)."`
	Type  string `short:"t" default:"study" help:"Slot type: study, essential, nonessential or empty."`
	Title string `help:"Title shown in the grid."`
	Notes string `help:"Free-form notes."`
}

func (c *SetCmd) Run(ctx *cli.Context) error {
	day, hour, err := parseSlot(c.Day, c.Hour)
	if err != nil {
		return err
	}
	t, err := models.ParseSlotType(c.Type)
	if err != nil {
		return err
	}

	slot := models.Slot{Type: t, Title: c.Title, Notes: c.Notes}
	if err := ctx.Store.Set(ctx.Context(), day, hour, slot); err != nil {
		return fmt.Errorf("failed to save slot: %w", err)
	}

	saved := ctx.Store.Get(day, hour)
	if saved.IsDefault() {
		ctx.Printf("✓ Cleared %s %s\n", day, schedule.FormatHourLabel(hour))
		return nil
	}
	ctx.Printf("✓ %s %s: %s", day, schedule.FormatHourLabel(hour), saved.Type.Label())
	if saved.Title != "" {
		ctx.Printf(" (%s)", saved.Title)
	}
	ctx.Println()
	return nil
}

type DeleteCmd struct {
	Day  string `arg:"" help:"Day of the slot."`
	Hour string `arg:"" help:"Hour of the slot."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	day, hour, err := parseSlot(c.Day, c.Hour)
	if err != nil {
		return err
	}
	if err := ctx.Store.Delete(ctx.Context(), day, hour); err != nil {
		return fmt.Errorf("failed to delete slot: %w", err)
	}
	ctx.Printf("✓ Cleared %s %s\n", day, schedule.FormatHourLabel(hour))
	return nil
}

type ClearCmd struct {
	Yes bool `short:"y" help:"Do not ask for confirmation."`
}

func (c *ClearCmd) Run(ctx *cli.Context) error {
	if ctx.Store.Len() == 0 {
		ctx.Println("Nothing to clear.")
		return nil
	}
	if !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Clear all %d planned slots?", ctx.Store.Len()))
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Clear cancelled.")
			return nil
		}
	}

	// keep a way back
	ctx.PerformAutomaticBackup()
	if err := ctx.Store.Clear(ctx.Context()); err != nil {
		return fmt.Errorf("failed to clear slots: %w", err)
	}
	ctx.Println("✓ All slots cleared")
	return nil
}

func parseDay(s string, now time.Time) (time.Weekday, error) {
	if s == "today" {
		return now.Weekday(), nil
	}
	return schedule.ParseDay(s)
}

func parseSlot(dayStr, hourStr string) (time.Weekday, int, error) {
	day, err := schedule.ParseDay(dayStr)
	if err != nil {
		return 0, 0, err
	}
	hour, err := schedule.ParseHour(hourStr)
	if err != nil {
		return 0, 0, err
	}
	if !schedule.IsValidSlot(day, hour) {
		return 0, 0, fmt.Errorf("%s %s is outside the planned hours (%s)", day, schedule.FormatHourLabel(hour), schedule.RangeLabel(day))
	}
	return day, hour, nil
}
