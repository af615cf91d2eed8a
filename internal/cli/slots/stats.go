package slots

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/weekwise/internal/cli"
	"github.com/julianstephens/weekwise/internal/schedule"
	"github.com/julianstephens/weekwise/internal/scoring"
	"github.com/julianstephens/weekwise/internal/utils"
)

type StatsCmd struct {
	Day  string `arg:"" optional:"" help:"Day to score. Scores the whole week when omitted."`
	JSON bool   `help:"Print machine-readable JSON."`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	now, err := ctx.Now()
	if err != nil {
		return err
	}
	out := cli.DetectOutput(ctx.Stdout())

	if c.Day != "" {
		day, err := parseDay(c.Day, now)
		if err != nil {
			return err
		}
		st := scoring.ComputeDayStatistics(day, ctx.Store)
		if c.JSON {
			return printJSON(ctx, st)
		}
		cli.RenderDayStats(ctx.Stdout(), st, out)
		return nil
	}

	week := scoring.ComputeWeekStatistics(ctx.Store)
	if c.JSON {
		return printJSON(ctx, map[string]interface{}{
			"week":         week,
			"distribution": scoring.Distribution(week),
		})
	}
	cli.RenderWeekStats(ctx.Stdout(), week, out)
	return nil
}

type NowCmd struct{}

func (c *NowCmd) Run(ctx *cli.Context) error {
	now, err := ctx.Now()
	if err != nil {
		return err
	}

	day, hour, inSchedule := utils.CurrentSlot(now)
	if inSchedule {
		slot := ctx.Store.Get(day, hour)
		ctx.Printf("Now (%s %s): %s", day, schedule.FormatHourLabel(hour), slot.Type.Label())
		if slot.Title != "" {
			ctx.Printf(" (%s)", slot.Title)
		}
		ctx.Println()
	} else {
		ctx.Printf("Nothing planned now (%s %s).\n", day, now.Format("3:04 PM"))
	}

	nd, nh, at := utils.NextSlot(now)
	next := ctx.Store.Get(nd, nh)
	ctx.Printf("Next (%s %s, in %s): %s", nd, schedule.FormatHourLabel(nh), at.Sub(now).Round(time.Minute), next.DisplayTitle())
	if next.IsFilled() {
		ctx.Printf(" [%s]", next.Type.Label())
	}
	ctx.Println()
	return nil
}

func printJSON(ctx *cli.Context, v interface{}) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(jsonBytes))
	return nil
}
