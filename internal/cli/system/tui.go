package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/weekwise/internal/cli"
	"github.com/julianstephens/weekwise/internal/logger"
	"github.com/julianstephens/weekwise/internal/tui"
	"github.com/julianstephens/weekwise/internal/utils"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	loc, err := utils.LoadLocation(ctx.Config.Timezone)
	if err != nil {
		return err
	}

	if pids, err := utils.OtherInstances(); err != nil {
		logger.Debug("process scan failed", "error", err)
	} else if len(pids) > 0 {
		logger.Warn("another weekwise process is running; edits may overwrite each other", "pids", pids)
	}

	ctx.PerformAutomaticBackup()

	p := tea.NewProgram(tui.NewModel(ctx.Store, loc), tea.WithAltScreen(), tea.WithContext(ctx.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
