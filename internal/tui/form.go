package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/weekwise/internal/models"
	"github.com/julianstephens/weekwise/internal/schedule"
)

// NewSlotForm builds the editor for one slot.
func NewSlotForm(fm *SlotFormModel, day time.Weekday, hour int) *huh.Form {
	typeOptions := make([]huh.Option[models.SlotType], 0, len(models.SlotTypes))
	for _, t := range models.SlotTypes {
		typeOptions = append(typeOptions, huh.NewOption(t.Label(), t))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title(fmt.Sprintf("%s %s", day, schedule.FormatHourLabel(hour))),
			huh.NewSelect[models.SlotType]().
				Title("Type").
				Options(typeOptions...).
				Value(&fm.Type),
			huh.NewInput().
				Title("Title").
				Placeholder("What is this hour for?").
				Value(&fm.Title),
			huh.NewText().
				Title("Notes").
				Lines(3).
				Value(&fm.Notes),
			huh.NewSelect[formAction]().
				Title("Action").
				Options(
					huh.NewOption("Save", actionSave),
					huh.NewOption("Clear slot", actionDelete),
				).
				Value(&fm.Action),
		),
	).WithTheme(huh.ThemeDracula())
}
