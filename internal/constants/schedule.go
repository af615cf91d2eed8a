package constants

const (
	// Weekday evenings run from 8 PM to midnight.
	WeekdayStartHour = 20
	// Weekends run from 8 AM to midnight.
	WeekendStartHour = 8
	// DayEndHour is exclusive.
	DayEndHour = 24

	// SlotIDSeparator joins the day name and hour in a slot identifier.
	SlotIDSeparator = "__"

	// Point values used by the focus score.
	PointsStudy        = 2
	PointsEssential    = 1
	PointsNonEssential = -1
	PointsEmpty        = 0

	// MaxPointsPerSlot is the best case for a filled hour (study).
	MaxPointsPerSlot = PointsStudy

	MinScore = 0
	MaxScore = 100

	// Labels shown for slots without a title
	EmptySlotPrompt  = "Tap to add"
	UntitledSlotMark = "—"
)
