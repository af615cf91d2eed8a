package models

import (
	"fmt"
	"strings"

	"github.com/julianstephens/weekwise/internal/constants"
)

// SlotType classifies how an hour of the week is spent
type SlotType string

const (
	SlotStudy        SlotType = "study"
	SlotEssential    SlotType = "essential"
	SlotNonEssential SlotType = "nonessential"
	SlotEmpty        SlotType = "empty"
)

// SlotTypes lists every slot type in display order.
var SlotTypes = []SlotType{SlotStudy, SlotEssential, SlotNonEssential, SlotEmpty}

// Valid reports whether t is one of the four known slot types.
func (t SlotType) Valid() bool {
	switch t {
	case SlotStudy, SlotEssential, SlotNonEssential, SlotEmpty:
		return true
	}
	return false
}

// Points returns the focus-score contribution of a slot of this type.
func (t SlotType) Points() int {
	switch t {
	case SlotStudy:
		return constants.PointsStudy
	case SlotEssential:
		return constants.PointsEssential
	case SlotNonEssential:
		return constants.PointsNonEssential
	default:
		return constants.PointsEmpty
	}
}

// Label returns a human-readable name for the slot type.
func (t SlotType) Label() string {
	switch t {
	case SlotStudy:
		return "Study"
	case SlotEssential:
		return "Essential Break"
	case SlotNonEssential:
		return "Non-Essential Break"
	case SlotEmpty:
		return "Empty"
	default:
		return string(t)
	}
}

// ParseSlotType parses a slot type name. The empty string maps to SlotEmpty.
func ParseSlotType(s string) (SlotType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return SlotEmpty, nil
	case "non-essential", "non_essential":
		return SlotNonEssential, nil
	}
	t := SlotType(s)
	if !t.Valid() {
		return "", fmt.Errorf("invalid slot type: %q (expected study, essential, nonessential or empty)", s)
	}
	return t, nil
}

// Slot is the user data for one (day, hour) cell of the week
type Slot struct {
	Type  SlotType `json:"type"`
	Title string   `json:"title"`
	Notes string   `json:"notes"`
}

// DefaultSlot returns the slot used for hours with nothing stored.
func DefaultSlot() Slot {
	return Slot{Type: SlotEmpty}
}

// Normalize trims free text and maps a missing type to empty.
func (s Slot) Normalize() Slot {
	if s.Type == "" {
		s.Type = SlotEmpty
	}
	s.Title = strings.TrimSpace(s.Title)
	s.Notes = strings.TrimSpace(s.Notes)
	return s
}

// IsDefault reports whether the slot is equivalent to an absent entry.
func (s Slot) IsDefault() bool {
	n := s.Normalize()
	return n.Type == SlotEmpty && n.Title == "" && n.Notes == ""
}

// IsFilled reports whether the slot counts towards the focus score.
func (s Slot) IsFilled() bool {
	return s.Normalize().Type != SlotEmpty
}

// DisplayTitle is the text shown in a grid cell.
func (s Slot) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	if s.Normalize().Type == SlotEmpty {
		return constants.EmptySlotPrompt
	}
	return constants.UntitledSlotMark
}
