package models

import "time"

// TypeCounts holds the number of slots of each type
type TypeCounts struct {
	Study        int `json:"study"`
	Essential    int `json:"essential"`
	NonEssential int `json:"nonessential"`
	Empty        int `json:"empty"`
}

// Add increments the counter for t. Unknown types count as empty.
func (c *TypeCounts) Add(t SlotType) {
	switch t {
	case SlotStudy:
		c.Study++
	case SlotEssential:
		c.Essential++
	case SlotNonEssential:
		c.NonEssential++
	default:
		c.Empty++
	}
}

// Merge adds every counter of other into c.
func (c *TypeCounts) Merge(other TypeCounts) {
	c.Study += other.Study
	c.Essential += other.Essential
	c.NonEssential += other.NonEssential
	c.Empty += other.Empty
}

// Get returns the counter for t.
func (c TypeCounts) Get(t SlotType) int {
	switch t {
	case SlotStudy:
		return c.Study
	case SlotEssential:
		return c.Essential
	case SlotNonEssential:
		return c.NonEssential
	case SlotEmpty:
		return c.Empty
	}
	return 0
}

// Total returns the sum of all counters.
func (c TypeCounts) Total() int {
	return c.Study + c.Essential + c.NonEssential + c.Empty
}

// DayStatistics is the derived focus summary for one day
type DayStatistics struct {
	Day         time.Weekday `json:"-"`
	DayName     string       `json:"day"`
	Counts      TypeCounts   `json:"counts"`
	RawScore    int          `json:"raw_score"`
	FilledCount int          `json:"filled_count"`
	MaxPossible int          `json:"max_possible"`
	Score       int          `json:"score"`
	TotalSlots  int          `json:"total_slots"`
}

// WeekStatistics aggregates the seven days, Monday first
type WeekStatistics struct {
	Days        []DayStatistics `json:"days"`
	TotalCounts TypeCounts      `json:"total_counts"`
	Scores      []int           `json:"scores"`
	AvgScore    int             `json:"avg_score"`
	FilledTotal int             `json:"filled_total"`
}
