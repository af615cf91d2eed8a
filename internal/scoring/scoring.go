// Package scoring derives focus statistics from the planned week. It is
// pure: every call recomputes from the slot source.
package scoring

import (
	"math"
	"time"

	"github.com/julianstephens/weekwise/internal/constants"
	"github.com/julianstephens/weekwise/internal/models"
	"github.com/julianstephens/weekwise/internal/schedule"
)

// Source looks up the slot at (day, hour), returning the default slot when
// nothing is stored. *slotstore.Store satisfies it.
type Source interface {
	Get(day time.Weekday, hour int) models.Slot
}

// SlotMap is a Source over a plain id-keyed mapping such as a store snapshot.
type SlotMap map[string]models.Slot

func (m SlotMap) Get(day time.Weekday, hour int) models.Slot {
	if slot, ok := m[schedule.SlotID(day, hour)]; ok {
		return slot
	}
	return models.DefaultSlot()
}

// ComputeDayStatistics scores one day. The score normalises the raw points
// by the best case for the filled hours only, so an empty day scores 0.
func ComputeDayStatistics(day time.Weekday, src Source) models.DayStatistics {
	hours := schedule.ValidHours(day)
	stats := models.DayStatistics{
		Day:        day,
		DayName:    day.String(),
		TotalSlots: len(hours),
	}

	for _, hour := range hours {
		t := src.Get(day, hour).Normalize().Type
		if !t.Valid() {
			t = models.SlotEmpty
		}
		stats.Counts.Add(t)
		stats.RawScore += t.Points()
		if t != models.SlotEmpty {
			stats.FilledCount++
		}
	}

	stats.MaxPossible = stats.FilledCount * constants.MaxPointsPerSlot
	if stats.MaxPossible > 0 {
		score := round(float64(stats.RawScore) / float64(stats.MaxPossible) * 100)
		stats.Score = clamp(score, constants.MinScore, constants.MaxScore)
	}
	return stats
}

// ComputeWeekStatistics scores every day, Monday first, and aggregates.
func ComputeWeekStatistics(src Source) models.WeekStatistics {
	week := models.WeekStatistics{
		Days:   make([]models.DayStatistics, 0, len(schedule.Week)),
		Scores: make([]int, 0, len(schedule.Week)),
	}

	sum := 0
	for _, day := range schedule.Week {
		st := ComputeDayStatistics(day, src)
		week.Days = append(week.Days, st)
		week.Scores = append(week.Scores, st.Score)
		week.TotalCounts.Merge(st.Counts)
		week.FilledTotal += st.FilledCount
		sum += st.Score
	}
	if len(week.Scores) > 0 {
		week.AvgScore = round(float64(sum) / float64(len(week.Scores)))
	}
	return week
}

// round rounds half up, so 62.5 becomes 63 and -0.5 becomes 0.
func round(x float64) int {
	return int(math.Floor(x + 0.5))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
