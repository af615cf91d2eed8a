package scoring

import (
	"github.com/julianstephens/weekwise/internal/models"
	"github.com/julianstephens/weekwise/internal/schedule"
)

// Segment is one slot type's share of the week.
type Segment struct {
	Type     models.SlotType `json:"type"`
	Label    string          `json:"label"`
	Count    int             `json:"count"`
	Fraction float64         `json:"fraction"`
}

// Distribution splits the week's slots by type in display order. Fractions
// sum to 1 unless the week has no slots at all.
func Distribution(week models.WeekStatistics) []Segment {
	total := week.TotalCounts.Total()
	segments := make([]Segment, 0, len(models.SlotTypes))
	for _, t := range models.SlotTypes {
		seg := Segment{Type: t, Label: t.Label(), Count: week.TotalCounts.Get(t)}
		if total > 0 {
			seg.Fraction = float64(seg.Count) / float64(total)
		}
		segments = append(segments, seg)
	}
	return segments
}

// Bar is one day's score column.
type Bar struct {
	Label string `json:"label"`
	Score int    `json:"score"`
}

// ScoreBars returns a bar per day labelled with the short day name.
func ScoreBars(week models.WeekStatistics) []Bar {
	bars := make([]Bar, 0, len(week.Days))
	for _, d := range week.Days {
		bars = append(bars, Bar{Label: schedule.ShortName(d.Day), Score: d.Score})
	}
	return bars
}
