package slotstore

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/weekwise/internal/models"
	"github.com/julianstephens/weekwise/internal/schedule"
)

type rawSlot struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Notes string `json:"notes"`
}

// Decode parses a persisted record. It fails only when data is not a JSON
// object; entries with unknown ids, unreadable values, unknown types or
// default contents are skipped and counted in dropped.
func Decode(data []byte) (slots map[string]models.Slot, dropped int, err error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("slot record is not a JSON object: %w", err)
	}
	if raw == nil {
		// a literal null
		return nil, 0, fmt.Errorf("slot record is not a JSON object")
	}

	slots = make(map[string]models.Slot, len(raw))
	for id, value := range raw {
		if _, _, ok := schedule.ParseSlotID(id); !ok {
			dropped++
			continue
		}
		var rs rawSlot
		if err := json.Unmarshal(value, &rs); err != nil {
			dropped++
			continue
		}
		t := models.SlotType(rs.Type)
		if rs.Type == "" {
			t = models.SlotEmpty
		}
		if !t.Valid() {
			dropped++
			continue
		}
		slot := models.Slot{Type: t, Title: rs.Title, Notes: rs.Notes}.Normalize()
		if slot.IsDefault() {
			continue
		}
		slots[id] = slot
	}
	return slots, dropped, nil
}
