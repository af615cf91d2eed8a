package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/julianstephens/weekwise/internal/constants"
	"github.com/julianstephens/weekwise/internal/models"
	"github.com/julianstephens/weekwise/internal/slotstore"
)

// Document is the JSON export format. Slots uses the persisted record
// layout, so a bare record is also accepted on import.
type Document struct {
	App        string                 `json:"app"`
	Version    string                 `json:"version"`
	ExportedAt time.Time              `json:"exported_at"`
	Slots      map[string]models.Slot `json:"slots"`
}

// Replacer swaps the stored week. *slotstore.Store satisfies it.
type Replacer interface {
	Replace(ctx context.Context, slots map[string]models.Slot) error
}

// WriteJSON writes slots as an indented Document.
func WriteJSON(w io.Writer, slots map[string]models.Slot, now time.Time) error {
	if slots == nil {
		slots = map[string]models.Slot{}
	}
	doc := Document{
		App:        constants.AppName,
		Version:    constants.Version,
		ExportedAt: now.UTC(),
		Slots:      slots,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return nil
}

// ReadJSON parses a Document or a bare slot record. Unlike loading the
// persisted record, any unreadable entry fails the whole import.
func ReadJSON(r io.Reader) (map[string]models.Slot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read import: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("import is empty")
	}

	var envelope struct {
		App   string          `json:"app"`
		Slots json.RawMessage `json:"slots"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.App != "" && envelope.Slots != nil {
		data = envelope.Slots
	}

	slots, dropped, err := slotstore.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("invalid import: %w", err)
	}
	if dropped > 0 {
		return nil, fmt.Errorf("invalid import: %d entries have an unknown slot id or type", dropped)
	}
	return slots, nil
}

// Import reads r and replaces the whole week in dst.
func Import(ctx context.Context, r io.Reader, dst Replacer) (int, error) {
	slots, err := ReadJSON(r)
	if err != nil {
		return 0, err
	}
	if err := dst.Replace(ctx, slots); err != nil {
		return 0, fmt.Errorf("failed to import slots: %w", err)
	}
	return len(slots), nil
}
