// Package slotstore owns the mapping from slot id to slot contents and
// keeps it persisted as a single JSON record in a storage backend.
package slotstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/weekwise/internal/constants"
	"github.com/julianstephens/weekwise/internal/logger"
	"github.com/julianstephens/weekwise/internal/models"
	"github.com/julianstephens/weekwise/internal/schedule"
	"github.com/julianstephens/weekwise/internal/storage"
)

var (
	// ErrInvalidSlot is returned when a (day, hour) pair is not part of the planned week.
	ErrInvalidSlot = errors.New("slot is outside the planned week")
	// ErrInvalidType is returned for slot types other than the four known ones.
	ErrInvalidType = errors.New("invalid slot type")
)

// Store is safe for concurrent use. Every mutation is persisted before it
// returns; a failed write leaves both memory and the record unchanged.
type Store struct {
	backend storage.Backend
	key     string

	mu    sync.RWMutex
	slots map[string]models.Slot
}

type Option func(*Store)

// WithKey overrides the record key the mapping is stored under.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

func New(backend storage.Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		key:     constants.SlotsRecordKey,
		slots:   make(map[string]models.Slot),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the record key.
func (s *Store) Key() string {
	return s.key
}

// Location describes where the backend keeps the record.
func (s *Store) Location() string {
	return s.backend.Location()
}

// Load replaces the in-memory mapping with the persisted record and
// returns a copy of it. Missing, unreadable or malformed records load as an
// empty week.
func (s *Store) Load(ctx context.Context) map[string]models.Slot {
	slots := make(map[string]models.Slot)

	data, err := s.backend.Read(ctx, s.key)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		logger.Warn("failed to read slot record, starting empty", "key", s.key, "error", err)
	default:
		decoded, dropped, decodeErr := Decode(data)
		if decodeErr != nil {
			logger.Warn("slot record is malformed, starting empty", "key", s.key, "error", decodeErr)
		} else {
			slots = decoded
			if dropped > 0 {
				logger.Warn("ignored invalid slot entries", "key", s.key, "count", dropped)
			}
		}
	}

	s.mu.Lock()
	s.slots = slots
	s.mu.Unlock()
	return copySlots(slots)
}

// Get returns the slot at (day, hour), or the default slot when nothing is
// stored or the pair is outside the planned week.
func (s *Store) Get(day time.Weekday, hour int) models.Slot {
	if !schedule.IsValidSlot(day, hour) {
		return models.DefaultSlot()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if slot, ok := s.slots[schedule.SlotID(day, hour)]; ok {
		return slot
	}
	return models.DefaultSlot()
}

// Set stores slot at (day, hour). Title and notes are trimmed; a slot that
// normalises to the default is removed instead.
func (s *Store) Set(ctx context.Context, day time.Weekday, hour int, slot models.Slot) error {
	if !schedule.IsValidSlot(day, hour) {
		return fmt.Errorf("%w: %s %d:00", ErrInvalidSlot, day, hour)
	}
	slot = slot.Normalize()
	if !slot.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, slot.Type)
	}
	id := schedule.SlotID(day, hour)

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.slots[id]
	if slot.IsDefault() {
		if !had {
			return nil
		}
		delete(s.slots, id)
	} else {
		s.slots[id] = slot
	}

	if err := s.persistLocked(ctx); err != nil {
		if had {
			s.slots[id] = prev
		} else {
			delete(s.slots, id)
		}
		return err
	}
	logger.Debug("slot saved", "slot", id, "type", slot.Type)
	return nil
}

// Delete removes the slot at (day, hour). Deleting an absent slot is a no-op.
func (s *Store) Delete(ctx context.Context, day time.Weekday, hour int) error {
	if !schedule.IsValidSlot(day, hour) {
		return fmt.Errorf("%w: %s %d:00", ErrInvalidSlot, day, hour)
	}
	id := schedule.SlotID(day, hour)

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.slots[id]
	if !had {
		return nil
	}
	delete(s.slots, id)
	if err := s.persistLocked(ctx); err != nil {
		s.slots[id] = prev
		return err
	}
	logger.Debug("slot deleted", "slot", id)
	return nil
}

// Clear empties the week and removes the persisted record.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Remove(ctx, s.key); err != nil {
		return fmt.Errorf("failed to clear slots: %w", err)
	}
	s.slots = make(map[string]models.Slot)
	logger.Info("cleared all slots", "key", s.key)
	return nil
}

// Replace swaps the whole mapping for slots after validating every entry.
// Default entries are dropped. Used by import and backup restore.
func (s *Store) Replace(ctx context.Context, slots map[string]models.Slot) error {
	next := make(map[string]models.Slot, len(slots))
	for id, slot := range slots {
		if _, _, ok := schedule.ParseSlotID(id); !ok {
			return fmt.Errorf("%w: %q", ErrInvalidSlot, id)
		}
		slot = slot.Normalize()
		if !slot.Type.Valid() {
			return fmt.Errorf("%w: %q at %s", ErrInvalidType, slot.Type, id)
		}
		if !slot.IsDefault() {
			next[id] = slot
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.slots
	s.slots = next
	if err := s.persistLocked(ctx); err != nil {
		s.slots = prev
		return err
	}
	logger.Info("replaced slots", "key", s.key, "count", len(next))
	return nil
}

// Snapshot returns a copy of every stored (non-default) slot keyed by slot id.
func (s *Store) Snapshot() map[string]models.Slot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlots(s.slots)
}

// Len returns the number of stored slots.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.slots)
}

// Encode returns the record exactly as it is persisted.
func (s *Store) Encode() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return json.Marshal(s.slots)
}

func (s *Store) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(s.slots)
	if err != nil {
		return fmt.Errorf("failed to encode slots: %w", err)
	}
	if err := s.backend.Write(ctx, s.key, data); err != nil {
		logger.Error("failed to persist slots", "key", s.key, "error", err)
		return fmt.Errorf("failed to save slots: %w", err)
	}
	return nil
}

func copySlots(in map[string]models.Slot) map[string]models.Slot {
	out := make(map[string]models.Slot, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
