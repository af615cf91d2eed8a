package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps records in process memory. Nothing survives a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]byte)}
}

func (s *MemoryStore) Init(_ context.Context) error {
	return nil
}

func (s *MemoryStore) Read(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.records[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

func (s *MemoryStore) Write(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) Location() string {
	return "memory"
}

var (
	_ Backend = (*FileStore)(nil)
	_ Backend = (*MemoryStore)(nil)
)
