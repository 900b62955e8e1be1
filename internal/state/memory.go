package state

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu        sync.RWMutex
	cooldowns map[string]int64
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cooldowns: map[string]int64{}}
}

// Compile-time interface check.
var _ Store = (*MemoryStore)(nil)

// Load returns a copy of the mapping.
func (s *MemoryStore) Load(_ context.Context) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]int64, len(s.cooldowns))
	for k, v := range s.cooldowns {
		out[k] = v
	}
	return out, nil
}

// Save replaces the mapping with a copy of cooldowns.
func (s *MemoryStore) Save(_ context.Context, cooldowns map[string]int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cooldowns = make(map[string]int64, len(cooldowns))
	for k, v := range cooldowns {
		s.cooldowns[k] = v
	}
	return nil
}
