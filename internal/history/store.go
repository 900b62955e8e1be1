// Package history archives emitted alerts for later analysis. The archive
// is append-only and strictly optional: a failed write degrades the run to
// a warning, never a failure.
package history

import (
	"context"
	"sync"

	"squeeze-radar/internal/domain"
)

// Store receives every alert the engine evaluated in a run, suppressed
// ones included, so the archive reflects what the engine saw rather than
// only what it emitted.
type Store interface {
	Append(ctx context.Context, runTsMs int64, alerts []*domain.Alert) error
}

// Row is one archived alert together with the run it came from.
type Row struct {
	RunTsMs int64
	Alert   *domain.Alert
}

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu   sync.Mutex
	rows []Row
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Compile-time interface check.
var _ Store = (*MemoryStore)(nil)

// Append stores the alerts.
func (s *MemoryStore) Append(_ context.Context, runTsMs int64, alerts []*domain.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range alerts {
		s.rows = append(s.rows, Row{RunTsMs: runTsMs, Alert: a})
	}
	return nil
}

// Rows returns a copy of everything appended so far.
func (s *MemoryStore) Rows() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Row(nil), s.rows...)
}
