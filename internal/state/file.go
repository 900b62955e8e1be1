package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore persists the cooldown mapping as a flat JSON file. This is the
// default backend: the external scheduler runs at most one process per tick,
// so plain last-writer-wins file I/O is sufficient.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Compile-time interface check.
var _ Store = (*FileStore)(nil)

// Load reads the mapping. An absent file is a first run, not an error.
func (s *FileStore) Load(_ context.Context) (map[string]int64, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]int64{}, nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	cooldowns := map[string]int64{}
	if err := json.Unmarshal(data, &cooldowns); err != nil {
		return nil, fmt.Errorf("parse state file: %w", err)
	}
	return cooldowns, nil
}

// Save writes the mapping atomically via a temp file and rename.
func (s *FileStore) Save(_ context.Context, cooldowns map[string]int64) error {
	data, err := json.MarshalIndent(cooldowns, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
