package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store is a file-backed memoization cache for external calls. Values are
// opaque JSON payloads keyed by string; every write is persisted so repeated
// runs reuse earlier results.
type Store struct {
	path    string
	mu      sync.Mutex
	entries map[string]json.RawMessage
}

// Open loads the cache from the given file, starting empty if the file does
// not exist yet.
func Open(path string) (*Store, error) {
	s := &Store{
		path:    path,
		entries: make(map[string]json.RawMessage),
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read cache file %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &s.entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data from %s: %w", path, err)
	}
	return s, nil
}

// GetOrCompute returns the cached value for key, calling compute (and
// persisting its result) on a miss. The second return value reports whether
// the value came from the cache.
func (s *Store) GetOrCompute(key string, compute func() ([]byte, error)) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if value, ok := s.entries[key]; ok {
		return value, true, nil
	}

	value, err := compute()
	if err != nil {
		return nil, false, err
	}
	if !json.Valid(value) {
		return nil, false, fmt.Errorf("computed value for key %q is not valid JSON", key)
	}

	s.entries[key] = json.RawMessage(value)
	if err := s.persist(); err != nil {
		return nil, false, err
	}
	return value, false, nil
}

// Len reports the number of cached entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) persist() error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file %s: %w", s.path, err)
	}
	return nil
}
