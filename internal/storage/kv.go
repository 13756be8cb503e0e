package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// KeyValueStore is the small durable surface the recent-query list persists
// through. Backends are string-keyed and string-valued; the browser's local
// storage, a file, or anything else durable fits behind it.
type KeyValueStore interface {
	// Get returns the value for key; the bool is false when the key is
	// absent.
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// FileKeyValueStore persists keys as a single JSON object in one file.
// Writes go through a temp file rename so a crash never leaves a truncated
// store behind.
type FileKeyValueStore struct {
	path string
	mu   sync.Mutex
}

// NewFileKeyValueStore creates a store backed by the file at path. The
// parent directory is created if missing; the file itself is created on
// first Set.
func NewFileKeyValueStore(path string) (*FileKeyValueStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory for %s: %w", path, err)
	}
	return &FileKeyValueStore{path: path}, nil
}

// Get implements KeyValueStore.
func (s *FileKeyValueStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return "", false, err
	}
	value, ok := data[key]
	return value, ok, nil
}

// Set implements KeyValueStore.
func (s *FileKeyValueStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	data[key] = value

	encoded, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal store contents: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, encoded, 0o600); err != nil {
		return fmt.Errorf("failed to write store file %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to replace store file %s: %w", s.path, err)
	}
	return nil
}

func (s *FileKeyValueStore) load() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store file %s: %w", s.path, err)
	}

	data := map[string]string{}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal store file %s: %w", s.path, err)
	}
	return data, nil
}
