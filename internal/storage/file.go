package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps all keys in one JSON object on disk. Every write replaces
// the file atomically.
type FileStore struct {
	mu     sync.RWMutex
	path   string
	values map[string]string
}

// NewFileStore loads the store at path, starting empty if the file does not exist.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, values: map[string]string{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read store: %w", err)
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("parse store %s: %w", path, err)
	}
	if s.values == nil {
		s.values = map[string]string{}
	}
	return s, nil
}

func (s *FileStore) Get(key string) (string, bool, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *FileStore) Set(key, value string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.copyValues()
	next[key] = value
	if err := s.writeAtomic(next); err != nil {
		return err
	}
	s.values = next
	return nil
}

func (s *FileStore) Delete(key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.values[key]; !ok {
		return nil
	}
	next := s.copyValues()
	delete(next, key)
	if err := s.writeAtomic(next); err != nil {
		return err
	}
	s.values = next
	return nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) copyValues() map[string]string {
	out := make(map[string]string, len(s.values)+1)
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// writeAtomic writes to a temp file then renames it over path.
// Caller must hold s.mu.
func (s *FileStore) writeAtomic(values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
