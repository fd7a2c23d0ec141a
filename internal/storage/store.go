// Package storage persists settings and history as serialized JSON under
// fixed keys, the way a browser keeps them in localStorage.
package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"
	DriverMemory = "memory"
)

// ErrEmptyKey is returned for blank keys.
var ErrEmptyKey = errors.New("empty key")

// Store is a string key/value store.
type Store interface {
	// Get returns the value for key; ok is false when the key does not exist.
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

// Open opens the store selected by driver inside dataDir.
func Open(driver, dataDir string, log logrus.FieldLogger) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverSQLite:
		return OpenSQLite(filepath.Join(dataDir, "mintqr.db"), log)
	case DriverFile:
		return NewFileStore(filepath.Join(dataDir, "mintqr.json"))
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

func cleanKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrEmptyKey
	}
	return key, nil
}
