package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	sq, err := OpenSQLite(filepath.Join(dir, "kv.db"), nil)
	require.NoError(t, err)
	fs, err := NewFileStore(filepath.Join(dir, "kv.json"))
	require.NoError(t, err)

	stores := map[string]Store{
		DriverSQLite: sq,
		DriverFile:   fs,
		DriverMemory: NewMemoryStore(),
	}
	t.Cleanup(func() {
		for _, s := range stores {
			s.Close()
		}
	})
	return stores
}

func TestStoreSemantics(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.Get("missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Set("k", `{"a":1}`))
			v, ok, err := s.Get("k")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `{"a":1}`, v)

			require.NoError(t, s.Set("k", "second"))
			v, _, _ = s.Get("k")
			assert.Equal(t, "second", v)

			require.NoError(t, s.Delete("k"))
			_, ok, _ = s.Get("k")
			assert.False(t, ok)

			require.NoError(t, s.Delete("never-set"))

			assert.ErrorIs(t, s.Set("  ", "x"), ErrEmptyKey)
			_, _, err = s.Get("")
			assert.ErrorIs(t, err, ErrEmptyKey)
		})
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "kv.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(KeySettings, "v"))

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	v, ok, err := reopened.Get(KeySettings)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.json")
	require.NoError(t, os.WriteFile(path, []byte("{oops"), 0o644))
	_, err := NewFileStore(path)
	assert.Error(t, err)
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	s, err := OpenSQLite(path, nil)
	require.NoError(t, err)
	require.NoError(t, s.Set(KeyHistory, "[]"))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path, nil)
	require.NoError(t, err)
	defer s.Close()
	v, ok, err := s.Get(KeyHistory)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)
}

func TestOpenDrivers(t *testing.T) {
	dir := t.TempDir()
	for _, d := range []string{"", DriverSQLite, DriverFile, DriverMemory} {
		s, err := Open(d, dir, nil)
		require.NoError(t, err, d)
		s.Close()
	}
	_, err := Open("redis", dir, nil)
	assert.Error(t, err)
}

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN("/tmp/x.db")
	assert.Contains(t, dsn, "_pragma=busy_timeout%285000%29")
	assert.Contains(t, dsn, "_pragma=journal_mode%28WAL%29")
}
