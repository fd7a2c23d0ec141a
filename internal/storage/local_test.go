package storage

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianadrielbraun/mintqr/internal/history"
	"github.com/cristianadrielbraun/mintqr/internal/settings"
)

// failingStore fails every operation.
type failingStore struct{}

var errDisk = errors.New("disk on fire")

func (failingStore) Get(string) (string, bool, error) { return "", false, errDisk }
func (failingStore) Set(string, string) error         { return errDisk }
func (failingStore) Delete(string) error              { return errDisk }
func (failingStore) Close() error                     { return nil }

func TestSettingsRoundTrip(t *testing.T) {
	l := NewLocal(NewMemoryStore(), nil)

	_, ok := l.LoadSettings(settings.Defaults())
	assert.False(t, ok)

	s := settings.Defaults()
	s.Text = "stored"
	s.Margin = 0
	l.SaveSettings(s)

	got, ok := l.LoadSettings(settings.Defaults())
	require.True(t, ok)
	assert.Equal(t, s, got)
}

func TestLoadSettingsCorrupt(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(KeySettings, "{broken"))
	l := NewLocal(store, nil)

	got, ok := l.LoadSettings(settings.Defaults())
	assert.False(t, ok)
	assert.Equal(t, settings.Defaults(), got)
}

func TestHistoryCapAfterFortySaves(t *testing.T) {
	l := NewLocal(NewMemoryStore(), nil)
	base := time.UnixMilli(1_700_000_000_000)

	for i := 0; i < 40; i++ {
		s := settings.Defaults()
		s.Text = fmt.Sprintf("code %d", i)
		id := history.NextID(l.History(), base.Add(time.Duration(i)*time.Millisecond))
		l.AddHistory(history.NewEntry(id, "", s))
	}

	list := l.History()
	require.Len(t, list, history.Limit)
	assert.Equal(t, "code 39", list[0].Label)
	assert.Equal(t, "code 10", list[len(list)-1].Label)
	for i := 1; i < len(list); i++ {
		assert.Greater(t, list[i-1].ID, list[i].ID)
	}
}

func TestDeleteAndClearHistory(t *testing.T) {
	l := NewLocal(NewMemoryStore(), nil)
	l.AddHistory(history.Entry{ID: 1, Label: "a"})
	l.AddHistory(history.Entry{ID: 2, Label: "b"})

	left := l.DeleteHistory(1)
	require.Len(t, left, 1)
	assert.Equal(t, int64(2), left[0].ID)
	assert.Len(t, l.History(), 1)

	l.ClearHistory()
	assert.Empty(t, l.History())
}

func TestStorageErrorsAreSwallowed(t *testing.T) {
	l := NewLocal(failingStore{}, nil)

	l.SaveSettings(settings.Defaults())
	_, ok := l.LoadSettings(settings.Defaults())
	assert.False(t, ok)

	assert.Empty(t, l.AddHistory(history.Entry{ID: 1}))
	assert.Empty(t, l.History())
	assert.Empty(t, l.DeleteHistory(1))
	l.ClearHistory()
}
