// Package history models saved QR codes and the capped, newest-first list
// they are kept in.
package history

import (
	"time"
	"unicode/utf8"

	"github.com/cristianadrielbraun/mintqr/internal/settings"
)

const (
	// Limit is the maximum number of entries kept.
	Limit = 30
	// LabelLength is the maximum label length in runes.
	LabelLength = 60
	// DefaultLabel is shown for entries saved with empty text.
	DefaultLabel = "Saved"
)

// Entry is one saved code. Entries are never modified after creation.
type Entry struct {
	ID       int64             `json:"id"`
	Preview  string            `json:"preview"`
	Settings settings.Settings `json:"settings"`
	Label    string            `json:"label"`
}

// NewEntry builds an entry, deriving the label from the settings text.
func NewEntry(id int64, preview string, s settings.Settings) Entry {
	return Entry{ID: id, Preview: preview, Settings: s, Label: Label(s.Text)}
}

// Label truncates text to LabelLength runes.
func Label(text string) string {
	if utf8.RuneCountInString(text) <= LabelLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:LabelLength])
}

// DisplayLabel falls back to DefaultLabel for empty labels.
func (e Entry) DisplayLabel() string {
	if e.Label == "" {
		return DefaultLabel
	}
	return e.Label
}

// Created returns the creation time encoded in the id.
func (e Entry) Created() time.Time { return time.UnixMilli(e.ID) }

// NextID returns now in Unix milliseconds, bumped past the newest id in list
// so ids stay strictly increasing even for saves within one millisecond.
func NextID(list []Entry, now time.Time) int64 {
	id := now.UnixMilli()
	if len(list) > 0 && list[0].ID >= id {
		id = list[0].ID + 1
	}
	return id
}

// Prepend puts e in front of list and drops anything beyond Limit.
// list is not modified.
func Prepend(list []Entry, e Entry) []Entry {
	n := len(list) + 1
	if n > Limit {
		n = Limit
	}
	out := make([]Entry, 0, n)
	out = append(out, e)
	for _, old := range list {
		if len(out) == Limit {
			break
		}
		out = append(out, old)
	}
	return out
}

// Remove returns list without the entry with the given id.
func Remove(list []Entry, id int64) []Entry {
	out := make([]Entry, 0, len(list))
	for _, e := range list {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}

// Find looks up an entry by id.
func Find(list []Entry, id int64) (Entry, bool) {
	for _, e := range list {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}
