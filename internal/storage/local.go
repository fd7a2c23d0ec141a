package storage

import (
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/cristianadrielbraun/mintqr/internal/history"
	"github.com/cristianadrielbraun/mintqr/internal/settings"
)

const (
	KeySettings = "mintqr.settings.v1"
	KeyHistory  = "mintqr.history.v1"
)

// Local persists the current settings and the history list. Storage
// failures never reach the caller: they are logged at debug level and
// treated as "nothing stored".
type Local struct {
	store Store
	log   logrus.FieldLogger
}

// NewLocal wraps store. log may be nil.
func NewLocal(store Store, log logrus.FieldLogger) *Local {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &Local{store: store, log: log}
}

// SaveSettings stores s.
func (l *Local) SaveSettings(s settings.Settings) {
	data, err := json.Marshal(s)
	if err != nil {
		l.log.WithError(err).Debug("encode settings")
		return
	}
	if err := l.store.Set(KeySettings, string(data)); err != nil {
		l.log.WithError(err).Debug("save settings")
	}
}

// LoadSettings returns the stored settings decoded on top of base. ok is
// false when nothing usable is stored.
func (l *Local) LoadSettings(base settings.Settings) (settings.Settings, bool) {
	raw, ok, err := l.store.Get(KeySettings)
	if err != nil {
		l.log.WithError(err).Debug("load settings")
		return base, false
	}
	if !ok || raw == "" {
		return base, false
	}
	s, err := settings.FromJSON([]byte(raw), base)
	if err != nil {
		l.log.WithError(err).Debug("stored settings are corrupt")
		return base, false
	}
	return s, true
}

// History returns the stored list, newest first.
func (l *Local) History() []history.Entry {
	raw, ok, err := l.store.Get(KeyHistory)
	if err != nil {
		l.log.WithError(err).Debug("load history")
		return []history.Entry{}
	}
	if !ok || raw == "" {
		return []history.Entry{}
	}
	var list []history.Entry
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		l.log.WithError(err).Debug("stored history is corrupt")
		return []history.Entry{}
	}
	if len(list) > history.Limit {
		list = list[:history.Limit]
	}
	return list
}

// AddHistory prepends e, caps the list and returns what was stored. On a
// write failure the returned list is empty.
func (l *Local) AddHistory(e history.Entry) []history.Entry {
	list := history.Prepend(l.History(), e)
	if !l.saveHistory(list) {
		return []history.Entry{}
	}
	return list
}

// DeleteHistory removes the entry with id and returns the remaining list.
func (l *Local) DeleteHistory(id int64) []history.Entry {
	list := history.Remove(l.History(), id)
	l.saveHistory(list)
	return list
}

// ClearHistory removes every entry.
func (l *Local) ClearHistory() {
	if err := l.store.Delete(KeyHistory); err != nil {
		l.log.WithError(err).Debug("clear history")
	}
}

func (l *Local) saveHistory(list []history.Entry) bool {
	data, err := json.Marshal(list)
	if err != nil {
		l.log.WithError(err).Debug("encode history")
		return false
	}
	if err := l.store.Set(KeyHistory, string(data)); err != nil {
		l.log.WithError(err).Debug("save history")
		return false
	}
	return true
}
