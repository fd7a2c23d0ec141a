package app

import (
	"errors"
	"fmt"

	"github.com/cristianadrielbraun/mintqr/internal/compose"
	"github.com/cristianadrielbraun/mintqr/internal/datauri"
	"github.com/cristianadrielbraun/mintqr/internal/export"
	"github.com/cristianadrielbraun/mintqr/internal/history"
)

// ErrNotFound is returned for history ids that are not stored.
var ErrNotFound = errors.New("history entry not found")

// Save adds the current code to the history with a thumbnail of its export.
func (c *Controller) Save() (history.Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, err := c.exportLocked()
	if err != nil {
		c.setStatusLocked(StatusNothingToSave, 0)
		return history.Entry{}, err
	}

	thumb := compose.Thumbnail(r.Image, r.Settings.Light(), compose.ThumbnailSide)
	png, err := export.PNGBytes(thumb)
	if err != nil {
		return history.Entry{}, fmt.Errorf("thumbnail: %w", err)
	}
	preview, err := datauri.FromBytes(png)
	if err != nil {
		return history.Entry{}, fmt.Errorf("thumbnail: %w", err)
	}

	id := history.NextID(c.local.History(), c.now())
	entry := history.NewEntry(id, preview, r.Settings)
	c.local.AddHistory(entry)
	c.setStatusLocked(StatusSaved, savedTTL)
	return entry, nil
}

// History returns the saved entries, newest first.
func (c *Controller) History() []history.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.local.History()
}

// LoadHistory makes the settings of a saved entry current and renders them.
func (c *Controller) LoadHistory(id int64) (State, error) {
	e, ok := history.Find(c.History(), id)
	if !ok {
		return State{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return c.replace(e.Settings), nil
}

// DeleteHistory removes one entry and returns the remaining list.
func (c *Controller) DeleteHistory(id int64) []history.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.local.DeleteHistory(id)
}

// ClearHistory removes every entry.
func (c *Controller) ClearHistory() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.local.ClearHistory()
}
