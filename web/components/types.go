package components

import (
	"time"

	"github.com/cristianadrielbraun/mintqr/internal/history"
	"github.com/cristianadrielbraun/mintqr/internal/settings"
)

// PageData is everything the generator page renders from.
type PageData struct {
	Settings    settings.Settings
	Status      string
	LowContrast bool
	// Version busts the preview image cache.
	Version uint64
	Levels  []settings.ECLevel
	History []HistoryItem
}

// NewPageData builds the page view model.
func NewPageData(s settings.Settings, status string, lowContrast bool, version uint64, list []history.Entry) PageData {
	return PageData{
		Settings:    s,
		Status:      status,
		LowContrast: lowContrast,
		Version:     version,
		Levels:      settings.Levels,
		History:     NewHistoryItems(list),
	}
}

// HistoryItem is one card in the history grid.
type HistoryItem struct {
	ID      int64
	Preview string
	Label   string
	Saved   string
}

// NewHistoryItems converts entries for display.
func NewHistoryItems(list []history.Entry) []HistoryItem {
	items := make([]HistoryItem, 0, len(list))
	for _, e := range list {
		items = append(items, HistoryItem{
			ID:      e.ID,
			Preview: e.Preview,
			Label:   e.DisplayLabel(),
			Saved:   e.Created().Format(time.DateTime),
		})
	}
	return items
}
