package app

import (
	"time"

	"github.com/cristianadrielbraun/mintqr/internal/settings"
)

// Status line messages.
const (
	StatusEnterContent         = "Enter content to generate"
	StatusGenerateFailed       = "Could not generate QR. Try shorter content."
	StatusLowContrast          = settings.LowContrastMessage
	StatusLogoUnreadable       = "Could not read logo file"
	StatusNothingToDownload    = "Nothing to download yet"
	StatusDownloadFailed       = "Download failed"
	StatusNothingToCopy        = "Nothing to copy yet"
	StatusCopied               = "Copied to clipboard"
	StatusClipboardUnavailable = "Clipboard not available"
	StatusNothingToSave        = "Nothing to save yet"
	StatusSaved                = "Saved"
	StatusShareCopied          = "Share link copied"
	StatusShareCopyFailed      = "Could not copy link"
	StatusNotScannable         = "Code may not scan. Try a smaller logo or a higher error correction level."
)

// How long transient messages stay up.
const (
	copiedTTL = 1200 * time.Millisecond
	savedTTL  = 800 * time.Millisecond
)

// setStatusLocked replaces the status line. A positive ttl clears it again
// unless another message replaced it in the meantime.
func (c *Controller) setStatusLocked(msg string, ttl time.Duration) {
	c.status = msg
	c.statusGen++
	if ttl <= 0 {
		return
	}
	gen := c.statusGen
	time.AfterFunc(ttl, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.statusGen == gen {
			c.status = ""
		}
	})
}

// contrastStatusLocked shows the low contrast warning, or clears the line
// when the colors are fine.
func (c *Controller) contrastStatusLocked() {
	if _, low := settings.Contrast(c.settings); low {
		c.setStatusLocked(StatusLowContrast, 0)
		return
	}
	c.setStatusLocked("", 0)
}
