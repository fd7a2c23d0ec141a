package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"strings"
	"time"

	"github.com/cristianadrielbraun/mintqr/internal/compose"
	"github.com/cristianadrielbraun/mintqr/internal/export"
	"github.com/cristianadrielbraun/mintqr/internal/render"
	"github.com/cristianadrielbraun/mintqr/internal/settings"
)

// Rendered is a composed export and the settings it was drawn with.
type Rendered struct {
	Image    *image.RGBA
	Settings settings.Settings
}

// Export composes the current preview with margin, background and logo.
func (c *Controller) Export() (Rendered, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exportLocked()
}

func (c *Controller) exportLocked() (Rendered, error) {
	if c.pending {
		c.generateLocked()
	}
	if c.preview == nil {
		return Rendered{}, ErrNothingRendered
	}
	s := c.settings
	img := compose.Compose(c.preview, compose.Options{
		Margin:     s.Margin,
		Background: s.Light(),
		Logo:       c.logoLocked(),
		LogoScale:  compose.DefaultLogoScale,
	})
	return Rendered{Image: img, Settings: s}, nil
}

// Write encodes the export to w in format f.
func (c *Controller) Write(w io.Writer, f export.Format) error {
	r, err := c.Export()
	if err != nil {
		return err
	}
	if f == export.SVG {
		return c.renderer.WriteSVG(w, r.Settings)
	}
	return export.Encode(w, r.Image, f, r.Settings.Light())
}

// Download saves the export into dir. An empty name uses the default file
// name with the extension of f. It returns the path written.
func (c *Controller) Download(dir, name string, f export.Format) (string, error) {
	if name == "" {
		name = strings.TrimSuffix(export.DefaultFilename, ".png") + f.Ext()
	}
	path, err := export.Download(dir, name, func(w io.Writer) error {
		return c.Write(w, f)
	})
	if err != nil {
		c.mu.Lock()
		if errors.Is(err, ErrNothingRendered) {
			c.setStatusLocked(StatusNothingToDownload, 0)
		} else {
			c.log.WithError(err).Warn("download failed")
			c.setStatusLocked(StatusDownloadFailed, 0)
		}
		c.mu.Unlock()
		return "", err
	}
	c.log.WithField("path", path).Info("saved QR code")
	return path, nil
}

// Copy puts the export on the clipboard as a PNG.
func (c *Controller) Copy(ctx context.Context) error {
	r, err := c.Export()
	if err != nil {
		c.setStatus(StatusNothingToCopy, 0)
		return err
	}
	png, err := export.PNGBytes(r.Image)
	if err == nil {
		err = c.clipboard.CopyImage(ctx, png)
	}
	if err != nil {
		c.log.WithError(err).Debug("copy image")
		c.setStatus(StatusClipboardUnavailable, 0)
		return fmt.Errorf("copy image: %w", err)
	}
	c.setStatus(StatusCopied, copiedTTL)
	return nil
}

// Readable scans the composed export. When the code does not decode back to
// the text, typically because the logo covers too much of it, a warning is
// shown.
func (c *Controller) Readable() (bool, error) {
	r, err := c.Export()
	if err != nil {
		return false, err
	}
	text, err := render.Scan(r.Image)
	if err != nil || text != r.Settings.Text {
		c.log.WithError(err).Debug("export did not scan")
		c.setStatus(StatusNotScannable, 0)
		return false, nil
	}
	return true, nil
}

func (c *Controller) setStatus(msg string, ttl time.Duration) {
	c.mu.Lock()
	c.setStatusLocked(msg, ttl)
	c.mu.Unlock()
}
