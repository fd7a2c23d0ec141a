package app

import (
	"fmt"
	"image"

	"github.com/cristianadrielbraun/mintqr/internal/datauri"
	"github.com/cristianadrielbraun/mintqr/internal/settings"
)

// SetLogoFile loads the image at path as the logo and re-renders.
func (c *Controller) SetLogoFile(path string) (State, error) {
	uri, err := datauri.FromFile(path)
	if err != nil {
		return c.logoFailed(err)
	}
	return c.setLogo(uri)
}

// SetLogoData uses data, the raw bytes of an image file, as the logo.
func (c *Controller) SetLogoData(data []byte) (State, error) {
	uri, err := datauri.FromBytes(data)
	if err != nil {
		return c.logoFailed(err)
	}
	return c.setLogo(uri)
}

// RemoveLogo drops the logo and re-renders.
func (c *Controller) RemoveLogo() State {
	c.Update(settings.Patch{ClearLogo: true})
	return c.Generate()
}

func (c *Controller) setLogo(uri string) (State, error) {
	img, err := datauri.DecodeImage(uri)
	if err != nil {
		return c.logoFailed(err)
	}

	c.mu.Lock()
	c.logoURI, c.logo = uri, img
	c.mu.Unlock()

	c.Update(settings.Patch{LogoDataURL: &uri})
	return c.Generate(), nil
}

func (c *Controller) logoFailed(err error) (State, error) {
	c.log.WithError(err).Debug("logo rejected")

	c.mu.Lock()
	c.setStatusLocked(StatusLogoUnreadable, 0)
	st := c.stateLocked()
	c.mu.Unlock()
	return st, fmt.Errorf("load logo: %w", err)
}

// logoLocked returns the decoded logo for the current settings, decoding
// and caching it when the settings came from storage, history or a link.
// A logo that fails to decode is left out of exports.
func (c *Controller) logoLocked() image.Image {
	uri := c.settings.LogoDataURL
	if uri == "" {
		return nil
	}
	if uri == c.logoURI {
		return c.logo
	}
	img, err := datauri.DecodeImage(uri)
	if err != nil {
		c.log.WithError(err).Debug("stored logo is not a readable image")
		img = nil
	}
	c.logoURI, c.logo = uri, img
	return img
}
