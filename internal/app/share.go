package app

import (
	"context"
	"fmt"

	"github.com/cristianadrielbraun/mintqr/internal/settings"
	"github.com/cristianadrielbraun/mintqr/internal/share"
)

// ShareLink returns a link that reproduces the current settings.
func (c *Controller) ShareLink() (string, error) {
	return share.Link(c.shareBase, c.Settings())
}

// CopyShareLink puts the share link on the clipboard. The link is returned
// even when copying fails so callers can show it instead.
func (c *Controller) CopyShareLink(ctx context.Context) (string, error) {
	link, err := c.ShareLink()
	if err != nil {
		c.setStatus(StatusShareCopyFailed, 0)
		return "", err
	}
	if err := c.clipboard.CopyText(ctx, link); err != nil {
		c.log.WithError(err).Debug("copy share link")
		c.setStatus(StatusShareCopyFailed, 0)
		return link, fmt.Errorf("copy link: %w", err)
	}
	c.setStatus(StatusShareCopied, copiedTTL)
	return link, nil
}

// ApplyLink replaces the current settings with those in a share link and
// renders them. Malformed links leave the settings untouched.
func (c *Controller) ApplyLink(raw string) (State, error) {
	s, err := share.FromURL(raw, settings.Defaults())
	if err != nil {
		return c.State(), err
	}
	return c.replace(s), nil
}

// ApplyShared is ApplyLink for a bare share token.
func (c *Controller) ApplyShared(token string) (State, error) {
	s, err := share.Decode(token, settings.Defaults())
	if err != nil {
		return c.State(), err
	}
	return c.replace(s), nil
}

// replace makes s current, persists it when it differs and renders.
func (c *Controller) replace(s settings.Settings) State {
	c.mu.Lock()
	prev := c.settings
	c.settings = s.Normalize()
	if c.settings != prev {
		c.local.SaveSettings(c.settings)
	}
	c.contrastStatusLocked()
	st := c.generateLocked()
	c.publishLocked(st)
	return st
}
