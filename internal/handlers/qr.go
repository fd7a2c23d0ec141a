package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cristianadrielbraun/mintqr/internal/app"
	"github.com/cristianadrielbraun/mintqr/internal/export"
)

// QRCodeHandler serves the current code. By default it is the bare preview
// as PNG. variant=export composes margin, background and logo, format picks
// png, jpg or svg, size=download scales exports up for print and download=1
// makes browsers save the file.
func (h *Handler) QRCodeHandler(c *gin.Context) {
	format := export.ParseFormat(c.DefaultQuery("format", "png"))
	variant := c.DefaultQuery("variant", "preview")
	if variant != "export" {
		format = export.PNG
	}

	var buf bytes.Buffer
	var err error
	switch {
	case variant != "export":
		err = h.writePreview(&buf)
	case c.Query("size") == "download" && format != export.SVG:
		err = h.writeLarge(&buf, format)
	default:
		err = h.ctrl.Write(&buf, format)
	}
	if errors.Is(err, app.ErrNothingRendered) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": h.ctrl.Status()})
		return
	}
	if err != nil {
		h.log.WithError(err).Error("write QR code")
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to generate QR code image: %v", err)})
		return
	}

	if c.Query("download") == "1" {
		name := strings.TrimSuffix(export.DefaultFilename, ".png") + format.Ext()
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	}
	// The image changes with every edit; the page busts caches with ?v=.
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
	h.log.WithField("format", format).WithField("variant", variant).Debug("sent QR code")
}

func (h *Handler) writePreview(buf *bytes.Buffer) error {
	st := h.ctrl.State()
	if st.Preview == nil {
		return app.ErrNothingRendered
	}
	return export.EncodePNG(buf, st.Preview)
}

func (h *Handler) writeLarge(buf *bytes.Buffer, format export.Format) error {
	r, err := h.ctrl.Export()
	if err != nil {
		return err
	}
	img := export.ScaleUp(r.Image, export.DownloadSide)
	return export.Encode(buf, img, format, r.Settings.Light())
}
