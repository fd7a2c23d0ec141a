package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cristianadrielbraun/mintqr/internal/datauri"
)

// UploadLogo sets the logo from the multipart file field "logo".
func (h *Handler) UploadLogo(c *gin.Context) {
	fh, err := c.FormFile("logo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "logo file is required"})
		return
	}
	if fh.Size > datauri.MaxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": datauri.ErrTooLarge.Error()})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Failed to open upload: %v", err)})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, datauri.MaxBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Failed to read upload: %v", err)})
		return
	}

	st, err := h.ctrl.SetLogoData(data)
	if err != nil {
		code := http.StatusUnprocessableEntity
		if errors.Is(err, datauri.ErrTooLarge) {
			code = http.StatusRequestEntityTooLarge
		}
		c.JSON(code, gin.H{"error": st.Status})
		return
	}
	c.JSON(http.StatusOK, newSettingsResponse(st))
}

// RemoveLogo clears the logo.
func (h *Handler) RemoveLogo(c *gin.Context) {
	c.JSON(http.StatusOK, newSettingsResponse(h.ctrl.RemoveLogo()))
}
