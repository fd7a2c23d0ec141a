package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ShareLink returns the share link for the current settings.
func (h *Handler) ShareLink(c *gin.Context) {
	link, err := h.ctrl.ShareLink()
	if err != nil {
		h.log.WithError(err).Error("build share link")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not build link"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"link": link})
}
