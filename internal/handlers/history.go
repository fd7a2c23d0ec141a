package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cristianadrielbraun/mintqr/internal/app"
	"github.com/cristianadrielbraun/mintqr/internal/history"
	"github.com/cristianadrielbraun/mintqr/web/components"
)

// ListHistory returns the saved entries, newest first. With HX-Request set
// it returns the history grid fragment instead.
func (h *Handler) ListHistory(c *gin.Context) {
	h.respondHistory(c, http.StatusOK, h.ctrl.History())
}

// SaveHistory saves the current code.
func (h *Handler) SaveHistory(c *gin.Context) {
	if _, err := h.ctrl.Save(); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, app.ErrNothingRendered) {
			code = http.StatusUnprocessableEntity
		}
		c.JSON(code, gin.H{"error": h.ctrl.Status()})
		return
	}
	h.respondHistory(c, http.StatusCreated, h.ctrl.History())
}

// ClearHistory removes every entry.
func (h *Handler) ClearHistory(c *gin.Context) {
	h.ctrl.ClearHistory()
	h.respondHistory(c, http.StatusOK, []history.Entry{})
}

// LoadHistory makes a saved entry's settings current.
func (h *Handler) LoadHistory(c *gin.Context) {
	id, ok := historyID(c)
	if !ok {
		return
	}
	st, err := h.ctrl.LoadHistory(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, newSettingsResponse(st))
}

// DeleteHistory removes one entry.
func (h *Handler) DeleteHistory(c *gin.Context) {
	id, ok := historyID(c)
	if !ok {
		return
	}
	h.respondHistory(c, http.StatusOK, h.ctrl.DeleteHistory(id))
}

func historyID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid history id"})
		return 0, false
	}
	return id, true
}

func (h *Handler) respondHistory(c *gin.Context, code int, list []history.Entry) {
	if c.GetHeader("HX-Request") == "true" {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.Status(code)
		if err := components.HistoryGrid(components.NewHistoryItems(list)).Render(c.Request.Context(), c.Writer); err != nil {
			h.log.WithError(err).Error("render history")
		}
		return
	}
	c.JSON(code, gin.H{"history": list, "limit": history.Limit})
}
