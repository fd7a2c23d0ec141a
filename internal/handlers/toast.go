package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cristianadrielbraun/mintqr/web/components"
)

// StatusToast returns a toast rendered as HTML for HTMX swaps. Without a
// description it shows the controller's status line.
func (h *Handler) StatusToast(c *gin.Context) {
	title := c.PostForm("title")
	description := c.PostForm("description")
	if description == "" {
		description = h.ctrl.Status()
	}
	dismissible := c.PostForm("dismissible") == "on"

	var v components.ToastVariant
	switch c.PostForm("variant") {
	case "error", "destructive":
		v = components.ToastError
	case "warning":
		v = components.ToastWarning
	case "success":
		v = components.ToastSuccess
	default:
		v = components.ToastInfo
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)

	_ = components.Toast(components.ToastProps{
		Title:       title,
		Description: description,
		Variant:     v,
		Duration:    2000,
		Dismissible: dismissible,
	}).Render(c.Request.Context(), c.Writer)
}
