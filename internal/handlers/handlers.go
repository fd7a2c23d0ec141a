package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cristianadrielbraun/mintqr/internal/app"
	"github.com/cristianadrielbraun/mintqr/internal/share"
	"github.com/cristianadrielbraun/mintqr/web/components"
	"github.com/cristianadrielbraun/mintqr/web/pages"
	"github.com/cristianadrielbraun/mintqr/web/static"
)

// Handler serves the generator page and its API on top of one controller.
type Handler struct {
	ctrl *app.Controller
	log  logrus.FieldLogger
}

// New returns a Handler for ctrl. log may be nil.
func New(ctrl *app.Controller, log logrus.FieldLogger) *Handler {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &Handler{ctrl: ctrl, log: log}
}

// Register mounts the page, its static assets and the API routes on r.
func (h *Handler) Register(r gin.IRouter) {
	// Static assets
	r.StaticFS("/web/static", http.FS(static.Files))
	r.GET("/", h.HomePage)

	api := r.Group("/api")
	{
		api.GET("/qr", h.QRCodeHandler)
		api.HEAD("/qr", h.QRCodeHandler)
		api.GET("/settings", h.GetSettings)
		api.POST("/settings", h.UpdateSettings)
		api.POST("/logo", h.UploadLogo)
		api.DELETE("/logo", h.RemoveLogo)
		api.GET("/share", h.ShareLink)
		api.GET("/history", h.ListHistory)
		api.POST("/history", h.SaveHistory)
		api.DELETE("/history", h.ClearHistory)
		api.POST("/history/:id/load", h.LoadHistory)
		api.DELETE("/history/:id", h.DeleteHistory)
		api.POST("/htmx/toast", h.StatusToast)
	}
}

// HomePage renders the generator. A share token in ?s= replaces the current
// settings first; malformed tokens are ignored.
func (h *Handler) HomePage(c *gin.Context) {
	if token := c.Query(share.Param); token != "" {
		if _, err := h.ctrl.ApplyShared(token); err != nil {
			h.log.WithError(err).Debug("ignoring shared settings")
		}
	}

	st := h.ctrl.State()
	data := components.NewPageData(st.Settings, st.Status, st.LowContrast, st.Version, h.ctrl.History())

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := pages.HomePage(data).Render(c.Request.Context(), c.Writer); err != nil {
		h.log.WithError(err).Error("render home page")
	}
}
