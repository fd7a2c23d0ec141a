package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cristianadrielbraun/mintqr/internal/app"
	"github.com/cristianadrielbraun/mintqr/internal/settings"
)

// settingsRequest is a partial edit. Absent fields are left untouched.
type settingsRequest struct {
	Text       *string `form:"text" json:"text"`
	Size       *int    `form:"size" json:"size"`
	Margin     *int    `form:"margin" json:"margin"`
	ECLevel    *string `form:"ecLevel" json:"ecLevel"`
	ColorDark  *string `form:"colorDark" json:"colorDark"`
	ColorLight *string `form:"colorLight" json:"colorLight"`
}

func (r settingsRequest) patch() settings.Patch {
	p := settings.Patch{
		Text:       r.Text,
		Size:       r.Size,
		Margin:     r.Margin,
		ColorDark:  r.ColorDark,
		ColorLight: r.ColorLight,
	}
	if r.ECLevel != nil {
		// Unknown levels normalize to the default.
		l, _ := settings.ParseECLevel(*r.ECLevel)
		p.ECLevel = &l
	}
	return p
}

// settingsResponse is what the page needs to refresh itself.
type settingsResponse struct {
	Settings    settings.Settings `json:"settings"`
	Status      string            `json:"status"`
	Contrast    float64           `json:"contrast"`
	LowContrast bool              `json:"lowContrast"`
	Version     uint64            `json:"version"`
	HasPreview  bool              `json:"hasPreview"`
}

func newSettingsResponse(st app.State) settingsResponse {
	return settingsResponse{
		Settings:    st.Settings,
		Status:      st.Status,
		Contrast:    st.Contrast,
		LowContrast: st.LowContrast,
		Version:     st.Version,
		HasPreview:  st.Preview != nil,
	}
}

// GetSettings returns the current settings and status.
func (h *Handler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, newSettingsResponse(h.ctrl.State()))
}

// UpdateSettings applies a partial edit sent as JSON or form data.
func (h *Handler) UpdateSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st := h.ctrl.Update(req.patch())
	c.JSON(http.StatusOK, newSettingsResponse(st))
}
