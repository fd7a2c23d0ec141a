// Package settings holds the generator's settings record and the rules that
// keep it in range.
package settings

import (
	"encoding/json"
	"fmt"
	"image/color"
	"strings"

	"github.com/cristianadrielbraun/mintqr/internal/datauri"
	"github.com/cristianadrielbraun/mintqr/internal/hexcolor"
)

// ECLevel is a QR error-correction level.
type ECLevel string

const (
	ECLow      ECLevel = "L"
	ECMedium   ECLevel = "M"
	ECQuartile ECLevel = "Q"
	ECHigh     ECLevel = "H"
)

// Levels lists the supported levels from least to most redundant.
var Levels = []ECLevel{ECLow, ECMedium, ECQuartile, ECHigh}

// Valid reports whether l is one of Levels.
func (l ECLevel) Valid() bool {
	switch l {
	case ECLow, ECMedium, ECQuartile, ECHigh:
		return true
	}
	return false
}

// ParseECLevel parses a level name case-insensitively.
func ParseECLevel(s string) (ECLevel, bool) {
	l := ECLevel(strings.ToUpper(strings.TrimSpace(s)))
	return l, l.Valid()
}

const (
	MinSize       = 128
	MaxSize       = 1024
	DefaultSize   = 320
	MinMargin     = 0
	MaxMargin     = 64
	DefaultMargin = 16

	DefaultText       = "https://example.com"
	DefaultColorDark  = "#0f172a"
	DefaultColorLight = "#ffffff"

	// MinContrast is the WCAG AA ratio below which a warning is shown.
	MinContrast        = 4.5
	LowContrastMessage = "Low contrast. Consider darker foreground or lighter background."
)

// Settings is everything needed to render and export one QR code.
// The JSON names are shared by storage and share links.
type Settings struct {
	Text        string  `json:"text"`
	Size        int     `json:"size"`
	Margin      int     `json:"margin"`
	ECLevel     ECLevel `json:"ecLevel"`
	ColorDark   string  `json:"colorDark"`
	ColorLight  string  `json:"colorLight"`
	LogoDataURL string  `json:"logoDataURL,omitempty"`
}

// Defaults returns the settings a fresh page starts with.
func Defaults() Settings {
	return Settings{
		Text:       DefaultText,
		Size:       DefaultSize,
		Margin:     DefaultMargin,
		ECLevel:    ECMedium,
		ColorDark:  DefaultColorDark,
		ColorLight: DefaultColorLight,
	}
}

// Normalize clamps size and margin into range, normalizes both colors and
// replaces an unknown error-correction level with M. A zero size is treated
// as unset and becomes DefaultSize. A logo that is not an image data URI is
// dropped.
func (s Settings) Normalize() Settings {
	if s.Size == 0 {
		s.Size = DefaultSize
	}
	s.Size = clamp(s.Size, MinSize, MaxSize)
	s.Margin = clamp(s.Margin, MinMargin, MaxMargin)
	s.ColorDark = hexcolor.Normalize(s.ColorDark, DefaultColorDark)
	s.ColorLight = hexcolor.Normalize(s.ColorLight, DefaultColorLight)
	if l, ok := ParseECLevel(string(s.ECLevel)); ok {
		s.ECLevel = l
	} else {
		s.ECLevel = ECMedium
	}
	if s.LogoDataURL != "" && !datauri.IsImage(s.LogoDataURL) {
		s.LogoDataURL = ""
	}
	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Dark returns the foreground color.
func (s Settings) Dark() color.RGBA {
	return hexcolor.ToRGBA(s.ColorDark, hexcolor.ToRGBA(DefaultColorDark, color.RGBA{A: 255}))
}

// Light returns the background color.
func (s Settings) Light() color.RGBA {
	return hexcolor.ToRGBA(s.ColorLight, color.RGBA{255, 255, 255, 255})
}

// HasLogo reports whether a logo is attached.
func (s Settings) HasLogo() bool { return s.LogoDataURL != "" }

// Contrast returns the contrast ratio between the two colors and whether it
// is below MinContrast.
func Contrast(s Settings) (ratio float64, low bool) {
	ratio = hexcolor.ContrastRatio(s.Dark(), s.Light())
	return ratio, ratio < MinContrast
}

// FromJSON decodes data on top of base, so absent fields keep base values,
// and normalizes the result.
func FromJSON(data []byte, base Settings) (Settings, error) {
	out := base
	if err := json.Unmarshal(data, &out); err != nil {
		return base, fmt.Errorf("decode settings: %w", err)
	}
	return out.Normalize(), nil
}
