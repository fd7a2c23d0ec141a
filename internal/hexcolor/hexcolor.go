// Package hexcolor normalizes CSS-style hex colors and measures contrast
// between them.
package hexcolor

import (
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Black is returned by Normalize when neither the input nor the fallback is usable.
const Black = "#000000"

// Normalize converts hex into lowercase #rrggbb form. A missing leading '#'
// is added and the short #rgb form is expanded. Anything else that is not six
// hex digits yields fallback (or Black when fallback is empty).
func Normalize(hex, fallback string) string {
	if fallback == "" {
		fallback = Black
	}
	h := strings.TrimSpace(hex)
	if h == "" {
		return fallback
	}
	if h[0] != '#' {
		h = "#" + h
	}
	if len(h) == 4 {
		h = string([]byte{'#', h[1], h[1], h[2], h[2], h[3], h[3]})
	}
	if len(h) != 7 || !isHex(h[1:]) {
		return fallback
	}
	return strings.ToLower(h)
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// ToRGBA parses a hex color into an opaque color.RGBA. "transparent" maps to
// a fully transparent color; unparsable input returns fallback.
func ToRGBA(hex string, fallback color.RGBA) color.RGBA {
	if strings.EqualFold(strings.TrimSpace(hex), "transparent") {
		return color.RGBA{0, 0, 0, 0}
	}

	h := Normalize(hex, "-")
	if h == "-" {
		return fallback
	}

	r, err1 := strconv.ParseUint(h[1:3], 16, 8)
	g, err2 := strconv.ParseUint(h[3:5], 16, 8)
	b, err3 := strconv.ParseUint(h[5:7], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return fallback
	}

	return color.RGBA{uint8(r), uint8(g), uint8(b), 255}
}

// String formats c as lowercase #rrggbb, ignoring alpha.
func String(c color.RGBA) string {
	const digits = "0123456789abcdef"
	return string([]byte{'#',
		digits[c.R>>4], digits[c.R&0x0f],
		digits[c.G>>4], digits[c.G&0x0f],
		digits[c.B>>4], digits[c.B&0x0f],
	})
}

// RelativeLuminance is the WCAG 2.0 relative luminance of c.
func RelativeLuminance(c color.RGBA) float64 {
	channel := func(v uint8) float64 {
		s := float64(v) / 255
		if s <= 0.03928 {
			return s / 12.92
		}
		return math.Pow((s+0.055)/1.055, 2.4)
	}
	return 0.2126*channel(c.R) + 0.7152*channel(c.G) + 0.0722*channel(c.B)
}

// ContrastRatio returns the WCAG contrast ratio between a and b, in [1, 21].
func ContrastRatio(a, b color.RGBA) float64 {
	l1 := RelativeLuminance(a) + 0.05
	l2 := RelativeLuminance(b) + 0.05
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return l1 / l2
}
