package hexcolor

import (
	"fmt"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, fallback, want string
	}{
		{"#ABCDEF", "#000000", "#abcdef"},
		{"abcdef", "#000000", "#abcdef"},
		{"#abc", "#000000", "#aabbcc"},
		{"F0A", "#000000", "#ff00aa"},
		{"  #0f172a  ", "#000000", "#0f172a"},
		{"", "#ffffff", "#ffffff"},
		{"#abcd", "#ffffff", "#ffffff"},
		{"#ggg", "#123456", "#123456"},
		{"not a color", "", Black},
		{"#1234567", "#ffffff", "#ffffff"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Normalize(tc.in, tc.fallback), "Normalize(%q, %q)", tc.in, tc.fallback)
	}
}

func TestNormalizeAllShortForms(t *testing.T) {
	const digits = "0123456789abcdefABCDEF"
	for _, r := range digits {
		for _, g := range []rune{'0', '7', 'f', 'C'} {
			in := fmt.Sprintf("#%c%c%c", r, g, r)
			out := Normalize(in, "bad")
			assert.Len(t, out, 7)
			assert.Equal(t, out, Normalize(out, "bad"), "normalized output is a fixed point")
		}
	}
}

func TestToRGBA(t *testing.T) {
	fallback := color.RGBA{1, 2, 3, 255}
	assert.Equal(t, color.RGBA{0x0f, 0x17, 0x2a, 255}, ToRGBA("#0f172a", fallback))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, ToRGBA("fff", fallback))
	assert.Equal(t, color.RGBA{0, 0, 0, 0}, ToRGBA("Transparent", fallback))
	assert.Equal(t, fallback, ToRGBA("zzzzzz", fallback))
	assert.Equal(t, "#0f172a", String(ToRGBA("#0F172A", fallback)))
}

func TestContrastRatio(t *testing.T) {
	black := ToRGBA("#000000", color.RGBA{})
	white := ToRGBA("#ffffff", color.RGBA{})

	assert.InDelta(t, 21.0, ContrastRatio(black, white), 0.001)
	assert.InDelta(t, 21.0, ContrastRatio(white, black), 0.001)
	assert.InDelta(t, 1.0, ContrastRatio(white, white), 1e-9)

	slate := ToRGBA("#0f172a", color.RGBA{})
	assert.Greater(t, ContrastRatio(slate, white), 4.5)
}
