// Package compose builds the exported image: the rendered code on a solid
// background with a margin and an optional centered logo.
package compose

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

const (
	DefaultLogoScale = 0.2
	MinLogoScale     = 0.12
	MaxLogoScale     = 0.28

	// ThumbnailSide is the edge of history previews.
	ThumbnailSide = 160

	minLogoPad    = 4
	logoPadRatio  = 0.08
	maxLogoRadius = 12
)

// Options controls Compose.
type Options struct {
	Margin     int
	Background color.Color
	// Logo is drawn centered when non-nil.
	Logo image.Image
	// LogoScale is the logo side relative to the code side. Zero means
	// DefaultLogoScale; other values are clamped to [MinLogoScale, MaxLogoScale].
	LogoScale float64
}

// LogoBox is where the logo and its padding go in the composed image.
type LogoBox struct {
	X, Y   int
	Side   int
	Pad    int
	Radius int
}

func (b LogoBox) PadX() int    { return b.X - b.Pad }
func (b LogoBox) PadY() int    { return b.Y - b.Pad }
func (b LogoBox) PadSide() int { return b.Side + 2*b.Pad }

// ClampScale applies the LogoScale rules.
func ClampScale(scale float64) float64 {
	if scale == 0 || math.IsNaN(scale) {
		return DefaultLogoScale
	}
	return math.Max(MinLogoScale, math.Min(MaxLogoScale, scale))
}

// Layout places a logo for a code srcSide pixels wide inside an output
// outSide pixels wide.
func Layout(srcSide, outSide int, scale float64) LogoBox {
	side := int(math.Floor(float64(srcSide) * ClampScale(scale)))
	pad := int(math.Floor(float64(side) * logoPadRatio))
	if pad < minLogoPad {
		pad = minLogoPad
	}
	radius := pad
	if radius > maxLogoRadius {
		radius = maxLogoRadius
	}
	pos := (outSide - side) / 2
	return LogoBox{X: pos, Y: pos, Side: side, Pad: pad, Radius: radius}
}

// Compose draws src onto a background grown by opts.Margin on every side and
// overlays the logo on a rounded pad in the background color.
func Compose(src image.Image, opts Options) *image.RGBA {
	margin := opts.Margin
	if margin < 0 {
		margin = 0
	}
	bg := opts.Background
	if bg == nil {
		bg = color.White
	}

	sb := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, sb.Dx()+2*margin, sb.Dy()+2*margin))
	draw.Draw(out, out.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(out, image.Rect(margin, margin, margin+sb.Dx(), margin+sb.Dy()), src, sb.Min, draw.Over)

	if opts.Logo == nil {
		return out
	}

	box := Layout(sb.Dx(), out.Bounds().Dx(), opts.LogoScale)
	if box.Side <= 0 {
		return out
	}

	dc := gg.NewContextForRGBA(out)
	dc.SetColor(bg)
	dc.DrawRoundedRectangle(float64(box.PadX()), float64(box.PadY()), float64(box.PadSide()), float64(box.PadSide()), float64(box.Radius))
	dc.Fill()

	logo := imaging.Resize(opts.Logo, box.Side, box.Side, imaging.Lanczos)
	draw.Draw(out, image.Rect(box.X, box.Y, box.X+box.Side, box.Y+box.Side), logo, logo.Bounds().Min, draw.Over)
	return out
}

// Thumbnail scales full into a side×side square on a bg-filled canvas.
func Thumbnail(full image.Image, bg color.Color, side int) *image.NRGBA {
	if side <= 0 {
		side = ThumbnailSide
	}
	canvas := imaging.New(side, side, bg)
	scaled := imaging.Resize(full, side, side, imaging.Lanczos)
	return imaging.Overlay(canvas, scaled, image.Pt(0, 0), 1.0)
}
