package render

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/cristianadrielbraun/mintqr/internal/settings"
)

// Rasterize draws m into a size×size image. Module edges fall on
// floor(i*size/n) so modules tile the image with no gaps.
func Rasterize(m Matrix, size int, fg, bg color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	n := m.Dimension()
	if n == 0 || size <= 0 {
		return img
	}
	dark := image.NewUniform(fg)
	for row := 0; row < n; row++ {
		y0, y1 := row*size/n, (row+1)*size/n
		for col, on := range m[row] {
			if !on {
				continue
			}
			x0, x1 := col*size/n, (col+1)*size/n
			draw.Draw(img, image.Rect(x0, y0, x1, y1), dark, image.Point{}, draw.Src)
		}
	}
	return img
}

// Renderer draws settings with one engine.
type Renderer struct {
	engine Engine
}

// NewRenderer returns a Renderer using e.
func NewRenderer(e Engine) *Renderer {
	return &Renderer{engine: e}
}

// Engine returns the renderer's engine.
func (r *Renderer) Engine() Engine { return r.engine }

// Matrix encodes the settings text at the settings level.
func (r *Renderer) Matrix(s settings.Settings) (Matrix, error) {
	if strings.TrimSpace(s.Text) == "" {
		return nil, ErrEmptyText
	}
	return r.engine.Encode(s.Text, s.ECLevel)
}

// Render returns the preview image: the bare code at s.Size pixels in the
// settings colors, without margin or logo.
func (r *Renderer) Render(s settings.Settings) (image.Image, error) {
	s = s.Normalize()
	m, err := r.Matrix(s)
	if err != nil {
		return nil, err
	}
	return Rasterize(m, s.Size, s.Dark(), s.Light()), nil
}
