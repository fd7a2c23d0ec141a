package render

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/cristianadrielbraun/mintqr/internal/compose"
	"github.com/cristianadrielbraun/mintqr/internal/datauri"
	"github.com/cristianadrielbraun/mintqr/internal/settings"
)

// WriteSVG writes the export as a vector image: background, margin, one
// rect per dark module and, when set, the logo on a rounded pad. The logo is
// decoded and embedded as a fresh PNG data URI; an unreadable logo is left
// out.
func (r *Renderer) WriteSVG(w io.Writer, s settings.Settings) error {
	s = s.Normalize()
	m, err := r.Matrix(s)
	if err != nil {
		return err
	}

	size := s.Size
	total := size + 2*s.Margin
	n := m.Dimension()

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(total, total)
	canvas.Rect(0, 0, total, total, "fill:"+s.ColorLight)

	canvas.Gstyle("fill:" + s.ColorDark)
	for row := 0; row < n; row++ {
		y0, y1 := row*size/n, (row+1)*size/n
		for col, on := range m[row] {
			if !on {
				continue
			}
			x0, x1 := col*size/n, (col+1)*size/n
			canvas.Rect(s.Margin+x0, s.Margin+y0, x1-x0, y1-y0)
		}
	}
	canvas.Gend()

	if href := logoHref(s); href != "" {
		box := compose.Layout(size, total, compose.DefaultLogoScale)
		canvas.Roundrect(box.PadX(), box.PadY(), box.PadSide(), box.PadSide(), box.Radius, box.Radius, "fill:"+s.ColorLight)
		canvas.Image(box.X, box.Y, box.Side, box.Side, href)
	}

	canvas.End()
	if ew.err != nil {
		return fmt.Errorf("write svg: %w", ew.err)
	}
	return nil
}

// logoHref re-encodes the logo so only base64 PNG data reaches the href;
// svgo writes it unescaped.
func logoHref(s settings.Settings) string {
	if !s.HasLogo() {
		return ""
	}
	img, err := datauri.DecodeImage(s.LogoDataURL)
	if err != nil {
		return ""
	}
	href, err := datauri.FromImage(img)
	if err != nil {
		return ""
	}
	return href
}

// errWriter remembers the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}
