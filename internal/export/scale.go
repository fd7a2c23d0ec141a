package export

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// DownloadSide is the minimum edge of high resolution downloads.
const DownloadSide = 2000

// ScaleUp enlarges img by the smallest integer factor that makes it at least
// minSide pixels wide. Nearest neighbour keeps module edges sharp. Images
// already large enough are returned unchanged.
func ScaleUp(img image.Image, minSide int) image.Image {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dx() >= minSide {
		return img
	}
	factor := (minSide + b.Dx() - 1) / b.Dx()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
