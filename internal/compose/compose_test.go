package compose

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
)

func solid(side int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func rgba(c color.Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}

func TestComposeMargin(t *testing.T) {
	black := color.RGBA{0, 0, 0, 255}
	bg := color.RGBA{250, 240, 230, 255}
	out := Compose(solid(100, black), Options{Margin: 10, Background: bg})

	assert.Equal(t, 120, out.Bounds().Dx())
	assert.Equal(t, 120, out.Bounds().Dy())
	assert.Equal(t, bg, rgba(out.At(0, 0)))
	assert.Equal(t, bg, rgba(out.At(9, 9)))
	assert.Equal(t, black, rgba(out.At(10, 10)))
	assert.Equal(t, black, rgba(out.At(109, 109)))
	assert.Equal(t, bg, rgba(out.At(110, 110)))
}

func TestComposeNegativeMarginIsZero(t *testing.T) {
	out := Compose(solid(50, color.Black), Options{Margin: -5})
	assert.Equal(t, 50, out.Bounds().Dx())
}

func TestComposeLogo(t *testing.T) {
	black := color.RGBA{0, 0, 0, 255}
	white := color.RGBA{255, 255, 255, 255}
	red := color.RGBA{255, 0, 0, 255}

	out := Compose(solid(200, black), Options{Margin: 20, Background: white, Logo: solid(64, red)})
	box := Layout(200, 240, DefaultLogoScale)

	assert.Equal(t, 40, box.Side)
	assert.Equal(t, 4, box.Pad)
	assert.Equal(t, 100, box.X)

	assert.Equal(t, red, rgba(out.At(120, 120)), "logo center")
	assert.Equal(t, white, rgba(out.At(box.X-2, 120)), "pad uses background")
	assert.Equal(t, black, rgba(out.At(box.PadX()-2, 120)), "code outside pad")
}

func TestClampScale(t *testing.T) {
	assert.Equal(t, DefaultLogoScale, ClampScale(0))
	assert.Equal(t, MinLogoScale, ClampScale(0.01))
	assert.Equal(t, MaxLogoScale, ClampScale(0.9))
	assert.Equal(t, 0.15, ClampScale(0.15))
}

func TestLayoutPadding(t *testing.T) {
	box := Layout(1024, 1024, MaxLogoScale)
	assert.Equal(t, 286, box.Side)
	assert.Equal(t, 22, box.Pad)
	assert.Equal(t, maxLogoRadius, box.Radius)
}

func TestThumbnail(t *testing.T) {
	th := Thumbnail(solid(400, color.Black), color.White, 0)
	assert.Equal(t, ThumbnailSide, th.Bounds().Dx())
	assert.Equal(t, ThumbnailSide, th.Bounds().Dy())
	r, g, b, _ := th.At(80, 80).RGBA()
	assert.Zero(t, r+g+b)
}
