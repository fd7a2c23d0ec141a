package datauri

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFromBytesAndDecodeImage(t *testing.T) {
	uri, err := FromBytes(pngBytes(t, color.RGBA{255, 0, 0, 255}))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"), uri[:32])

	data, mt, err := Decode(uri)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mt)
	assert.NotEmpty(t, data)

	img, err := DecodeImage(uri)
	require.NoError(t, err)
	r, g, b, _ := img.At(4, 4).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Zero(t, g)
	assert.Zero(t, b)
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t, color.Black), 0o644))

	uri, err := FromFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png"))

	_, err = FromFile(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestFromBytesRejectsNonImages(t *testing.T) {
	_, err := FromBytes(nil)
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = FromBytes([]byte("just some text, definitely not a picture"))
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestDecodeImageSVG(t *testing.T) {
	svg := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10" width="10" height="10">` +
		`<rect x="0" y="0" width="10" height="10" fill="#00ff00"/></svg>`
	uri := "data:image/svg+xml;base64," + b64(svg)

	img, err := DecodeImage(uri)
	require.NoError(t, err)
	assert.Equal(t, SVGRasterSize, img.Bounds().Dx())

	_, g, _, a := img.At(SVGRasterSize/2, SVGRasterSize/2).RGBA()
	assert.Equal(t, uint32(0xffff), g)
	assert.Equal(t, uint32(0xffff), a)
}

func TestDecodeErrors(t *testing.T) {
	_, _, err := Decode("")
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = DecodeImage("data:image/png;base64,AAAA")
	assert.ErrorIs(t, err, ErrNotImage)

	_, _, err = Decode("not-a-data-uri")
	assert.Error(t, err)
}

func TestIsImage(t *testing.T) {
	uri, err := FromBytes(pngBytes(t, color.RGBA{0, 0, 255, 255}))
	require.NoError(t, err)
	assert.True(t, IsImage(uri))
	assert.True(t, IsImage("data:image/png;base64,AAAA"))

	for _, bad := range []string{
		"",
		`x" onload="alert(1)`,
		"https://example.com/logo.png",
		"data:text/html;base64,PGI+aGk8L2I+",
		"data:image/png;base64,%%%",
	} {
		assert.False(t, IsImage(bad), bad)
	}
}

func TestFromImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	uri, err := FromImage(img)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	back, err := DecodeImage(uri)
	require.NoError(t, err)
	assert.Equal(t, 4, back.Bounds().Dx())
}
