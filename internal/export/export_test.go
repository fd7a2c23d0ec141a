package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(side int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, side, side))
	for i := 0; i < side; i++ {
		img.Set(i, i, color.Black)
	}
	return img
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, PNG, ParseFormat(""))
	assert.Equal(t, JPEG, ParseFormat("JPEG"))
	assert.Equal(t, JPEG, ParseFormat(".jpg"))
	assert.Equal(t, SVG, ParseFormat("svg"))
	assert.Equal(t, PNG, ParseFormat("gif"))
	assert.Equal(t, SVG, FormatFromFilename("out/code.SVG"))
	assert.Equal(t, "image/jpeg", JPEG.ContentType())
}

func TestPNGAndJPEGEncode(t *testing.T) {
	data, err := PNGBytes(square(20))
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Width)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, square(20), JPEG, color.White))
	jcfg, err := jpeg.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, 20, jcfg.Height)

	assert.Error(t, Encode(io.Discard, square(2), SVG, nil))
}

func TestDownloadNeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	write := func(w io.Writer) error { return EncodePNG(w, square(4)) }

	first, err := Download(dir, "", write)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DefaultFilename), first)

	second, err := Download(dir, "", write)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "mint-qr (1).png"), second)

	_, err = os.Stat(second)
	assert.NoError(t, err)
}

func TestDownloadRemovesPartialFile(t *testing.T) {
	dir := t.TempDir()
	boom := errors.New("boom")
	_, err := Download(dir, "x.png", func(io.Writer) error { return boom })
	assert.ErrorIs(t, err, boom)
	_, statErr := os.Stat(filepath.Join(dir, "x.png"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriteFileReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "out.txt")
	require.NoError(t, WriteFile(path, func(w io.Writer) error { _, err := io.WriteString(w, "one"); return err }))
	require.NoError(t, WriteFile(path, func(w io.Writer) error { _, err := io.WriteString(w, "two"); return err }))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestImageClipboardWithoutTools(t *testing.T) {
	c := systemClipboard{lookPath: func(string) (string, error) { return "", errors.New("not found") }}
	err := c.CopyImage(context.Background(), []byte{1})
	assert.ErrorIs(t, err, ErrClipboardUnsupported)

	assert.ErrorIs(t, NoClipboard{}.CopyText(context.Background(), "x"), ErrClipboardUnsupported)
}

func TestScaleUp(t *testing.T) {
	src := square(352)
	out := ScaleUp(src, DownloadSide)
	assert.Equal(t, 352*6, out.Bounds().Dx())
	assert.Equal(t, src.At(0, 0), out.At(5, 5))
	assert.Equal(t, src.At(351, 351), out.At(352*6-1, 352*6-1))

	big := square(2100)
	assert.Same(t, big, ScaleUp(big, DownloadSide))
}
