// Package datauri converts logo files to data URIs and back into images.
package datauri

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"github.com/vincent-petithory/dataurl"
	_ "golang.org/x/image/webp"
)

// MaxBytes caps the size of a logo file.
const MaxBytes = 4 << 20

// SVGRasterSize is the side length SVG logos are rasterized at.
const SVGRasterSize = 512

var (
	ErrEmpty    = errors.New("empty data")
	ErrTooLarge = errors.New("file too large")
	ErrNotImage = errors.New("not an image")
)

// FromFile reads the file at path and returns it as a base64 data URI whose
// media type is detected from the content.
func FromFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat logo: %w", err)
	}
	if info.Size() > MaxBytes {
		return "", fmt.Errorf("%s: %w", path, ErrTooLarge)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read logo: %w", err)
	}
	return FromBytes(data)
}

// FromBytes encodes data as a base64 data URI. Only image content is accepted.
func FromBytes(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmpty
	}
	if len(data) > MaxBytes {
		return "", ErrTooLarge
	}
	mt := mediaType(data)
	if !strings.HasPrefix(mt, "image/") {
		return "", fmt.Errorf("%s: %w", mt, ErrNotImage)
	}
	return dataurl.New(data, mt).String(), nil
}

func mediaType(data []byte) string {
	m := mimetype.Detect(data)
	mt, _, _ := strings.Cut(m.String(), ";")
	return strings.TrimSpace(mt)
}

// Decode returns the payload and media type of a data URI.
func Decode(uri string) ([]byte, string, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, "", ErrEmpty
	}
	du, err := dataurl.DecodeString(uri)
	if err != nil {
		return nil, "", fmt.Errorf("decode data uri: %w", err)
	}
	return du.Data, du.ContentType(), nil
}

// IsImage reports whether uri parses as a data URI with an image media type.
// It does not decode the payload.
func IsImage(uri string) bool {
	if !strings.HasPrefix(uri, "data:image/") {
		return false
	}
	du, err := dataurl.DecodeString(uri)
	if err != nil {
		return false
	}
	return du.MediaType.Type == "image"
}

// FromImage encodes img as a PNG data URI.
func FromImage(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	return dataurl.New(buf.Bytes(), "image/png").String(), nil
}

// DecodeImage decodes a data URI holding a PNG, JPEG, GIF, WebP or SVG image.
func DecodeImage(uri string) (image.Image, error) {
	data, mt, err := Decode(uri)
	if err != nil {
		return nil, err
	}
	if mt == "image/svg+xml" || mediaType(data) == "image/svg+xml" {
		return rasterizeSVG(data, SVGRasterSize)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	return img, nil
}

// rasterizeSVG renders an SVG document into a size×size RGBA image.
func rasterizeSVG(data []byte, size int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: svg: %v", ErrNotImage, err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)
	return rgba, nil
}
