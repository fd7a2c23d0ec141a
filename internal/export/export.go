// Package export writes composed images to files and the clipboard.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultFilename is used when no download name is given.
const DefaultFilename = "mint-qr.png"

// JPEGQuality is the quality used for JPEG exports.
const JPEGQuality = 92

// Format is an export file format.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpg"
	SVG  Format = "svg"
)

// ParseFormat accepts png, jpg/jpeg and svg. Anything else is PNG.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(s, "."))) {
	case "jpg", "jpeg":
		return JPEG
	case "svg":
		return SVG
	default:
		return PNG
	}
}

// FormatFromFilename picks the format from a file extension.
func FormatFromFilename(name string) Format {
	return ParseFormat(filepath.Ext(name))
}

// ContentType is the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case JPEG:
		return "image/jpeg"
	case SVG:
		return "image/svg+xml"
	default:
		return "image/png"
	}
}

// Ext is the file extension of f, with the dot.
func (f Format) Ext() string { return "." + string(f) }

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// PNGBytes returns img encoded as PNG.
func PNGBytes(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeJPEG composites img onto an opaque bg and writes it as JPEG.
func EncodeJPEG(w io.Writer, img image.Image, bg color.Color) error {
	if bg == nil {
		bg = color.White
	}
	r, g, b, _ := bg.RGBA()
	opaque := color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), 255}

	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, &image.Uniform{C: opaque}, image.Point{}, draw.Src)
	draw.Draw(out, bounds, img, bounds.Min, draw.Over)

	if err := jpeg.Encode(w, out, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return fmt.Errorf("encode jpeg: %w", err)
	}
	return nil
}

// Encode writes img in format f. SVG is not a raster format and is rejected.
func Encode(w io.Writer, img image.Image, f Format, bg color.Color) error {
	switch f {
	case JPEG:
		return EncodeJPEG(w, img, bg)
	case PNG:
		return EncodePNG(w, img)
	default:
		return fmt.Errorf("cannot encode raster image as %s", f)
	}
}

// Download writes the file produced by write into dir under name, the way a
// browser saves downloads: an existing file is never replaced, a " (n)"
// suffix is added instead. It returns the path written.
func Download(dir, name string, write func(io.Writer) error) (string, error) {
	if name == "" {
		name = DefaultFilename
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 0; i < 1000; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", stem, i, ext)
		}
		path := filepath.Join(dir, candidate)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if os.IsExist(err) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create %s: %w", path, err)
		}
		if err := write(f); err != nil {
			f.Close()
			os.Remove(path)
			return "", err
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close %s: %w", path, err)
		}
		return path, nil
	}
	return "", fmt.Errorf("no free file name for %s in %s", name, dir)
}

// WriteFile writes the output of write to path, replacing any existing file.
func WriteFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	return os.Rename(tmp, path)
}
