package render

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"

	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"

	"github.com/cristianadrielbraun/mintqr/internal/settings"
)

// yeqownEngine encodes with yeqown/go-qrcode. The library does not expose
// its matrix directly, so the code is written as a one-pixel-per-module PNG
// and read back.
type yeqownEngine struct{}

func (yeqownEngine) Name() string { return EngineYeqown }

func (yeqownEngine) Encode(text string, level settings.ECLevel) (Matrix, error) {
	qrc, err := qrcode.NewWith(text, yeqownLevel(level))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}

	buf := &bufferCloser{}
	writer := standard.NewWithWriter(buf,
		standard.WithQRWidth(1),
		standard.WithBorderWidth(0),
		standard.WithBgColor(color.RGBA{255, 255, 255, 255}),
		standard.WithFgColor(color.RGBA{0, 0, 0, 255}),
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
	)
	if err := qrc.Save(writer); err != nil {
		return nil, fmt.Errorf("%w: write matrix: %v", ErrEncode, err)
	}

	img, err := png.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("%w: decode matrix: %v", ErrEncode, err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	dim := qrc.Dimension()
	if dim <= 0 || dim > width {
		dim = width
	}
	// Any border the writer still adds is split evenly around the code.
	off := (width - dim) / 2

	m := make(Matrix, dim)
	for y := 0; y < dim; y++ {
		m[y] = make([]bool, dim)
		for x := 0; x < dim; x++ {
			r, _, _, _ := img.At(bounds.Min.X+off+x, bounds.Min.Y+off+y).RGBA()
			m[y][x] = r < 0x8000
		}
	}
	return m, nil
}

func yeqownLevel(l settings.ECLevel) qrcode.EncodeOption {
	switch l {
	case settings.ECLow:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionLow)
	case settings.ECQuartile:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionQuart)
	case settings.ECHigh:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionHighest)
	default:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionMedium)
	}
}

// bufferCloser lets standard.NewWithWriter write into memory.
type bufferCloser struct {
	bytes.Buffer
}

func (*bufferCloser) Close() error { return nil }
