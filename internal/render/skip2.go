package render

import (
	"fmt"

	skip2 "github.com/skip2/go-qrcode"

	"github.com/cristianadrielbraun/mintqr/internal/settings"
)

// skip2Engine encodes with skip2/go-qrcode.
type skip2Engine struct{}

func (skip2Engine) Name() string { return EngineSkip2 }

func (skip2Engine) Encode(text string, level settings.ECLevel) (Matrix, error) {
	q, err := skip2.New(text, skip2Level(level))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	q.DisableBorder = true

	bitmap := q.Bitmap()
	m := make(Matrix, len(bitmap))
	for y, row := range bitmap {
		m[y] = append([]bool(nil), row...)
	}
	return m, nil
}

// skip2 names the four levels by recovery percentage: High is Q (25%),
// Highest is H (30%).
func skip2Level(l settings.ECLevel) skip2.RecoveryLevel {
	switch l {
	case settings.ECLow:
		return skip2.Low
	case settings.ECQuartile:
		return skip2.High
	case settings.ECHigh:
		return skip2.Highest
	default:
		return skip2.Medium
	}
}
