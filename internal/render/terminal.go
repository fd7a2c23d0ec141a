package render

import (
	"io"
	"strings"

	"github.com/mdp/qrterminal/v3"
	"rsc.io/qr"

	"github.com/cristianadrielbraun/mintqr/internal/settings"
)

// Terminal prints the settings text as a half-block QR code. Colors, size
// and logo do not apply to terminal output.
func Terminal(w io.Writer, s settings.Settings) error {
	if strings.TrimSpace(s.Text) == "" {
		return ErrEmptyText
	}
	qrterminal.GenerateWithConfig(s.Text, qrterminal.Config{
		Level:          terminalLevel(s.ECLevel),
		Writer:         w,
		HalfBlocks:     true,
		BlackChar:      qrterminal.BLACK_BLACK,
		WhiteBlackChar: qrterminal.WHITE_BLACK,
		WhiteChar:      qrterminal.WHITE_WHITE,
		BlackWhiteChar: qrterminal.BLACK_WHITE,
		QuietZone:      2,
	})
	return nil
}

func terminalLevel(l settings.ECLevel) qr.Level {
	switch l {
	case settings.ECLow:
		return qr.L
	case settings.ECQuartile:
		return qr.Q
	case settings.ECHigh:
		return qr.H
	default:
		return qr.M
	}
}
