// Package render turns settings into QR images. Encoding is delegated to
// statically linked encoder engines; this package only draws their output.
package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cristianadrielbraun/mintqr/internal/settings"
)

const (
	EngineYeqown = "yeqown"
	EngineSkip2  = "skip2"
)

var (
	// ErrEmptyText is returned when there is nothing to encode.
	ErrEmptyText = errors.New("empty text")
	// ErrEncode wraps encoder failures, typically text too long for the level.
	ErrEncode = errors.New("encode failed")
)

// Matrix is a square module grid without quiet zone. True means dark.
type Matrix [][]bool

// Dimension is the number of modules per side.
func (m Matrix) Dimension() int { return len(m) }

// Engine encodes text into a module matrix.
type Engine interface {
	Name() string
	Encode(text string, level settings.ECLevel) (Matrix, error)
}

// Engines lists the available engine names, default first.
func Engines() []string { return []string{EngineYeqown, EngineSkip2} }

// DefaultEngine returns the engine used when none is configured.
func DefaultEngine() Engine { return yeqownEngine{} }

// NewEngine returns the engine with the given name. An empty name selects
// the default engine.
func NewEngine(name string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EngineYeqown:
		return DefaultEngine(), nil
	case EngineSkip2:
		return skip2Engine{}, nil
	default:
		return nil, fmt.Errorf("unknown engine %q (want one of %s)", name, strings.Join(Engines(), ", "))
	}
}
