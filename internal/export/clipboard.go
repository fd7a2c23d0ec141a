package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"
)

// ErrClipboardUnsupported is returned when no clipboard is reachable.
var ErrClipboardUnsupported = errors.New("clipboard not supported")

// Clipboard copies exports and share links.
type Clipboard interface {
	CopyImage(ctx context.Context, png []byte) error
	CopyText(ctx context.Context, text string) error
}

// imageCommand is an external program that takes a PNG on stdin.
type imageCommand struct {
	name string
	args []string
}

// Linux image clipboards, in preference order.
var imageCommands = []imageCommand{
	{name: "wl-copy", args: []string{"--type", "image/png"}},
	{name: "xclip", args: []string{"-selection", "clipboard", "-t", "image/png", "-i"}},
}

// SystemClipboard returns the desktop clipboard. Text goes through
// atotto/clipboard; images need wl-copy or xclip.
func SystemClipboard() Clipboard {
	return systemClipboard{lookPath: exec.LookPath}
}

type systemClipboard struct {
	lookPath func(string) (string, error)
}

func (c systemClipboard) CopyImage(ctx context.Context, png []byte) error {
	if runtime.GOOS != "linux" {
		return ErrClipboardUnsupported
	}
	for _, ic := range imageCommands {
		path, err := c.lookPath(ic.name)
		if err != nil {
			continue
		}
		cmd := exec.CommandContext(ctx, path, ic.args...)
		cmd.Stdin = bytes.NewReader(png)
		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("%s: %w: %s", ic.name, err, bytes.TrimSpace(out))
		}
		return nil
	}
	return ErrClipboardUnsupported
}

func (systemClipboard) CopyText(_ context.Context, text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnsupported
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("copy text: %w", err)
	}
	return nil
}

// NoClipboard rejects every copy. It stands in where no clipboard exists,
// such as the HTTP server, whose page copies through the browser.
type NoClipboard struct{}

func (NoClipboard) CopyImage(context.Context, []byte) error { return ErrClipboardUnsupported }
func (NoClipboard) CopyText(context.Context, string) error  { return ErrClipboardUnsupported }
