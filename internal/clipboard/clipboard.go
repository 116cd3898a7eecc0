// Package clipboard implements the copy-to-clipboard affordance for the CLI.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrUnsupported is returned when the platform has no clipboard utility.
var ErrUnsupported = errors.New("clipboard: not supported on this system")

// Writer copies text somewhere the user can paste it from.
type Writer interface {
	WriteAll(text string) error
}

// System writes to the OS clipboard.
type System struct{}

// WriteAll copies text to the OS clipboard.
func (System) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard: write: %w", err)
	}
	return nil
}

// Copy writes text through w, defaulting to the system clipboard.
func Copy(w Writer, text string) error {
	if w == nil {
		w = System{}
	}
	return w.WriteAll(text)
}
