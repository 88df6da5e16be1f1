package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Backend reads and writes the system clipboard. Only text is supported.
type Backend interface {
	ReadText() (string, error)
	WriteText(text string) error
}

// System is the Backend for the desktop clipboard. On Linux it shells out
// to xclip, xsel or wl-clipboard, whichever is installed.
type System struct{}

var _ Backend = System{}

// Available reports whether a clipboard utility was found.
func (System) Available() bool {
	return !clipboard.Unsupported
}

// ReadText returns the current clipboard text.
func (System) ReadText() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("clipboard: read: %w", err)
	}
	return text, nil
}

// WriteText replaces the clipboard content.
func (System) WriteText(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard: write: %w", err)
	}
	return nil
}
