package ebitenview

import "github.com/atotto/clipboard"

// SystemClipboard is the desktop clipboard.
type SystemClipboard struct{}

// ReadText implements spectro.Clipboard.
func (SystemClipboard) ReadText() (string, error) {
	return clipboard.ReadAll()
}

// WriteText implements spectro.Clipboard.
func (SystemClipboard) WriteText(text string) error {
	return clipboard.WriteAll(text)
}
