package ui

import "github.com/atotto/clipboard"

// Clipboard writes text to the platform clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard is the platform clipboard.
type SystemClipboard struct{}

// WriteAll implements Clipboard.
func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// ClipboardAvailable reports whether a clipboard backend was found.
func ClipboardAvailable() bool {
	return !clipboard.Unsupported
}

// CanCopy reports whether writes to c can succeed. Only the system
// clipboard depends on a platform backend.
func CanCopy(c Clipboard) bool {
	if _, ok := c.(SystemClipboard); ok {
		return ClipboardAvailable()
	}
	return c != nil
}
