package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

var errStyle = lipgloss.NewStyle().Foreground(StatusError)

var infoStyle = lipgloss.NewStyle().Foreground(StatusSuccess)

// ErrBox is the single-line notification area under the menu.
type ErrBox struct {
	height, width int
	err           error
	info          string
}

func NewErrBox() *ErrBox {
	return &ErrBox{}
}

func (e *ErrBox) SetError(err error) {
	e.err = err
	e.info = ""
}

// SetInfo shows a non-error notification.
func (e *ErrBox) SetInfo(msg string) {
	e.err = nil
	e.info = msg
}

func (e *ErrBox) Clear() {
	e.err = nil
	e.info = ""
}

// Message returns the text currently shown, if any.
func (e *ErrBox) Message() string {
	if e.err != nil {
		return e.err.Error()
	}
	return e.info
}

// IsError reports whether the box is showing an error.
func (e *ErrBox) IsError() bool {
	return e.err != nil
}

func (e *ErrBox) SetSize(width, height int) {
	e.width = width
	e.height = height
}

func (e *ErrBox) String() string {
	var text string
	if msg := e.Message(); msg != "" {
		// Errors from the lookup service can span lines.
		msg = strings.Join(strings.Fields(msg), " ")
		if e.width > 3 {
			msg = truncate.StringWithTail(msg, uint(e.width), "...")
		}
		if e.err != nil {
			text = errStyle.Render(msg)
		} else {
			text = infoStyle.Render(msg)
		}
	}
	return lipgloss.Place(e.width, e.height, lipgloss.Center, lipgloss.Top, text)
}
