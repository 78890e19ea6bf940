package overlay

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TextOverlay shows static text, such as help, until any key is pressed.
type TextOverlay struct {
	Dismissed bool
	// OnDismiss runs once when the overlay is dismissed.
	OnDismiss func()
	content   string
	width     int
}

// NewTextOverlay creates a new text overlay
func NewTextOverlay(content string) *TextOverlay {
	return &TextOverlay{content: content, width: 60}
}

// HandleKeyPress dismisses the overlay on any key.
func (t *TextOverlay) HandleKeyPress(msg tea.KeyMsg) bool {
	t.Dismissed = true
	if t.OnDismiss != nil {
		t.OnDismiss()
		t.OnDismiss = nil
	}
	return true
}

// SetWidth sets the overlay width
func (t *TextOverlay) SetWidth(width int) {
	t.width = width
}

// Render renders the text overlay
func (t *TextOverlay) Render(opts ...WhitespaceOption) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(t.width)
	return style.Render(t.content)
}
