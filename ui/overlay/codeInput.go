package overlay

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// CodeInputOverlay asks for a product code. Tab cycles through recent codes.
type CodeInputOverlay struct {
	input     textinput.Model
	recent    []string
	recentIdx int
	title     string
	width     int

	submitted bool
	canceled  bool
}

// NewCodeInputOverlay creates the overlay with recent codes newest first.
func NewCodeInputOverlay(title string, recent []string) *CodeInputOverlay {
	ti := textinput.New()
	ti.Placeholder = "e.g. 250808/-uImcw6d"
	ti.CharLimit = 64
	ti.Prompt = "> "
	ti.Focus()

	return &CodeInputOverlay{
		input:     ti,
		recent:    recent,
		recentIdx: -1,
		title:     title,
		width:     50,
	}
}

// HandleKeyPress updates the input and reports whether the overlay should close.
func (c *CodeInputOverlay) HandleKeyPress(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyEnter:
		if strings.TrimSpace(c.input.Value()) == "" {
			return false
		}
		c.submitted = true
		return true
	case tea.KeyEsc, tea.KeyCtrlC:
		c.canceled = true
		return true
	case tea.KeyTab:
		if len(c.recent) > 0 {
			c.recentIdx = (c.recentIdx + 1) % len(c.recent)
			c.input.SetValue(c.recent[c.recentIdx])
			c.input.CursorEnd()
		}
		return false
	}

	c.input, _ = c.input.Update(msg)
	return false
}

// IsSubmitted reports whether the user confirmed a code.
func (c *CodeInputOverlay) IsSubmitted() bool {
	return c.submitted
}

// IsCanceled reports whether the user dismissed the overlay.
func (c *CodeInputOverlay) IsCanceled() bool {
	return c.canceled
}

// GetValue returns the trimmed code.
func (c *CodeInputOverlay) GetValue() string {
	return strings.TrimSpace(c.input.Value())
}

// SetWidth sets the overlay width.
func (c *CodeInputOverlay) SetWidth(width int) {
	c.width = width
	c.input.Width = max(width-10, 10)
}

// Render renders the code input overlay.
func (c *CodeInputOverlay) Render(opts ...WhitespaceOption) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	hintStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(c.width)

	var b strings.Builder
	b.WriteString(titleStyle.Render(c.title))
	b.WriteString("\n\n")
	b.WriteString(c.input.View())
	b.WriteString("\n\n")
	if len(c.recent) > 0 {
		b.WriteString(hintStyle.Render("recent: " + strings.Join(c.recent, ", ")))
		b.WriteString("\n")
		b.WriteString(hintStyle.Render("[Enter] Look up  [Tab] Recent  [Esc] Cancel"))
	} else {
		b.WriteString(hintStyle.Render("[Enter] Look up  [Esc] Cancel"))
	}
	return boxStyle.Render(b.String())
}
