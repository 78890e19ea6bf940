package overlay

import (
	"fmt"
	"strings"

	"pirani-measure/calibration"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SizeOption is one selectable product size.
type SizeOption struct {
	Key         calibration.SizeKey
	Description string
}

// SizeSelectorOverlay lets the user pick the active product size.
type SizeSelectorOverlay struct {
	Dismissed bool
	Selected  calibration.SizeKey
	options   []SizeOption
	cursor    int
	width     int
}

// NewSizeSelectorOverlay lists every calibrated size with the cursor on current.
func NewSizeSelectorOverlay(current calibration.SizeKey) *SizeSelectorOverlay {
	s := &SizeSelectorOverlay{width: 50}
	for i, key := range calibration.AllSizes() {
		rec := calibration.MustLookup(key)
		s.options = append(s.options, SizeOption{
			Key: key,
			Description: fmt.Sprintf("top line %.0fpx, span %.0fpx = %.0fmm",
				rec.TopLineReferencePx, rec.ReferenceHeightPx, rec.PhysicalHeightMm),
		})
		if key == current {
			s.cursor = i
		}
	}
	return s
}

// HandleKeyPress processes a key press and reports whether the overlay should close.
func (s *SizeSelectorOverlay) HandleKeyPress(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "up", "k":
		s.moveCursor(-1)
		return false
	case "down", "j":
		s.moveCursor(1)
		return false
	case "enter":
		s.Selected = s.options[s.cursor].Key
		s.Dismissed = true
		return true
	case "esc", "q":
		s.Dismissed = true
		return true
	default:
		return false
	}
}

func (s *SizeSelectorOverlay) moveCursor(delta int) {
	n := len(s.options)
	s.cursor = ((s.cursor+delta)%n + n) % n
}

// Cursor returns the highlighted size.
func (s *SizeSelectorOverlay) Cursor() calibration.SizeKey {
	return s.options[s.cursor].Key
}

// SetWidth sets the width of the overlay
func (s *SizeSelectorOverlay) SetWidth(width int) {
	s.width = width
}

// Render renders the size selector overlay
func (s *SizeSelectorOverlay) Render(opts ...WhitespaceOption) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF"))

	selectedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7aa2f7")).
		Bold(true)

	normalStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		PaddingLeft(4)

	var content strings.Builder
	content.WriteString(titleStyle.Render("Select Size"))
	content.WriteString("\n\n")

	for i, opt := range s.options {
		prefix, nameStyle := "  ", normalStyle
		if i == s.cursor {
			prefix, nameStyle = "> ", selectedStyle
		}
		content.WriteString(prefix)
		content.WriteString(nameStyle.Render(string(opt.Key)))
		content.WriteString("\n")
		content.WriteString(descStyle.Render(opt.Description))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")).Render(
		"[Enter] Select  [Esc] Cancel  [↑/↓] Navigate"))

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7aa2f7")).
		Padding(1, 2).
		Width(s.width)

	return borderStyle.Render(content.String())
}
