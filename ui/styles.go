package ui

import (
	"pirani-measure/inspect"

	"github.com/charmbracelet/lipgloss"
)

// Semantic Color Palette
// Designed for accessibility (colorblind-safe) with both color and shape differentiation.

// Status colors
var (
	// StatusSuccess is used for confirmations such as a successful copy
	StatusSuccess = lipgloss.AdaptiveColor{Light: "#22C55E", Dark: "#22C55E"}

	// StatusRunning marks in-progress work and the line being dragged
	StatusRunning = lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#3B82F6"}

	// StatusWarning indicates needs attention
	StatusWarning = lipgloss.AdaptiveColor{Light: "#F59E0B", Dark: "#F59E0B"}

	// StatusError indicates errors/failures
	StatusError = lipgloss.AdaptiveColor{Light: "#EF4444", Dark: "#EF4444"}
)

// UI chrome colors - structural elements
var (
	// Primary is the accent/focus color
	Primary = lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#7D56F4"}

	// Border is the default border color
	Border = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#3C3C3C"}

	// BorderFocus is the border color while a line is held
	BorderFocus = lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#7D56F4"}

	// TextPrimary is the main text color
	TextPrimary = lipgloss.AdaptiveColor{Light: "#1a1a1a", Dark: "#dddddd"}

	// TextSecondary is for secondary text (descriptions, labels)
	TextSecondary = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#9CA3AF"}

	// TextMuted is for hints and subtle text
	TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6B7280"}
)

// Measurement line colors. The height line is red and the baseline blue,
// and they also differ in glyph so they stay distinguishable without color.
var (
	HeightLineColor = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#EF4444"}
	BaselineColor   = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#3B82F6"}
)

// Line glyphs
const (
	HeightLineGlyph = "━"
	BaselineGlyph   = "═"
	ActiveLineIcon  = "▸"
)

// TextStyles contains pre-built styles for text elements
var TextStyles = struct {
	Primary   lipgloss.Style
	Secondary lipgloss.Style
	Muted     lipgloss.Style
}{
	Primary:   lipgloss.NewStyle().Foreground(TextPrimary),
	Secondary: lipgloss.NewStyle().Foreground(TextSecondary),
	Muted:     lipgloss.NewStyle().Foreground(TextMuted),
}

// LineStyles contains the styles for both measurement lines.
var LineStyles = struct {
	Height   lipgloss.Style
	Baseline lipgloss.Style
}{
	Height:   lipgloss.NewStyle().Foreground(HeightLineColor),
	Baseline: lipgloss.NewStyle().Foreground(BaselineColor),
}

// BadgeStyle creates a styled badge with the given color
func BadgeStyle(color lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(color).
		Padding(0, 1)
}

// CanvasStyle is the bordered box around the preview container.
func CanvasStyle(focused bool) lipgloss.Style {
	color := Border
	if focused {
		color = BorderFocus
	}
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(color)
}

func init() {
	inspect.RegisterStyle("height_line", LineStyles.Height)
	inspect.RegisterStyle("baseline", LineStyles.Baseline)
	inspect.RegisterStyle("canvas", CanvasStyle(false))
	inspect.RegisterStyle("canvas_focused", CanvasStyle(true))
}
