package app

import (
	"strings"

	"pirani-measure/keys"

	"github.com/charmbracelet/lipgloss"
)

var helpOrder = []keys.KeyName{
	keys.KeySwitchLine, keys.KeyUp, keys.KeyDown, keys.KeyShiftUp, keys.KeyShiftDown,
	keys.KeyReset, keys.KeyCopy, keys.KeyLookup, keys.KeySize, keys.KeyDownload,
	keys.KeyHelp, keys.KeyQuit,
}

// helpText is the content of the help overlay.
func helpText() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("#7D56F4"))
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#36CFC9"))
	keyStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFCC00")).Width(10)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))

	var b strings.Builder
	b.WriteString(titleStyle.Render("Pirani Measure"))
	b.WriteString("\n\n")
	b.WriteString("Drag the red height line to the top of the artwork and the blue\n")
	b.WriteString("baseline to its bottom. The height is converted to millimeters\n")
	b.WriteString("using the calibration for the selected size.\n\n")
	b.WriteString(headerStyle.Render("Mouse"))
	b.WriteString("\n")
	b.WriteString(keyStyle.Render("drag") + descStyle.Render("move a line (grab it on or next to its row)"))
	b.WriteString("\n\n")
	b.WriteString(headerStyle.Render("Keys"))
	b.WriteString("\n")
	for _, name := range helpOrder {
		h := keys.GlobalkeyBindings[name].Help()
		b.WriteString(keyStyle.Render(h.Key) + descStyle.Render(h.Desc))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(descStyle.Render("Press any key to close"))
	return b.String()
}
