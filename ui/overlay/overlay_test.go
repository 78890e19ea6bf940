package overlay

import (
	"strings"
	"testing"

	"pirani-measure/calibration"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func background(width, height int) string {
	lines := make([]string, height)
	for i := range lines {
		lines[i] = strings.Repeat(".", width)
	}
	return strings.Join(lines, "\n")
}

func TestPlaceOverlayCentered(t *testing.T) {
	bg := background(20, 9)
	out := PlaceOverlay(0, 0, "abcd\nefgh", bg, false, true)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 9)
	for _, l := range lines {
		assert.Equal(t, 20, ansi.PrintableRuneWidth(l))
	}
	assert.Equal(t, "........abcd........", lines[3])
	assert.Equal(t, "........efgh........", lines[4])
	assert.Equal(t, strings.Repeat(".", 20), lines[0])
}

func TestPlaceOverlayAtPosition(t *testing.T) {
	out := PlaceOverlay(2, 1, "XY", background(6, 3), false, false)
	assert.Equal(t, "......\n..XY..\n......", out)
}

func TestPlaceOverlayClampsToBackground(t *testing.T) {
	out := PlaceOverlay(10, 10, "XY", background(6, 3), false, false)
	lines := strings.Split(out, "\n")
	assert.Equal(t, "....XY", lines[2])
}

func TestPlaceOverlayLargerThanBackground(t *testing.T) {
	fg := background(10, 5)
	assert.Equal(t, fg, PlaceOverlay(0, 0, fg, background(4, 2), false, true))
}

func TestPlaceOverlayShadow(t *testing.T) {
	out := PlaceOverlay(0, 0, "ab\ncd", background(10, 6), true, false)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[1], "░")
	assert.Contains(t, lines[2], "░")
	for _, l := range lines {
		assert.Equal(t, 10, ansi.PrintableRuneWidth(l))
	}
}

func TestSizeSelector(t *testing.T) {
	s := NewSizeSelectorOverlay(calibration.Size16oz)
	assert.Equal(t, calibration.Size16oz, s.Cursor())

	assert.False(t, s.HandleKeyPress(tea.KeyMsg{Type: tea.KeyDown}))
	assert.Equal(t, calibration.Size26oz, s.Cursor())

	// Wraps around.
	s.HandleKeyPress(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.Equal(t, calibration.Size10oz, s.Cursor())
	s.HandleKeyPress(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, calibration.Size26oz, s.Cursor())

	assert.True(t, s.HandleKeyPress(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.True(t, s.Dismissed)
	assert.Equal(t, calibration.Size26oz, s.Selected)
}

func TestSizeSelectorCancel(t *testing.T) {
	s := NewSizeSelectorOverlay(calibration.Size10oz)
	s.HandleKeyPress(tea.KeyMsg{Type: tea.KeyDown})
	assert.True(t, s.HandleKeyPress(tea.KeyMsg{Type: tea.KeyEsc}))
	assert.Equal(t, calibration.SizeKey(""), s.Selected)
}

func TestSizeSelectorRender(t *testing.T) {
	out := NewSizeSelectorOverlay(calibration.Size10oz).Render()
	for _, key := range calibration.AllSizes() {
		assert.Contains(t, out, string(key))
	}
	assert.Contains(t, out, "110mm")
}

func TestCodeInput(t *testing.T) {
	c := NewCodeInputOverlay("Product code", nil)

	// Enter on an empty input keeps the overlay open.
	assert.False(t, c.HandleKeyPress(tea.KeyMsg{Type: tea.KeyEnter}))

	c.HandleKeyPress(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(" 250808/-uImcw6d ")})
	assert.Equal(t, "250808/-uImcw6d", c.GetValue())

	assert.True(t, c.HandleKeyPress(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.True(t, c.IsSubmitted())
	assert.False(t, c.IsCanceled())
}

func TestCodeInputRecent(t *testing.T) {
	c := NewCodeInputOverlay("Product code", []string{"new", "old"})
	c.HandleKeyPress(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "new", c.GetValue())
	c.HandleKeyPress(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "old", c.GetValue())
	c.HandleKeyPress(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "new", c.GetValue())
	assert.Contains(t, c.Render(), "recent: new, old")

	assert.True(t, c.HandleKeyPress(tea.KeyMsg{Type: tea.KeyEsc}))
	assert.True(t, c.IsCanceled())
	assert.False(t, c.IsSubmitted())
}

func TestTextOverlayDismissOnce(t *testing.T) {
	calls := 0
	o := NewTextOverlay("help")
	o.OnDismiss = func() { calls++ }
	assert.True(t, o.HandleKeyPress(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}))
	o.HandleKeyPress(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, o.Dismissed)
	assert.Equal(t, 1, calls)
}

func TestLoadingOverlay(t *testing.T) {
	l := NewLoadingOverlay("Looking up product", nil)
	l.SetStatus("Fetching abc")
	assert.Equal(t, "Fetching abc", l.Status())
	out := l.Render()
	assert.Contains(t, out, "Looking up product")
	assert.Contains(t, out, "Fetching abc")
}
