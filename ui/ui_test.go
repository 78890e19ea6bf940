package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"pirani-measure/calibration"
	"pirani-measure/keys"
	"pirani-measure/lookup"
	"pirani-measure/measure"
	"pirani-measure/testing/snapshot"
	"pirani-measure/ui/layout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowForPx(t *testing.T) {
	tests := []struct {
		name string
		y    float64
		want int
	}{
		{name: "top", y: 0, want: 0},
		{name: "inside first row", y: 17.9, want: 0},
		{name: "second row", y: 18, want: 1},
		{name: "reference top line", y: 195, want: 10},
		{name: "reference baseline", y: 458, want: 25},
		{name: "container bottom", y: 720, want: 39},
		{name: "negative", y: -5, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RowForPx(tt.y, 18, 40))
		})
	}
	assert.Equal(t, 0, RowForPx(100, 0, 40))
	assert.Equal(t, 7.0*18, PxForRow(7, 18))
}

func newTestCanvas(size calibration.SizeKey) (*Canvas, *measure.Controller) {
	c := NewCanvas(18)
	c.SetSize(60, 40)
	ctrl := measure.New(size, c.ContainerHeightPx())
	c.SetReadout(ctrl.Readout(), measure.LineHeight)
	return c, ctrl
}

func TestCanvasHitTest(t *testing.T) {
	c, _ := newTestCanvas(calibration.Size10oz)
	heightRow, baselineRow := c.LineRows()
	require.Equal(t, 10, heightRow)
	require.Equal(t, 25, baselineRow)

	for _, row := range []int{9, 10, 11} {
		line, ok := c.HitTest(row)
		assert.True(t, ok)
		assert.Equal(t, measure.LineHeight, line)
	}
	line, ok := c.HitTest(26)
	assert.True(t, ok)
	assert.Equal(t, measure.LineBaseline, line)

	_, ok = c.HitTest(18)
	assert.False(t, ok)
}

func TestCanvasHitTestPrefersBaseline(t *testing.T) {
	c, ctrl := newTestCanvas(calibration.Size10oz)
	ctrl.BeginDrag(measure.LineBaseline)
	ctrl.OnPointerMove(200)
	ctrl.EndDrag()
	c.SetReadout(ctrl.Readout(), measure.LineHeight)

	line, ok := c.HitTest(11)
	assert.True(t, ok)
	assert.Equal(t, measure.LineBaseline, line)
}

func TestCanvasHitTestAdjacentLines(t *testing.T) {
	// Height line on row 10, baseline on row 11.
	c, ctrl := newTestCanvas(calibration.Size10oz)
	ctrl.BeginDrag(measure.LineBaseline)
	ctrl.OnPointerMove(200)
	ctrl.EndDrag()
	c.SetReadout(ctrl.Readout(), measure.LineHeight)
	heightRow, baselineRow := c.LineRows()
	require.Equal(t, 10, heightRow)
	require.Equal(t, 11, baselineRow)

	tests := []struct {
		row  int
		want measure.Line
	}{
		{row: 9, want: measure.LineHeight},
		{row: 10, want: measure.LineHeight},
		{row: 11, want: measure.LineBaseline},
		{row: 12, want: measure.LineBaseline},
	}
	for _, tt := range tests {
		line, ok := c.HitTest(tt.row)
		assert.True(t, ok, "row %d", tt.row)
		assert.Equal(t, tt.want, line, "row %d", tt.row)
	}
}

func TestCanvasHitTestSameRow(t *testing.T) {
	c, ctrl := newTestCanvas(calibration.Size10oz)
	ctrl.BeginDrag(measure.LineBaseline)
	ctrl.OnPointerMove(0)
	ctrl.EndDrag()
	c.SetReadout(ctrl.Readout(), measure.LineHeight)

	line, ok := c.HitTest(10)
	assert.True(t, ok)
	assert.Equal(t, measure.LineBaseline, line)
}

func TestCanvasRender(t *testing.T) {
	c, _ := newTestCanvas(calibration.Size10oz)
	out := c.String()

	assert.Equal(t, 42, snapshot.Lines(out))
	assert.Equal(t, 62, snapshot.Width(out))

	// Row 0 is the border, so canvas row r is output line r+1.
	assert.Contains(t, snapshot.LineAt(out, 11), "Height: 263px · 55.0 mm")
	assert.Contains(t, snapshot.LineAt(out, 26), "Baseline Y: 458px")
	assert.Contains(t, snapshot.LineAt(out, 11), ActiveLineIcon)
	assert.Contains(t, snapshot.StripANSI(out), "No image")
}

func TestCanvasRenderDegraded(t *testing.T) {
	c, _ := newTestCanvas(calibration.Size10oz)
	c.SetImage("https://cdn.example.com/preview.png")
	c.SetDegradation(layout.Degradation{HideBadges: true, HideURL: true})
	out := snapshot.StripANSI(c.String())
	assert.NotContains(t, out, "Height:")
	assert.NotContains(t, out, "cdn.example.com")
	assert.Contains(t, out, "Preview")

	c.SetDegradation(layout.Degradation{})
	assert.Contains(t, snapshot.StripANSI(c.String()), "https://cdn.example.com/preview.png")
}

func TestCanvasUnmeasured(t *testing.T) {
	c := NewCanvas(18)
	assert.Equal(t, "", c.String())
	assert.Equal(t, 0.0, c.ContainerHeightPx())
}

func TestBadges(t *testing.T) {
	r := measure.Readout{HeightPx: 262.6, HeightMm: 54.93, BaselineY: 457.5}
	assert.Equal(t, "Height: 263px · 54.9 mm", HeightBadge(r))
	assert.Equal(t, "Baseline Y: 458px", BaselineBadge(r))
}

func TestErrBox(t *testing.T) {
	e := NewErrBox()
	e.SetSize(40, 1)
	assert.Equal(t, "", e.Message())

	e.SetError(errors.New("failed to fetch data: 502"))
	assert.True(t, e.IsError())
	assert.Contains(t, snapshot.StripANSI(e.String()), "failed to fetch data: 502")

	e.SetInfo("copied 55.0 mm")
	assert.False(t, e.IsError())
	assert.Equal(t, "copied 55.0 mm", e.Message())

	e.SetError(errors.New(strings.Repeat("x", 100)))
	assert.LessOrEqual(t, snapshot.Width(e.String()), 40)

	e.Clear()
	assert.Equal(t, "", e.Message())
}

func TestMenuOptions(t *testing.T) {
	m := NewMenu()
	assert.NotContains(t, m.Options(), keys.KeyDownload)

	m.SetHasRecord(true)
	assert.Contains(t, m.Options(), keys.KeyDownload)

	m.SetState(StateInput)
	assert.Equal(t, []keys.KeyName{keys.KeySubmit, keys.KeyCancel}, m.Options())

	m.SetState(StateDragging)
	assert.Contains(t, m.Options(), keys.KeyCopy)
}

type memClipboard struct{ text string }

func (c *memClipboard) WriteAll(text string) error {
	c.text = text
	return nil
}

func TestCanCopy(t *testing.T) {
	assert.True(t, CanCopy(&memClipboard{}))
	assert.False(t, CanCopy(nil))
	assert.Equal(t, ClipboardAvailable(), CanCopy(SystemClipboard{}))
}

func TestMenuCopyDisabled(t *testing.T) {
	m := NewMenu()
	m.SetSize(300, 2)
	assert.NotContains(t, snapshot.StripANSI(m.String()), "no clipboard")

	m.SetCopyDisabled(true)
	out := snapshot.StripANSI(m.String())
	assert.Contains(t, out, "(no clipboard)")
	assert.Contains(t, m.Options(), keys.KeyCopy)
}

func TestMenuFitsWidth(t *testing.T) {
	m := NewMenu()
	m.SetHasRecord(true)
	for _, width := range []int{60, 90, 120, 200} {
		m.SetSize(width, 2)
		out := m.String()
		assert.LessOrEqual(t, snapshot.Width(out), width, "width %d", width)
		assert.Equal(t, 2, snapshot.Lines(out))
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Date(2025, 8, 8, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{50 * time.Hour, "2d ago"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatRelativeTime(now.Add(-tt.ago), now))
	}
	assert.Equal(t, "never", FormatFetched(time.Time{}, now))
}

func TestInfoPanel(t *testing.T) {
	p := NewInfoPanel()
	p.SetSize(36, 42)
	p.SetCalibrationSize(calibration.Size16oz)
	ctrl := measure.New(calibration.Size16oz, 720)
	p.SetReadout(ctrl.Readout())

	out := snapshot.StripANSI(p.String())
	assert.Equal(t, 42, snapshot.Lines(out))
	assert.Equal(t, 36, snapshot.Width(out))
	assert.Contains(t, out, "Size 16oz")
	assert.Contains(t, out, "No product loaded")

	fetched := time.Now().Add(-2 * time.Minute)
	p.SetRecord("abc", &lookup.Record{Title: "Bottle", SKU: "BTL-16", Quantity: 2}, fetched)
	out = snapshot.StripANSI(p.String())
	assert.Contains(t, out, "Code: abc")
	assert.Contains(t, out, "SKU: BTL-16")
	assert.Contains(t, out, "2m ago")

	p.SetHideDetails(true)
	assert.NotContains(t, snapshot.StripANSI(p.String()), "SKU")
}

func TestCanvasInspectNode(t *testing.T) {
	c, _ := newTestCanvas(calibration.Size10oz)
	n := c.InspectNode()

	assert.Equal(t, "Canvas", n.Type)
	assert.Equal(t, 720.0, n.State["container_height_px"])
	assert.Equal(t, "55.0", n.State["height_mm"])

	height := n.FindNode("HeightLine")
	require.NotNil(t, height)
	assert.Equal(t, 10, height.State["row"])
	assert.Equal(t, "Height: 263px · 55.0 mm", height.Content)

	base := n.FindNode("Baseline")
	require.NotNil(t, base)
	assert.Equal(t, 25, base.State["row"])
	assert.Equal(t, 458.0, base.State["y_px"])
}

func TestInfoPanelInspectTruncation(t *testing.T) {
	p := NewInfoPanel()
	p.SetCalibrationSize(calibration.Size10oz)
	p.SetReadout(measure.New(calibration.Size10oz, 720).Readout())

	p.SetSize(36, 40)
	_ = p.String()
	assert.Nil(t, p.InspectNode().Truncated)

	p.SetSize(36, 8)
	_ = p.String()
	n := p.InspectNode()
	require.NotNil(t, n.Truncated)
	assert.Equal(t, 6, n.Truncated.DisplayLength)
	assert.Greater(t, n.Truncated.OriginalLength, 6)
}
