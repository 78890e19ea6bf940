package ui

import (
	"fmt"
	"math"
	"strings"

	"pirani-measure/calibration"
	"pirani-measure/inspect"
	"pirani-measure/log"
	"pirani-measure/measure"
	"pirani-measure/ui/layout"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// RowForPx maps a container pixel position to the canvas row it is drawn on.
func RowForPx(yPx, cellPx float64, rows int) int {
	if cellPx <= 0 || rows <= 0 {
		return 0
	}
	row := int(math.Floor(yPx / cellPx))
	if row < 0 {
		return 0
	}
	if row >= rows {
		return rows - 1
	}
	return row
}

// PxForRow maps a canvas row back to a container pixel position.
func PxForRow(row int, cellPx float64) float64 {
	return float64(row) * cellPx
}

// Canvas draws the preview container with the two measurement lines.
type Canvas struct {
	width, rows int
	cellPx      float64

	imageURL string
	loaded   bool

	readout measure.Readout
	// active is the line the keyboard nudges.
	active measure.Line

	degradation layout.Degradation
}

func NewCanvas(cellPx float64) *Canvas {
	return &Canvas{cellPx: cellPx}
}

// SetSize sets the inner size of the canvas in cells.
func (c *Canvas) SetSize(width, rows int) {
	c.width = width
	c.rows = rows
}

// ContainerHeightPx is the pixel height the canvas represents.
func (c *Canvas) ContainerHeightPx() float64 {
	return float64(c.rows) * c.cellPx
}

func (c *Canvas) CellPx() float64 {
	return c.cellPx
}

func (c *Canvas) SetDegradation(d layout.Degradation) {
	c.degradation = d
}

// SetImage sets the previewed image. An empty url shows the placeholder.
func (c *Canvas) SetImage(url string) {
	c.imageURL = url
	c.loaded = url != ""
}

func (c *Canvas) ImageURL() string {
	return c.imageURL
}

func (c *Canvas) SetReadout(r measure.Readout, active measure.Line) {
	c.readout = r
	c.active = active
}

// LineRows returns the rows the height line and baseline are drawn on.
func (c *Canvas) LineRows() (heightRow, baselineRow int) {
	return RowForPx(c.readout.HeightLineY, c.cellPx, c.rows),
		RowForPx(c.readout.BaselineY, c.cellPx, c.rows)
}

// HitTest returns the line nearest to canvas row, allowing one row of
// slack. On a tie the baseline wins since it is drawn above the height line.
func (c *Canvas) HitTest(row int) (measure.Line, bool) {
	heightRow, baselineRow := c.LineRows()
	toHeight, toBaseline := abs(row-heightRow), abs(row-baselineRow)
	switch {
	case toBaseline <= 1 && toBaseline <= toHeight:
		return measure.LineBaseline, true
	case toHeight <= 1:
		return measure.LineHeight, true
	}
	return measure.LineHeight, false
}

// HeightBadge is the label drawn on the height line.
func HeightBadge(r measure.Readout) string {
	return fmt.Sprintf("Height: %dpx · %s mm", int(math.Round(r.HeightPx)), calibration.FormatMm(r.HeightMm))
}

// BaselineBadge is the label drawn on the baseline.
func BaselineBadge(r measure.Readout) string {
	return fmt.Sprintf("Baseline Y: %dpx", int(math.Round(r.BaselineY)))
}

func (c *Canvas) String() string {
	defer log.GetProfiler().StartRender("canvas")()

	if c.width <= 0 || c.rows <= 0 {
		return ""
	}

	background := c.backgroundRows()
	heightRow, baselineRow := c.LineRows()

	rows := make([]string, c.rows)
	for i := range rows {
		switch i {
		case baselineRow:
			rows[i] = c.renderLine(measure.LineBaseline)
		case heightRow:
			rows[i] = c.renderLine(measure.LineHeight)
		default:
			rows[i] = background[i]
		}
	}
	log.RenderTrace("canvas", "height row %d baseline row %d of %d", heightRow, baselineRow, c.rows)

	return CanvasStyle(c.readout.Drag != measure.DragIdle).Render(strings.Join(rows, "\n"))
}

func (c *Canvas) renderLine(line measure.Line) string {
	style, glyph, badge := LineStyles.Height, HeightLineGlyph, HeightBadge(c.readout)
	color := HeightLineColor
	held := c.readout.Drag == measure.DragHeight
	if line == measure.LineBaseline {
		style, glyph, badge = LineStyles.Baseline, BaselineGlyph, BaselineBadge(c.readout)
		color = BaselineColor
		held = c.readout.Drag == measure.DragBaseline
	}
	if held {
		style = style.Bold(true)
	}

	prefix := glyph
	if line == c.active {
		prefix = ActiveLineIcon
	}

	var label string
	if !c.degradation.HideBadges {
		label = BadgeStyle(color).Render(badge)
	}

	rest := c.width - lipgloss.Width(prefix) - lipgloss.Width(label)
	if rest < 0 {
		label = ""
		rest = c.width - lipgloss.Width(prefix)
	}
	return style.Render(prefix) + label + style.Render(strings.Repeat(glyph, max(rest, 0)))
}

func (c *Canvas) backgroundRows() []string {
	var content []string
	if !c.loaded {
		content = []string{
			"No image",
			"press o to look up a product code",
		}
	} else {
		content = []string{"Preview"}
		if !c.degradation.HideURL {
			content = append(content, c.imageURL)
		}
	}

	rows := make([]string, c.rows)
	blank := strings.Repeat(" ", c.width)
	for i := range rows {
		rows[i] = blank
	}
	start := max((c.rows-len(content))/2, 0)
	for i, text := range content {
		if start+i >= c.rows {
			break
		}
		text = truncate.StringWithTail(text, uint(c.width), "...")
		rows[start+i] = TextStyles.Muted.Render(lipgloss.PlaceHorizontal(c.width, lipgloss.Center, text))
	}
	return rows
}

// InspectNode implements inspect.Introspectable.
func (c *Canvas) InspectNode() *inspect.Node {
	heightRow, baselineRow := c.LineRows()
	return inspect.NewNode("Canvas").
		WithBounds(0, 0, c.width, c.rows).
		WithReadout(c.readout).
		WithState("image_url", c.imageURL).
		WithState("cell_px", c.cellPx).
		WithState("active_line", c.active.String()).
		AddChild(inspect.LineNode(measure.LineHeight, c.readout.HeightLineY, heightRow, HeightBadge(c.readout)).
			WithStyles(inspect.ExtractStyleInfo(LineStyles.Height, "height_line"))).
		AddChild(inspect.LineNode(measure.LineBaseline, c.readout.BaselineY, baselineRow, BaselineBadge(c.readout)).
			WithStyles(inspect.ExtractStyleInfo(LineStyles.Baseline, "baseline")))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
