package layout

// Constraints holds the computed geometry of every component. Canvas
// coordinates refer to the first cell inside the canvas border.
type Constraints struct {
	TerminalWidth  int
	TerminalHeight int

	Mode LayoutMode

	PanelWidth  int
	PanelHeight int

	// CanvasX and CanvasY are the screen cell of the canvas' top-left inner cell.
	CanvasX     int
	CanvasY     int
	CanvasWidth int
	CanvasRows  int

	MenuHeight   int
	ErrBoxHeight int

	ShowPanel      bool
	ShowMinWarning bool
}

// ComputeConstraints calculates layout constraints for the given terminal dimensions.
func ComputeConstraints(width, height int) Constraints {
	c := Constraints{
		TerminalWidth:  width,
		TerminalHeight: height,
		Mode:           DetermineMode(width, height),
		ErrBoxHeight:   ErrBoxHeight,
	}
	c.ShowMinWarning = width < MinWidth || height < MinHeight
	c.MenuHeight = computeMenuHeight(c.Mode)

	if c.Mode != LayoutMinimal {
		c.ShowPanel = true
		c.PanelWidth = computePanelWidth(width, c.Mode)
	}

	chrome := TitleHeight + CanvasPaddingTop + 2*CanvasBorder + c.MenuHeight + c.ErrBoxHeight
	c.CanvasRows = max(height-chrome, MinCanvasRows)
	c.CanvasY = TitleHeight + CanvasPaddingTop + CanvasBorder
	c.CanvasX = c.PanelWidth + CanvasBorder
	c.CanvasWidth = max(width-c.PanelWidth-2*CanvasBorder, 1)
	c.PanelHeight = c.CanvasRows + 2*CanvasBorder

	return c
}

// CanvasContains reports whether the screen cell (x, y) is inside the canvas.
func (c Constraints) CanvasContains(x, y int) bool {
	return x >= c.CanvasX && x < c.CanvasX+c.CanvasWidth &&
		y >= c.CanvasY && y < c.CanvasY+c.CanvasRows
}

func computePanelWidth(totalWidth int, mode LayoutMode) int {
	var targetPercent float32
	switch mode {
	case LayoutFull:
		targetPercent = 0.28
	case LayoutStandard:
		targetPercent = 0.30
	default:
		targetPercent = 0.32
	}
	return clamp(int(float32(totalWidth)*targetPercent), PanelMinWidth, PanelMaxWidth)
}

func computeMenuHeight(mode LayoutMode) int {
	if mode == LayoutFull || mode == LayoutStandard {
		return MenuStandardHeight
	}
	return MenuMinHeight
}

// ComputeOverlayWidth constrains a preferred overlay width to the terminal.
func ComputeOverlayWidth(termWidth, preferred int) int {
	maxW := max(termWidth-OverlayMargin*2, OverlayMinWidth)
	return clamp(preferred, OverlayMinWidth, min(maxW, OverlayMaxWidth))
}

func clamp(value, minVal, maxVal int) int {
	if value < minVal {
		return minVal
	}
	if value > maxVal {
		return maxVal
	}
	return value
}
