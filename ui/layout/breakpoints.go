package layout

// Width breakpoints
const (
	// MinWidth is the absolute minimum terminal width.
	MinWidth = 60

	// CompactWidth shows the info panel in its narrow form.
	CompactWidth = 90

	// StandardWidth is the threshold for standard layout.
	StandardWidth = 120

	// FullWidth is the threshold for full layout with all features.
	FullWidth = 150
)

// Height breakpoints
const (
	// MinHeight is the smallest height with a usable canvas.
	MinHeight = 16

	// CompactHeight triggers compact mode features.
	CompactHeight = 24

	// StandardHeight is the threshold for standard layout.
	StandardHeight = 40

	// FullHeight is the threshold for full layout.
	FullHeight = 50
)

// Info panel constraints
const (
	// PanelMinWidth is the narrowest info panel.
	PanelMinWidth = 26

	// PanelMaxWidth keeps the panel from stealing canvas width.
	PanelMaxWidth = 44
)

// Fixed rows
const (
	// TitleHeight is the title bar.
	TitleHeight = 1

	// CanvasPaddingTop separates the title bar from the canvas border.
	CanvasPaddingTop = 1

	// CanvasBorder is the border thickness on each side of the canvas.
	CanvasBorder = 1

	// MenuMinHeight is the minimum menu height.
	MenuMinHeight = 1

	// MenuStandardHeight is the standard menu height.
	MenuStandardHeight = 2

	// ErrBoxHeight is the fixed notification row.
	ErrBoxHeight = 1

	// MinCanvasRows is the fewest canvas rows ever laid out.
	MinCanvasRows = 4
)

// Overlay constraints
const (
	// OverlayMaxWidth is the maximum overlay width.
	OverlayMaxWidth = 70

	// OverlayMinWidth is the minimum overlay width.
	OverlayMinWidth = 30

	// OverlayMargin is the minimum margin from terminal edges.
	OverlayMargin = 2
)
