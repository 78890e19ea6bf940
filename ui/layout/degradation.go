package layout

// Degradation holds flags indicating which UI features should be hidden or simplified.
type Degradation struct {
	HideProductDetails bool // Only size and readout in the panel
	HideURL            bool // Drop the image URL line from the canvas placeholder
	HideBadges         bool // Drop readout badges drawn inside the canvas
	ShowMinWarning     bool
}

// Threshold constants for degradation
const (
	ProductDetailsHideHeight = 22
	URLHideWidth             = 80
	BadgeHideWidth           = 40
)

// ComputeDegradation calculates which UI features should be degraded.
func ComputeDegradation(c Constraints) Degradation {
	return Degradation{
		HideProductDetails: c.TerminalHeight < ProductDetailsHideHeight,
		HideURL:            c.TerminalWidth < URLHideWidth,
		HideBadges:         c.CanvasWidth < BadgeHideWidth,
		ShowMinWarning:     c.ShowMinWarning,
	}
}
