package inspect

import (
	"fmt"
	"strings"
	"time"

	"pirani-measure/ui/layout"
)

// Snapshot represents a complete UI state at a point in time.
type Snapshot struct {
	// Timestamp when the snapshot was taken.
	Timestamp time.Time `json:"timestamp"`

	// Version of the snapshot format.
	Version string `json:"version"`

	// Terminal contains terminal dimensions.
	Terminal TerminalInfo `json:"terminal"`

	// AppState contains application state information.
	AppState AppStateInfo `json:"app_state"`

	// Layout contains layout configuration.
	Layout LayoutInfo `json:"layout"`

	// Components is the root of the component tree.
	Components *Node `json:"components"`

	// Breakpoints contains information about responsive breakpoints.
	Breakpoints []BreakpointInfo `json:"breakpoints"`

	// Styles lists the registered named styles.
	Styles map[string]*StyleInfo `json:"styles,omitempty"`
}

// TerminalInfo contains terminal dimensions.
type TerminalInfo struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// AppStateInfo contains application-level state.
type AppStateInfo struct {
	// State is the current app state (e.g., "default", "code", "size").
	State string `json:"state"`

	// HasOverlay indicates if an overlay is currently displayed.
	HasOverlay bool `json:"has_overlay"`

	// OverlayType is the type of overlay if one is displayed.
	OverlayType string `json:"overlay_type,omitempty"`

	// Size is the active calibration size.
	Size string `json:"size"`

	// Drag is the overlay drag state.
	Drag string `json:"drag"`

	// ImageURL is the previewed image, empty when showing the placeholder.
	ImageURL string `json:"image_url,omitempty"`

	// ErrorMessage is the current error message if any.
	ErrorMessage string `json:"error_message,omitempty"`
}

// LayoutInfo contains layout configuration.
type LayoutInfo struct {
	// Mode is the current layout mode.
	Mode string `json:"mode"`

	// PanelWidth is the info panel width, zero when hidden.
	PanelWidth int `json:"panel_width"`

	// CanvasX and CanvasY are the screen cell of the canvas' first inner cell.
	CanvasX int `json:"canvas_x"`
	CanvasY int `json:"canvas_y"`

	// CanvasWidth and CanvasRows are the inner canvas size in cells.
	CanvasWidth int `json:"canvas_width"`
	CanvasRows  int `json:"canvas_rows"`

	// MenuHeight is the menu height.
	MenuHeight int `json:"menu_height"`

	// Degradation contains active degradation flags.
	Degradation DegradationInfo `json:"degradation"`
}

// DegradationInfo contains active UI degradation flags.
type DegradationInfo struct {
	HideProductDetails bool `json:"hide_product_details"`
	HideURL            bool `json:"hide_url"`
	HideBadges         bool `json:"hide_badges"`
	ShowMinWarning     bool `json:"show_min_warning"`
}

// BreakpointInfo contains information about a responsive breakpoint.
type BreakpointInfo struct {
	// Name is the breakpoint name.
	Name string `json:"name"`

	// Threshold is the dimension threshold.
	Threshold int `json:"threshold"`

	// Active indicates if this breakpoint is currently triggered.
	Active bool `json:"active"`

	// Dimension is "width" or "height".
	Dimension string `json:"dimension"`
}

// NewSnapshot creates a new snapshot with current timestamp.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Timestamp: time.Now(),
		Version:   "1.0.0",
	}
}

// WithTerminal sets terminal info and returns the snapshot for chaining.
func (s *Snapshot) WithTerminal(width, height int) *Snapshot {
	s.Terminal = TerminalInfo{Width: width, Height: height}
	return s
}

// WithAppState sets the app state and returns the snapshot for chaining.
func (s *Snapshot) WithAppState(state AppStateInfo) *Snapshot {
	s.AppState = state
	return s
}

// WithLayout sets layout info from constraints and degradation.
func (s *Snapshot) WithLayout(c layout.Constraints, d layout.Degradation) *Snapshot {
	s.Layout = LayoutInfo{
		Mode:        c.Mode.String(),
		PanelWidth:  c.PanelWidth,
		CanvasX:     c.CanvasX,
		CanvasY:     c.CanvasY,
		CanvasWidth: c.CanvasWidth,
		CanvasRows:  c.CanvasRows,
		MenuHeight:  c.MenuHeight,
		Degradation: DegradationInfo{
			HideProductDetails: d.HideProductDetails,
			HideURL:            d.HideURL,
			HideBadges:         d.HideBadges,
			ShowMinWarning:     d.ShowMinWarning,
		},
	}

	s.Breakpoints = []BreakpointInfo{
		{Name: "hide_product_details", Threshold: layout.ProductDetailsHideHeight, Active: d.HideProductDetails, Dimension: "height"},
		{Name: "hide_url", Threshold: layout.URLHideWidth, Active: d.HideURL, Dimension: "width"},
		{Name: "hide_badges", Threshold: layout.BadgeHideWidth, Active: d.HideBadges, Dimension: "width"},
		{Name: "hide_panel", Threshold: layout.CompactWidth, Active: !c.ShowPanel, Dimension: "width"},
	}

	return s
}

// WithComponents sets the component tree root.
func (s *Snapshot) WithComponents(root *Node) *Snapshot {
	s.Components = root
	return s
}

// WithStyles attaches every registered style.
func (s *Snapshot) WithStyles() *Snapshot {
	s.Styles = GetAllStyles()
	return s
}

// ToText returns a human-readable text representation.
func (s *Snapshot) ToText() string {
	var b strings.Builder

	b.WriteString("=== UI Snapshot ===\n")
	b.WriteString(fmt.Sprintf("Time: %s\n", s.Timestamp.Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf("Terminal: %dx%d\n", s.Terminal.Width, s.Terminal.Height))
	b.WriteString(fmt.Sprintf("State: %s\n", s.AppState.State))
	b.WriteString(fmt.Sprintf("Size: %s  Drag: %s\n", s.AppState.Size, s.AppState.Drag))

	b.WriteString("\n--- Layout ---\n")
	b.WriteString(fmt.Sprintf("Mode: %s\n", s.Layout.Mode))
	b.WriteString(fmt.Sprintf("Panel: %d wide\n", s.Layout.PanelWidth))
	b.WriteString(fmt.Sprintf("Canvas: %dx%d at (%d,%d)\n",
		s.Layout.CanvasWidth, s.Layout.CanvasRows, s.Layout.CanvasX, s.Layout.CanvasY))

	b.WriteString("\n--- Active Breakpoints ---\n")
	for _, bp := range s.Breakpoints {
		status := "[ ]"
		if bp.Active {
			status = "[X]"
		}
		b.WriteString(fmt.Sprintf("  %s %s (threshold: %d %s)\n", status, bp.Name, bp.Threshold, bp.Dimension))
	}

	if s.Components != nil {
		b.WriteString("\n--- Components ---\n")
		writeNodeText(&b, s.Components, 0)
	}

	return b.String()
}

func writeNodeText(b *strings.Builder, node *Node, indent int) {
	prefix := strings.Repeat("  ", indent)

	b.WriteString(fmt.Sprintf("%s%s", prefix, node.Type))
	b.WriteString(fmt.Sprintf(" (%dx%d)", node.Bounds.Width, node.Bounds.Height))
	if node.Content != "" {
		b.WriteString(fmt.Sprintf(" %q", node.Content))
	}

	if node.Truncated != nil {
		b.WriteString(fmt.Sprintf(" TRUNCATED(%d->%d)",
			node.Truncated.OriginalLength,
			node.Truncated.DisplayLength))
	}

	b.WriteString("\n")

	for _, child := range node.Children {
		writeNodeText(b, child, indent+1)
	}
}
