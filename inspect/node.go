package inspect

import (
	"pirani-measure/calibration"
	"pirani-measure/measure"
)

// Node is one component in the inspection tree.
type Node struct {
	// Type is the component name, e.g. "Canvas" or "HeightLine".
	Type string `json:"type"`

	Bounds  Bounds `json:"bounds"`
	Visible bool   `json:"visible"`

	// State holds component values keyed by snake_case names.
	State map[string]interface{} `json:"state,omitempty"`

	Styles   *StyleInfo `json:"styles,omitempty"`
	Children []*Node    `json:"children,omitempty"`

	// Content is the visible text, such as a line badge.
	Content string `json:"content,omitempty"`

	// Truncated is set when the component had to drop rows or text to fit.
	Truncated *TruncationInfo `json:"truncated,omitempty"`
}

// Bounds is a component's position and size in terminal cells.
type Bounds struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// StyleInfo is the subset of a lipgloss style a test can check.
type StyleInfo struct {
	Foreground string `json:"foreground,omitempty"`
	Background string `json:"background,omitempty"`

	Bold      bool `json:"bold,omitempty"`
	Italic    bool `json:"italic,omitempty"`
	Underline bool `json:"underline,omitempty"`

	Border      string `json:"border,omitempty"`
	BorderColor string `json:"border_color,omitempty"`
	Padding     []int  `json:"padding,omitempty"` // [top, right, bottom, left]

	// AppliedStyles names the registered styles in use.
	AppliedStyles []string `json:"applied_styles,omitempty"`
}

// TruncationInfo records how much of a component was cut off.
type TruncationInfo struct {
	OriginalLength int  `json:"original_length"`
	DisplayLength  int  `json:"display_length"`
	Ellipsis       bool `json:"ellipsis"`
}

// NewNode creates a visible node of the given type.
func NewNode(nodeType string) *Node {
	return &Node{
		Type:    nodeType,
		Visible: true,
		State:   make(map[string]interface{}),
	}
}

// LineNode describes a draggable line: its container pixel position, the
// canvas row it is drawn on and its badge text.
func LineNode(line measure.Line, yPx float64, row int, badge string) *Node {
	nodeType := "HeightLine"
	if line == measure.LineBaseline {
		nodeType = "Baseline"
	}
	return NewNode(nodeType).
		WithState("y_px", yPx).
		WithState("row", row).
		WithContent(badge)
}

// WithReadout records the measurement values on the node.
func (n *Node) WithReadout(r measure.Readout) *Node {
	return n.
		WithState("size", string(r.Size)).
		WithState("drag", r.Drag.String()).
		WithState("container_height_px", r.ContainerHeightPx).
		WithState("height_line_y", r.HeightLineY).
		WithState("baseline_y", r.BaselineY).
		WithState("height_px", r.HeightPx).
		WithState("height_mm", calibration.FormatMm(r.HeightMm)).
		WithState("baseline_mm", calibration.FormatMm(r.BaselineMm))
}

func (n *Node) WithBounds(x, y, width, height int) *Node {
	n.Bounds = Bounds{X: x, Y: y, Width: width, Height: height}
	return n
}

func (n *Node) WithState(key string, value interface{}) *Node {
	if n.State == nil {
		n.State = make(map[string]interface{})
	}
	n.State[key] = value
	return n
}

func (n *Node) WithStyles(styles *StyleInfo) *Node {
	n.Styles = styles
	return n
}

// AddChild appends child and returns the parent.
func (n *Node) AddChild(child *Node) *Node {
	n.Children = append(n.Children, child)
	return n
}

func (n *Node) WithContent(content string) *Node {
	n.Content = content
	return n
}

// WithTruncation marks the node as showing displayed of original units.
// Nothing is recorded when everything fit.
func (n *Node) WithTruncation(original, displayed int, hasEllipsis bool) *Node {
	if displayed >= original {
		return n
	}
	n.Truncated = &TruncationInfo{
		OriginalLength: original,
		DisplayLength:  displayed,
		Ellipsis:       hasEllipsis,
	}
	return n
}

// FindNode returns the first node of nodeType in the tree rooted at n.
func (n *Node) FindNode(nodeType string) *Node {
	if n == nil {
		return nil
	}
	if n.Type == nodeType {
		return n
	}
	for _, c := range n.Children {
		if found := c.FindNode(nodeType); found != nil {
			return found
		}
	}
	return nil
}
