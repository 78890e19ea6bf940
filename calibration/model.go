package calibration

import "fmt"

// Model converts between rendered container pixels and millimeters for one
// size. A zero container height yields 0 for every millimeter output.
type Model struct {
	size            SizeKey
	record          Record
	containerHeight float64
}

// NewModel builds the conversion for key rendered at containerHeightPx.
// Unknown keys fall back to the first size in the table.
func NewModel(key SizeKey, containerHeightPx float64) Model {
	rec, ok := table[key]
	if !ok {
		key = sizeOrder[0]
		rec = table[key]
	}
	return Model{size: key, record: rec, containerHeight: containerHeightPx}
}

// WithContainerHeight returns a copy measured against a new container height.
func (m Model) WithContainerHeight(containerHeightPx float64) Model {
	m.containerHeight = containerHeightPx
	return m
}

func (m Model) Size() SizeKey              { return m.size }
func (m Model) Record() Record             { return m.record }
func (m Model) ContainerHeightPx() float64 { return m.containerHeight }

// measured reports whether the container has a usable height.
func (m Model) measured() bool {
	return m.containerHeight > 0
}

// Scale is the ratio of the rendered container to the reference image.
func (m Model) Scale() float64 {
	if !m.measured() {
		return 0
	}
	return m.containerHeight / ReferenceImageHeightPx
}

// PixelsToMm converts a pixel distance in the rendered container to mm.
func (m Model) PixelsToMm(deltaPx float64) float64 {
	if !m.measured() {
		return 0
	}
	spanPx := m.record.ReferenceHeightPx / ReferenceImageHeightPx * m.containerHeight
	return deltaPx * m.record.PhysicalHeightMm / spanPx
}

// MidpointPx is the on-screen position of the calibration center: the top
// line rescaled, plus half of the physical span in rescaled pixels.
func (m Model) MidpointPx() float64 {
	scale := m.Scale()
	return m.record.TopLineReferencePx*scale + m.record.ReferenceHeightPx*scale/2
}

// PositionToMm returns the signed mm offset of positionPx from the
// calibration center.
func (m Model) PositionToMm(positionPx float64) float64 {
	if !m.measured() {
		return 0
	}
	return m.PixelsToMm(positionPx - m.MidpointPx())
}

// DefaultLines returns the initial height line and baseline positions for
// the current container.
func (m Model) DefaultLines() (heightLineY, baselineY float64) {
	return m.record.TopLineReferencePx * m.Scale(), m.MidpointPx()
}

// FormatMm renders a millimeter value with one decimal place.
func FormatMm(mm float64) string {
	return fmt.Sprintf("%.1f", mm)
}
