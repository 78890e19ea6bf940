// Package measure implements the draggable height line / baseline overlay.
// It tracks the two line positions in container pixels, runs the drag state
// machine and derives millimeter readouts from a calibration.Model.
package measure

import (
	"pirani-measure/calibration"
	"pirani-measure/log"
)

// Line identifies one of the two draggable lines.
type Line int

const (
	LineHeight Line = iota
	LineBaseline
)

func (l Line) String() string {
	if l == LineBaseline {
		return "baseline"
	}
	return "height"
}

// DragState is the drag state machine. Only one line can be held at a time.
type DragState int

const (
	DragIdle DragState = iota
	DragHeight
	DragBaseline
)

func (s DragState) String() string {
	switch s {
	case DragHeight:
		return "dragging-height"
	case DragBaseline:
		return "dragging-baseline"
	default:
		return "idle"
	}
}

func dragStateFor(line Line) DragState {
	if line == LineBaseline {
		return DragBaseline
	}
	return DragHeight
}

// PointerHandler receives pointer events while a drag is active.
type PointerHandler interface {
	OnPointerMove(pointerYPx float64)
	EndDrag()
}

// PointerSource hands out a pointer subscription. The returned release func
// detaches the handler; it is called exactly once per subscription.
type PointerSource interface {
	Subscribe(h PointerHandler) (release func())
}

// Readout is the derived display state of the overlay.
type Readout struct {
	HeightLineY       float64
	BaselineY         float64
	HeightPx          float64
	HeightMm          float64
	BaselineMm        float64
	ContainerHeightPx float64
	Size              calibration.SizeKey
	Drag              DragState
}

// Option configures a Controller.
type Option func(*Controller)

// WithPointerSource sets where global pointer listeners are attached during a drag.
func WithPointerSource(src PointerSource) Option {
	return func(c *Controller) { c.pointers = src }
}

// WithHeightChange registers the height-changed callback.
func WithHeightChange(fn func(heightPx float64)) Option {
	return func(c *Controller) { c.onHeightChange = fn }
}

// WithBaselineChange registers the baseline-changed callback.
func WithBaselineChange(fn func(baselineYPx float64)) Option {
	return func(c *Controller) { c.onBaselineChange = fn }
}

// Controller owns the overlay state for one size and one mounted container.
// It is not safe for concurrent use; all calls come from the UI event loop.
type Controller struct {
	model       calibration.Model
	heightLineY float64
	baselineY   float64
	drag        DragState

	pointers PointerSource
	// release is non-nil exactly while drag != DragIdle and pointers is set.
	release func()

	onHeightChange   func(float64)
	onBaselineChange func(float64)
}

// New seeds a controller from the size's record scaled to containerHeightPx.
func New(size calibration.SizeKey, containerHeightPx float64, opts ...Option) *Controller {
	c := &Controller{model: calibration.NewModel(size, containerHeightPx)}
	for _, opt := range opts {
		opt(c)
	}
	c.heightLineY, c.baselineY = c.model.DefaultLines()
	return c
}

// BeginDrag grabs a line. If another line is already held, the later grab
// wins and the existing pointer subscription is kept.
func (c *Controller) BeginDrag(line Line) {
	next := dragStateFor(line)
	if c.drag == next {
		return
	}
	wasIdle := c.drag == DragIdle
	c.drag = next
	log.InputTrace("begin drag %s", line)
	if wasIdle && c.pointers != nil {
		c.release = c.pointers.Subscribe(c)
	}
}

// OnPointerMove moves the held line to pointerYPx, clamped to the container.
// The baseline is also floored at the height line. Ignored while idle.
func (c *Controller) OnPointerMove(pointerYPx float64) {
	containerHeight := c.model.ContainerHeightPx()
	switch c.drag {
	case DragHeight:
		c.heightLineY = clamp(pointerYPx, 0, containerHeight)
		if c.onHeightChange != nil {
			c.onHeightChange(c.baselineY - c.heightLineY)
		}
	case DragBaseline:
		c.baselineY = clamp(pointerYPx, c.heightLineY, containerHeight)
		if c.onHeightChange != nil {
			c.onHeightChange(c.baselineY - c.heightLineY)
		}
		if c.onBaselineChange != nil {
			c.onBaselineChange(c.baselineY)
		}
	}
}

// EndDrag returns to idle and releases the pointer subscription. Safe to
// call when no drag is active.
func (c *Controller) EndDrag() {
	if c.drag == DragIdle {
		return
	}
	log.InputTrace("end drag %s", c.drag)
	c.drag = DragIdle
	c.releasePointers()
}

// OnContainerResize records a new container height. Line positions are
// kept as-is; the conversions are recomputed against the new height.
func (c *Controller) OnContainerResize(newHeightPx float64) {
	c.model = c.model.WithContainerHeight(newHeightPx)
}

// Nudge moves line by deltaPx as a complete drag step.
func (c *Controller) Nudge(line Line, deltaPx float64) {
	from := c.heightLineY
	if line == LineBaseline {
		from = c.baselineY
	}
	prev := c.drag
	c.BeginDrag(line)
	c.OnPointerMove(from + deltaPx)
	if prev == DragIdle {
		c.EndDrag()
	} else {
		c.drag = prev
	}
}

// Reset puts both lines back at the record defaults for the current container.
func (c *Controller) Reset() {
	c.EndDrag()
	c.heightLineY, c.baselineY = c.model.DefaultLines()
}

// Close tears the controller down, releasing any pointer subscription held
// by an unfinished drag.
func (c *Controller) Close() {
	c.drag = DragIdle
	c.releasePointers()
}

func (c *Controller) releasePointers() {
	if c.release == nil {
		return
	}
	release := c.release
	c.release = nil
	release()
}

// Drag returns the current drag state.
func (c *Controller) Drag() DragState { return c.drag }

// Dragging reports whether a line is held.
func (c *Controller) Dragging() bool { return c.drag != DragIdle }

// Model returns the conversion currently in effect.
func (c *Controller) Model() calibration.Model { return c.model }

// Size returns the size the controller was seeded for.
func (c *Controller) Size() calibration.SizeKey { return c.model.Size() }

// Lines returns the height line and baseline positions in container pixels.
func (c *Controller) Lines() (heightLineY, baselineY float64) {
	return c.heightLineY, c.baselineY
}

// Readout derives the displayed pixel and millimeter values.
func (c *Controller) Readout() Readout {
	height := c.baselineY - c.heightLineY
	return Readout{
		HeightLineY:       c.heightLineY,
		BaselineY:         c.baselineY,
		HeightPx:          height,
		HeightMm:          c.model.PixelsToMm(height),
		BaselineMm:        c.model.PositionToMm(c.baselineY),
		ContainerHeightPx: c.model.ContainerHeightPx(),
		Size:              c.model.Size(),
		Drag:              c.drag,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
