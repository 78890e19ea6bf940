package app

import (
	"sync"

	"pirani-measure/measure"
)

// pointerRouter delivers terminal mouse motion and release events to the
// controller holding a drag. bubbletea reports every mouse event to the
// model, so the router is the "global listener": it forwards events only
// between Subscribe and the matching release.
type pointerRouter struct {
	handler measure.PointerHandler
	// subscriptions counts Subscribe calls, for introspection.
	subscriptions int
}

// Subscribe implements measure.PointerSource.
func (r *pointerRouter) Subscribe(h measure.PointerHandler) func() {
	r.handler = h
	r.subscriptions++
	var once sync.Once
	return func() {
		once.Do(func() {
			if r.handler == h {
				r.handler = nil
			}
		})
	}
}

// Active reports whether a handler is subscribed.
func (r *pointerRouter) Active() bool {
	return r.handler != nil
}

// Move forwards a pointer position. It reports whether anyone was listening.
func (r *pointerRouter) Move(yPx float64) bool {
	if r.handler == nil {
		return false
	}
	r.handler.OnPointerMove(yPx)
	return true
}

// Release ends the current drag, if any.
func (r *pointerRouter) Release() bool {
	h := r.handler
	if h == nil {
		return false
	}
	h.EndDrag()
	return true
}
