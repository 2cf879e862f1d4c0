package gesture

import (
	"sync"

	"github.com/cutroom/cutroom-agent/internal/timeline"
	"github.com/cutroom/cutroom-agent/internal/zoom"
)

// Controller owns the trim and rearrange gestures and enforces that only
// one of them is active at a time. Beginning a gesture while the other
// is mid-drag or mid-commit is rejected, never interleaved.
type Controller struct {
	mu        sync.Mutex
	trim      *TrimDrag
	rearrange *RearrangeDrag
}

// NewController creates a Controller with both gestures idle.
func NewController(zoomSys *zoom.System) *Controller {
	return &Controller{
		trim:      NewTrimDrag(zoomSys),
		rearrange: NewRearrangeDrag(zoomSys),
	}
}

// SetZoomSystem swaps the zoom system on both gestures.
func (c *Controller) SetZoomSystem(zoomSys *zoom.System) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trim.SetZoomSystem(zoomSys)
	c.rearrange.SetZoomSystem(zoomSys)
}

// BeginTrim starts a trim drag if no gesture is active.
func (c *Controller) BeginTrim(clip timeline.Clip, edge TrimEdge, pointerX float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rearrange.State() != StateIdle {
		return ErrGestureActive
	}
	return c.trim.Begin(clip, edge, pointerX)
}

// UpdateTrim advances the active trim drag.
func (c *Controller) UpdateTrim(pointerX float64) (TrimPreview, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.trim.State() != StateDragging {
		return TrimPreview{}, ErrNoGesture
	}
	return c.trim.Update(pointerX), nil
}

// EndTrim resolves the active trim drag.
func (c *Controller) EndTrim(pointerX float64) (TrimResult, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.trim.State() != StateDragging {
		return TrimResult{}, false, ErrNoGesture
	}
	res, changed := c.trim.End(pointerX)
	return res, changed, nil
}

// BeginRearrange starts a rearrange drag if no gesture is active.
func (c *Controller) BeginRearrange(cells []timeline.Clip, clipID string, pointerX float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.trim.State() != StateIdle {
		return ErrGestureActive
	}
	return c.rearrange.Begin(cells, clipID, pointerX)
}

// UpdateRearrange advances the active rearrange drag.
func (c *Controller) UpdateRearrange(pointerX float64) (RearrangePreview, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rearrange.State() != StateDragging {
		return RearrangePreview{}, ErrNoGesture
	}
	return c.rearrange.Update(pointerX), nil
}

// EndRearrange resolves the active rearrange drag.
func (c *Controller) EndRearrange(pointerX float64) (RearrangeResult, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rearrange.State() != StateDragging {
		return RearrangeResult{}, false, ErrNoGesture
	}
	res, changed := c.rearrange.End(pointerX)
	return res, changed, nil
}

// Cancel abandons whichever gesture is active.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trim.Cancel()
	c.rearrange.Cancel()
}

// Active reports whether any gesture currently owns the pointer.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.trim.State() != StateIdle || c.rearrange.State() != StateIdle
}
