package gesture

import (
	"github.com/cutroom/cutroom-agent/internal/timeline"
	"github.com/cutroom/cutroom-agent/internal/zoom"
)

// DefaultClipGap is the visual gap in pixels between clips in the spaced
// rearrange layout. The gap exists only during a rearrange drag, to make
// room for the insertion indicator; the real timeline has no gaps.
const DefaultClipGap = 12.0

// RearrangePreview is the transient state shown while a rearrange drag
// is active: where the insertion indicator sits in the spaced layout.
type RearrangePreview struct {
	ClipID      string  `json:"clip_id"`
	InsertIndex int     `json:"insert_index"`
	IndicatorX  float64 `json:"indicator_x"`
}

// RearrangeResult is the move resolved at gesture end. ToIndex is the
// final position for the timeline Move operation, already adjusted for
// the dragged clip's own removal.
type RearrangeResult struct {
	ClipID    string
	FromIndex int
	ToIndex   int
}

// RearrangeDrag resolves a pointer x-coordinate against a spaced
// left-to-right layout of all clips to an insertion index. The pointer
// is snapped to the nearest gap by splitting each clip at its midpoint,
// so an insertion point is never strictly inside a clip.
type RearrangeDrag struct {
	zoomSys *zoom.System
	gap     float64

	state       State
	cells       []timeline.Clip
	clipID      string
	fromIndex   int
	insertIndex int
}

// NewRearrangeDrag creates an idle rearrange drag with the default gap.
func NewRearrangeDrag(zoomSys *zoom.System) *RearrangeDrag {
	return &RearrangeDrag{zoomSys: zoomSys, gap: DefaultClipGap, state: StateIdle}
}

// State returns the gesture state.
func (d *RearrangeDrag) State() State {
	return d.state
}

// SetZoomSystem swaps the zoom system used for the spaced layout.
func (d *RearrangeDrag) SetZoomSystem(zoomSys *zoom.System) {
	if zoomSys != nil {
		d.zoomSys = zoomSys
	}
}

// Begin starts dragging the clip with the given id over the cells
// snapshot. The snapshot is held for the whole gesture; edits committed
// concurrently do not corrupt an in-flight drag.
func (d *RearrangeDrag) Begin(cells []timeline.Clip, clipID string, pointerX float64) error {
	if d.state != StateIdle {
		return ErrGestureActive
	}

	from := -1
	for i, c := range cells {
		if c.ID == clipID {
			from = i
			break
		}
	}
	if from == -1 {
		return ErrClipNotFound
	}

	d.state = StateDragging
	d.cells = make([]timeline.Clip, len(cells))
	copy(d.cells, cells)
	d.clipID = clipID
	d.fromIndex = from
	d.insertIndex = from
	_ = pointerX
	return nil
}

// Update resolves the insertion index for the current pointer position
// and returns the preview. Calling Update while idle returns a zero
// preview.
func (d *RearrangeDrag) Update(pointerX float64) RearrangePreview {
	if d.state != StateDragging {
		return RearrangePreview{}
	}

	d.insertIndex = d.insertIndexFor(pointerX)
	return RearrangePreview{
		ClipID:      d.clipID,
		InsertIndex: d.insertIndex,
		IndicatorX:  d.indicatorX(d.insertIndex),
	}
}

// End resolves the gesture at pointerX. The bool reports whether the
// final index differs from the clip's current position and a Move
// operation should be applied.
func (d *RearrangeDrag) End(pointerX float64) (RearrangeResult, bool) {
	if d.state != StateDragging {
		return RearrangeResult{}, false
	}

	d.Update(pointerX)
	d.state = StateCommitting

	// The insertion index is in un-removed list coordinates; removing
	// the dragged clip first shifts everything after it left by one.
	to := d.insertIndex
	if to > d.fromIndex {
		to--
	}

	res := RearrangeResult{
		ClipID:    d.clipID,
		FromIndex: d.fromIndex,
		ToIndex:   to,
	}
	changed := to != d.fromIndex

	d.reset()
	return res, changed
}

// Cancel abandons the gesture without committing.
func (d *RearrangeDrag) Cancel() {
	d.reset()
}

// insertIndexFor locates which gap the pointer is nearest to: each clip
// is split at its midpoint, the left half resolving to the gap before
// it, the right half to the gap after.
func (d *RearrangeDrag) insertIndexFor(pointerX float64) int {
	x := 0.0
	for i, c := range d.cells {
		width := d.zoomSys.TimeToPixel(timeline.EffectiveDuration(c))
		if pointerX < x+width/2 {
			return i
		}
		x += width + d.gap
	}
	return len(d.cells)
}

// indicatorX returns the pixel position of the insertion indicator for
// an insertion index in the spaced layout.
func (d *RearrangeDrag) indicatorX(index int) float64 {
	x := 0.0
	for i, c := range d.cells {
		if i == index {
			break
		}
		x += d.zoomSys.TimeToPixel(timeline.EffectiveDuration(c)) + d.gap
	}
	if index > 0 {
		// Center the indicator in the gap before the target clip.
		x -= d.gap / 2
	}
	return x
}

func (d *RearrangeDrag) reset() {
	d.state = StateIdle
	d.cells = nil
	d.clipID = ""
	d.fromIndex = 0
	d.insertIndex = 0
}
