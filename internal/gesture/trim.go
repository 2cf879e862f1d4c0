package gesture

import (
	"math"

	"github.com/cutroom/cutroom-agent/internal/timeline"
	"github.com/cutroom/cutroom-agent/internal/zoom"
)

// TrimEdge identifies which clip edge a trim drag grabs.
type TrimEdge string

const (
	EdgeLeft  TrimEdge = "left"
	EdgeRight TrimEdge = "right"
)

// trimCommitEpsilon: trims closer than this to the committed values do
// not produce an edit on release.
const trimCommitEpsilon = 1e-6

// TrimPreview is the transient state shown while a trim drag is active.
// RippleOffset is the shift every subsequent clip would get if the
// preview were committed (negative when trimming shortens the clip).
type TrimPreview struct {
	ClipID            string   `json:"clip_id"`
	Edge              TrimEdge `json:"edge"`
	TrimStart         float64  `json:"trim_start"`
	TrimEnd           float64  `json:"trim_end"`
	EffectiveDuration float64  `json:"effective_duration"`
	RippleOffset      float64  `json:"ripple_offset"`
}

// TrimResult is the final trim pair resolved at gesture end.
type TrimResult struct {
	ClipID    string
	TrimStart float64
	TrimEnd   float64
}

// TrimDrag converts pointer movement on one clip edge into a proposed
// trim pair. It never touches the committed clip list: during the drag
// only the preview changes, and the caller applies the edit operation
// once, on End, when the values actually differ.
type TrimDrag struct {
	zoomSys *zoom.System

	state   State
	clip    timeline.Clip
	edge    TrimEdge
	originX float64

	proposedStart float64
	proposedEnd   float64
}

// NewTrimDrag creates an idle trim drag using the given zoom system for
// pixel/time conversion.
func NewTrimDrag(zoomSys *zoom.System) *TrimDrag {
	return &TrimDrag{zoomSys: zoomSys, state: StateIdle}
}

// State returns the gesture state.
func (d *TrimDrag) State() State {
	return d.state
}

// SetZoomSystem swaps the zoom system used for delta conversion.
func (d *TrimDrag) SetZoomSystem(zoomSys *zoom.System) {
	if zoomSys != nil {
		d.zoomSys = zoomSys
	}
}

// Begin starts a drag on the given edge of clip at pointerX.
func (d *TrimDrag) Begin(clip timeline.Clip, edge TrimEdge, pointerX float64) error {
	if d.state != StateIdle {
		return ErrGestureActive
	}
	d.state = StateDragging
	d.clip = clip
	d.edge = edge
	d.originX = pointerX
	d.proposedStart = clip.TrimStart
	d.proposedEnd = clip.TrimEnd
	return nil
}

// Update recomputes the proposal for the current pointer position and
// returns the preview. Calling Update while idle returns a zero preview.
func (d *TrimDrag) Update(pointerX float64) TrimPreview {
	if d.state != StateDragging {
		return TrimPreview{}
	}

	deltaT := d.zoomSys.PixelToTime(pointerX - d.originX)
	limit := d.clip.Duration - timeline.MinEffectiveDuration
	if limit < 0 {
		limit = 0
	}

	switch d.edge {
	case EdgeLeft:
		// Dragging right trims more from the head, dragging left
		// restores it.
		proposed := d.clip.TrimStart + deltaT
		if proposed < 0 {
			proposed = 0
		}
		// Cap the actively changed value so the sum hits the limit
		// exactly.
		if proposed+d.clip.TrimEnd > limit {
			proposed = limit - d.clip.TrimEnd
			if proposed < 0 {
				proposed = 0
			}
		}
		d.proposedStart = proposed
		d.proposedEnd = d.clip.TrimEnd

	case EdgeRight:
		// Dragging left trims more from the tail, dragging right
		// restores it.
		proposed := d.clip.TrimEnd - deltaT
		if proposed < 0 {
			proposed = 0
		}
		if d.clip.TrimStart+proposed > limit {
			proposed = limit - d.clip.TrimStart
			if proposed < 0 {
				proposed = 0
			}
		}
		d.proposedStart = d.clip.TrimStart
		d.proposedEnd = proposed
	}

	return d.preview()
}

// End resolves the gesture at pointerX. The bool reports whether the
// resolved values differ from the clip's committed ones and an edit
// should be applied.
func (d *TrimDrag) End(pointerX float64) (TrimResult, bool) {
	if d.state != StateDragging {
		return TrimResult{}, false
	}

	d.Update(pointerX)
	d.state = StateCommitting

	res := TrimResult{
		ClipID:    d.clip.ID,
		TrimStart: d.proposedStart,
		TrimEnd:   d.proposedEnd,
	}
	changed := math.Abs(res.TrimStart-d.clip.TrimStart) > trimCommitEpsilon ||
		math.Abs(res.TrimEnd-d.clip.TrimEnd) > trimCommitEpsilon

	d.reset()
	return res, changed
}

// Cancel abandons the gesture without committing.
func (d *TrimDrag) Cancel() {
	d.reset()
}

func (d *TrimDrag) preview() TrimPreview {
	origEff := timeline.EffectiveDuration(d.clip)
	newEff := d.clip.Duration - d.proposedStart - d.proposedEnd
	if newEff < timeline.MinEffectiveDuration {
		newEff = timeline.MinEffectiveDuration
	}
	return TrimPreview{
		ClipID:            d.clip.ID,
		Edge:              d.edge,
		TrimStart:         d.proposedStart,
		TrimEnd:           d.proposedEnd,
		EffectiveDuration: newEff,
		RippleOffset:      newEff - origEff,
	}
}

func (d *TrimDrag) reset() {
	d.state = StateIdle
	d.clip = timeline.Clip{}
	d.edge = ""
	d.originX = 0
	d.proposedStart = 0
	d.proposedEnd = 0
}
