// Package timeline implements the virtual timeline: the clip data model,
// start-time geometry, edit operations, and the Manager that reconciles a
// single global playhead clock against a sequence of independently trimmed
// clips.
package timeline

import (
	"github.com/google/uuid"
)

// MinEffectiveDuration is the floor for a clip's post-trim length.
// Trimming can never shrink a clip below this; it keeps the strip geometry
// stable in the UI.
const MinEffectiveDuration = 0.1

// Clip is one placement of a media item on the timeline.
//
// Position is a dense 0..N-1 ordering and is authoritative; StartTime is
// always derived from the effective durations of the clips before it.
// A raw write to either does not maintain the invariant - every structural
// edit must go through the operations in ops.go, which renumber and
// recompute.
type Clip struct {
	ID        string  `json:"id"`
	MediaID   string  `json:"media_id"`
	Position  int     `json:"position"`
	StartTime float64 `json:"start_time"`
	Duration  float64 `json:"duration"`
	TrimStart float64 `json:"trim_start"`
	TrimEnd   float64 `json:"trim_end"`
}

// ClipPosition is the result of mapping a global time onto one clip.
// It is computed on demand and never stored.
type ClipPosition struct {
	ClipIndex     int     `json:"clip_index"`
	Clip          Clip    `json:"clip"`
	ClipTime      float64 `json:"clip_time"`
	ClipStartTime float64 `json:"clip_start_time"`
	ClipEndTime   float64 `json:"clip_end_time"`
}

// PlayerInstruction tells the player sink what to show right now. The
// consumer loads the clip's media and seeks to SeekTime plus the clip's
// TrimStart. A nil Clip means nothing to show.
type PlayerInstruction struct {
	Clip     *Clip   `json:"clip"`
	SeekTime float64 `json:"seek_time"`
}

// Snapshot is the payload of the timeline-state channel: the full state a
// subscriber needs to re-render.
type Snapshot struct {
	Cells         []Clip  `json:"cells"`
	TotalDuration float64 `json:"total_duration"`
	CurrentTime   float64 `json:"current_time"`
	Playing       bool    `json:"playing"`
}

// NewID returns a new clip identifier.
func NewID() string {
	return uuid.NewString()
}

func cloneCells(cells []Clip) []Clip {
	out := make([]Clip, len(cells))
	copy(out, cells)
	return out
}
