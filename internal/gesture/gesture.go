// Package gesture implements the timeline's pointer interaction state
// machines: trimming a clip edge and rearranging clips by drag. Each
// gesture moves through Idle -> Dragging -> Committing -> Idle, produces
// transient preview state while dragging, and resolves to an edit only
// when the pointer is released. A Controller owns both gestures and
// guarantees a single active gesture at a time.
package gesture

import "errors"

// State is the lifecycle of a drag gesture.
type State int

const (
	StateIdle State = iota
	StateDragging
	StateCommitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StateCommitting:
		return "committing"
	default:
		return "unknown"
	}
}

var (
	// ErrGestureActive is returned when a gesture begins while another
	// one owns the pointer.
	ErrGestureActive = errors.New("another gesture is in progress")

	// ErrNoGesture is returned when Update or End is called with no
	// active gesture.
	ErrNoGesture = errors.New("no active gesture")

	// ErrClipNotFound is returned when the dragged clip id is not in the
	// cell list handed to Begin.
	ErrClipNotFound = errors.New("clip not found")
)
