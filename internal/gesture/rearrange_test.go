package gesture

import (
	"testing"

	"github.com/cutroom/cutroom-agent/internal/timeline"
)

// Three 2s clips at normal zoom (50 px/s): each 100px wide, gap 12px.
// Spaced layout: a [0,100), b [112,212), c [224,324).
func spacedCells() []timeline.Clip {
	return timeline.RecomputeStartTimes([]timeline.Clip{
		{ID: "a", Position: 0, Duration: 2},
		{ID: "b", Position: 1, Duration: 2},
		{ID: "c", Position: 2, Duration: 2},
	})
}

func TestRearrangeDrag_InsertIndexFromPointer(t *testing.T) {
	tests := []struct {
		name     string
		pointerX float64
		want     int
	}{
		{"far left", -50, 0},
		{"left half of a", 30, 0},
		{"right half of a", 80, 1},
		{"gap between a and b", 106, 1},
		{"left half of b", 140, 1},
		{"right half of b", 200, 2},
		{"left half of c", 250, 2},
		{"right half of c", 300, 3},
		{"past the end", 1000, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewRearrangeDrag(testZoom())
			if err := d.Begin(spacedCells(), "a", 0); err != nil {
				t.Fatalf("Begin() error = %v", err)
			}
			preview := d.Update(tt.pointerX)
			if preview.InsertIndex != tt.want {
				t.Errorf("InsertIndex at x=%v is %d, want %d", tt.pointerX, preview.InsertIndex, tt.want)
			}
		})
	}
}

func TestRearrangeDrag_EndAdjustsForOwnRemoval(t *testing.T) {
	d := NewRearrangeDrag(testZoom())
	if err := d.Begin(spacedCells(), "a", 0); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}

	// Dropping "a" past the end: insertion index 3 in un-removed
	// coordinates becomes final position 2.
	res, changed := d.End(1000)
	if !changed {
		t.Fatal("expected a move")
	}
	if res.FromIndex != 0 || res.ToIndex != 2 {
		t.Errorf("result = %+v, want from 0 to 2", res)
	}
}

func TestRearrangeDrag_DropOnOwnSlotIsNoOp(t *testing.T) {
	tests := []struct {
		name     string
		pointerX float64
	}{
		{"gap before itself", 130}, // insertion index 1 == from
		{"gap after itself", 200},  // insertion index 2, adjusts to 1 == from
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewRearrangeDrag(testZoom())
			if err := d.Begin(spacedCells(), "b", 150); err != nil {
				t.Fatalf("Begin() error = %v", err)
			}
			if _, changed := d.End(tt.pointerX); changed {
				t.Error("dropping a clip back on its own slot reported a move")
			}
		})
	}
}

func TestRearrangeDrag_UnknownClip(t *testing.T) {
	d := NewRearrangeDrag(testZoom())
	if err := d.Begin(spacedCells(), "zz", 0); err != ErrClipNotFound {
		t.Errorf("Begin() error = %v, want ErrClipNotFound", err)
	}
	if d.State() != StateIdle {
		t.Errorf("state = %v, want idle after failed Begin", d.State())
	}
}

func TestRearrangeDrag_SnapshotIsolation(t *testing.T) {
	cells := spacedCells()
	d := NewRearrangeDrag(testZoom())
	if err := d.Begin(cells, "a", 0); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}

	// Mutating the caller's slice mid-gesture must not affect the drag.
	cells[1].ID = "mutated"

	res, changed := d.End(1000)
	if !changed || res.ToIndex != 2 {
		t.Errorf("result = %+v changed=%v, want unchanged resolution to index 2", res, changed)
	}
}

func TestController_SingleActiveGesture(t *testing.T) {
	c := NewController(testZoom())
	cells := spacedCells()

	if err := c.BeginTrim(cells[0], EdgeLeft, 0); err != nil {
		t.Fatalf("BeginTrim() error = %v", err)
	}
	if err := c.BeginRearrange(cells, "b", 0); err != ErrGestureActive {
		t.Errorf("BeginRearrange during trim = %v, want ErrGestureActive", err)
	}

	if _, _, err := c.EndTrim(10); err != nil {
		t.Fatalf("EndTrim() error = %v", err)
	}

	// Once the trim resolved, a rearrange may begin.
	if err := c.BeginRearrange(cells, "b", 0); err != nil {
		t.Fatalf("BeginRearrange after trim ended = %v", err)
	}
	if err := c.BeginTrim(cells[0], EdgeLeft, 0); err != ErrGestureActive {
		t.Errorf("BeginTrim during rearrange = %v, want ErrGestureActive", err)
	}
	c.Cancel()

	if c.Active() {
		t.Error("controller still active after Cancel")
	}
}

func TestController_UpdateWithoutGesture(t *testing.T) {
	c := NewController(testZoom())

	if _, err := c.UpdateTrim(10); err != ErrNoGesture {
		t.Errorf("UpdateTrim = %v, want ErrNoGesture", err)
	}
	if _, _, err := c.EndRearrange(10); err != ErrNoGesture {
		t.Errorf("EndRearrange = %v, want ErrNoGesture", err)
	}
}
