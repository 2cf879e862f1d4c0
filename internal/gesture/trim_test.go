package gesture

import (
	"math"
	"testing"

	"github.com/cutroom/cutroom-agent/internal/timeline"
	"github.com/cutroom/cutroom-agent/internal/zoom"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

// Normal zoom: 50 px/s, so 50 pixels of drag is one second of trim.
func testZoom() *zoom.System {
	return zoom.NewSystem(zoom.LevelNormal)
}

func testClip() timeline.Clip {
	return timeline.Clip{ID: "a", MediaID: "m", Duration: 10, TrimStart: 1, TrimEnd: 2}
}

func TestTrimDrag_LeftEdge(t *testing.T) {
	d := NewTrimDrag(testZoom())
	if err := d.Begin(testClip(), EdgeLeft, 100); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}

	// Dragging right by 50px trims one more second from the head.
	preview := d.Update(150)
	if !almostEqual(preview.TrimStart, 2) {
		t.Errorf("TrimStart = %v, want 2", preview.TrimStart)
	}
	if !almostEqual(preview.TrimEnd, 2) {
		t.Errorf("TrimEnd = %v, want unchanged 2", preview.TrimEnd)
	}
	if !almostEqual(preview.EffectiveDuration, 6) {
		t.Errorf("EffectiveDuration = %v, want 6", preview.EffectiveDuration)
	}
	if !almostEqual(preview.RippleOffset, -1) {
		t.Errorf("RippleOffset = %v, want -1", preview.RippleOffset)
	}

	// Dragging left past the origin restores head content, floored at 0.
	preview = d.Update(-200)
	if !almostEqual(preview.TrimStart, 0) {
		t.Errorf("TrimStart = %v, want floor 0", preview.TrimStart)
	}
}

func TestTrimDrag_RightEdge(t *testing.T) {
	d := NewTrimDrag(testZoom())
	if err := d.Begin(testClip(), EdgeRight, 400); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}

	// Dragging left by 100px trims two more seconds from the tail.
	preview := d.Update(300)
	if !almostEqual(preview.TrimEnd, 4) {
		t.Errorf("TrimEnd = %v, want 4", preview.TrimEnd)
	}
	if !almostEqual(preview.TrimStart, 1) {
		t.Errorf("TrimStart = %v, want unchanged 1", preview.TrimStart)
	}

	// Dragging right restores tail content, floored at 0.
	preview = d.Update(600)
	if !almostEqual(preview.TrimEnd, 0) {
		t.Errorf("TrimEnd = %v, want floor 0", preview.TrimEnd)
	}
}

func TestTrimDrag_CapsAtMinEffectiveDuration(t *testing.T) {
	d := NewTrimDrag(testZoom())
	clip := testClip() // duration 10, trimEnd 2
	if err := d.Begin(clip, EdgeLeft, 0); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}

	// Drag absurdly far right: trimStart caps so the sum hits
	// duration - MinEffectiveDuration exactly.
	preview := d.Update(10000)
	wantStart := clip.Duration - timeline.MinEffectiveDuration - clip.TrimEnd
	if !almostEqual(preview.TrimStart, wantStart) {
		t.Errorf("TrimStart = %v, want capped %v", preview.TrimStart, wantStart)
	}
	if !almostEqual(preview.TrimStart+preview.TrimEnd, clip.Duration-timeline.MinEffectiveDuration) {
		t.Errorf("sum = %v, want exactly the limit", preview.TrimStart+preview.TrimEnd)
	}
	if !almostEqual(preview.EffectiveDuration, timeline.MinEffectiveDuration) {
		t.Errorf("EffectiveDuration = %v, want the floor", preview.EffectiveDuration)
	}
}

func TestTrimDrag_EndCommitsOnlyOnChange(t *testing.T) {
	d := NewTrimDrag(testZoom())
	if err := d.Begin(testClip(), EdgeLeft, 100); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}

	// Release without moving: no edit.
	if _, changed := d.End(100); changed {
		t.Error("unmoved drag reported a change")
	}
	if d.State() != StateIdle {
		t.Errorf("state after End = %v, want idle", d.State())
	}

	// A real drag commits the final values.
	if err := d.Begin(testClip(), EdgeLeft, 100); err != nil {
		t.Fatalf("re-Begin() error = %v", err)
	}
	d.Update(125)
	res, changed := d.End(150)
	if !changed {
		t.Fatal("moved drag reported no change")
	}
	if res.ClipID != "a" || !almostEqual(res.TrimStart, 2) || !almostEqual(res.TrimEnd, 2) {
		t.Errorf("result = %+v, want trimStart 2 trimEnd 2 on clip a", res)
	}
}

func TestTrimDrag_RejectsConcurrentBegin(t *testing.T) {
	d := NewTrimDrag(testZoom())
	if err := d.Begin(testClip(), EdgeLeft, 0); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if err := d.Begin(testClip(), EdgeRight, 0); err != ErrGestureActive {
		t.Errorf("second Begin() error = %v, want ErrGestureActive", err)
	}
}

func TestTrimDrag_Cancel(t *testing.T) {
	d := NewTrimDrag(testZoom())
	if err := d.Begin(testClip(), EdgeLeft, 0); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	d.Update(500)
	d.Cancel()

	if d.State() != StateIdle {
		t.Errorf("state after Cancel = %v, want idle", d.State())
	}
	if _, changed := d.End(500); changed {
		t.Error("End after Cancel reported a change")
	}
}

func TestTrimDrag_UpdateWhileIdle(t *testing.T) {
	d := NewTrimDrag(testZoom())
	if p := d.Update(100); p != (TrimPreview{}) {
		t.Errorf("Update while idle = %+v, want zero preview", p)
	}
}
