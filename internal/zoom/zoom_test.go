package zoom

import (
	"math"
	"testing"
)

func TestNewSystem_Levels(t *testing.T) {
	tests := []struct {
		level     Level
		wantLevel Level
		wantScale float64
	}{
		{LevelOverview, LevelOverview, 20.0},
		{LevelNormal, LevelNormal, 50.0},
		{LevelDetail, LevelDetail, 120.0},
		{Level("bogus"), LevelNormal, 50.0},
		{Level(""), LevelNormal, 50.0},
	}

	for _, tt := range tests {
		s := NewSystem(tt.level)
		if s.Level() != tt.wantLevel {
			t.Errorf("NewSystem(%q).Level() = %q, want %q", tt.level, s.Level(), tt.wantLevel)
		}
		if s.Scale() != tt.wantScale {
			t.Errorf("NewSystem(%q).Scale() = %v, want %v", tt.level, s.Scale(), tt.wantScale)
		}
	}
}

func TestTimePixelRoundTrip(t *testing.T) {
	s := NewSystem(LevelDetail)

	for _, seconds := range []float64{0, 0.5, 1, 7.25, 3600} {
		px := s.TimeToPixel(seconds)
		back := s.PixelToTime(px)
		if math.Abs(back-seconds) > 1e-9 {
			t.Errorf("round trip of %vs = %vs", seconds, back)
		}
	}
}

func TestTimelineWidth(t *testing.T) {
	s := NewSystem(LevelNormal)
	if got := s.TimelineWidth(8); got != 400 {
		t.Errorf("TimelineWidth(8) = %v, want 400", got)
	}
	if got := s.TimelineWidth(0); got != 0 {
		t.Errorf("TimelineWidth(0) = %v, want 0", got)
	}
}

func TestKeyframeCount(t *testing.T) {
	s := NewSystem(LevelNormal)

	if got := s.KeyframeCount(0); got != 1 {
		t.Errorf("KeyframeCount(0) = %d, want 1", got)
	}
	if got := s.KeyframeCount(-1); got != 1 {
		t.Errorf("KeyframeCount(-1) = %d, want 1", got)
	}

	// Monotonic in clip duration.
	prev := 0
	for _, d := range []float64{0.5, 1, 2, 5, 10, 60} {
		n := s.KeyframeCount(d)
		if n < prev {
			t.Fatalf("KeyframeCount not monotonic: %d after %d for duration %v", n, prev, d)
		}
		prev = n
	}

	// More zoomed in means at least as many keyframes.
	detail := NewSystem(LevelDetail)
	if detail.KeyframeCount(10) < s.KeyframeCount(10) {
		t.Error("detail level produced fewer keyframes than normal")
	}
}
