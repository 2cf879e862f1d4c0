package timeline

import (
	"math"
	"strings"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestEffectiveDuration(t *testing.T) {
	tests := []struct {
		name string
		clip Clip
		want float64
	}{
		{"no trim", Clip{Duration: 5}, 5},
		{"head trim", Clip{Duration: 10, TrimStart: 2}, 8},
		{"tail trim", Clip{Duration: 10, TrimEnd: 3}, 7},
		{"both trims", Clip{Duration: 10, TrimStart: 2, TrimEnd: 3}, 5},
		{"over-trimmed floors", Clip{Duration: 5, TrimStart: 3, TrimEnd: 3}, MinEffectiveDuration},
		{"exactly consumed floors", Clip{Duration: 4, TrimStart: 2, TrimEnd: 2}, MinEffectiveDuration},
		{"zero duration floors", Clip{}, MinEffectiveDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffectiveDuration(tt.clip); !almostEqual(got, tt.want) {
				t.Errorf("EffectiveDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEffectiveDuration_NeverBelowFloor(t *testing.T) {
	for ts := 0.0; ts <= 12; ts += 1.7 {
		for te := 0.0; te <= 12; te += 1.3 {
			c := Clip{Duration: 10, TrimStart: ts, TrimEnd: te}
			if got := EffectiveDuration(c); got < MinEffectiveDuration {
				t.Fatalf("EffectiveDuration(trimStart=%v trimEnd=%v) = %v, below floor", ts, te, got)
			}
		}
	}
}

func TestRecomputeStartTimes_TwoClips(t *testing.T) {
	// Scenario: two clips, 5s and 3s, no trim.
	cells := []Clip{
		{ID: "b", Position: 1, Duration: 3},
		{ID: "a", Position: 0, Duration: 5},
	}

	out := RecomputeStartTimes(cells)

	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[0].ID != "a" || out[1].ID != "b" {
		t.Fatalf("order = [%s, %s], want [a, b]", out[0].ID, out[1].ID)
	}
	if !almostEqual(out[0].StartTime, 0) || !almostEqual(out[1].StartTime, 5) {
		t.Errorf("start times = [%v, %v], want [0, 5]", out[0].StartTime, out[1].StartTime)
	}
	if got := TotalDuration(out); !almostEqual(got, 8) {
		t.Errorf("TotalDuration = %v, want 8", got)
	}
}

func TestRecomputeStartTimes_TrimmedClip(t *testing.T) {
	// Scenario: one clip, duration 10s, trimStart=2, trimEnd=3.
	out := RecomputeStartTimes([]Clip{{ID: "a", Duration: 10, TrimStart: 2, TrimEnd: 3}})

	if !almostEqual(EffectiveDuration(out[0]), 5) {
		t.Errorf("effective duration = %v, want 5", EffectiveDuration(out[0]))
	}
	if got := TotalDuration(out); !almostEqual(got, 5) {
		t.Errorf("TotalDuration = %v, want 5", got)
	}
}

func TestRecomputeStartTimes_NoGapsNoOverlaps(t *testing.T) {
	cells := []Clip{
		{ID: "a", Position: 0, Duration: 5, TrimEnd: 1},
		{ID: "b", Position: 1, Duration: 3, TrimStart: 0.5},
		{ID: "c", Position: 2, Duration: 8, TrimStart: 2, TrimEnd: 4},
		{ID: "d", Position: 3, Duration: 0.05},
	}

	out := RecomputeStartTimes(cells)
	for i := 0; i < len(out)-1; i++ {
		end := out[i].StartTime + EffectiveDuration(out[i])
		if !almostEqual(end, out[i+1].StartTime) {
			t.Errorf("clip %d ends at %v but clip %d starts at %v", i, end, i+1, out[i+1].StartTime)
		}
	}
}

func TestRecomputeStartTimes_Idempotent(t *testing.T) {
	cells := []Clip{
		{ID: "a", Position: 0, Duration: 4, TrimEnd: 0.5},
		{ID: "b", Position: 1, Duration: 2},
		{ID: "c", Position: 2, Duration: 7, TrimStart: 1},
	}

	once := RecomputeStartTimes(cells)
	twice := RecomputeStartTimes(once)

	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("clip %d changed on second pass: %+v vs %+v", i, once[i], twice[i])
		}
	}
}

func TestRecomputeStartTimes_DoesNotMutateInput(t *testing.T) {
	cells := []Clip{
		{ID: "a", Position: 0, Duration: 5, StartTime: 99},
		{ID: "b", Position: 1, Duration: 3, StartTime: 99},
	}

	RecomputeStartTimes(cells)

	if cells[0].StartTime != 99 || cells[1].StartTime != 99 {
		t.Error("input slice was mutated")
	}
}

func TestTotalDuration_Empty(t *testing.T) {
	if got := TotalDuration(nil); got != 0 {
		t.Errorf("TotalDuration(nil) = %v, want 0", got)
	}
}

func TestValidate(t *testing.T) {
	clean := RecomputeStartTimes([]Clip{
		{ID: "a", Position: 0, Duration: 5},
		{ID: "b", Position: 1, Duration: 3},
	})
	if problems := Validate(clean); len(problems) != 0 {
		t.Errorf("clean timeline reported problems: %v", problems)
	}

	overlapping := []Clip{
		{ID: "a", Position: 0, StartTime: 0, Duration: 5},
		{ID: "b", Position: 1, StartTime: 3, Duration: 3},
	}
	problems := Validate(overlapping)
	if len(problems) != 1 {
		t.Fatalf("problems = %v, want exactly one overlap", problems)
	}
	if !strings.Contains(problems[0], "overlaps") {
		t.Errorf("problem %q does not mention overlap", problems[0])
	}

	overTrimmed := []Clip{{ID: "a", Duration: 2, TrimStart: 2, TrimEnd: 1}}
	problems = Validate(overTrimmed)
	if len(problems) != 1 || !strings.Contains(problems[0], "trims exceed") {
		t.Errorf("problems = %v, want one trim diagnostic", problems)
	}
}
