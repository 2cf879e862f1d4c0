package timeline

import (
	"fmt"
	"sort"
)

// overlapEpsilon is the tolerance used by Validate when checking adjacent
// clip intervals for overlap.
const overlapEpsilon = 1e-3

// EffectiveDuration returns the visible length of a clip after trimming,
// floored at MinEffectiveDuration.
func EffectiveDuration(c Clip) float64 {
	d := c.Duration - c.TrimStart - c.TrimEnd
	if d < MinEffectiveDuration {
		return MinEffectiveDuration
	}
	return d
}

// RecomputeStartTimes returns a copy of cells ordered by Position with
// each clip's StartTime set to the cumulative sum of the effective
// durations of the clips before it. This is the central correctness
// mechanism: it must run after every structural edit so the timeline has
// no gaps and no overlaps.
func RecomputeStartTimes(cells []Clip) []Clip {
	out := cloneCells(cells)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})

	cursor := 0.0
	for i := range out {
		out[i].StartTime = cursor
		cursor += EffectiveDuration(out[i])
	}
	return out
}

// TotalDuration returns the end of the last clip, or 0 for an empty list.
func TotalDuration(cells []Clip) float64 {
	total := 0.0
	for _, c := range cells {
		if end := c.StartTime + EffectiveDuration(c); end > total {
			total = end
		}
	}
	return total
}

// Validate returns human-readable diagnostics for structural problems:
// adjacent clips whose intervals overlap by more than overlapEpsilon, and
// clips whose raw trim values eat the whole source. It never blocks -
// callers log the findings and carry on.
func Validate(cells []Clip) []string {
	ordered := cloneCells(cells)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})

	var problems []string
	for i, c := range ordered {
		if c.Duration-c.TrimStart-c.TrimEnd < 0 {
			problems = append(problems, fmt.Sprintf(
				"clip %s: trims exceed source duration (duration=%.3f trim_start=%.3f trim_end=%.3f)",
				c.ID, c.Duration, c.TrimStart, c.TrimEnd))
		}
		if i == 0 {
			continue
		}
		prev := ordered[i-1]
		prevEnd := prev.StartTime + EffectiveDuration(prev)
		if prevEnd-c.StartTime > overlapEpsilon {
			problems = append(problems, fmt.Sprintf(
				"clip %s overlaps clip %s by %.3fs",
				prev.ID, c.ID, prevEnd-c.StartTime))
		}
	}
	return problems
}
