package timeline

import "sort"

// Edit operations. Each is a pure function from a cell list to a new cell
// list: the input is never mutated, positions are renumbered to a dense
// 0..N-1 ordering, and start times are recomputed before returning. Given
// identical inputs each operation produces identical output.

// AddClip inserts clip at the given index in position order. An index
// outside [0, len] appends. The clip's Position and StartTime are assigned
// by the renumber/recompute pass.
func AddClip(cells []Clip, clip Clip, index int) []Clip {
	ordered := sortedByPosition(cells)
	if index < 0 || index > len(ordered) {
		index = len(ordered)
	}

	out := make([]Clip, 0, len(ordered)+1)
	out = append(out, ordered[:index]...)
	out = append(out, clip)
	out = append(out, ordered[index:]...)

	return renumber(out)
}

// RemoveClip filters out the clip with the given id. Removing an unknown
// id returns the list unchanged apart from renumbering. The playhead is
// deliberately not touched here: the mapping functions clamp gracefully if
// the global time now exceeds the shorter timeline.
func RemoveClip(cells []Clip, id string) []Clip {
	ordered := sortedByPosition(cells)
	out := make([]Clip, 0, len(ordered))
	for _, c := range ordered {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return renumber(out)
}

// MoveClip rearranges the clip with the given id to newIndex in position
// order. The semantics are author's-order based: StartTime is derived
// strictly from the new ordering, never from a dragged pixel value.
func MoveClip(cells []Clip, id string, newIndex int) []Clip {
	ordered := sortedByPosition(cells)

	from := -1
	for i, c := range ordered {
		if c.ID == id {
			from = i
			break
		}
	}
	if from == -1 {
		return renumber(ordered)
	}

	moved := ordered[from]
	rest := append(ordered[:from:from], ordered[from+1:]...)

	if newIndex < 0 {
		newIndex = 0
	}
	if newIndex > len(rest) {
		newIndex = len(rest)
	}

	out := make([]Clip, 0, len(ordered))
	out = append(out, rest[:newIndex]...)
	out = append(out, moved)
	out = append(out, rest[newIndex:]...)

	return renumber(out)
}

// TrimClip updates the trim values of one clip and ripples the change
// through every subsequent start time. Both values are clamped to >= 0 and
// to a combined maximum that preserves MinEffectiveDuration of content.
func TrimClip(cells []Clip, id string, trimStart, trimEnd float64) []Clip {
	ordered := sortedByPosition(cells)
	for i, c := range ordered {
		if c.ID != id {
			continue
		}
		ordered[i].TrimStart, ordered[i].TrimEnd = ClampTrim(c.Duration, trimStart, trimEnd)
		break
	}
	return renumber(ordered)
}

// ClampTrim clamps a proposed trim pair so that neither value is negative
// and trimStart+trimEnd <= duration-MinEffectiveDuration. When the pair
// over-trims, trimEnd absorbs the correction.
func ClampTrim(duration, trimStart, trimEnd float64) (float64, float64) {
	if trimStart < 0 {
		trimStart = 0
	}
	if trimEnd < 0 {
		trimEnd = 0
	}
	limit := duration - MinEffectiveDuration
	if limit < 0 {
		limit = 0
	}
	if trimStart > limit {
		trimStart = limit
	}
	if trimStart+trimEnd > limit {
		trimEnd = limit - trimStart
	}
	return trimStart, trimEnd
}

func sortedByPosition(cells []Clip) []Clip {
	out := cloneCells(cells)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})
	return out
}

func renumber(cells []Clip) []Clip {
	for i := range cells {
		cells[i].Position = i
	}
	return RecomputeStartTimes(cells)
}
