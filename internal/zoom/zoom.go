// Package zoom converts between timeline seconds and screen pixels.
// Each named zoom level binds a fixed pixels-per-second scale; the
// conversion is pure arithmetic with no shared state, so a System can be
// created per level and discarded when the level changes.
package zoom

import "math"

// Level is a named zoom level for the timeline strip.
type Level string

const (
	LevelOverview Level = "overview"
	LevelNormal   Level = "normal"
	LevelDetail   Level = "detail"
)

// Pixels-per-second scale for each level.
const (
	overviewScale = 20.0
	normalScale   = 50.0
	detailScale   = 120.0
)

// keyframePixelSpacing is the target width in pixels covered by one
// thumbnail keyframe.
const keyframePixelSpacing = 80.0

// System performs time/pixel conversion at one zoom level.
type System struct {
	level Level
	scale float64
}

// NewSystem returns a System for the given level. Unknown levels fall
// back to LevelNormal.
func NewSystem(level Level) *System {
	s := &System{level: level}
	switch level {
	case LevelOverview:
		s.scale = overviewScale
	case LevelDetail:
		s.scale = detailScale
	default:
		s.level = LevelNormal
		s.scale = normalScale
	}
	return s
}

// Level returns the named zoom level.
func (s *System) Level() Level {
	return s.level
}

// Scale returns the pixels-per-second scale.
func (s *System) Scale() float64 {
	return s.scale
}

// TimeToPixel converts a time in seconds to a pixel offset.
func (s *System) TimeToPixel(seconds float64) float64 {
	return seconds * s.scale
}

// PixelToTime converts a pixel offset to a time in seconds.
func (s *System) PixelToTime(pixels float64) float64 {
	return pixels / s.scale
}

// TimelineWidth returns the rendered width in pixels of a timeline with
// the given total duration.
func (s *System) TimelineWidth(totalDuration float64) float64 {
	return totalDuration * s.scale
}

// KeyframeCount returns how many thumbnail keyframes a clip of the given
// duration should display at this zoom level. Always at least one.
func (s *System) KeyframeCount(clipDuration float64) int {
	if clipDuration <= 0 {
		return 1
	}
	n := int(math.Ceil(clipDuration * s.scale / keyframePixelSpacing))
	if n < 1 {
		return 1
	}
	return n
}
