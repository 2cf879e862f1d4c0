// Package export renders the clip arrangement as a CMX 3600 EDL.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/cutroom/cutroom-agent/internal/library"
	"github.com/cutroom/cutroom-agent/internal/timeline"
)

// Cut is one resolved timeline event: a named source file plus the
// in/out points within it, in seconds.
type Cut struct {
	ClipName  string
	MediaPath string
	SourceIn  float64
	SourceOut float64
}

// MediaLookup resolves a media id to its library entry, or nil when
// unknown.
type MediaLookup func(mediaID string) *library.Media

// FromTimeline converts the arrangement into cuts in playback order.
// Trims are already folded into the in/out points. Clips whose media
// cannot be resolved are skipped and reported by id.
func FromTimeline(cells []timeline.Clip, lookup MediaLookup) ([]Cut, []string) {
	var cuts []Cut
	var unresolved []string

	for _, c := range cells {
		media := lookup(c.MediaID)
		if media == nil {
			unresolved = append(unresolved, c.ID)
			continue
		}
		cuts = append(cuts, Cut{
			ClipName:  media.Filename,
			MediaPath: media.Path,
			SourceIn:  c.TrimStart,
			SourceOut: c.TrimStart + timeline.EffectiveDuration(c),
		})
	}
	return cuts, unresolved
}

// GenerateEDL renders cuts as CMX 3600 text. Record times accumulate
// from zero in cut order.
func GenerateEDL(cuts []Cut, title string, frameRate float64) string {
	fps := int(math.Round(frameRate))
	if fps <= 0 {
		fps = 30
	}

	isDropFrame := math.Abs(frameRate-29.97) < 0.01 || math.Abs(frameRate-59.94) < 0.01

	lines := []string{fmt.Sprintf("TITLE: %s", title)}
	if isDropFrame {
		lines = append(lines, "FCM: DROP FRAME")
	} else {
		lines = append(lines, "FCM: NON-DROP FRAME")
	}
	lines = append(lines, "")

	recordOffset := 0.0
	for i, cut := range cuts {
		srcIn := secToTimecode(cut.SourceIn, fps)
		srcOut := secToTimecode(cut.SourceOut, fps)
		recIn := secToTimecode(recordOffset, fps)
		duration := cut.SourceOut - cut.SourceIn
		recOut := secToTimecode(recordOffset+duration, fps)

		lines = append(lines,
			fmt.Sprintf("%03d  %-8s %-5s C        %s %s %s %s", i+1, "AX", "V", srcIn, srcOut, recIn, recOut),
			fmt.Sprintf("* FROM CLIP NAME:  %s", cut.ClipName),
			fmt.Sprintf("* MEDIA PATH:  %s", cut.MediaPath),
		)

		recordOffset += duration
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func secToTimecode(seconds float64, fps int) string {
	totalFrames := int(math.Round(seconds * float64(fps)))
	frames := totalFrames % fps
	totalSeconds := totalFrames / fps
	secs := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minutes := totalMinutes % 60
	hours := totalMinutes / 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, minutes, secs, frames)
}
