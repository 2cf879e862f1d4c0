package export

import (
	"strings"
	"testing"

	"github.com/cutroom/cutroom-agent/internal/library"
	"github.com/cutroom/cutroom-agent/internal/timeline"
)

func TestGenerateEDL_SingleCut(t *testing.T) {
	cuts := []Cut{{
		ClipName:  "intro.mp4",
		MediaPath: "/media/intro.mp4",
		SourceIn:  0,
		SourceOut: 2,
	}}

	edl := GenerateEDL(cuts, "Project One", 30.0)

	if !strings.Contains(edl, "TITLE: Project One") {
		t.Fatalf("missing title in EDL: %q", edl)
	}
	if !strings.Contains(edl, "FCM: NON-DROP FRAME") {
		t.Fatalf("missing non-drop-frame FCM: %q", edl)
	}
	if !strings.Contains(edl, "001  AX       V     C        00:00:00:00 00:00:02:00 00:00:00:00 00:00:02:00") {
		t.Fatalf("missing event line: %q", edl)
	}
	if !strings.Contains(edl, "* FROM CLIP NAME:  intro.mp4") {
		t.Fatalf("missing clip name comment: %q", edl)
	}
	if !strings.Contains(edl, "* MEDIA PATH:  /media/intro.mp4") {
		t.Fatalf("missing media path comment: %q", edl)
	}
}

func TestGenerateEDL_RecordOffsetAccumulates(t *testing.T) {
	cuts := []Cut{
		{ClipName: "a.mp4", MediaPath: "/a.mp4", SourceIn: 0, SourceOut: 1},
		{ClipName: "b.mp4", MediaPath: "/b.mp4", SourceIn: 1, SourceOut: 2.5},
	}

	edl := GenerateEDL(cuts, "Multi", 30.0)

	if !strings.Contains(edl, "001  AX       V     C        00:00:00:00 00:00:01:00 00:00:00:00 00:00:01:00") {
		t.Fatalf("first event line mismatch: %q", edl)
	}
	if !strings.Contains(edl, "002  AX       V     C        00:00:01:00 00:00:02:15 00:00:01:00 00:00:02:15") {
		t.Fatalf("second event line mismatch or bad record offset: %q", edl)
	}
}

func TestGenerateEDL_DropFrame(t *testing.T) {
	cuts := []Cut{{ClipName: "x.mp4", MediaPath: "/x.mp4", SourceIn: 0, SourceOut: 1}}
	edl := GenerateEDL(cuts, "Drop", 29.97)

	if !strings.Contains(edl, "FCM: DROP FRAME") {
		t.Fatalf("expected drop frame FCM, got: %q", edl)
	}
}

func TestFromTimeline_FoldsTrims(t *testing.T) {
	cells := []timeline.Clip{
		{ID: "c1", MediaID: "m1", Position: 0, Duration: 10, TrimStart: 2, TrimEnd: 3},
		{ID: "c2", MediaID: "m2", Position: 1, Duration: 5},
	}
	media := map[string]*library.Media{
		"m1": {ID: "m1", Filename: "first.mp4", Path: "/media/first.mp4"},
		"m2": {ID: "m2", Filename: "second.mp4", Path: "/media/second.mp4"},
	}

	cuts, unresolved := FromTimeline(cells, func(id string) *library.Media { return media[id] })

	if len(unresolved) != 0 {
		t.Fatalf("unexpected unresolved clips: %v", unresolved)
	}
	if len(cuts) != 2 {
		t.Fatalf("expected 2 cuts, got %d", len(cuts))
	}
	if cuts[0].SourceIn != 2 || cuts[0].SourceOut != 7 {
		t.Errorf("trimmed cut in/out = %v/%v, want 2/7", cuts[0].SourceIn, cuts[0].SourceOut)
	}
	if cuts[1].SourceIn != 0 || cuts[1].SourceOut != 5 {
		t.Errorf("untrimmed cut in/out = %v/%v, want 0/5", cuts[1].SourceIn, cuts[1].SourceOut)
	}
}

func TestFromTimeline_ReportsUnresolved(t *testing.T) {
	cells := []timeline.Clip{
		{ID: "c1", MediaID: "gone", Position: 0, Duration: 4},
		{ID: "c2", MediaID: "m1", Position: 1, Duration: 5},
	}
	media := map[string]*library.Media{
		"m1": {ID: "m1", Filename: "a.mp4", Path: "/a.mp4"},
	}

	cuts, unresolved := FromTimeline(cells, func(id string) *library.Media { return media[id] })

	if len(cuts) != 1 {
		t.Fatalf("expected 1 cut, got %d", len(cuts))
	}
	if len(unresolved) != 1 || unresolved[0] != "c1" {
		t.Fatalf("unresolved = %v, want [c1]", unresolved)
	}
}

func TestSecToTimecode(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		fps     int
		want    string
	}{
		{name: "zero", seconds: 0, fps: 30, want: "00:00:00:00"},
		{name: "one second", seconds: 1, fps: 30, want: "00:00:01:00"},
		{name: "half second", seconds: 0.5, fps: 30, want: "00:00:00:15"},
		{name: "one minute", seconds: 60, fps: 30, want: "00:01:00:00"},
		{name: "one hour", seconds: 3600, fps: 30, want: "01:00:00:00"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := secToTimecode(tc.seconds, tc.fps)
			if got != tc.want {
				t.Fatalf("secToTimecode(%v, %d) = %q, want %q", tc.seconds, tc.fps, got, tc.want)
			}
		})
	}
}
