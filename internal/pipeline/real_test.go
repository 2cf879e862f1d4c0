package pipeline

import (
	"math"
	"testing"
)

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"30/1", 30},
		{"30000/1001", 29.97002997},
		{"25/1", 25},
		{"0/0", 0},
		{"garbage", 0},
		{"", 0},
		{"1/0", 0},
	}

	for _, tt := range tests {
		if got := parseFrameRate(tt.in); math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("parseFrameRate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
