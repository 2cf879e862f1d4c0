// Package pipeline wraps the external ffmpeg/ffprobe binaries behind a
// small interface so the rest of the agent can be tested without them.
package pipeline

import (
	"context"
	"log/slog"
)

// FFmpeg probes media files and extracts still frames.
type FFmpeg interface {
	Probe(ctx context.Context, filePath string) (*ProbeResult, error)
	ExtractFrame(ctx context.Context, filePath, outputPath string, timeOffset float64) error
}

// ProbeResult carries the subset of stream metadata the agent uses.
type ProbeResult struct {
	Duration  float64
	Width     int
	Height    int
	Codec     string
	FrameRate float64
}

// StubFFmpeg logs requests and returns empty results. Used when no
// ffmpeg/ffprobe binary is available and in tests.
type StubFFmpeg struct {
	logger *slog.Logger
}

func NewStubFFmpeg(logger *slog.Logger) *StubFFmpeg {
	return &StubFFmpeg{logger: logger}
}

func (f *StubFFmpeg) Probe(ctx context.Context, filePath string) (*ProbeResult, error) {
	f.logger.Info("ffmpeg stub: probe requested", "path", filePath)
	return &ProbeResult{}, nil
}

func (f *StubFFmpeg) ExtractFrame(ctx context.Context, filePath, outputPath string, timeOffset float64) error {
	f.logger.Info("ffmpeg stub: frame extraction requested",
		"input", filePath, "output", outputPath, "offset", timeOffset)
	return nil
}
