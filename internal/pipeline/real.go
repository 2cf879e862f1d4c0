package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
)

// RealFFmpeg shells out to ffprobe and ffmpeg.
type RealFFmpeg struct {
	ffmpegPath  string
	ffprobePath string
	logger      *slog.Logger
}

// NewRealFFmpeg creates a RealFFmpeg using the given binary paths
// (resolved via PATH when bare names are passed).
func NewRealFFmpeg(ffmpegPath, ffprobePath string, logger *slog.Logger) *RealFFmpeg {
	return &RealFFmpeg{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		logger:      logger,
	}
}

// Available reports whether both binaries can be resolved.
func (f *RealFFmpeg) Available() bool {
	if _, err := exec.LookPath(f.ffmpegPath); err != nil {
		return false
	}
	if _, err := exec.LookPath(f.ffprobePath); err != nil {
		return false
	}
	return true
}

type probeOutput struct {
	Streams []struct {
		CodecName  string `json:"codec_name"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		RFrameRate string `json:"r_frame_rate"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func (f *RealFFmpeg) Probe(ctx context.Context, filePath string) (*ProbeResult, error) {
	cmd := exec.CommandContext(ctx, f.ffprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=codec_name,width,height,r_frame_rate",
		"-show_entries", "format=duration",
		"-of", "json",
		filePath,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	var parsed probeOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	result := &ProbeResult{}
	if parsed.Format.Duration != "" {
		if d, err := strconv.ParseFloat(parsed.Format.Duration, 64); err == nil {
			result.Duration = d
		}
	}
	if len(parsed.Streams) > 0 {
		s := parsed.Streams[0]
		result.Codec = s.CodecName
		result.Width = s.Width
		result.Height = s.Height
		result.FrameRate = parseFrameRate(s.RFrameRate)
	}
	return result, nil
}

func (f *RealFFmpeg) ExtractFrame(ctx context.Context, filePath, outputPath string, timeOffset float64) error {
	cmd := exec.CommandContext(ctx, f.ffmpegPath,
		"-ss", strconv.FormatFloat(timeOffset, 'f', 3, 64),
		"-i", filePath,
		"-frames:v", "1",
		"-q:v", "4",
		"-y",
		outputPath,
	)

	if out, err := cmd.CombinedOutput(); err != nil {
		if f.logger != nil {
			f.logger.Error("ffmpeg frame extraction failed",
				"path", filePath, "offset", timeOffset, "output", string(out))
		}
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	return nil
}

// parseFrameRate parses ffprobe's rational frame rate ("30000/1001").
func parseFrameRate(s string) float64 {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return 0
	}
	num, err1 := strconv.ParseFloat(parts[0], 64)
	den, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil || den == 0 {
		return 0
	}
	return num / den
}
