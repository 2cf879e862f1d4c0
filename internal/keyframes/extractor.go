package keyframes

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cutroom/cutroom-agent/internal/library"
	"github.com/cutroom/cutroom-agent/internal/pipeline"
)

// Extractor produces thumbnail frames for media at a given offset,
// backed by the LRU cache. Frame offsets are quantized to 0.5s so a
// scrubbing pointer reuses nearby frames instead of filling the cache
// with near-duplicates.
type Extractor struct {
	ffmpeg   pipeline.FFmpeg
	cache    *Cache
	cacheDir string
	logger   *slog.Logger
}

const frameQuantum = 0.5

func NewExtractor(ffmpeg pipeline.FFmpeg, cache *Cache, cacheDir string, logger *slog.Logger) *Extractor {
	return &Extractor{ffmpeg: ffmpeg, cache: cache, cacheDir: cacheDir, logger: logger}
}

// Keyframe returns the path of a still frame for media at timestamp
// seconds into the source. Cached frames are returned without touching
// ffmpeg. Images always resolve to their single frame at offset zero.
func (e *Extractor) Keyframe(ctx context.Context, media *library.Media, timestamp float64) (string, error) {
	if media == nil {
		return "", fmt.Errorf("no media")
	}
	if !media.Present {
		return "", fmt.Errorf("media file is absent: %s", media.ID)
	}

	offset := quantize(timestamp)
	if media.Kind == library.KindImage {
		offset = 0
	}
	if offset < 0 {
		offset = 0
	}
	if media.Duration > 0 && offset >= media.Duration {
		offset = quantize(media.Duration - frameQuantum)
		if offset < 0 {
			offset = 0
		}
	}

	key := fmt.Sprintf("%s@%.1f", media.ID, offset)
	if path, ok := e.cache.Get(key); ok {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		// File went missing underneath us; drop the stale entry.
		e.cache.Remove(key)
	}

	outputPath := filepath.Join(e.cacheDir, key+".jpg")
	if err := e.ffmpeg.ExtractFrame(ctx, media.Path, outputPath, offset); err != nil {
		return "", fmt.Errorf("failed to extract frame: %w", err)
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return "", fmt.Errorf("extracted frame missing: %w", err)
	}

	e.cache.Put(key, outputPath, info.Size())
	if e.logger != nil {
		e.logger.Debug("keyframe extracted",
			"media_id", media.ID, "offset", offset, "size", info.Size())
	}
	return outputPath, nil
}

func quantize(t float64) float64 {
	if t < 0 {
		return 0
	}
	steps := int(t / frameQuantum)
	return float64(steps) * frameQuantum
}
