package library

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cutroom/cutroom-agent/internal/pipeline"
)

type LibraryService interface {
	AddFile(ctx context.Context, path string) (*Media, error)
	Remove(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*Media, error)
	List(ctx context.Context) ([]*Media, error)
	Count(ctx context.Context) (int, error)
	MarkPresent(ctx context.Context, path string, present bool) error
}

type Service struct {
	repo          Repository
	ffmpeg        pipeline.FFmpeg
	imageDuration float64
	logger        *slog.Logger
	onAdded       func(*Media)
}

// SetOnAdded installs a callback invoked after each successful AddFile.
// The watcher uses it to start tracking the new file's directory.
func (s *Service) SetOnAdded(fn func(*Media)) {
	s.onAdded = fn
}

func NewService(repo Repository, ffmpeg pipeline.FFmpeg, imageDuration float64, logger *slog.Logger) *Service {
	return &Service{
		repo:          repo,
		ffmpeg:        ffmpeg,
		imageDuration: imageDuration,
		logger:        logger,
	}
}

// AddFile registers a media file. The path must exist and carry a
// supported extension. Videos are probed for duration and dimensions;
// images get the configured default duration. Registering an already
// known path returns the existing item.
func (s *Service) AddFile(ctx context.Context, path string) (*Media, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("path does not exist: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory")
	}

	kind, ok := KindForFile(absPath)
	if !ok {
		return nil, fmt.Errorf("unsupported media type: %s", filepath.Ext(absPath))
	}

	existing, err := s.repo.GetMediaByPath(ctx, absPath)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	media := &Media{
		ID:        NewID(),
		Kind:      kind,
		Path:      absPath,
		Filename:  filepath.Base(absPath),
		Size:      info.Size(),
		Present:   true,
		CreatedAt: time.Now(),
	}

	switch kind {
	case KindVideo:
		probe, err := s.ffmpeg.Probe(ctx, absPath)
		if err != nil {
			return nil, fmt.Errorf("failed to probe video: %w", err)
		}
		media.Duration = probe.Duration
		media.Width = probe.Width
		media.Height = probe.Height
	case KindImage:
		media.Duration = s.imageDuration
		// Dimensions are nice to have for images; ignore probe failures.
		if probe, err := s.ffmpeg.Probe(ctx, absPath); err == nil {
			media.Width = probe.Width
			media.Height = probe.Height
		}
	}

	if err := s.repo.CreateMedia(ctx, media); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("media registered",
			"media_id", media.ID, "kind", media.Kind, "duration", media.Duration)
	}
	if s.onAdded != nil {
		s.onAdded(media)
	}
	return media, nil
}

// Remove deletes a media item from the library. Clips referencing the
// id are left alone; the player sink treats an unresolved media lookup
// as nothing to show.
func (s *Service) Remove(ctx context.Context, id string) error {
	return s.repo.DeleteMedia(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (*Media, error) {
	return s.repo.GetMedia(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Media, error) {
	return s.repo.ListMedia(ctx)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.CountMedia(ctx)
}

// MarkPresent flags a media item present or absent by its path. Unknown
// paths are ignored.
func (s *Service) MarkPresent(ctx context.Context, path string, present bool) error {
	media, err := s.repo.GetMediaByPath(ctx, path)
	if err != nil {
		return err
	}
	if media == nil {
		return nil
	}
	if media.Present == present {
		return nil
	}
	if s.logger != nil {
		s.logger.Info("media presence changed", "media_id", media.ID, "present", present)
	}
	return s.repo.UpdateMediaPresent(ctx, media.ID, present)
}
