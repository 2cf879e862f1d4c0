package project

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cutroom/cutroom-agent/internal/gesture"
	"github.com/cutroom/cutroom-agent/internal/library"
	"github.com/cutroom/cutroom-agent/internal/timeline"
	"github.com/cutroom/cutroom-agent/internal/zoom"
)

// MediaProvider resolves media ids for clip creation. Satisfied by
// library.Service.
type MediaProvider interface {
	Get(ctx context.Context, id string) (*library.Media, error)
}

// Service applies edit operations to the clip arrangement. Every edit
// follows the same path: compute the new arrangement, persist it, then
// hand it to the manager so time mappings and observers update. The
// manager is never given an arrangement the store has not accepted.
type Service struct {
	repo          ClipRepository
	media         MediaProvider
	manager       *timeline.Manager
	gestures      *gesture.Controller
	imageDuration float64
	logger        *slog.Logger
}

func NewService(repo ClipRepository, media MediaProvider, manager *timeline.Manager,
	gestures *gesture.Controller, imageDuration float64, logger *slog.Logger) *Service {
	return &Service{
		repo:          repo,
		media:         media,
		manager:       manager,
		gestures:      gestures,
		imageDuration: imageDuration,
		logger:        logger,
	}
}

// Load restores the persisted arrangement into the manager. Called once
// at startup.
func (s *Service) Load(ctx context.Context) error {
	cells, err := s.repo.ListClips(ctx)
	if err != nil {
		return fmt.Errorf("failed to load clips: %w", err)
	}
	s.manager.UpdateTimeline(cells)
	if s.logger != nil {
		s.logger.Info("project loaded", "clips", len(cells))
	}
	return nil
}

// AddClip appends (or inserts at index) a new clip for the given media.
// Videos start untrimmed at their full duration; images use the
// configured still duration.
func (s *Service) AddClip(ctx context.Context, mediaID string, index int) (*timeline.Clip, error) {
	media, err := s.media.Get(ctx, mediaID)
	if err != nil {
		return nil, err
	}
	if media == nil {
		return nil, fmt.Errorf("media not found: %s", mediaID)
	}

	duration := media.Duration
	if duration <= 0 {
		duration = s.imageDuration
	}

	clip := timeline.Clip{
		ID:       timeline.NewID(),
		MediaID:  media.ID,
		Duration: duration,
	}

	cells := timeline.AddClip(s.manager.Cells(), clip, index)
	if err := s.commit(ctx, cells); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("clip added", "clip_id", clip.ID, "media_id", mediaID, "duration", duration)
	}
	for i := range cells {
		if cells[i].ID == clip.ID {
			return &cells[i], nil
		}
	}
	return &clip, nil
}

func (s *Service) RemoveClip(ctx context.Context, clipID string) error {
	if !s.hasClip(clipID) {
		return gesture.ErrClipNotFound
	}
	if err := s.commit(ctx, timeline.RemoveClip(s.manager.Cells(), clipID)); err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.Info("clip removed", "clip_id", clipID)
	}
	return nil
}

// MoveClip rearranges a clip to a new position index. If the playhead
// sat inside the clip before the move it follows the clip to its new
// interval, so the user keeps watching the same frame.
func (s *Service) MoveClip(ctx context.Context, clipID string, newIndex int) error {
	moved, ok := s.findClip(clipID)
	if !ok {
		return gesture.ErrClipNotFound
	}
	cells := timeline.MoveClip(s.manager.Cells(), clipID, newIndex)
	if err := s.commit(ctx, cells); err != nil {
		return err
	}
	for _, c := range cells {
		if c.ID == clipID {
			s.manager.AdjustPlayheadAfterClipMove(clipID, moved.StartTime, c.StartTime)
			break
		}
	}
	return nil
}

func (s *Service) TrimClip(ctx context.Context, clipID string, trimStart, trimEnd float64) error {
	if !s.hasClip(clipID) {
		return gesture.ErrClipNotFound
	}
	return s.commit(ctx, timeline.TrimClip(s.manager.Cells(), clipID, trimStart, trimEnd))
}

// BeginTrim starts a trim drag on one edge of a clip.
func (s *Service) BeginTrim(clipID string, edge gesture.TrimEdge, pointerX float64) error {
	clip, ok := s.findClip(clipID)
	if !ok {
		return gesture.ErrClipNotFound
	}
	return s.gestures.BeginTrim(clip, edge, pointerX)
}

func (s *Service) UpdateTrim(pointerX float64) (gesture.TrimPreview, error) {
	return s.gestures.UpdateTrim(pointerX)
}

// EndTrim finishes the drag and, when the trim actually changed,
// commits it as a regular trim edit.
func (s *Service) EndTrim(ctx context.Context, pointerX float64) (gesture.TrimResult, bool, error) {
	result, changed, err := s.gestures.EndTrim(pointerX)
	if err != nil {
		return gesture.TrimResult{}, false, err
	}
	if !changed {
		return result, false, nil
	}
	if err := s.TrimClip(ctx, result.ClipID, result.TrimStart, result.TrimEnd); err != nil {
		return gesture.TrimResult{}, false, err
	}
	return result, true, nil
}

func (s *Service) BeginRearrange(clipID string, pointerX float64) error {
	return s.gestures.BeginRearrange(s.manager.Cells(), clipID, pointerX)
}

func (s *Service) UpdateRearrange(pointerX float64) (gesture.RearrangePreview, error) {
	return s.gestures.UpdateRearrange(pointerX)
}

func (s *Service) EndRearrange(ctx context.Context, pointerX float64) (gesture.RearrangeResult, bool, error) {
	result, changed, err := s.gestures.EndRearrange(pointerX)
	if err != nil {
		return gesture.RearrangeResult{}, false, err
	}
	if !changed {
		return result, false, nil
	}
	if err := s.MoveClip(ctx, result.ClipID, result.ToIndex); err != nil {
		return gesture.RearrangeResult{}, false, err
	}
	return result, true, nil
}

// CancelGesture abandons any active drag without committing.
func (s *Service) CancelGesture() {
	s.gestures.Cancel()
}

// SetZoom switches the zoom level for pixel mapping on both the manager
// and any future gestures.
func (s *Service) SetZoom(level string) {
	zoomSys := zoom.NewSystem(zoom.Level(level))
	s.manager.UpdateZoomSystem(zoomSys)
	s.gestures.SetZoomSystem(zoomSys)
}

func (s *Service) Manager() *timeline.Manager {
	return s.manager
}

func (s *Service) commit(ctx context.Context, cells []timeline.Clip) error {
	if err := s.repo.ReplaceClips(ctx, cells); err != nil {
		return fmt.Errorf("failed to persist clips: %w", err)
	}
	s.manager.UpdateTimeline(cells)
	return nil
}

func (s *Service) findClip(clipID string) (timeline.Clip, bool) {
	for _, c := range s.manager.Cells() {
		if c.ID == clipID {
			return c, true
		}
	}
	return timeline.Clip{}, false
}

func (s *Service) hasClip(clipID string) bool {
	_, ok := s.findClip(clipID)
	return ok
}
