package api

import (
	"time"

	"github.com/cutroom/cutroom-agent/internal/library"
	"github.com/cutroom/cutroom-agent/internal/timeline"
)

type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	UptimeS  int64  `json:"uptime_s"`
	DeviceID string `json:"device_id"`
}

type StatusResponse struct {
	State         string  `json:"state"`
	MediaCount    int     `json:"media_count"`
	ClipCount     int     `json:"clip_count"`
	TotalDuration float64 `json:"total_duration"`
	CurrentTime   float64 `json:"current_time"`
	Playing       bool    `json:"playing"`
	ZoomLevel     string  `json:"zoom_level"`
}

type AddMediaRequest struct {
	Path string `json:"path"`
}

type MediaResponse struct {
	ID        string  `json:"id"`
	Kind      string  `json:"kind"`
	Path      string  `json:"path"`
	Filename  string  `json:"filename"`
	Duration  float64 `json:"duration"`
	Width     int     `json:"width,omitempty"`
	Height    int     `json:"height,omitempty"`
	Size      int64   `json:"size"`
	Present   bool    `json:"present"`
	CreatedAt string  `json:"created_at"`
}

type MediaListResponse struct {
	Media []MediaResponse `json:"media"`
}

type TimelineResponse struct {
	Cells         []timeline.Clip `json:"cells"`
	TotalDuration float64         `json:"total_duration"`
	CurrentTime   float64         `json:"current_time"`
	Playing       bool            `json:"playing"`
	TimelineWidth float64         `json:"timeline_width"`
	ZoomLevel     string          `json:"zoom_level"`
}

type AddClipRequest struct {
	MediaID string `json:"media_id"`
	Index   *int   `json:"index,omitempty"`
}

type MoveClipRequest struct {
	Index int `json:"index"`
}

type ValidateMoveRequest struct {
	StartTime float64 `json:"start_time"`
}

type TrimClipRequest struct {
	TrimStart float64 `json:"trim_start"`
	TrimEnd   float64 `json:"trim_end"`
}

type SeekRequest struct {
	Time float64 `json:"time"`
}

type TransportRequest struct {
	Playing bool `json:"playing"`
}

type ZoomRequest struct {
	Level string `json:"level"`
}

type GestureBeginRequest struct {
	ClipID   string  `json:"clip_id"`
	Edge     string  `json:"edge,omitempty"`
	PointerX float64 `json:"pointer_x"`
}

type GestureUpdateRequest struct {
	PointerX float64 `json:"pointer_x"`
}

type GestureEndResponse struct {
	Committed bool `json:"committed"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func MediaToResponse(m *library.Media) MediaResponse {
	return MediaResponse{
		ID:        m.ID,
		Kind:      m.Kind,
		Path:      m.Path,
		Filename:  m.Filename,
		Duration:  m.Duration,
		Width:     m.Width,
		Height:    m.Height,
		Size:      m.Size,
		Present:   m.Present,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}
