package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cutroom/cutroom-agent/internal/gesture"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Repository, cfg.Logger))

		r.Get("/status", statusHandler(cfg))

		r.Get("/media", listMediaHandler(cfg))
		r.Post("/media", addMediaHandler(cfg))
		r.Get("/media/{id}", getMediaHandler(cfg))
		r.Delete("/media/{id}", deleteMediaHandler(cfg))
		r.Get("/media/{id}/keyframe", keyframeHandler(cfg))

		r.Get("/playback/file", playbackHandler(cfg))

		r.Get("/timeline", timelineHandler(cfg))
		r.Post("/timeline/clips", addClipHandler(cfg))
		r.Delete("/timeline/clips/{id}", removeClipHandler(cfg))
		r.Post("/timeline/clips/{id}/move", moveClipHandler(cfg))
		r.Post("/timeline/clips/{id}/validate-move", validateMoveHandler(cfg))
		r.Post("/timeline/clips/{id}/trim", trimClipHandler(cfg))

		r.Post("/timeline/seek", seekHandler(cfg))
		r.Post("/timeline/transport", transportHandler(cfg))
		r.Get("/timeline/position", positionHandler(cfg))
		r.Get("/timeline/instruction", instructionHandler(cfg))
		r.Post("/timeline/zoom", zoomHandler(cfg))

		r.Post("/timeline/trim/begin", trimBeginHandler(cfg))
		r.Post("/timeline/trim/update", trimUpdateHandler(cfg))
		r.Post("/timeline/trim/end", trimEndHandler(cfg))
		r.Post("/timeline/rearrange/begin", rearrangeBeginHandler(cfg))
		r.Post("/timeline/rearrange/update", rearrangeUpdateHandler(cfg))
		r.Post("/timeline/rearrange/end", rearrangeEndHandler(cfg))
		r.Post("/timeline/gesture/cancel", gestureCancelHandler(cfg))

		r.Post("/export", exportHandler(cfg))
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:   "ok",
			Version:  cfg.Version,
			UptimeS:  uptime,
			DeviceID: cfg.DeviceID,
		})
	}
}

func statusHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mediaCount, _ := cfg.Library.Count(r.Context())
		m := cfg.Project.Manager()

		state := "idle"
		if m.Playing() {
			state = "playing"
		}

		WriteJSON(w, http.StatusOK, StatusResponse{
			State:         state,
			MediaCount:    mediaCount,
			ClipCount:     len(m.Cells()),
			TotalDuration: m.TotalDuration(),
			CurrentTime:   m.CurrentTime(),
			Playing:       m.Playing(),
			ZoomLevel:     string(m.ZoomSystem().Level()),
		})
	}
}

func listMediaHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := cfg.Library.List(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list media", "INTERNAL_ERROR")
			return
		}

		resp := MediaListResponse{Media: make([]MediaResponse, len(items))}
		for i, m := range items {
			resp.Media[i] = MediaToResponse(m)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func addMediaHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddMediaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.Path == "" {
			WriteError(w, http.StatusBadRequest, "path is required", "BAD_REQUEST")
			return
		}

		media, err := cfg.Library.AddFile(r.Context(), req.Path)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		WriteJSON(w, http.StatusCreated, MediaToResponse(media))
	}
}

func getMediaHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		media, err := cfg.Library.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		if media == nil {
			WriteError(w, http.StatusNotFound, "media not found", "NOT_FOUND")
			return
		}
		WriteJSON(w, http.StatusOK, MediaToResponse(media))
	}
}

func deleteMediaHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := cfg.Library.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func keyframeHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		media, err := cfg.Library.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		if media == nil {
			WriteError(w, http.StatusNotFound, "media not found", "NOT_FOUND")
			return
		}

		timestamp, _ := strconv.ParseFloat(r.URL.Query().Get("t"), 64)
		path, err := cfg.Keyframes.Keyframe(r.Context(), media, timestamp)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}

		http.ServeFile(w, r, path)
	}
}

func playbackHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mediaID := r.URL.Query().Get("media_id")
		if mediaID == "" {
			WriteError(w, http.StatusBadRequest, "media_id is required", "BAD_REQUEST")
			return
		}

		media, err := cfg.Library.Get(r.Context(), mediaID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		if media == nil {
			WriteError(w, http.StatusNotFound, "media not found", "NOT_FOUND")
			return
		}

		if err := cfg.Playback.ServeMedia(w, r, media); err != nil {
			cfg.Logger.Error("playback error", "error", err, "media_id", mediaID)
		}
	}
}

func timelineHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m := cfg.Project.Manager()
		WriteJSON(w, http.StatusOK, TimelineResponse{
			Cells:         m.Cells(),
			TotalDuration: m.TotalDuration(),
			CurrentTime:   m.CurrentTime(),
			Playing:       m.Playing(),
			TimelineWidth: m.ZoomSystem().TimelineWidth(m.TotalDuration()),
			ZoomLevel:     string(m.ZoomSystem().Level()),
		})
	}
}

func addClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddClipRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.MediaID == "" {
			WriteError(w, http.StatusBadRequest, "media_id is required", "BAD_REQUEST")
			return
		}

		index := -1
		if req.Index != nil {
			index = *req.Index
		}

		clip, err := cfg.Project.AddClip(r.Context(), req.MediaID, index)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}
		WriteJSON(w, http.StatusCreated, clip)
	}
}

func removeClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := cfg.Project.RemoveClip(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, gesture.ErrClipNotFound) {
			WriteError(w, http.StatusNotFound, "clip not found", "NOT_FOUND")
			return
		}
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func moveClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req MoveClipRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		err := cfg.Project.MoveClip(r.Context(), chi.URLParam(r, "id"), req.Index)
		if errors.Is(err, gesture.ErrClipNotFound) {
			WriteError(w, http.StatusNotFound, "clip not found", "NOT_FOUND")
			return
		}
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusOK, cfg.Project.Manager().Cells())
	}
}

func validateMoveHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ValidateMoveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		result := cfg.Project.Manager().ValidateClipMove(chi.URLParam(r, "id"), req.StartTime)
		WriteJSON(w, http.StatusOK, result)
	}
}

func trimClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TrimClipRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		err := cfg.Project.TrimClip(r.Context(), chi.URLParam(r, "id"), req.TrimStart, req.TrimEnd)
		if errors.Is(err, gesture.ErrClipNotFound) {
			WriteError(w, http.StatusNotFound, "clip not found", "NOT_FOUND")
			return
		}
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusOK, cfg.Project.Manager().Cells())
	}
}

func seekHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SeekRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		m := cfg.Project.Manager()
		m.SetCurrentTime(req.Time)
		WriteJSON(w, http.StatusOK, map[string]float64{"current_time": m.CurrentTime()})
	}
}

func transportHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TransportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		m := cfg.Project.Manager()
		m.SetPlaying(req.Playing)
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"playing":      m.Playing(),
			"current_time": m.CurrentTime(),
		})
	}
}

func positionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := strconv.ParseFloat(r.URL.Query().Get("t"), 64)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "t is required", "BAD_REQUEST")
			return
		}

		pos := cfg.Project.Manager().GlobalTimeToClipPosition(t)
		if pos == nil {
			WriteError(w, http.StatusNotFound, "no clip at time", "NOT_FOUND")
			return
		}
		WriteJSON(w, http.StatusOK, pos)
	}
}

func instructionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, cfg.Project.Manager().Instruction())
	}
}

func zoomHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ZoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		cfg.Project.SetZoom(req.Level)
		m := cfg.Project.Manager()
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"zoom_level":     string(m.ZoomSystem().Level()),
			"timeline_width": m.ZoomSystem().TimelineWidth(m.TotalDuration()),
		})
	}
}

func trimBeginHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GestureBeginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		err := cfg.Project.BeginTrim(req.ClipID, gesture.TrimEdge(req.Edge), req.PointerX)
		if err != nil {
			writeGestureError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func trimUpdateHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GestureUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		preview, err := cfg.Project.UpdateTrim(req.PointerX)
		if err != nil {
			writeGestureError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, preview)
	}
}

func trimEndHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GestureUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		_, committed, err := cfg.Project.EndTrim(r.Context(), req.PointerX)
		if err != nil {
			writeGestureError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, GestureEndResponse{Committed: committed})
	}
}

func rearrangeBeginHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GestureBeginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		if err := cfg.Project.BeginRearrange(req.ClipID, req.PointerX); err != nil {
			writeGestureError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func rearrangeUpdateHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GestureUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		preview, err := cfg.Project.UpdateRearrange(req.PointerX)
		if err != nil {
			writeGestureError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, preview)
	}
}

func rearrangeEndHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GestureUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		_, committed, err := cfg.Project.EndRearrange(r.Context(), req.PointerX)
		if err != nil {
			writeGestureError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, GestureEndResponse{Committed: committed})
	}
}

func gestureCancelHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg.Project.CancelGesture()
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeGestureError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gesture.ErrClipNotFound):
		WriteError(w, http.StatusNotFound, "clip not found", "NOT_FOUND")
	case errors.Is(err, gesture.ErrGestureActive):
		WriteError(w, http.StatusConflict, "another gesture is active", "CONFLICT")
	case errors.Is(err, gesture.ErrNoGesture):
		WriteError(w, http.StatusConflict, "no active gesture", "CONFLICT")
	default:
		WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
	}
}
