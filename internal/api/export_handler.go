package api

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/cutroom/cutroom-agent/internal/export"
	"github.com/cutroom/cutroom-agent/internal/library"
)

func exportHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req export.ExportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		if err := export.ValidateOutputDir(req.OutputDir); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		cells := cfg.Project.Manager().Cells()
		if len(cells) == 0 {
			WriteError(w, http.StatusBadRequest, "timeline is empty", "BAD_REQUEST")
			return
		}

		title := export.SanitizeName(req.Title, 120)
		if title == "" {
			title = "cutroom_export"
		}

		frameRate := req.FrameRate
		if frameRate <= 0 {
			frameRate = 30.0
		}

		cuts, unresolved := export.FromTimeline(cells, func(id string) *library.Media {
			media, err := cfg.Library.Get(r.Context(), id)
			if err != nil {
				return nil
			}
			return media
		})

		if len(cuts) == 0 {
			WriteError(w, http.StatusUnprocessableEntity, "no clips could be resolved", "UNRESOLVABLE_CLIPS")
			return
		}

		edl := export.GenerateEDL(cuts, title, frameRate)
		outputPath := filepath.Join(req.OutputDir, title+".edl")
		if err := os.WriteFile(outputPath, []byte(edl), 0o644); err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to write export file", "INTERNAL_ERROR")
			return
		}

		WriteJSON(w, http.StatusOK, export.ExportResponse{
			Status:          "ok",
			OutputPath:      outputPath,
			CutCount:        len(cuts),
			UnresolvedClips: unresolved,
		})
	}
}
