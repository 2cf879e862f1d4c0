package export

// ExportRequest is the body of POST /export.
type ExportRequest struct {
	Title     string  `json:"title"`
	FrameRate float64 `json:"frame_rate"`
	OutputDir string  `json:"output_dir"`
}

// ExportResponse reports where the EDL landed and which clips could not
// be resolved to library media.
type ExportResponse struct {
	Status          string   `json:"status"`
	OutputPath      string   `json:"output_path"`
	CutCount        int      `json:"cut_count"`
	UnresolvedClips []string `json:"unresolved_clips,omitempty"`
}
