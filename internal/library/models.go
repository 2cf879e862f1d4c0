// Package library manages the media library backing the timeline: the
// files a user has registered, their probed metadata, and whether they
// are still present on disk. Clips reference media by id; the library
// owns media lifetime, the timeline does not.
package library

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	KindImage = "image"
	KindVideo = "video"
)

// Media is one registered library item. Duration is the raw source
// length in seconds; for images it holds the configured default since a
// still has no intrinsic duration.
type Media struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Path      string    `json:"path"`
	Filename  string    `json:"filename"`
	Duration  float64   `json:"duration"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Size      int64     `json:"size"`
	Present   bool      `json:"present"`
	CreatedAt time.Time `json:"created_at"`
}

var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// NewID returns a new media identifier.
func NewID() string {
	return uuid.NewString()
}

// KindForFile returns the media kind for a filename, or false when the
// extension is not a supported media type.
func KindForFile(filename string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case videoExtensions[ext]:
		return KindVideo, true
	case imageExtensions[ext]:
		return KindImage, true
	default:
		return "", false
	}
}
