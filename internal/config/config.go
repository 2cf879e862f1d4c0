// Package config provides configuration management for the Cutroom Agent.
// Configuration is loaded from environment variables with sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	// Default values
	DefaultPort     = 8790
	DefaultLogLevel = "info"
	DefaultDataDir  = ".cutroom"

	// Environment variable names
	EnvPort     = "CUTROOM_PORT"
	EnvLogLevel = "CUTROOM_LOG_LEVEL"
	EnvDataDir  = "CUTROOM_DATA_DIR"
	EnvFFmpeg   = "CUTROOM_FFMPEG"
	EnvFFprobe  = "CUTROOM_FFPROBE"
	EnvHeadless = "CUTROOM_HEADLESS"

	// Database filename
	DBFilename = "cutroom.db"

	// Cache settings
	DefaultCacheMaxBytes = 2 * 1024 * 1024 * 1024 // 2GB of keyframe thumbnails

	// Timeline defaults
	DefaultImageDurationS = 3.0                   // still images placed on the timeline
	DefaultFrameInterval  = 16 * time.Millisecond // master clock tick (~60fps)
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	DBPath() string
	CacheDir() string
	CacheMaxBytes() int64
	FFmpegPath() string
	FFprobePath() string
	Headless() bool
	ImageDuration() float64
	FrameInterval() time.Duration
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	port          int
	logLevel      string
	dataDir       string
	cacheMaxBytes int64
	ffmpegPath    string
	ffprobePath   string
	headless      bool
}

// New creates a new EnvConfig with defaults and environment variable overrides
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		port:          DefaultPort,
		logLevel:      DefaultLogLevel,
		dataDir:       defaultDataDir(),
		cacheMaxBytes: DefaultCacheMaxBytes,
	}

	// Override port from environment
	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
		}
		cfg.port = port
	}

	// Override log level from environment
	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}

	// Override data directory from environment
	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	cfg.ffmpegPath = os.Getenv(EnvFFmpeg)
	cfg.ffprobePath = os.Getenv(EnvFFprobe)

	if h := os.Getenv(EnvHeadless); h != "" {
		headless, err := strconv.ParseBool(h)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvHeadless, err)
		}
		cfg.headless = headless
	}

	return cfg, nil
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// CacheDir returns the keyframe cache directory path
func (c *EnvConfig) CacheDir() string {
	return filepath.Join(c.dataDir, "cache")
}

// CacheMaxBytes returns the maximum keyframe cache size in bytes
func (c *EnvConfig) CacheMaxBytes() int64 {
	return c.cacheMaxBytes
}

// FFmpegPath returns the configured ffmpeg binary path, or "ffmpeg" to
// resolve via PATH.
func (c *EnvConfig) FFmpegPath() string {
	if c.ffmpegPath != "" {
		return c.ffmpegPath
	}
	return "ffmpeg"
}

// FFprobePath returns the configured ffprobe binary path, or "ffprobe" to
// resolve via PATH.
func (c *EnvConfig) FFprobePath() string {
	if c.ffprobePath != "" {
		return c.ffprobePath
	}
	return "ffprobe"
}

// Headless reports whether the system tray should be skipped
func (c *EnvConfig) Headless() bool {
	return c.headless
}

// ImageDuration returns the timeline duration assigned to still images
func (c *EnvConfig) ImageDuration() float64 {
	return DefaultImageDurationS
}

// FrameInterval returns the master clock tick interval
func (c *EnvConfig) FrameInterval() time.Duration {
	return DefaultFrameInterval
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
