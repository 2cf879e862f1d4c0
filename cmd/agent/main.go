package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cutroom/cutroom-agent/internal/api"
	"github.com/cutroom/cutroom-agent/internal/config"
	"github.com/cutroom/cutroom-agent/internal/db"
	"github.com/cutroom/cutroom-agent/internal/gesture"
	"github.com/cutroom/cutroom-agent/internal/keyframes"
	"github.com/cutroom/cutroom-agent/internal/library"
	"github.com/cutroom/cutroom-agent/internal/logging"
	"github.com/cutroom/cutroom-agent/internal/pipeline"
	"github.com/cutroom/cutroom-agent/internal/playback"
	"github.com/cutroom/cutroom-agent/internal/project"
	"github.com/cutroom/cutroom-agent/internal/timeline"
	"github.com/cutroom/cutroom-agent/internal/ui"
	"github.com/cutroom/cutroom-agent/internal/zoom"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func run() error {
	startTime := time.Now()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir(), 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	if err := os.MkdirAll(cfg.CacheDir(), 0755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel())
	logger.Info("starting cutroom agent", "version", config.Version, "data_dir", cfg.DataDir())

	database, err := db.New(cfg.DBPath(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	repo := library.NewRepository(database.Conn())
	clipRepo := project.NewClipRepository(database.Conn())

	deviceID, err := ensureDeviceID(repo)
	if err != nil {
		return fmt.Errorf("failed to ensure device ID: %w", err)
	}

	authToken, err := ensureAuthToken(repo)
	if err != nil {
		return fmt.Errorf("failed to ensure auth token: %w", err)
	}

	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════════════════════════╗")
	fmt.Println("║                    CUTROOM AGENT v0.1.0                   ║")
	fmt.Println("╠═══════════════════════════════════════════════════════════╣")
	fmt.Printf("║  API URL:    http://127.0.0.1:%-27d ║\n", cfg.Port())
	fmt.Printf("║  Auth Token: %-45s ║\n", authToken)
	fmt.Printf("║  Device ID:  %-45s ║\n", deviceID[:16]+"...")
	fmt.Println("╚═══════════════════════════════════════════════════════════╝")
	fmt.Println()

	var ffmpeg pipeline.FFmpeg
	realFF := pipeline.NewRealFFmpeg(cfg.FFmpegPath(), cfg.FFprobePath(), logger)
	if realFF.Available() {
		ffmpeg = realFF
	} else {
		logger.Warn("ffmpeg/ffprobe not found, probing and keyframes disabled")
		ffmpeg = pipeline.NewStubFFmpeg(logger)
	}

	librarySvc := library.NewService(repo, ffmpeg, cfg.ImageDuration(), logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watcher, err := library.NewWatcher(librarySvc, logger)
	if err != nil {
		logger.Warn("filesystem watcher unavailable, presence tracking disabled", "error", err)
	} else {
		defer watcher.Close()
		if items, err := librarySvc.List(ctx); err == nil {
			watched := make(map[string]bool)
			for _, m := range items {
				dir := filepath.Dir(m.Path)
				if watched[dir] {
					continue
				}
				if err := watcher.Add(dir); err != nil {
					logger.Warn("failed to watch media dir", "dir", logging.SanitizePath(dir), "error", err)
					continue
				}
				watched[dir] = true
			}
		}
		librarySvc.SetOnAdded(func(m *library.Media) {
			if err := watcher.Add(filepath.Dir(m.Path)); err != nil {
				logger.Warn("failed to watch media dir", "dir", logging.SanitizePath(filepath.Dir(m.Path)), "error", err)
			}
		})
		go watcher.Run(ctx)
	}

	zoomSys := zoom.NewSystem(zoom.LevelNormal)
	manager := timeline.NewManager(zoomSys, timeline.NewFrameTicker(cfg.FrameInterval()), logger)
	defer manager.Close()

	gestures := gesture.NewController(zoomSys)
	projectSvc := project.NewService(clipRepo, librarySvc, manager, gestures, cfg.ImageDuration(), logger)

	if err := projectSvc.Load(ctx); err != nil {
		return fmt.Errorf("failed to load project: %w", err)
	}

	frameCache := keyframes.NewCache(cfg.CacheMaxBytes(), logger)
	extractor := keyframes.NewExtractor(ffmpeg, frameCache, cfg.CacheDir(), logger)

	apiServer := api.NewServer(api.ServerConfig{
		Port:       cfg.Port(),
		Version:    config.Version,
		Library:    librarySvc,
		Project:    projectSvc,
		Repository: repo,
		Playback:   playback.NewServer(logger),
		Keyframes:  extractor,
		Logger:     logger,
		StartTime:  startTime,
		DeviceID:   deviceID,
	})

	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	quitCh := make(chan struct{})

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received shutdown signal", "signal", sig)
			close(quitCh)
		case <-quitCh:
		}
	}()

	if cfg.Headless() {
		logger.Info("running in headless mode (no system tray)")
	} else {
		tray := ui.NewTray(ui.TrayConfig{
			Manager: manager,
			Logger:  logger,
			OnQuit: func() {
				close(quitCh)
			},
		})
		go tray.Run()
	}

	<-quitCh

	logger.Info("initiating graceful shutdown")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}

func ensureDeviceID(repo library.Repository) (string, error) {
	ctx := context.Background()

	existing, err := repo.GetConfig(ctx, "device_id")
	if err == nil && existing != "" {
		return existing, nil
	}

	idBytes := make([]byte, 16)
	if _, err := rand.Read(idBytes); err != nil {
		return "", err
	}
	deviceID := hex.EncodeToString(idBytes)

	if err := repo.SetConfig(ctx, "device_id", deviceID); err != nil {
		return "", err
	}

	return deviceID, nil
}

func ensureAuthToken(repo library.Repository) (string, error) {
	ctx := context.Background()

	existing, err := repo.GetConfig(ctx, "auth_token")
	if err == nil && existing != "" {
		return existing, nil
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := hex.EncodeToString(tokenBytes)

	if err := repo.SetConfig(ctx, "auth_token", token); err != nil {
		return "", err
	}

	return token, nil
}
