// Package ui runs the system tray: a glanceable transport state plus a
// quit affordance. Everything else happens in the editor UI over HTTP.
package ui

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/getlantern/systray"

	"github.com/cutroom/cutroom-agent/internal/timeline"
)

type Tray struct {
	manager *timeline.Manager
	logger  *slog.Logger

	transportItem *systray.MenuItem
	clipsItem     *systray.MenuItem
	playItem      *systray.MenuItem

	mu sync.Mutex

	unsubscribe func()
	onQuit      func()
}

type TrayConfig struct {
	Manager *timeline.Manager
	Logger  *slog.Logger
	OnQuit  func()
}

func NewTray(cfg TrayConfig) *Tray {
	return &Tray{
		manager: cfg.Manager,
		logger:  cfg.Logger,
		onQuit:  cfg.OnQuit,
	}
}

func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(iconBytes)
	systray.SetTitle("Cutroom")
	systray.SetTooltip("Cutroom Agent")

	t.transportItem = systray.AddMenuItem("Stopped", "Current transport state")
	t.transportItem.Disable()

	t.clipsItem = systray.AddMenuItem("Clips: 0", "Clips on the timeline")
	t.clipsItem.Disable()

	systray.AddSeparator()

	t.playItem = systray.AddMenuItem("Play", "Toggle playback")

	systray.AddSeparator()

	quitItem := systray.AddMenuItem("Quit", "Quit Cutroom Agent")

	t.unsubscribe = t.manager.OnTimelineChange(func(snap timeline.Snapshot) {
		t.refresh(snap)
	})
	t.refreshNow()

	go func() {
		for {
			select {
			case <-t.playItem.ClickedCh:
				t.togglePlayback()
			case <-quitItem.ClickedCh:
				t.logger.Info("quit requested from tray")
				if t.onQuit != nil {
					t.onQuit()
				}
				systray.Quit()
				return
			}
		}
	}()

	t.logger.Info("system tray ready")
}

func (t *Tray) onExit() {
	if t.unsubscribe != nil {
		t.unsubscribe()
	}
	t.logger.Info("system tray exiting")
}

func (t *Tray) togglePlayback() {
	playing := !t.manager.Playing()
	t.manager.SetPlaying(playing)
	t.refreshNow()
}

func (t *Tray) refreshNow() {
	t.refresh(timeline.Snapshot{
		Cells:   t.manager.Cells(),
		Playing: t.manager.Playing(),
	})
}

func (t *Tray) refresh(snap timeline.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.transportItem == nil {
		return
	}

	if snap.Playing {
		t.transportItem.SetTitle("Playing")
		t.playItem.SetTitle("Pause")
	} else {
		t.transportItem.SetTitle("Stopped")
		t.playItem.SetTitle("Play")
	}
	t.clipsItem.SetTitle(fmt.Sprintf("Clips: %d", len(snap.Cells)))
}

func (t *Tray) Quit() {
	systray.Quit()
}
