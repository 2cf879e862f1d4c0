package timeline

import (
	"sync"
	"time"
)

// Ticker drives the master clock. Start begins delivering ticks to fn
// until Stop; starting a running ticker is a no-op, as is stopping a
// stopped one. The Manager computes elapsed time itself from wall-clock
// timestamps, so a Ticker only has to fire "often enough".
type Ticker interface {
	Start(fn func())
	Stop()
}

// FrameTicker delivers ticks at a fixed interval from a background
// goroutine, standing in for the browser's animation-frame callback.
type FrameTicker struct {
	interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
}

// NewFrameTicker returns a FrameTicker. Intervals <= 0 default to 16ms.
func NewFrameTicker(interval time.Duration) *FrameTicker {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	return &FrameTicker{interval: interval}
}

func (t *FrameTicker) Start(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		return
	}

	stop := make(chan struct{})
	t.stop = stop

	go func() {
		tick := time.NewTicker(t.interval)
		defer tick.Stop()
		for {
			select {
			case <-stop:
				return
			case <-tick.C:
				fn()
			}
		}
	}()
}

func (t *FrameTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop == nil {
		return
	}
	close(t.stop)
	t.stop = nil
}

// ManualTicker is a deterministic tick source for tests: ticks happen
// only when Tick is called, and only while started.
type ManualTicker struct {
	mu      sync.Mutex
	fn      func()
	running bool
}

func NewManualTicker() *ManualTicker {
	return &ManualTicker{}
}

func (t *ManualTicker) Start(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}
	t.fn = fn
	t.running = true
}

func (t *ManualTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	t.fn = nil
}

// Tick fires one tick if the ticker is running.
func (t *ManualTicker) Tick() {
	t.mu.Lock()
	fn := t.fn
	t.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Running reports whether the clock loop currently owns this ticker.
func (t *ManualTicker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}
