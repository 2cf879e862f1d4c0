package timeline

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/cutroom/cutroom-agent/internal/zoom"
)

const (
	// boundaryEpsilon treats a global time exactly on a clip boundary as
	// the start of that clip, not the end of the previous one.
	boundaryEpsilon = 0.001

	// maxFrameDelta is the largest wall-clock delta one tick may advance
	// the playhead. Larger deltas (backgrounded tab, first frame after a
	// seek) are anomalous and skipped.
	maxFrameDelta = 0.1
)

// MoveValidation is the advisory result of ValidateClipMove.
// SuggestedTime is meaningful only when Valid is false: it nudges the
// move to just after the first conflicting clip's end.
type MoveValidation struct {
	Valid         bool    `json:"valid"`
	Conflicts     []Clip  `json:"conflicts"`
	SuggestedTime float64 `json:"suggested_time"`
}

// Manager owns the virtual timeline: the clip list sorted by start time,
// the global playhead, the play/pause master clock, and the mapping
// between global time and clip-local time. All methods are safe for
// concurrent use; every mutation is applied fully under the lock and
// observers are notified afterwards, in subscription order, so no
// subscriber ever sees a half-applied state.
type Manager struct {
	mu            sync.Mutex
	cells         []Clip
	currentTime   float64
	playing       bool
	totalDuration float64
	zoomSys       *zoom.System
	ticker        Ticker
	now           func() time.Time
	lastTick      time.Time
	logger        *slog.Logger

	timelineObs *registry[Snapshot]
	timeObs     *registry[float64]
	playerObs   *registry[PlayerInstruction]
}

// NewManager creates a Manager. A nil ticker gets a 16ms FrameTicker; a
// nil zoom system gets the normal level.
func NewManager(zoomSys *zoom.System, ticker Ticker, logger *slog.Logger) *Manager {
	if zoomSys == nil {
		zoomSys = zoom.NewSystem(zoom.LevelNormal)
	}
	if ticker == nil {
		ticker = NewFrameTicker(16 * time.Millisecond)
	}
	return &Manager{
		zoomSys:     zoomSys,
		ticker:      ticker,
		now:         time.Now,
		logger:      logger,
		timelineObs: newRegistry[Snapshot](logger),
		timeObs:     newRegistry[float64](logger),
		playerObs:   newRegistry[PlayerInstruction](logger),
	}
}

// Close stops the master clock. Safe to call more than once.
func (m *Manager) Close() {
	m.mu.Lock()
	m.playing = false
	m.mu.Unlock()
	m.ticker.Stop()
}

// UpdateTimeline replaces the clip list. Every edit operation must call
// this after mutating the list. The cells are snapshotted, sorted by
// start time, the total duration recomputed and the playhead clamped back
// into range if the timeline shrank under it.
func (m *Manager) UpdateTimeline(cells []Clip) {
	m.mu.Lock()
	next := cloneCells(cells)
	sort.SliceStable(next, func(i, j int) bool {
		return next[i].StartTime < next[j].StartTime
	})
	m.cells = next
	m.totalDuration = TotalDuration(next)
	if m.currentTime > m.totalDuration {
		m.currentTime = m.totalDuration
	}
	if m.currentTime < 0 {
		m.currentTime = 0
	}

	if m.logger != nil {
		for _, p := range Validate(next) {
			m.logger.Warn("timeline integrity", "problem", p)
		}
	}

	snap := m.snapshotLocked()
	instr := m.instructionLocked()
	m.mu.Unlock()

	m.timelineObs.notify(snap)
	m.playerObs.notify(instr)
}

// GlobalTimeToClipPosition maps a global timeline time onto the clip that
// should be showing at that time. The input is clamped to
// [0, totalDuration]. A time exactly at the end of a non-empty timeline
// returns the last clip frozen on its final frame. Nil is returned only
// for an empty timeline or a genuine gap.
func (m *Manager) GlobalTimeToClipPosition(globalTime float64) *ClipPosition {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clipPositionLocked(globalTime)
}

func (m *Manager) clipPositionLocked(globalTime float64) *ClipPosition {
	if len(m.cells) == 0 {
		return nil
	}

	t := clamp(globalTime, 0, m.totalDuration)

	for i, c := range m.cells {
		eff := EffectiveDuration(c)
		if t >= c.StartTime-boundaryEpsilon && t < c.StartTime+eff-boundaryEpsilon {
			return &ClipPosition{
				ClipIndex:     i,
				Clip:          c,
				ClipTime:      clamp(t-c.StartTime, 0, eff),
				ClipStartTime: c.StartTime,
				ClipEndTime:   c.StartTime + eff,
			}
		}
	}

	// End of timeline: freeze-frame on the last clip.
	if t >= m.totalDuration-boundaryEpsilon {
		last := m.cells[len(m.cells)-1]
		eff := EffectiveDuration(last)
		return &ClipPosition{
			ClipIndex:     len(m.cells) - 1,
			Clip:          last,
			ClipTime:      eff,
			ClipStartTime: last.StartTime,
			ClipEndTime:   last.StartTime + eff,
		}
	}

	// A gap. Should not happen when start times are recomputed after
	// every edit, but the mapping must not fail.
	return nil
}

// ClipPositionToGlobalTime is the inverse mapping: a time within clip
// clipIndex translated to global time. ClipTime is clamped to the clip's
// effective duration; an out-of-range index returns 0.
func (m *Manager) ClipPositionToGlobalTime(clipIndex int, clipTime float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if clipIndex < 0 || clipIndex >= len(m.cells) {
		return 0
	}
	c := m.cells[clipIndex]
	return c.StartTime + clamp(clipTime, 0, EffectiveDuration(c))
}

// SetCurrentTime seeks the playhead. The value is clamped into range; a
// no-op seek does not notify. Seeking while playing resets the clock's
// last-tick timestamp so the next frame does not see one huge elapsed
// delta.
func (m *Manager) SetCurrentTime(globalTime float64) {
	m.mu.Lock()
	t := clamp(globalTime, 0, m.totalDuration)
	if t == m.currentTime {
		m.mu.Unlock()
		return
	}
	m.currentTime = t
	if m.playing {
		m.lastTick = m.now()
	}
	snap := m.snapshotLocked()
	cur := m.currentTime
	instr := m.instructionLocked()
	m.mu.Unlock()

	m.timelineObs.notify(snap)
	m.timeObs.notify(cur)
	m.playerObs.notify(instr)
}

// SetPlaying starts or stops the master clock. Starting playback with the
// playhead at the end rewinds to 0 first. Unchanged state is a no-op.
func (m *Manager) SetPlaying(playing bool) {
	m.mu.Lock()
	if playing == m.playing {
		m.mu.Unlock()
		return
	}

	if playing {
		if m.totalDuration > 0 && m.currentTime >= m.totalDuration {
			m.currentTime = 0
		}
		m.playing = true
		m.lastTick = m.now()
		m.ticker.Start(m.tick)
	} else {
		m.playing = false
		m.ticker.Stop()
	}

	snap := m.snapshotLocked()
	cur := m.currentTime
	instr := m.instructionLocked()
	m.mu.Unlock()

	m.timelineObs.notify(snap)
	m.timeObs.notify(cur)
	m.playerObs.notify(instr)
}

// tick is the master clock callback. It advances the playhead by the
// wall-clock delta since the previous tick. Deltas <= 0 or >= maxFrameDelta
// are anomalous and skipped without advancing; the clock keeps running.
// Normal advances apply a lightweight update (current-time and player
// channels only), keeping the full timeline-state channel quiet during
// playback. Reaching the end clamps, stops, and does a full notify.
func (m *Manager) tick() {
	m.mu.Lock()
	if !m.playing {
		m.mu.Unlock()
		return
	}

	nowT := m.now()
	delta := nowT.Sub(m.lastTick).Seconds()
	m.lastTick = nowT

	if delta <= 0 || delta >= maxFrameDelta {
		m.mu.Unlock()
		return
	}

	m.currentTime += delta

	if m.currentTime >= m.totalDuration {
		m.currentTime = m.totalDuration
		m.playing = false
		m.ticker.Stop()

		snap := m.snapshotLocked()
		cur := m.currentTime
		instr := m.instructionLocked()
		m.mu.Unlock()

		m.timelineObs.notify(snap)
		m.timeObs.notify(cur)
		m.playerObs.notify(instr)
		return
	}

	cur := m.currentTime
	instr := m.instructionLocked()
	m.mu.Unlock()

	m.timeObs.notify(cur)
	m.playerObs.notify(instr)
}

// UpdateZoomSystem swaps the zoom level. Time values are untouched but
// every pixel position changes, so subscribers get a full notify.
func (m *Manager) UpdateZoomSystem(zoomSys *zoom.System) {
	if zoomSys == nil {
		return
	}
	m.mu.Lock()
	m.zoomSys = zoomSys
	snap := m.snapshotLocked()
	cur := m.currentTime
	instr := m.instructionLocked()
	m.mu.Unlock()

	m.timelineObs.notify(snap)
	m.timeObs.notify(cur)
	m.playerObs.notify(instr)
}

// GetPlayheadPixelPosition converts a global time to a pixel offset at
// the active zoom level.
func (m *Manager) GetPlayheadPixelPosition(globalTime float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.zoomSys.TimeToPixel(globalTime)
}

// GetTimeFromPixelClick converts a clicked pixel offset to a global time,
// clamped into the timeline's range.
func (m *Manager) GetTimeFromPixelClick(pixels float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clamp(m.zoomSys.PixelToTime(pixels), 0, m.totalDuration)
}

// ZoomSystem returns the active zoom system.
func (m *Manager) ZoomSystem() *zoom.System {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.zoomSys
}

// ValidateClipMove checks a hypothetical new start time for one clip
// against every other clip's current interval. Advisory only - callers
// decide whether to apply the suggestion.
func (m *Manager) ValidateClipMove(clipID string, newStartTime float64) MoveValidation {
	m.mu.Lock()
	defer m.mu.Unlock()

	var moved *Clip
	for i := range m.cells {
		if m.cells[i].ID == clipID {
			moved = &m.cells[i]
			break
		}
	}
	if moved == nil {
		return MoveValidation{Valid: true}
	}

	newEnd := newStartTime + EffectiveDuration(*moved)
	var conflicts []Clip
	for _, other := range m.cells {
		if other.ID == clipID {
			continue
		}
		otherEnd := other.StartTime + EffectiveDuration(other)
		if newStartTime < otherEnd-boundaryEpsilon && newEnd > other.StartTime+boundaryEpsilon {
			conflicts = append(conflicts, other)
		}
	}

	if len(conflicts) == 0 {
		return MoveValidation{Valid: true}
	}

	first := conflicts[0]
	return MoveValidation{
		Valid:         false,
		Conflicts:     conflicts,
		SuggestedTime: first.StartTime + EffectiveDuration(first),
	}
}

// AdjustPlayheadAfterClipMove preserves what the user was watching across
// a rearrange: if the playhead sat inside the moved clip's old interval,
// it is translated by the same relative offset into the new interval.
func (m *Manager) AdjustPlayheadAfterClipMove(clipID string, oldStartTime, newStartTime float64) {
	m.mu.Lock()

	var moved *Clip
	for i := range m.cells {
		if m.cells[i].ID == clipID {
			moved = &m.cells[i]
			break
		}
	}
	if moved == nil {
		m.mu.Unlock()
		return
	}

	eff := EffectiveDuration(*moved)
	if m.currentTime < oldStartTime || m.currentTime >= oldStartTime+eff {
		m.mu.Unlock()
		return
	}

	offset := m.currentTime - oldStartTime
	m.currentTime = clamp(newStartTime+offset, 0, m.totalDuration)
	if m.playing {
		m.lastTick = m.now()
	}

	snap := m.snapshotLocked()
	cur := m.currentTime
	instr := m.instructionLocked()
	m.mu.Unlock()

	m.timelineObs.notify(snap)
	m.timeObs.notify(cur)
	m.playerObs.notify(instr)
}

// CurrentTime returns the global playhead time.
func (m *Manager) CurrentTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentTime
}

// Playing reports whether the master clock is running.
func (m *Manager) Playing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

// TotalDuration returns the derived total length of the timeline.
func (m *Manager) TotalDuration() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totalDuration
}

// Cells returns a snapshot of the clip list in start-time order.
func (m *Manager) Cells() []Clip {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneCells(m.cells)
}

// Instruction returns what the player sink should be showing right now.
func (m *Manager) Instruction() PlayerInstruction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.instructionLocked()
}

// OnTimelineChange subscribes to the timeline-state channel and returns
// the disposer.
func (m *Manager) OnTimelineChange(fn func(Snapshot)) func() {
	return m.timelineObs.subscribe(fn)
}

// OnCurrentTimeChange subscribes to the current-time channel and returns
// the disposer.
func (m *Manager) OnCurrentTimeChange(fn func(float64)) func() {
	return m.timeObs.subscribe(fn)
}

// OnPlayerInstruction subscribes to the player-instruction channel and
// returns the disposer.
func (m *Manager) OnPlayerInstruction(fn func(PlayerInstruction)) func() {
	return m.playerObs.subscribe(fn)
}

func (m *Manager) snapshotLocked() Snapshot {
	return Snapshot{
		Cells:         cloneCells(m.cells),
		TotalDuration: m.totalDuration,
		CurrentTime:   m.currentTime,
		Playing:       m.playing,
	}
}

func (m *Manager) instructionLocked() PlayerInstruction {
	pos := m.clipPositionLocked(m.currentTime)
	if pos == nil {
		return PlayerInstruction{}
	}
	clip := pos.Clip
	return PlayerInstruction{Clip: &clip, SeekTime: pos.ClipTime}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
