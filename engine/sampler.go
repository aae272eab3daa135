package engine

import (
	"time"

	"github.com/pthm-cable/battlecam/camera"
	"github.com/pthm-cable/battlecam/config"
	"github.com/pthm-cable/battlecam/host"
)

// Snapshot is the immutable per-tick view of user input, already mapped
// from raw input codes to logical actions. One Snapshot is produced per
// tick and never mutated afterwards.
type Snapshot struct {
	Move camera.Move

	Fast, Slow bool

	// Freecam reports the freecam key being held.
	Freecam bool

	// ReloadChord is true only on the tick the reload chord becomes fully
	// held, so holding it does not retrigger every tick.
	ReloadChord bool

	At time.Time
}

// sampler turns raw host input into Snapshots. It owns the cursor history
// used for mouse-look deltas and the chord edge state. Engine-goroutine
// only.
type sampler struct {
	prevX, prevY float32
	havePrev     bool
	chordHeld    bool
}

func (sm *sampler) sample(raw host.RawInput, kb config.KeybindsConfig, now time.Time) Snapshot {
	down := func(code int) bool {
		return code > 0 && code < host.MaxInputCode && raw.Down[code]
	}

	s := Snapshot{At: now}
	s.Move = camera.Move{
		Forward:     down(kb.Forward),
		Backward:    down(kb.Backward),
		Left:        down(kb.Left),
		Right:       down(kb.Right),
		Up:          down(kb.Up),
		Down:        down(kb.Down),
		RotateLeft:  down(kb.RotateLeft),
		RotateRight: down(kb.RotateRight),
		Scroll:      raw.Scroll,
	}
	s.Fast = down(kb.Fast)
	s.Slow = down(kb.Slow)
	s.Freecam = down(kb.Freecam)

	// Mouse-look only while the freecam key is held; otherwise the cursor
	// belongs to the host's own UI.
	if sm.havePrev && s.Freecam {
		s.Move.MouseDX = raw.CursorX - sm.prevX
		s.Move.MouseDY = raw.CursorY - sm.prevY
	}
	sm.prevX = raw.CursorX
	sm.prevY = raw.CursorY
	sm.havePrev = true

	held := len(kb.ReloadChord) > 0
	for _, code := range kb.ReloadChord {
		if !down(code) {
			held = false
			break
		}
	}
	s.ReloadChord = held && !sm.chordHeld
	sm.chordHeld = held

	return s
}

// reset drops cursor history, e.g. across a host-unavailable gap, so the
// first sample afterwards cannot produce a spurious mouse delta.
func (sm *sampler) reset() {
	sm.havePrev = false
	sm.chordHeld = false
}
