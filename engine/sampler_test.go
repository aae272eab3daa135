package engine

import (
	"testing"
	"time"

	"github.com/pthm-cable/battlecam/config"
	"github.com/pthm-cable/battlecam/host"
)

func testBinds() config.KeybindsConfig {
	return config.KeybindsConfig{
		Forward: 87, Backward: 83, Left: 65, Right: 68,
		Up: 32, Down: 341,
		RotateLeft: 81, RotateRight: 69,
		Fast: 340, Slow: 342,
		Freecam:     2,
		ReloadChord: []int{341, 340, 82},
	}
}

func TestSampleMapsCodesToActions(t *testing.T) {
	var sm sampler
	var raw host.RawInput
	raw.Down[87] = true // forward
	raw.Down[65] = true // left
	raw.Down[2] = true  // freecam (mouse button 1)
	raw.Down[340] = true
	raw.Scroll = -2

	s := sm.sample(raw, testBinds(), time.Now())
	if !s.Move.Forward || !s.Move.Left {
		t.Errorf("movement not mapped: %+v", s.Move)
	}
	if s.Move.Backward || s.Move.Right || s.Move.Up || s.Move.Down {
		t.Errorf("unheld actions reported: %+v", s.Move)
	}
	if !s.Freecam || !s.Fast || s.Slow {
		t.Errorf("modifiers wrong: freecam=%v fast=%v slow=%v", s.Freecam, s.Fast, s.Slow)
	}
	if s.Move.Scroll != -2 {
		t.Errorf("scroll = %v, want -2", s.Move.Scroll)
	}
}

func TestMouseDeltaOnlyWhileFreecamHeld(t *testing.T) {
	var sm sampler
	now := time.Now()

	var raw host.RawInput
	raw.CursorX, raw.CursorY = 100, 100
	raw.Down[2] = true

	// First sample has no previous cursor: no delta even with the key held.
	s := sm.sample(raw, testBinds(), now)
	if s.Move.MouseDX != 0 || s.Move.MouseDY != 0 {
		t.Errorf("delta on first sample: (%v, %v)", s.Move.MouseDX, s.Move.MouseDY)
	}

	raw.CursorX, raw.CursorY = 110, 95
	s = sm.sample(raw, testBinds(), now.Add(tick))
	if s.Move.MouseDX != 10 || s.Move.MouseDY != -5 {
		t.Errorf("delta = (%v, %v), want (10, -5)", s.Move.MouseDX, s.Move.MouseDY)
	}

	// Key released: cursor belongs to the host UI again.
	raw.Down[2] = false
	raw.CursorX = 300
	s = sm.sample(raw, testBinds(), now.Add(2*tick))
	if s.Move.MouseDX != 0 {
		t.Errorf("delta while key up = %v, want 0", s.Move.MouseDX)
	}

	// Re-held: delta resumes from the tracked cursor, not the old one.
	raw.Down[2] = true
	raw.CursorX = 305
	s = sm.sample(raw, testBinds(), now.Add(3*tick))
	if s.Move.MouseDX != 5 {
		t.Errorf("delta after re-hold = %v, want 5", s.Move.MouseDX)
	}
}

func TestReloadChordEdgeTriggered(t *testing.T) {
	var sm sampler
	kb := testBinds()
	now := time.Now()

	var raw host.RawInput
	for _, code := range kb.ReloadChord {
		raw.Down[code] = true
	}

	if s := sm.sample(raw, kb, now); !s.ReloadChord {
		t.Error("chord press edge not reported")
	}
	if s := sm.sample(raw, kb, now.Add(tick)); s.ReloadChord {
		t.Error("held chord retriggered")
	}

	// Partial chord releases it.
	raw.Down[kb.ReloadChord[0]] = false
	if s := sm.sample(raw, kb, now.Add(2*tick)); s.ReloadChord {
		t.Error("partial chord reported")
	}
	raw.Down[kb.ReloadChord[0]] = true
	if s := sm.sample(raw, kb, now.Add(3*tick)); !s.ReloadChord {
		t.Error("re-press edge not reported")
	}
}

func TestResetDropsCursorHistory(t *testing.T) {
	var sm sampler
	kb := testBinds()
	now := time.Now()

	var raw host.RawInput
	raw.Down[2] = true
	raw.CursorX = 100
	sm.sample(raw, kb, now)

	sm.reset()

	// A big jump across the reset must not become a look impulse.
	raw.CursorX = 900
	if s := sm.sample(raw, kb, now.Add(tick)); s.Move.MouseDX != 0 {
		t.Errorf("delta across reset = %v, want 0", s.Move.MouseDX)
	}
}
