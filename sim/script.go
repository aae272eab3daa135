package sim

import (
	"sync"

	"github.com/pthm-cable/battlecam/camera"
	"github.com/pthm-cable/battlecam/host"
)

// ScriptStep holds one phase of a headless input script: the codes held
// down for a number of engine ticks.
type ScriptStep struct {
	Hold  []int
	Ticks int
}

// ScriptedHost is a deterministic host.Port for headless runs: it plays a
// fixed input script and advances one step per ReadInput call, which the
// engine makes exactly once per tick.
type ScriptedHost struct {
	mu sync.Mutex

	steps []ScriptStep
	index int
	left  int

	cam  camera.Transform
	kind host.CameraKind
}

// NewScriptedHost creates a scripted host starting at the given transform.
func NewScriptedHost(start camera.Transform, steps []ScriptStep) *ScriptedHost {
	s := &ScriptedHost{
		steps: steps,
		cam:   start,
		kind:  host.KindRTS,
	}
	if len(steps) > 0 {
		s.left = steps[0].Ticks
	}
	return s
}

// Done reports whether the script has been fully consumed.
func (s *ScriptedHost) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index >= len(s.steps)
}

// Ready implements host.Port.
func (s *ScriptedHost) Ready() bool { return true }

// ReadInput implements host.Port, advancing the script by one tick.
func (s *ScriptedHost) ReadInput() host.RawInput {
	s.mu.Lock()
	defer s.mu.Unlock()

	var raw host.RawInput
	if s.index < len(s.steps) {
		for _, code := range s.steps[s.index].Hold {
			if code > 0 && code < host.MaxInputCode {
				raw.Down[code] = true
			}
		}
		s.left--
		if s.left <= 0 {
			s.index++
			if s.index < len(s.steps) {
				s.left = s.steps[s.index].Ticks
			}
		}
	}
	return raw
}

// ReadCamera implements host.Port.
func (s *ScriptedHost) ReadCamera() (camera.Transform, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cam, true
}

// CameraKind implements host.Port.
func (s *ScriptedHost) CameraKind() host.CameraKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kind
}

// ForceCameraKind implements host.Port.
func (s *ScriptedHost) ForceCameraKind(k host.CameraKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kind = k
}

// WriteCamera implements host.Port.
func (s *ScriptedHost) WriteCamera(t camera.Transform) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = t
}

// Camera returns the current transform.
func (s *ScriptedHost) Camera() camera.Transform {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cam
}
