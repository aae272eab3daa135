package sim

import (
	"sync"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/battlecam/camera"
	"github.com/pthm-cable/battlecam/host"
)

// Host is the interactive host.Port implementation backed by raylib. The
// render loop feeds it from the main goroutine via CaptureInput while the
// engine reads and writes it from the tick goroutine, so every access goes
// through the mutex.
type Host struct {
	mu sync.Mutex

	ready bool
	input host.RawInput
	cam   camera.Transform
	kind  host.CameraKind
}

// NewHost creates a host with the camera parked above the given point.
func NewHost(x, y, z float32) *Host {
	return &Host{
		ready: true,
		kind:  host.KindRTS,
		cam:   camera.Transform{X: x, Y: y, Z: z, Pitch: -0.6},
	}
}

// CaptureInput samples raylib's input devices for the given bound codes.
// Called once per rendered frame on the main goroutine; raylib input
// functions are not safe to call from anywhere else.
func (h *Host) CaptureInput(codes []int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, code := range codes {
		if code <= 0 || code >= host.MaxInputCode {
			continue
		}
		if code <= host.MouseCodeOffset+7 {
			h.input.Down[code] = rl.IsMouseButtonDown(rl.MouseButton(code - host.MouseCodeOffset))
		} else {
			h.input.Down[code] = rl.IsKeyDown(int32(code))
		}
	}

	pos := rl.GetMousePosition()
	h.input.CursorX = pos.X
	h.input.CursorY = pos.Y

	// Wheel movement accumulates between engine reads; the engine ticks
	// faster than the render loop and must not see the same notch twice.
	h.input.Scroll += rl.GetMouseWheelMove()
}

// SetReady toggles host availability, simulating battle load/unload.
func (h *Host) SetReady(ready bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ready = ready
}

// Ready implements host.Port.
func (h *Host) Ready() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ready
}

// ReadInput implements host.Port. Scroll accumulation drains on read.
func (h *Host) ReadInput() host.RawInput {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := h.input
	h.input.Scroll = 0
	return out
}

// ReadCamera implements host.Port.
func (h *Host) ReadCamera() (camera.Transform, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cam, true
}

// CameraKind implements host.Port.
func (h *Host) CameraKind() host.CameraKind {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.kind
}

// ForceCameraKind implements host.Port. The simulated host acknowledges
// the switch immediately; the real one takes a few frames, which the
// engine's transitioning state absorbs either way.
func (h *Host) ForceCameraKind(k host.CameraKind) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.kind = k
}

// WriteCamera implements host.Port.
func (h *Host) WriteCamera(t camera.Transform) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cam = t
}

// Camera returns the current transform for rendering.
func (h *Host) Camera() camera.Transform {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cam
}

// Teleport moves the camera from outside the engine, simulating a host
// script or cutscene grabbing it.
func (h *Host) Teleport(t camera.Transform) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cam = t
}
