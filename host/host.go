// Package host defines the boundary between the camera control engine and
// the game process it is spliced into. The engine only ever talks to the
// host through the Port interface; everything behind it (memory hooking,
// input plumbing, rendering) is the host integration's problem.
package host

import "github.com/pthm-cable/battlecam/camera"

// MaxInputCode is the size of the raw key state table. Codes below
// MouseCodeOffset+8 are reserved for mouse buttons (code = button + 1),
// keyboard codes start at 32 as in the usual virtual key / raylib layouts.
const MaxInputCode = 512

// MouseCodeOffset maps mouse button b to input code b+1, so button state
// and key state share one table and one keybinding namespace.
const MouseCodeOffset = 1

// RawInput is a point-in-time copy of the host's input device state.
// It carries raw codes only; mapping codes to logical actions is the
// engine's job, driven by the active keybinding config.
type RawInput struct {
	// Down[code] reports whether the key or mouse button with that input
	// code is currently held.
	Down [MaxInputCode]bool

	// Cursor position in host screen coordinates.
	CursorX, CursorY float32

	// Scroll is the wheel movement accumulated since the previous read.
	Scroll float32
}

// CameraKind identifies the host's native camera mode. The freecam engine
// requires the host to be in KindTotalControl before it takes over, since
// only that mode exposes a directly writable transform.
type CameraKind uint8

const (
	KindUnknown CameraKind = iota
	// KindTotalControl is the host camera mode with a fully writable
	// position and look target.
	KindTotalControl
	// KindOrbit and KindRTS are host-managed modes the engine never writes
	// under.
	KindOrbit
	KindRTS
)

func (k CameraKind) String() string {
	switch k {
	case KindTotalControl:
		return "total-control"
	case KindOrbit:
		return "orbit"
	case KindRTS:
		return "rts"
	default:
		return "unknown"
	}
}

// Port is the read/write boundary into the host's camera and input state.
//
// All methods must be non-blocking and cheap: they are called once per
// engine tick from the engine's own goroutine, and the host may call into
// the engine from its frame loop at the same time. Implementations are
// responsible for their own synchronization.
type Port interface {
	// Ready reports whether the host is in a state where camera fields can
	// be read and written (e.g. a battle is loaded). When false the engine
	// keeps ticking but skips the write step.
	Ready() bool

	// ReadInput returns a snapshot of the host's raw input state.
	ReadInput() RawInput

	// ReadCamera returns the host's current camera transform, if readable.
	ReadCamera() (camera.Transform, bool)

	// CameraKind returns the host's active camera mode.
	CameraKind() CameraKind

	// ForceCameraKind asks the host to switch camera modes. The switch may
	// not be visible until a later tick; the engine absorbs that with its
	// Transitioning state.
	ForceCameraKind(CameraKind)

	// WriteCamera replaces the host camera transform. The full transform
	// (position and orientation together) is handed over in one call so the
	// host never observes a torn update mid-frame.
	WriteCamera(camera.Transform)
}
