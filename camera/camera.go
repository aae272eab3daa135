// Package camera implements the motion core of the freecam engine: the
// camera state owned by the control loop, time-correct exponential motion
// smoothing, and the terrain constraints (ground-clip prevention and
// relative-height maintenance).
//
// Everything in this package is pure math over explicit inputs. Nothing
// here touches the host, the clock, or any shared state, which keeps the
// smoothing and constraint behavior testable without real-time waits.
package camera

import (
	"math"
	"time"
)

// MaxPitch is the pitch clamp in radians, slightly short of straight up or
// down so the look direction never degenerates.
const MaxPitch = (math.Pi / 2) * 0.9

// Transform is a full camera pose: world position plus orientation.
// It is always read and written as one value so the host never sees a
// position from one tick paired with an orientation from another.
type Transform struct {
	X, Y, Z          float32
	Yaw, Pitch, Roll float32
}

// Velocity is the smoothed translational and rotational velocity, in world
// units and radians per second.
type Velocity struct {
	X, Y, Z    float32
	Yaw, Pitch float32
}

// State is the camera state owned exclusively by the engine goroutine.
// It is mutated once per tick and crosses into host memory only through
// the single WriteCamera call.
type State struct {
	Transform
	Vel Velocity

	// LastTerrain is the most recent valid terrain height under the camera,
	// kept as a fallback for ticks where the terrain oracle is unavailable.
	LastTerrain float32
	HasTerrain  bool

	// HeightOffset is the relative-height target: the vertical clearance
	// above terrain captured the last time vertical control was used.
	HeightOffset float32

	// Panning debounce state for relative-height maintenance.
	PanningActive  bool
	PanningStarted time.Time
}

// SyncFrom resets the state to a host-provided transform, discarding all
// smoothing and terrain memory. Used when freecam engages and when the
// host moves the camera behind the engine's back.
func (s *State) SyncFrom(t Transform) {
	s.Transform = t
	s.Vel = Velocity{}
	s.HasTerrain = false
	s.LastTerrain = 0
	s.HeightOffset = 0
	s.PanningActive = false
	s.PanningStarted = time.Time{}
}

// ClampExtent restricts the camera's horizontal position to ±extent on
// both axes. An extent of zero disables the clamp.
func (s *State) ClampExtent(extent float32) {
	if extent <= 0 {
		return
	}
	s.X = clamp(s.X, -extent, extent)
	s.Y = clamp(s.Y, -extent, extent)
}

// decay returns the fraction of the old value that survives one tick of
// exponential smoothing: coeff^(dt/refTick). A coefficient tuned at the
// reference tick duration produces the same convergence curve at any
// actual update rate.
func decay(coeff float32, dt time.Duration, refTick float32) float32 {
	if coeff <= 0 {
		return 0
	}
	n := float64(dt.Seconds()) / float64(refTick)
	return float32(math.Pow(float64(coeff), n))
}

// smooth moves cur toward target with the given per-reference-tick decay.
func smooth(cur, target, coeff float32, dt time.Duration, refTick float32) float32 {
	return target + (cur-target)*decay(coeff, dt, refTick)
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
