package camera

import (
	"math"
	"time"
)

// Move is one tick's worth of raw movement input, already mapped from key
// codes to logical actions by the input sampler.
type Move struct {
	Forward, Backward, Left, Right bool
	Up, Down                       bool
	RotateLeft, RotateRight        bool

	// Cursor delta for mouse-look, in host screen pixels.
	MouseDX, MouseDY float32

	// Wheel movement this tick.
	Scroll float32
}

// Horizontal reports whether any horizontal movement key is held.
func (m Move) Horizontal() bool {
	return m.Forward || m.Backward || m.Left || m.Right
}

// Vertical reports whether vertical control is being used this tick.
func (m Move) Vertical() bool {
	return m.Up || m.Down || m.Scroll != 0
}

// TaperCurve selects the shape of the ground-distance speed taper. The
// exact curve is a tunable, not a fixed design choice.
type TaperCurve uint8

const (
	TaperOff TaperCurve = iota
	TaperLinear
	TaperSmoothstep
)

// Taper scales movement speed down as the camera approaches the ground,
// so fine positioning stays possible at low altitude.
type Taper struct {
	Curve TaperCurve

	// FullHeight is the clearance at or above which speed is unscaled.
	FullHeight float32

	// MinScale is the speed fraction retained at ground level.
	MinScale float32
}

// Scale returns the speed multiplier for the given clearance above ground.
// Unknown clearance (no valid terrain sample yet) leaves speed unscaled.
func (t Taper) Scale(clearance float32, known bool) float32 {
	if t.Curve == TaperOff || !known || t.FullHeight <= 0 {
		return 1
	}
	f := clamp(clearance/t.FullHeight, 0, 1)
	if t.Curve == TaperSmoothstep {
		f = f * f * (3 - 2*f)
	}
	return t.MinScale + (1-t.MinScale)*f
}

// Params are the motion filter tunables for a single tick. They are
// derived from one immutable config snapshot, so a mid-tick reload can
// never mix old and new values.
type Params struct {
	HorizontalSmoothing float32
	VerticalSmoothing   float32
	RotationSmoothing   float32

	// Speeds are in world units (or radians) per second, with any fast or
	// slow modifier already applied.
	HorizontalSpeed float32
	VerticalSpeed   float32
	RotateSpeed     float32

	// Mouse-look sensitivity and axis inversion.
	Sensitivity  float32
	InvertMouse  bool
	InvertScroll bool

	// ReferenceTick is the tick duration the smoothing coefficients were
	// tuned at, in seconds. Actual dt is normalized against it so the feel
	// does not depend on the update rate.
	ReferenceTick float32

	Taper Taper
}

// Step advances the smoothed velocity toward this tick's target velocity
// and integrates the result into the transform. clearance is the camera's
// current height above terrain, used only for the speed taper.
func Step(s *State, in Move, p Params, dt time.Duration, clearance float32, clearanceKnown bool) {
	if dt <= 0 {
		return
	}

	scale := p.Taper.Scale(clearance, clearanceKnown)

	// Horizontal target direction in world space, relative to yaw.
	var dx, dy float32
	if in.Forward {
		dx += cosf(s.Yaw)
		dy += sinf(s.Yaw)
	}
	if in.Backward {
		dx += cosf(s.Yaw + math.Pi)
		dy += sinf(s.Yaw + math.Pi)
	}
	if in.Left {
		dx += cosf(s.Yaw + math.Pi/2)
		dy += sinf(s.Yaw + math.Pi/2)
	}
	if in.Right {
		dx += cosf(s.Yaw + 3*math.Pi/2)
		dy += sinf(s.Yaw + 3*math.Pi/2)
	}
	if l := float32(math.Hypot(float64(dx), float64(dy))); l > 0 {
		dx /= l
		dy /= l
	}

	var dz float32
	if in.Up {
		dz += 1
	}
	if in.Down {
		dz -= 1
	}

	hs := p.HorizontalSpeed * scale
	vs := p.VerticalSpeed * scale
	s.Vel.X = smooth(s.Vel.X, dx*hs, p.HorizontalSmoothing, dt, p.ReferenceTick)
	s.Vel.Y = smooth(s.Vel.Y, dy*hs, p.HorizontalSmoothing, dt, p.ReferenceTick)
	s.Vel.Z = smooth(s.Vel.Z, dz*vs, p.VerticalSmoothing, dt, p.ReferenceTick)

	// Scroll is an impulse, not a held state: signed square gives fast
	// flicks more authority without touching slow single notches.
	if in.Scroll != 0 {
		sd := in.Scroll
		if p.InvertScroll {
			sd = -sd
		}
		s.Vel.Z += sd * absf(sd) * vs / 10
	}

	// Rotation: keys drive a target rate, the mouse adds a decaying
	// impulse scaled by how much smoothing will bleed off per tick.
	var yawRate float32
	if in.RotateLeft {
		yawRate += p.RotateSpeed
	}
	if in.RotateRight {
		yawRate -= p.RotateSpeed
	}
	s.Vel.Yaw = smooth(s.Vel.Yaw, yawRate, p.RotationSmoothing, dt, p.ReferenceTick)
	s.Vel.Pitch = smooth(s.Vel.Pitch, 0, p.RotationSmoothing, dt, p.ReferenceTick)

	if in.MouseDX != 0 || in.MouseDY != 0 {
		inv := float32(1)
		if p.InvertMouse {
			inv = -1
		}
		gain := p.Sensitivity * (1 - p.RotationSmoothing) / 500
		s.Vel.Yaw -= inv * in.MouseDX * gain
		s.Vel.Pitch -= inv * in.MouseDY * gain
	}

	secs := float32(dt.Seconds())
	s.X += s.Vel.X * secs
	s.Y += s.Vel.Y * secs
	s.Z += s.Vel.Z * secs
	s.Yaw = normalizeAngle(s.Yaw + s.Vel.Yaw*secs)
	s.Pitch = clamp(s.Pitch+s.Vel.Pitch*secs, -MaxPitch, MaxPitch)
}

// normalizeAngle wraps angle to [-pi, pi].
func normalizeAngle(a float32) float32 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

func sinf(a float32) float32 { return float32(math.Sin(float64(a))) }
func cosf(a float32) float32 { return float32(math.Cos(float64(a))) }

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
