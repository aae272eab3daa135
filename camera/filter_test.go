package camera

import (
	"math"
	"testing"
	"time"
)

func testParams() Params {
	return Params{
		HorizontalSmoothing: 0.92,
		VerticalSmoothing:   0.92,
		RotationSmoothing:   0.92,
		HorizontalSpeed:     40,
		VerticalSpeed:       20,
		RotateSpeed:         1.5,
		Sensitivity:         1.0,
		ReferenceTick:       1.0 / 144.0,
	}
}

// run advances the filter n ticks at the given rate with constant input.
func run(s *State, in Move, p Params, rate int, n int) {
	dt := time.Second / time.Duration(rate)
	for i := 0; i < n; i++ {
		Step(s, in, p, dt, 0, false)
	}
}

func TestForwardConvergence(t *testing.T) {
	var s State
	p := testParams()

	// Hold forward for one second at 144 Hz: velocity must reach at least
	// 99% of the target speed.
	run(&s, Move{Forward: true}, p, 144, 144)

	if s.Vel.X < 0.99*p.HorizontalSpeed {
		t.Errorf("expected >= %f after 1s, got %f", 0.99*p.HorizontalSpeed, s.Vel.X)
	}
	if math.Abs(float64(s.Vel.Y)) > 0.001 {
		t.Errorf("expected no lateral velocity at yaw 0, got %f", s.Vel.Y)
	}
}

func TestTickRateInvariance(t *testing.T) {
	p := testParams()

	// The same wall-clock second of held input must produce the same
	// smoothed velocity regardless of update rate.
	rates := []int{60, 144, 240}
	var results []float32
	for _, rate := range rates {
		var s State
		run(&s, Move{Forward: true}, p, rate, rate)
		results = append(results, s.Vel.X)
	}

	for i := 1; i < len(results); i++ {
		if diff := math.Abs(float64(results[i] - results[0])); diff > 0.01 {
			t.Errorf("rate %d diverged from rate %d: %f vs %f",
				rates[i], rates[0], results[i], results[0])
		}
	}
}

func TestDiagonalSpeedNormalized(t *testing.T) {
	var s State
	p := testParams()

	run(&s, Move{Forward: true, Left: true}, p, 144, 500)

	speed := math.Hypot(float64(s.Vel.X), float64(s.Vel.Y))
	if math.Abs(speed-float64(p.HorizontalSpeed)) > 0.5 {
		t.Errorf("diagonal speed %f, want ~%f", speed, p.HorizontalSpeed)
	}
}

func TestMovementFollowsYaw(t *testing.T) {
	var s State
	s.Yaw = math.Pi / 2 // facing +Y
	p := testParams()

	run(&s, Move{Forward: true}, p, 144, 500)

	if s.Vel.Y < 0.99*p.HorizontalSpeed {
		t.Errorf("expected forward along +Y at yaw pi/2, got vel (%f, %f)", s.Vel.X, s.Vel.Y)
	}
	if math.Abs(float64(s.Vel.X)) > 0.1 {
		t.Errorf("expected no +X velocity at yaw pi/2, got %f", s.Vel.X)
	}
}

func TestPitchClamp(t *testing.T) {
	var s State
	p := testParams()

	// Slam the mouse downward for many ticks; pitch must stay clamped.
	for i := 0; i < 2000; i++ {
		Step(&s, Move{MouseDY: -50}, p, time.Second/144, 0, false)
	}
	if s.Pitch > MaxPitch || s.Pitch < -MaxPitch {
		t.Errorf("pitch %f outside clamp ±%f", s.Pitch, float32(MaxPitch))
	}
}

func TestRotateKeysConverge(t *testing.T) {
	var s State
	p := testParams()

	run(&s, Move{RotateLeft: true}, p, 144, 500)
	if s.Vel.Yaw < 0.99*p.RotateSpeed {
		t.Errorf("yaw rate %f, want ~%f", s.Vel.Yaw, p.RotateSpeed)
	}

	// Releasing the key decays the rate back toward zero.
	run(&s, Move{}, p, 144, 500)
	if math.Abs(float64(s.Vel.Yaw)) > 0.01 {
		t.Errorf("yaw rate should decay to ~0, got %f", s.Vel.Yaw)
	}
}

func TestScrollImpulse(t *testing.T) {
	var s State
	p := testParams()

	Step(&s, Move{Scroll: 2}, p, time.Second/144, 0, false)
	if s.Vel.Z <= 0 {
		t.Errorf("scroll up should add upward velocity, got %f", s.Vel.Z)
	}

	var inv State
	p.InvertScroll = true
	Step(&inv, Move{Scroll: 2}, p, time.Second/144, 0, false)
	if inv.Vel.Z >= 0 {
		t.Errorf("inverted scroll should add downward velocity, got %f", inv.Vel.Z)
	}
}

func TestTaperScale(t *testing.T) {
	taper := Taper{Curve: TaperLinear, FullHeight: 10, MinScale: 0.2}

	cases := []struct {
		clearance float32
		known     bool
		want      float32
	}{
		{0, true, 0.2},
		{10, true, 1.0},
		{5, true, 0.6},
		{100, true, 1.0},
		{0, false, 1.0}, // unknown clearance leaves speed unscaled
	}
	for _, tc := range cases {
		got := taper.Scale(tc.clearance, tc.known)
		if math.Abs(float64(got-tc.want)) > 0.001 {
			t.Errorf("Scale(%f, %v) = %f, want %f", tc.clearance, tc.known, got, tc.want)
		}
	}

	off := Taper{Curve: TaperOff}
	if got := off.Scale(0, true); got != 1 {
		t.Errorf("TaperOff should not scale, got %f", got)
	}

	ss := Taper{Curve: TaperSmoothstep, FullHeight: 10, MinScale: 0}
	if got := ss.Scale(5, true); math.Abs(float64(got)-0.5) > 0.001 {
		t.Errorf("smoothstep midpoint = %f, want 0.5", got)
	}
	lin := Taper{Curve: TaperLinear, FullHeight: 10, MinScale: 0}
	if ss.Scale(2.5, true) >= lin.Scale(2.5, true) {
		t.Errorf("smoothstep should undercut linear below the midpoint")
	}
}

func TestTaperSlowsMovement(t *testing.T) {
	p := testParams()
	p.Taper = Taper{Curve: TaperLinear, FullHeight: 10, MinScale: 0.25}

	var high, low State
	for i := 0; i < 500; i++ {
		Step(&high, Move{Forward: true}, p, time.Second/144, 50, true)
		Step(&low, Move{Forward: true}, p, time.Second/144, 0, true)
	}
	if low.Vel.X >= high.Vel.X {
		t.Errorf("low clearance should be slower: %f vs %f", low.Vel.X, high.Vel.X)
	}
	want := 0.25 * p.HorizontalSpeed
	if math.Abs(float64(low.Vel.X-want)) > 0.5 {
		t.Errorf("ground-level speed %f, want ~%f", low.Vel.X, want)
	}
}

func TestSyncFromResetsState(t *testing.T) {
	var s State
	p := testParams()
	run(&s, Move{Forward: true, Up: true}, p, 144, 100)

	s.SyncFrom(Transform{X: 1, Y: 2, Z: 3, Yaw: 0.5})

	if s.X != 1 || s.Y != 2 || s.Z != 3 {
		t.Errorf("transform not adopted: %+v", s.Transform)
	}
	if s.Vel != (Velocity{}) {
		t.Errorf("velocity should be zeroed, got %+v", s.Vel)
	}
	if s.HasTerrain {
		t.Errorf("terrain memory should be discarded")
	}
}

func TestClampExtent(t *testing.T) {
	s := State{Transform: Transform{X: 1200, Y: -950}}
	s.ClampExtent(900)
	if s.X != 900 || s.Y != -900 {
		t.Errorf("got (%f, %f), want (900, -900)", s.X, s.Y)
	}

	s = State{Transform: Transform{X: 1200}}
	s.ClampExtent(0)
	if s.X != 1200 {
		t.Errorf("extent 0 should disable the clamp")
	}
}
