package camera

import (
	"math"
	"testing"
	"time"
)

const tick = time.Second / 144

func clipGuard() GroundGuard {
	return GroundGuard{
		PreventClipping: true,
		Margin:          1.3,
		ReferenceTick:   1.0 / 144.0,
	}
}

func heightGuard() GroundGuard {
	return GroundGuard{
		MaintainHeight:    true,
		PanningDelay:      250 * time.Millisecond,
		VerticalSmoothing: 0.92,
		ReferenceTick:     1.0 / 144.0,
	}
}

func TestClampBelowMargin(t *testing.T) {
	g := clipGuard()
	base := time.Unix(0, 0)

	cases := []struct {
		z    float32
		want float32
	}{
		{5.0, 11.3},  // below terrain: clamped to height+margin
		{11.0, 11.3}, // inside the margin: clamped
		{11.3, 11.3}, // exactly at the bound: unchanged
		{20.0, 20.0}, // above: untouched
	}
	for _, tc := range cases {
		s := State{Transform: Transform{Z: tc.z}}
		g.Apply(&s, 10.0, true, Move{}, base, tick)
		if s.Z != tc.want {
			t.Errorf("z=%f: got %f, want %f", tc.z, s.Z, tc.want)
		}
	}
}

func TestClampUsesLastKnownHeight(t *testing.T) {
	g := clipGuard()
	base := time.Unix(0, 0)

	s := State{Transform: Transform{Z: 20}}
	g.Apply(&s, 10.0, true, Move{}, base, tick)

	// Oracle drops out while the camera sinks; the stale height still
	// clamps.
	s.Z = 5
	g.Apply(&s, 0, false, Move{}, base.Add(tick), tick)
	if s.Z != 11.3 {
		t.Errorf("fallback clamp got %f, want 11.3", s.Z)
	}
}

func TestNoTerrainEverSampledNoClamp(t *testing.T) {
	g := clipGuard()
	s := State{Transform: Transform{Z: -50}}
	g.Apply(&s, 0, false, Move{}, time.Unix(0, 0), tick)
	if s.Z != -50 {
		t.Errorf("no valid sample ever: position must be untouched, got %f", s.Z)
	}
}

func TestVerticalInputCapturesOffset(t *testing.T) {
	g := heightGuard()
	s := State{Transform: Transform{Z: 17}}

	g.Apply(&s, 10.0, true, Move{Up: true}, time.Unix(0, 0), tick)
	if s.HeightOffset != 7 {
		t.Errorf("offset = %f, want 7", s.HeightOffset)
	}
	if s.Z != 17 {
		t.Errorf("no correction while vertical input is held, z = %f", s.Z)
	}
}

func TestHeightCorrectionConverges(t *testing.T) {
	g := heightGuard()
	s := State{Transform: Transform{Z: 15}, HeightOffset: 5}
	now := time.Unix(0, 0)

	// Terrain rises to 13; camera should settle at 13+5 without input.
	for i := 0; i < 1000; i++ {
		g.Apply(&s, 13.0, true, Move{}, now, tick)
		now = now.Add(tick)
	}
	if math.Abs(float64(s.Z-18)) > 0.05 {
		t.Errorf("z = %f, want ~18", s.Z)
	}
}

func TestPanningDelaySuppressesCorrection(t *testing.T) {
	g := heightGuard()
	s := State{Transform: Transform{Z: 5}, HeightOffset: 5}
	now := time.Unix(0, 0)

	// Settled on flat ground at offset 5.
	g.Apply(&s, 0, true, Move{}, now, tick)
	if s.Z != 5 {
		t.Fatalf("expected settled state, z = %f", s.Z)
	}

	// Panning starts and the terrain steps up to 3 at the same time.
	// During the delay window no correction may happen at all.
	pan := Move{Forward: true}
	delayTicks := int(g.PanningDelay / tick)
	for i := 0; i < delayTicks-1; i++ {
		now = now.Add(tick)
		g.Apply(&s, 3.0, true, pan, now, tick)
		if s.Z != 5 {
			t.Fatalf("corrected during delay window at tick %d: z = %f", i, s.Z)
		}
	}

	// After the window elapses the camera converges to the new target.
	for i := 0; i < 2000; i++ {
		now = now.Add(tick)
		g.Apply(&s, 3.0, true, pan, now, tick)
	}
	if math.Abs(float64(s.Z-8)) > 0.05 {
		t.Errorf("z = %f, want ~8 after delay + convergence", s.Z)
	}
}

func TestPanningRestartResetsDelay(t *testing.T) {
	g := heightGuard()
	s := State{Transform: Transform{Z: 5}, HeightOffset: 5}
	now := time.Unix(0, 0)

	// First pan, then release long enough for the window to expire.
	g.Apply(&s, 0, true, Move{Forward: true}, now, tick)
	now = now.Add(time.Second)
	g.Apply(&s, 0, true, Move{}, now, tick)

	// A new pan must re-arm the suppression from its own start time.
	now = now.Add(tick)
	g.Apply(&s, 2.0, true, Move{Forward: true}, now, tick)
	if s.Z != 5 {
		t.Errorf("fresh pan should suppress correction, z = %f", s.Z)
	}
}

func TestClampRaisesOffset(t *testing.T) {
	g := clipGuard()
	g.MaintainHeight = true
	g.VerticalSmoothing = 0.92
	s := State{Transform: Transform{Z: 0}, HeightOffset: 0.5}

	g.Apply(&s, 10.0, true, Move{}, time.Unix(0, 0), tick)
	if s.Z != 11.3 {
		t.Errorf("z = %f, want 11.3", s.Z)
	}
	if s.HeightOffset < g.Margin {
		t.Errorf("offset %f should be raised to at least the margin %f", s.HeightOffset, g.Margin)
	}
}
