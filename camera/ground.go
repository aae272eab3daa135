package camera

import "time"

// GroundGuard applies the terrain constraints to a candidate camera state
// after motion integration: relative-height maintenance first, then the
// hard ground-clip clamp. All tunables come from one config snapshot.
type GroundGuard struct {
	PreventClipping bool
	Margin          float32

	MaintainHeight bool
	// PanningDelay suppresses height correction for this long after
	// horizontal movement begins, so terrain changes under a deliberate
	// pan do not jolt the camera.
	PanningDelay      time.Duration
	VerticalSmoothing float32
	ReferenceTick     float32
}

// Apply adjusts the candidate position in s against the terrain sample
// (height, valid) taken at the candidate X/Y. An invalid sample falls back
// to the last known height rather than skipping the constraints, so one
// bad oracle read can never permit clip-through.
func (g GroundGuard) Apply(s *State, height float32, valid bool, in Move, now time.Time, dt time.Duration) {
	if valid {
		s.LastTerrain = height
		s.HasTerrain = true
	}
	if !s.HasTerrain {
		return
	}
	ground := s.LastTerrain

	// Track when horizontal panning starts; the timestamp is compared
	// against now each tick instead of arming a timer callback.
	if in.Horizontal() {
		if !s.PanningActive {
			s.PanningStarted = now
		}
		s.PanningActive = true
	} else {
		s.PanningActive = false
	}

	if g.MaintainHeight {
		if in.Vertical() {
			// Player is actively adjusting height: capture the new target
			// offset instead of correcting.
			s.HeightOffset = s.Z - ground
		} else if !g.suppressed(s, now) {
			target := ground + s.HeightOffset
			s.Z = smooth(s.Z, target, g.VerticalSmoothing, dt, g.ReferenceTick)
		}
	}

	if g.PreventClipping {
		if min := ground + g.Margin; s.Z < min {
			// Clamp fully every tick; smoothing across a cliff edge would
			// drag the camera through the wall.
			s.Z = min
			if g.MaintainHeight && s.HeightOffset < g.Margin {
				s.HeightOffset = g.Margin
			}
		}
	}
}

// suppressed reports whether height correction is currently debounced by
// the panning delay.
func (g GroundGuard) suppressed(s *State, now time.Time) bool {
	if g.PanningDelay <= 0 || s.PanningStarted.IsZero() {
		return false
	}
	return now.Sub(s.PanningStarted) < g.PanningDelay
}
