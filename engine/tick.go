package engine

import (
	"time"

	"github.com/pthm-cable/battlecam/camera"
	"github.com/pthm-cable/battlecam/config"
	"github.com/pthm-cable/battlecam/host"
)

// positionEps is the squared-distance threshold for detecting that the
// host moved the camera behind the engine's back since the last write.
const positionEps = 1e-3

// step runs one tick of the pipeline against a single config snapshot.
// A reload triggered mid-tick publishes a new snapshot for the next tick;
// this tick finishes on the values it started with.
func (e *Engine) step(cfg *config.Config, now time.Time, dt time.Duration) {
	if !e.port.Ready() {
		// Host memory is not safe to touch. Smoothing still decays toward
		// rest so velocity does not freeze and then lurch on recovery, but
		// nothing is written and no mode transitions happen.
		if e.mode == ModeFreecamActive {
			e.tickFreecam(cfg, Snapshot{At: now}, now, dt, false)
		}
		e.smp.reset()
		e.publishStatus()
		return
	}

	snap := e.smp.sample(e.port.ReadInput(), cfg.Keybinds, now)

	if snap.ReloadChord {
		if err := e.store.Reload(); err != nil {
			e.log.Warn("config reload failed, keeping previous", "err", err)
		} else {
			e.log.Info("config reloaded")
		}
	}

	switch e.mode {
	case ModeHostControlled:
		if !snap.Freecam {
			break
		}
		if kind := e.port.CameraKind(); kind != host.KindTotalControl {
			e.port.ForceCameraKind(host.KindTotalControl)
			e.mode = ModeTransitioning
			e.log.Debug("forcing camera kind", "was", kind)
			break
		}
		if e.engage() {
			e.tickFreecam(cfg, snap, now, dt, true)
		}

	case ModeTransitioning:
		if !snap.Freecam {
			e.mode = ModeHostControlled
			break
		}
		// Wait for the host to acknowledge the forced kind before writing
		// anything; writing into the switch gap destabilizes the host.
		if e.port.CameraKind() == host.KindTotalControl && e.engage() {
			e.tickFreecam(cfg, snap, now, dt, true)
		}

	case ModeFreecamActive:
		if !snap.Freecam {
			e.mode = ModeHostControlled
			e.hasWritten = false
			e.log.Debug("freecam released, host back in control")
			break
		}
		e.tickFreecam(cfg, snap, now, dt, true)
	}

	e.publishStatus()
}

// engage seeds the freecam state from the host's current camera so control
// takes over without a visible jump. Reports whether the takeover happened.
func (e *Engine) engage() bool {
	t, ok := e.port.ReadCamera()
	if !ok {
		return false
	}
	e.cam.SyncFrom(t)
	if h, valid := e.oracle.Sample(t.X, t.Y); valid {
		e.cam.LastTerrain = h
		e.cam.HasTerrain = true
		e.cam.HeightOffset = t.Z - h
	}
	e.hasWritten = false
	e.mode = ModeFreecamActive
	e.log.Debug("freecam engaged", "x", t.X, "y", t.Y, "z", t.Z)
	return true
}

// tickFreecam runs the motion pipeline: resync, smooth, integrate,
// constrain, clamp, write.
func (e *Engine) tickFreecam(cfg *config.Config, snap Snapshot, now time.Time, dt time.Duration, write bool) {
	// If the host moved the camera since our last write (cutscene, script),
	// resync instead of fighting it.
	if write && e.hasWritten {
		if t, ok := e.port.ReadCamera(); ok && driftExceeds(t, e.lastWritten) {
			e.cam.SyncFrom(t)
			if h, valid := e.oracle.Sample(t.X, t.Y); valid {
				e.cam.LastTerrain = h
				e.cam.HasTerrain = true
				e.cam.HeightOffset = t.Z - h
			}
			e.log.Debug("external camera move, resynced")
		}
	}

	clearance := float32(0)
	clearanceKnown := false
	if e.cam.HasTerrain {
		clearance = e.cam.Z - e.cam.LastTerrain
		clearanceKnown = true
	}

	camera.Step(&e.cam, snap.Move, filterParams(cfg, snap), dt, clearance, clearanceKnown)

	height, valid := e.oracle.Sample(e.cam.X, e.cam.Y)
	guardParams(cfg).Apply(&e.cam, height, valid, snap.Move, now, dt)

	e.cam.ClampExtent(float32(cfg.World.Extent))

	if write {
		e.port.WriteCamera(e.cam.Transform)
		e.lastWritten = e.cam.Transform
		e.hasWritten = true
	}
}

func driftExceeds(a, b camera.Transform) bool {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return dx*dx+dy*dy+dz*dz > positionEps
}

// filterParams derives one tick's motion tunables from a config snapshot
// and the sampled modifier keys.
func filterParams(cfg *config.Config, snap Snapshot) camera.Params {
	mult := float32(1)
	if snap.Fast {
		mult = float32(cfg.Camera.FastMultiplier)
	} else if snap.Slow {
		mult = float32(cfg.Camera.SlowMultiplier)
	}

	return camera.Params{
		HorizontalSmoothing: float32(cfg.Camera.HorizontalSmoothing),
		VerticalSmoothing:   float32(cfg.Camera.VerticalSmoothing),
		RotationSmoothing:   float32(cfg.Camera.PanSmoothing),

		HorizontalSpeed: float32(cfg.Camera.HorizontalBaseSpeed) * mult,
		VerticalSpeed:   float32(cfg.Camera.VerticalBaseSpeed) * mult,
		RotateSpeed:     float32(cfg.Camera.RotateSpeed) * mult,

		Sensitivity:  float32(cfg.Camera.Sensitivity),
		InvertMouse:  cfg.Camera.Inverted,
		InvertScroll: cfg.Camera.InvertedScroll,

		ReferenceTick: cfg.Derived.ReferenceTick,

		Taper: camera.Taper{
			Curve:      cfg.Derived.TaperCurve,
			FullHeight: float32(cfg.Camera.GroundDistance.FullHeight),
			MinScale:   float32(cfg.Camera.GroundDistance.MinScale),
		},
	}
}

func guardParams(cfg *config.Config) camera.GroundGuard {
	return camera.GroundGuard{
		PreventClipping:   cfg.Camera.PreventGroundClipping,
		Margin:            float32(cfg.Camera.GroundClipMargin),
		MaintainHeight:    cfg.Camera.MaintainRelativeHeight,
		PanningDelay:      cfg.Derived.PanningDelay,
		VerticalSmoothing: float32(cfg.Camera.VerticalSmoothing),
		ReferenceTick:     cfg.Derived.ReferenceTick,
	}
}
