package main

import (
	"math"
	"time"

	"github.com/pthm-cable/battlecam/camera"
	"github.com/pthm-cable/battlecam/config"
)

// settleFraction is the velocity fraction counted as "arrived".
const settleFraction = 0.99

// Targets are the desired response times, in seconds, for each smoothed
// axis: how long a held key should take to reach settleFraction of full
// speed (and, symmetrically, how long release takes to bleed off).
type Targets struct {
	Horizontal float64
	Vertical   float64
	Rotation   float64
}

// Evaluator scores smoothing coefficient candidates by simulating the
// motion filter offline at the configured tick rate.
type Evaluator struct {
	cfg     *config.Config
	targets Targets
	rate    int
}

func NewEvaluator(cfg *config.Config, targets Targets) *Evaluator {
	return &Evaluator{cfg: cfg, targets: targets, rate: cfg.UpdateRate}
}

// Evaluate returns the summed squared error between simulated settle times
// and the targets for a candidate [horizontal, vertical, rotation] vector.
// Out-of-range coefficients get a steep penalty instead of a crash so the
// optimizer can wander freely.
func (e *Evaluator) Evaluate(coeffs []float64) float64 {
	total := 0.0
	for i, target := range []float64{e.targets.Horizontal, e.targets.Vertical, e.targets.Rotation} {
		c := coeffs[i]
		if c <= 0.01 || c >= 0.999 {
			total += 100 + math.Abs(c-0.9)*100
			continue
		}
		settle := e.settleTime(float32(c), axis(i))
		d := settle - target
		total += d * d
	}
	return total
}

type axis int

const (
	axisHorizontal axis = iota
	axisVertical
	axisRotation
)

// settleTime simulates holding one input until the corresponding velocity
// reaches settleFraction of its limit and returns the elapsed seconds.
func (e *Evaluator) settleTime(coeff float32, a axis) float64 {
	var s camera.State
	dt := time.Second / time.Duration(e.rate)

	p := camera.Params{
		HorizontalSmoothing: coeff,
		VerticalSmoothing:   coeff,
		RotationSmoothing:   coeff,
		HorizontalSpeed:     float32(e.cfg.Camera.HorizontalBaseSpeed),
		VerticalSpeed:       float32(e.cfg.Camera.VerticalBaseSpeed),
		RotateSpeed:         float32(e.cfg.Camera.RotateSpeed),
		ReferenceTick:       e.cfg.Derived.ReferenceTick,
	}

	var in camera.Move
	var limit float32
	switch a {
	case axisHorizontal:
		in.Forward = true
		limit = p.HorizontalSpeed
	case axisVertical:
		in.Up = true
		limit = p.VerticalSpeed
	case axisRotation:
		in.RotateLeft = true
		limit = p.RotateSpeed
	}

	maxTicks := e.rate * 30
	for tick := 1; tick <= maxTicks; tick++ {
		camera.Step(&s, in, p, dt, 0, false)
		var v float32
		switch a {
		case axisHorizontal:
			v = float32(math.Hypot(float64(s.Vel.X), float64(s.Vel.Y)))
		case axisVertical:
			v = s.Vel.Z
		case axisRotation:
			v = s.Vel.Yaw
		}
		if v >= settleFraction*limit {
			return float64(tick) / float64(e.rate)
		}
	}
	return 30
}
