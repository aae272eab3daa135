// Package engine implements the camera control loop: a fixed-rate
// scheduler decoupled from the host's frame loop, the freecam state
// machine, and the per-tick pipeline binding input sampling, motion
// smoothing, and terrain constraints to the host's camera fields.
package engine

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pthm-cable/battlecam/camera"
	"github.com/pthm-cable/battlecam/config"
	"github.com/pthm-cable/battlecam/host"
	"github.com/pthm-cable/battlecam/selection"
	"github.com/pthm-cable/battlecam/telemetry"
	"github.com/pthm-cable/battlecam/terrain"
)

// Mode is the engine's camera control state.
type Mode uint8

const (
	// ModeHostControlled leaves the host camera fully in charge.
	ModeHostControlled Mode = iota

	// ModeTransitioning is the one-tick guard after forcing the host's
	// camera kind, absorbing the gap before the host acknowledges the
	// switch. Writing camera state in that gap destabilized the host.
	ModeTransitioning

	// ModeFreecamActive means the engine drives position and orientation
	// every tick.
	ModeFreecamActive
)

func (m Mode) String() string {
	switch m {
	case ModeFreecamActive:
		return "freecam"
	case ModeTransitioning:
		return "transitioning"
	default:
		return "host"
	}
}

// Status is the externally visible engine state, published once per tick
// for HUDs and diagnostics.
type Status struct {
	Mode      Mode
	Transform camera.Transform
	Vel       camera.Velocity
	Offset    float32
	Ticks     int64
	Overruns  int64
}

// Options wire an Engine to its collaborators.
type Options struct {
	Port    host.Port
	Store   *config.Store
	Terrain terrain.Oracle
	Logger  *slog.Logger

	// OnDoubleClick runs on the arbiter goroutine, exactly once per
	// arbitrated double-click. Optional.
	OnDoubleClick func(unit uint32)
}

// Engine owns the camera state and the tick loop. All camera state is
// mutated by the engine goroutine only; the outside world interacts
// through the config store, OfferClick, and the published Status.
type Engine struct {
	port   host.Port
	store  *config.Store
	oracle terrain.Oracle
	log    *slog.Logger
	perf   *telemetry.PerfCollector

	arbiter *selection.Arbiter

	// Engine-goroutine state.
	mode        Mode
	cam         camera.State
	smp         sampler
	lastWritten camera.Transform
	hasWritten  bool
	lastOverLog time.Time

	status atomic.Pointer[Status]

	started  atomic.Bool
	stop     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

// New assembles an engine. It does not start ticking; call Start.
func New(opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	cfg := opts.Store.Current()

	e := &Engine{
		port:    opts.Port,
		store:   opts.Store,
		oracle:  opts.Terrain,
		log:     log,
		perf:    telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	e.status.Store(&Status{})

	fire := func(unit uint32) {
		log.Debug("double-click selection", "unit", unit)
		if opts.OnDoubleClick != nil {
			opts.OnDoubleClick(unit)
		}
	}
	e.arbiter = selection.NewArbiter(func() selection.Params {
		c := opts.Store.Current()
		return selection.Params{
			Window: c.Derived.DoubleClickWindow,
			Travel: float32(c.Selection.ClickTravelPx),
		}
	}, fire, log)

	return e
}

// Start launches the tick loop on its own goroutine.
func (e *Engine) Start() {
	if e.started.Swap(true) {
		return
	}
	go e.run()
}

// Stop shuts the engine down gracefully: the in-flight tick completes,
// then the loop and the click arbiter exit.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		close(e.stop)
		if e.started.Load() {
			<-e.stopped
		} else {
			close(e.stopped)
		}
		e.arbiter.Close()
	})
}

// OfferClick is the single ingestion point for unit click events, safe to
// call from any goroutine, never blocking.
func (e *Engine) OfferClick(ev selection.ClickEvent) {
	e.arbiter.Offer(ev)
}

// Status returns the last published engine state.
func (e *Engine) Status() Status {
	return *e.status.Load()
}

// Perf exposes the tick timing collector for telemetry output.
func (e *Engine) Perf() *telemetry.PerfCollector {
	return e.perf
}

// run is the fixed-rate scheduler. Drift is corrected by sleeping the
// budget minus actual elapsed time; an overrunning tick is followed by at
// most one pipeline per interval, never a catch-up burst.
func (e *Engine) run() {
	defer close(e.stopped)

	var last time.Time
	for {
		select {
		case <-e.stop:
			return
		default:
		}

		cfg := e.store.Current()
		interval := cfg.Derived.TickInterval

		start := time.Now()
		dt := interval
		if !last.IsZero() {
			dt = start.Sub(last)
			if dt <= 0 {
				dt = interval
			}
			// A long stall (debugger, host hitch) must not integrate as
			// one giant step.
			if dt > 4*interval {
				dt = 4 * interval
			}
		}
		last = start

		e.perf.StartTick()
		e.step(cfg, start, dt)
		if e.perf.EndTick(interval) {
			e.noteOverrun(start, interval)
		}

		sleep := interval - time.Since(start)
		if sleep <= 0 {
			continue
		}
		timer := time.NewTimer(sleep)
		select {
		case <-e.stop:
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// noteOverrun logs degraded performance, throttled to once per second so
// a persistently slow host cannot flood the log.
func (e *Engine) noteOverrun(now time.Time, budget time.Duration) {
	if now.Sub(e.lastOverLog) < time.Second {
		return
	}
	e.lastOverLog = now
	e.log.Warn("tick overran its budget",
		"budget", budget,
		"overruns", e.perf.Overruns(),
		"avg", e.perf.Avg(),
		"max", e.perf.Max())
}

func (e *Engine) publishStatus() {
	e.status.Store(&Status{
		Mode:      e.mode,
		Transform: e.cam.Transform,
		Vel:       e.cam.Vel,
		Offset:    e.cam.HeightOffset,
		Ticks:     e.perf.Ticks(),
		Overruns:  e.perf.Overruns(),
	})
}
