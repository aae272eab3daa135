// Package selection arbitrates unit click events into exactly-once
// double-click actions.
//
// Click events can arrive from outside the engine's tick loop (a host
// callback on another goroutine), and the original two-handler design
// raced: both handlers could see the "second" click and fire twice. Here
// every event funnels through one channel into a single consumer, so
// exactly one goroutine ever evaluates the state machine.
package selection

import (
	"log/slog"
	"time"
)

// ClickEvent is a transient unit click. The timestamp travels with the
// event so arbitration does not depend on queue latency.
type ClickEvent struct {
	Unit             uint32
	CursorX, CursorY float32
	At               time.Time
}

// Params are the arbitration tunables, re-read per event so config
// reloads take effect without restarting the consumer.
type Params struct {
	// Window is the maximum time between two clicks on the same unit.
	Window time.Duration

	// Travel is the maximum cursor distance in pixels between the two
	// clicks; a drag is not a double-click.
	Travel float32
}

// fsm is the pure double-click state machine: Idle, or armed by a first
// click on a specific unit.
type fsm struct {
	armed   bool
	unit    uint32
	armTime time.Time
	armX    float32
	armY    float32
}

// observe feeds one event through the state machine and reports whether a
// double-click fires.
func (f *fsm) observe(ev ClickEvent, p Params) bool {
	// Producers on different goroutines can deliver a pair out of order;
	// the carried timestamps, not arrival order, decide the window.
	gap := ev.At.Sub(f.armTime)
	if gap < 0 {
		gap = -gap
	}
	if f.armed &&
		ev.Unit == f.unit &&
		gap <= p.Window &&
		within(ev.CursorX-f.armX, ev.CursorY-f.armY, p.Travel) {
		f.armed = false
		return true
	}

	// Different unit, expired window, or idle: this click becomes the new
	// first click.
	f.armed = true
	f.unit = ev.Unit
	f.armTime = ev.At
	f.armX = ev.CursorX
	f.armY = ev.CursorY
	return false
}

func within(dx, dy, r float32) bool {
	if r <= 0 {
		return true
	}
	return dx*dx+dy*dy <= r*r
}

// Arbiter owns the event channel and the consumer goroutine.
type Arbiter struct {
	events  chan ClickEvent
	params  func() Params
	fire    func(unit uint32)
	log     *slog.Logger
	done    chan struct{}
	stopped chan struct{}
}

// NewArbiter starts the consumer. params is called per event (typically a
// closure over the config store); fire runs on the consumer goroutine,
// exactly once per double-click.
func NewArbiter(params func() Params, fire func(unit uint32), log *slog.Logger) *Arbiter {
	a := &Arbiter{
		events:  make(chan ClickEvent, 64),
		params:  params,
		fire:    fire,
		log:     log,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go a.run()
	return a
}

// Offer hands an event to the arbiter without blocking the caller. Events
// are dropped if the queue is full; a host input callback must never stall
// on the engine.
func (a *Arbiter) Offer(ev ClickEvent) {
	select {
	case a.events <- ev:
	case <-a.done:
	default:
		a.log.Warn("click queue full, dropping event", "unit", ev.Unit)
	}
}

// Close stops the consumer after it drains in-flight events.
func (a *Arbiter) Close() {
	close(a.done)
	<-a.stopped
}

func (a *Arbiter) run() {
	defer close(a.stopped)
	var state fsm
	for {
		select {
		case ev := <-a.events:
			if state.observe(ev, a.params()) {
				a.fire(ev.Unit)
			}
		case <-a.done:
			// Drain whatever was queued before shutdown.
			for {
				select {
				case ev := <-a.events:
					if state.observe(ev, a.params()) {
						a.fire(ev.Unit)
					}
				default:
					return
				}
			}
		}
	}
}
