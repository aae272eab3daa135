// Package telemetry tracks the engine's tick timing and writes structured
// experiment output.
package telemetry

import "time"

// PerfCollector tracks tick durations over a rolling window and counts
// budget overruns. It is owned by the engine goroutine; no locking.
type PerfCollector struct {
	windowSize  int
	samples     []time.Duration
	writeIndex  int
	sampleCount int
	tickStart   time.Time

	ticks    int64
	overruns int64
}

// NewPerfCollector creates a collector averaging over windowSize ticks
// (e.g. 144 for one second at 144 Hz).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 144
	}
	return &PerfCollector{
		windowSize: windowSize,
		samples:    make([]time.Duration, windowSize),
	}
}

// StartTick begins timing a tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
}

// EndTick records the tick's duration against its budget and reports
// whether the budget was overrun.
func (p *PerfCollector) EndTick(budget time.Duration) bool {
	d := time.Since(p.tickStart)
	p.record(d, budget)
	return d > budget
}

func (p *PerfCollector) record(d, budget time.Duration) {
	p.samples[p.writeIndex] = d
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
	p.ticks++
	if d > budget {
		p.overruns++
	}
}

// Avg returns the mean tick duration over the window.
func (p *PerfCollector) Avg() time.Duration {
	if p.sampleCount == 0 {
		return 0
	}
	var total time.Duration
	for i := 0; i < p.sampleCount; i++ {
		total += p.samples[i]
	}
	return total / time.Duration(p.sampleCount)
}

// Max returns the worst tick duration in the window.
func (p *PerfCollector) Max() time.Duration {
	var max time.Duration
	for i := 0; i < p.sampleCount; i++ {
		if p.samples[i] > max {
			max = p.samples[i]
		}
	}
	return max
}

// Ticks returns the total number of recorded ticks.
func (p *PerfCollector) Ticks() int64 { return p.ticks }

// Overruns returns how many ticks exceeded their budget since start.
func (p *PerfCollector) Overruns() int64 { return p.overruns }

// Window returns a snapshot row suitable for CSV output.
func (p *PerfCollector) Window() PerfRow {
	return PerfRow{
		Tick:     p.ticks,
		AvgMs:    float64(p.Avg()) / float64(time.Millisecond),
		MaxMs:    float64(p.Max()) / float64(time.Millisecond),
		Overruns: p.overruns,
	}
}
