// Package terrain provides the terrain height oracle consumed by the
// camera control engine, and a procedural heightfield implementation used
// by the demo host and tests.
package terrain

// Oracle answers ground-height queries at world coordinates. A sample may
// be momentarily unavailable (e.g. the host has not streamed that region
// in yet); callers must treat ok == false as transient and fall back to
// their own last known height.
type Oracle interface {
	Sample(x, y float32) (height float32, ok bool)
}

// OracleFunc adapts a plain function to the Oracle interface.
type OracleFunc func(x, y float32) (float32, bool)

func (f OracleFunc) Sample(x, y float32) (float32, bool) { return f(x, y) }

// Flat returns an oracle for perfectly level ground at the given height.
func Flat(height float32) Oracle {
	return OracleFunc(func(x, y float32) (float32, bool) {
		return height, true
	})
}
