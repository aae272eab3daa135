package terrain

import (
	"math"
	"math/rand"
)

// HeightfieldParams controls procedural heightfield generation.
type HeightfieldParams struct {
	// Extent is the half-size of the square field; valid coordinates are
	// [-Extent, Extent] on both axes.
	Extent float32

	// Resolution is the grid dimension (Resolution x Resolution cells).
	Resolution int

	BaseHeight float64
	Amplitude  float64

	// Scale is the number of noise periods across the field.
	Scale      float64
	Octaves    int
	Lacunarity float64
	Gain       float64

	// TerraceStep quantizes heights into discrete steps, producing the
	// cliff discontinuities the clip guard has to cope with. Zero keeps
	// the field smooth.
	TerraceStep float64
}

// DefaultHeightfieldParams are tuned for a battle-map sized field with a
// few plateau cliffs.
func DefaultHeightfieldParams() HeightfieldParams {
	return HeightfieldParams{
		Extent:      900,
		Resolution:  256,
		BaseHeight:  10,
		Amplitude:   35,
		Scale:       4,
		Octaves:     4,
		Lacunarity:  2.0,
		Gain:        0.5,
		TerraceStep: 6,
	}
}

// Heightfield is a procedural ground surface with bilinear sampling.
// Queries outside the field's extent report ok == false, exercising the
// engine's last-known-height fallback near map edges.
type Heightfield struct {
	extent   float32
	n        int
	cell     float32
	heights  []float32
	min, max float32
}

// NewHeightfield generates a heightfield from fractal noise.
func NewHeightfield(seed int64, p HeightfieldParams) *Heightfield {
	if p.Resolution < 2 {
		p.Resolution = 2
	}
	noise := NewPerlinNoise(seed)
	rng := rand.New(rand.NewSource(seed))
	// Random noise-space offset so equal params with different seeds
	// still diverge beyond the permutation shuffle.
	ox := rng.Float64() * 64
	oy := rng.Float64() * 64

	h := &Heightfield{
		extent:  p.Extent,
		n:       p.Resolution,
		cell:    2 * p.Extent / float32(p.Resolution-1),
		heights: make([]float32, p.Resolution*p.Resolution),
		min:     float32(math.Inf(1)),
		max:     float32(math.Inf(-1)),
	}

	for gy := 0; gy < p.Resolution; gy++ {
		for gx := 0; gx < p.Resolution; gx++ {
			nx := ox + float64(gx)/float64(p.Resolution-1)*p.Scale
			ny := oy + float64(gy)/float64(p.Resolution-1)*p.Scale
			v := noise.FBM(nx, ny, p.Octaves, p.Lacunarity, p.Gain)
			height := p.BaseHeight + v*p.Amplitude
			if p.TerraceStep > 0 {
				height = math.Floor(height/p.TerraceStep) * p.TerraceStep
			}
			f := float32(height)
			h.heights[gy*p.Resolution+gx] = f
			if f < h.min {
				h.min = f
			}
			if f > h.max {
				h.max = f
			}
		}
	}
	return h
}

// Sample returns the bilinearly interpolated ground height at (x, y).
func (h *Heightfield) Sample(x, y float32) (float32, bool) {
	if x < -h.extent || x > h.extent || y < -h.extent || y > h.extent {
		return 0, false
	}

	fx := (x + h.extent) / h.cell
	fy := (y + h.extent) / h.cell
	gx := int(fx)
	gy := int(fy)
	if gx >= h.n-1 {
		gx = h.n - 2
	}
	if gy >= h.n-1 {
		gy = h.n - 2
	}
	tx := fx - float32(gx)
	ty := fy - float32(gy)

	h00 := h.heights[gy*h.n+gx]
	h10 := h.heights[gy*h.n+gx+1]
	h01 := h.heights[(gy+1)*h.n+gx]
	h11 := h.heights[(gy+1)*h.n+gx+1]

	top := h00 + (h10-h00)*tx
	bottom := h01 + (h11-h01)*tx
	return top + (bottom-top)*ty, true
}

// Extent returns the half-size of the field.
func (h *Heightfield) Extent() float32 { return h.extent }

// Bounds returns the minimum and maximum generated heights.
func (h *Heightfield) Bounds() (min, max float32) { return h.min, h.max }

// At returns the raw grid height, for rendering.
func (h *Heightfield) At(gx, gy int) float32 { return h.heights[gy*h.n+gx] }

// Resolution returns the grid dimension.
func (h *Heightfield) Resolution() int { return h.n }
