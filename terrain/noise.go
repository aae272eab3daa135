package terrain

import (
	"math"
	"math/rand"
)

// PerlinNoise generates coherent 2D noise values.
type PerlinNoise struct {
	perm [512]int
}

// NewPerlinNoise creates a new Perlin noise generator.
func NewPerlinNoise(seed int64) *PerlinNoise {
	p := &PerlinNoise{}
	rng := rand.New(rand.NewSource(seed))

	// Initialize permutation table
	var perm [256]int
	for i := range perm {
		perm[i] = i
	}

	// Shuffle
	for i := len(perm) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}

	// Duplicate
	for i := 0; i < 256; i++ {
		p.perm[i] = perm[i]
		p.perm[i+256] = perm[i]
	}

	return p
}

// Noise2D returns a noise value in [-1, 1] for 2D coordinates.
func (p *PerlinNoise) Noise2D(x, y float64) float64 {
	// Find unit square
	X := int(math.Floor(x)) & 255
	Y := int(math.Floor(y)) & 255

	// Relative position in square
	x -= math.Floor(x)
	y -= math.Floor(y)

	// Fade curves
	u := fade(x)
	v := fade(y)

	// Hash coordinates of square corners
	A := p.perm[X] + Y
	B := p.perm[X+1] + Y

	return lerp(v,
		lerp(u, grad2(p.perm[A], x, y), grad2(p.perm[B], x-1, y)),
		lerp(u, grad2(p.perm[A+1], x, y-1), grad2(p.perm[B+1], x-1, y-1)),
	)
}

// FBM returns fractal Brownian motion: octaves of noise summed with
// decreasing amplitude, normalized to roughly [-1, 1].
func (p *PerlinNoise) FBM(x, y float64, octaves int, lacunarity, gain float64) float64 {
	var sum, amp, norm float64
	amp = 1
	freq := 1.0
	for i := 0; i < octaves; i++ {
		sum += amp * p.Noise2D(x*freq, y*freq)
		norm += amp
		amp *= gain
		freq *= lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

func grad2(hash int, x, y float64) float64 {
	switch hash & 3 {
	case 0:
		return x + y
	case 1:
		return -x + y
	case 2:
		return x - y
	default:
		return -x - y
	}
}
