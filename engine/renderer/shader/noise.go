package shader

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Noise is a deterministic 2D noise source returning values in [0, 1].
type Noise interface {
	Eval2(x, y float64) float64
}

// NewSimplexNoise returns OpenSimplex noise normalised to [0, 1].
//
// Parameters:
//   - seed: the permutation seed; equal seeds produce identical noise
//
// Returns:
//   - Noise: the noise source, safe for concurrent use
func NewSimplexNoise(seed int64) Noise {
	return opensimplex.NewNormalized(seed)
}

// constantNoise stands in when no noise source is configured.
type constantNoise float64

func (c constantNoise) Eval2(_, _ float64) float64 {
	return float64(c)
}

// fractal sums octaves of n at doubling frequency and halving amplitude, normalised back to [0, 1].
func fractal(n Noise, x, y float64, octaves int) float32 {
	var sum, amp, norm float64 = 0, 1, 0
	for range octaves {
		sum += n.Eval2(x, y) * amp
		norm += amp
		amp *= 0.5
		x *= 2
		y *= 2
	}
	return float32(sum / norm)
}
