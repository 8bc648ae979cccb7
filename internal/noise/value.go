// Package noise provides deterministic 2D value noise. Output depends only on
// the inputs; there is no seed state and no global RNG.
package noise

import "math"

// Value returns smooth noise in [0,1) at (x, y) with features roughly scale
// world units across. scale <= 0 is treated as 1.
func Value(x, y, scale float64) float64 {
	if scale <= 0 {
		scale = 1
	}
	return value2D(x/scale, y/scale)
}

// Octave is one layer of a fractal sum.
type Octave struct {
	Scale  float64
	Weight float64
	// Offset decorrelates layers that share a scale.
	OffsetX, OffsetY float64
}

// Fractal sums octaves and normalises by the total weight, so the result
// stays in [0,1).
func Fractal(x, y float64, octaves []Octave) float64 {
	var sum, total float64
	for _, o := range octaves {
		sum += o.Weight * Value(x+o.OffsetX, y+o.OffsetY, o.Scale)
		total += o.Weight
	}
	if total == 0 {
		return 0
	}
	return sum / total
}

// value2D is lattice value noise with hermite interpolation.
func value2D(x, y float64) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	xf := x - x0
	yf := y - y0

	// Hermite smoothstep.
	u := xf * xf * (3 - 2*xf)
	v := yf * yf * (3 - 2*yf)

	n00 := lattice(x0, y0)
	n10 := lattice(x0+1, y0)
	n01 := lattice(x0, y0+1)
	n11 := lattice(x0+1, y0+1)

	nx0 := n00*(1-u) + n10*u
	nx1 := n01*(1-u) + n11*u
	return nx0*(1-v) + nx1*v
}

// lattice hashes an integer lattice point into [0,1).
func lattice(x, y float64) float64 {
	h := math.Sin(x*127.1+y*311.7) * 43758.5453
	return h - math.Floor(h)
}

// Smoothstep is the cubic hermite ramp clamped to [0,1].
func Smoothstep(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}
