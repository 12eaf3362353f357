package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Coordinates live in [-1, 1]. Two boundary policies keep them there:
//
//   - Wrap leaves [-1, 1) untouched and shifts everything else by multiples of 2.
//     The shortest connection from a to b is Wrap(b - a).
//   - Clamp leaves [-1, 1] untouched and truncates everything else to the edges.

// Wrap maps v into [-1, 1) toroidally.
func Wrap(v float64) float64 {
	return modulo(v+1, 2) - 1
}

// Clamp truncates v into [-1, 1].
func Clamp(v float64) float64 {
	if v < -1 {
		return -1
	} else if v > 1 {
		return 1
	}
	return v
}

// WrapVec applies Wrap to both coordinates.
func WrapVec(p r2.Vec) r2.Vec {
	return r2.Vec{X: Wrap(p.X), Y: Wrap(p.Y)}
}

// ClampVec applies Clamp to both coordinates.
func ClampVec(p r2.Vec) r2.Vec {
	return r2.Vec{X: Clamp(p.X), Y: Clamp(p.Y)}
}

// modulo is a floored modulo for positive b.
// Subtraction is used when a is only a few multiples of b away from [0, b),
// which holds for positions moved by one integration step.
func modulo(a, b float64) float64 {
	if a < -4*b || a >= 4*b {
		a = math.Mod(a, b)
	}
	if a < 0 {
		for a < 0 {
			a += b
		}
		// a tiny negative a can round up to exactly b
		if a >= b {
			a = 0
		}
		return a
	}
	for a >= b {
		a -= b
	}
	return a
}
