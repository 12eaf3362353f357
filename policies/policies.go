// Package policies provides default collaborators for physics: force laws,
// position and type setters, and matrix generators.
//
// Setters and generators are called only from the goroutine that owns the
// Physics, so they may keep their own random source. Accelerators run on
// worker goroutines and are pure functions.
package policies

import (
	"math"
	"math/rand"

	"github.com/aquilax/go-perlin"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/particlelife/physics"
)

// DefaultBeta is the relative distance below which particles always repel.
const DefaultBeta = 0.3

// Classic returns the piecewise-linear particle-life force law.
// Below beta every pair repels, growing to full strength at distance 0.
// Between beta and 1 the force is a triangle peaking at a halfway between.
func Classic(beta float64) physics.Accelerator {
	return func(a float64, pos r2.Vec) r2.Vec {
		dist := r2.Norm(pos)
		if dist == 0 {
			return r2.Vec{}
		}

		var force float64
		if dist < beta {
			force = dist/beta - 1
		} else if dist < 1 {
			force = a * (1 - math.Abs(2*dist-1-beta)/(1-beta))
		}
		return r2.Scale(force/dist, pos)
	}
}

// UniformPositions places particles uniformly in [-1, 1)².
type UniformPositions struct {
	rng *rand.Rand
}

// NewUniformPositions creates a uniform position setter.
func NewUniformPositions(seed int64) *UniformPositions {
	return &UniformPositions{rng: rand.New(rand.NewSource(seed))}
}

// Position implements physics.PositionSetter.
func (u *UniformPositions) Position(_, _ int) r2.Vec {
	return r2.Vec{X: u.rng.Float64()*2 - 1, Y: u.rng.Float64()*2 - 1}
}

// maxNoiseAttempts bounds rejection sampling in NoisePositions.
const maxNoiseAttempts = 32

// NoisePositions places particles with a density following Perlin noise.
// Each type samples a different region of the noise field, so types start in
// separate patches.
type NoisePositions struct {
	rng   *rand.Rand
	noise *perlin.Perlin
	scale float64
}

// NewNoisePositions creates a noise-shaped position setter. scale is the noise
// frequency across the [-1, 1] domain.
func NewNoisePositions(seed int64, scale float64) *NoisePositions {
	return &NoisePositions{
		rng:   rand.New(rand.NewSource(seed)),
		noise: perlin.NewPerlin(2, 2, 3, seed),
		scale: scale,
	}
}

// Position implements physics.PositionSetter.
func (n *NoisePositions) Position(typ, _ int) r2.Vec {
	var pos r2.Vec
	for i := 0; i < maxNoiseAttempts; i++ {
		pos = r2.Vec{X: n.rng.Float64()*2 - 1, Y: n.rng.Float64()*2 - 1}
		if n.rng.Float64() < n.Density(typ, pos) {
			break
		}
	}
	return pos
}

// Density returns the acceptance probability in [0, 1] for a particle of type typ at pos.
func (n *NoisePositions) Density(typ int, pos r2.Vec) float64 {
	offset := float64(typ) * 7.31
	v := n.noise.Noise2D(pos.X*n.scale+offset, pos.Y*n.scale-offset)
	return math.Max(0, math.Min(1, v+0.5))
}

// UniformTypes picks every type with equal probability.
type UniformTypes struct {
	rng *rand.Rand
}

// NewUniformTypes creates a uniform type setter.
func NewUniformTypes(seed int64) *UniformTypes {
	return &UniformTypes{rng: rand.New(rand.NewSource(seed))}
}

// Type implements physics.TypeSetter.
func (u *UniformTypes) Type(_, _ r2.Vec, _, nTypes int) int {
	return u.rng.Intn(nTypes)
}

// RandomMatrix fills matrices with coefficients drawn uniformly from [-1, 1).
type RandomMatrix struct {
	rng       *rand.Rand
	symmetric bool
}

// NewRandomMatrix creates a random matrix generator. Symmetric matrices make
// every pair of types feel the same attraction towards each other.
func NewRandomMatrix(seed int64, symmetric bool) *RandomMatrix {
	return &RandomMatrix{rng: rand.New(rand.NewSource(seed)), symmetric: symmetric}
}

// Generate implements physics.MatrixGenerator.
func (g *RandomMatrix) Generate(size int) *physics.Matrix {
	m := physics.NewMatrix(size)
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			if g.symmetric && j < i {
				m.Set(i, j, m.At(j, i))
				continue
			}
			m.Set(i, j, g.rng.Float64()*2-1)
		}
	}
	return m
}
