package physics

import "gonum.org/v1/gonum/spatial/r2"

// Accelerator is the pairwise force law.
// a is the matrix coefficient for the pair, pos is the neighbor's position relative
// to the particle, divided by rmax (so |pos| < 1). The result is an acceleration
// relative to rmax; it is scaled by rmax, the force factor and dt before it is added
// to the velocity.
// Accelerators run concurrently on worker goroutines and must not hold shared mutable state.
type Accelerator func(a float64, pos r2.Vec) r2.Vec

// PositionSetter places a newly created particle of type typ.
type PositionSetter interface {
	Position(typ, nTypes int) r2.Vec
}

// PositionSetterFunc adapts a function to PositionSetter.
type PositionSetterFunc func(typ, nTypes int) r2.Vec

// Position calls f(typ, nTypes).
func (f PositionSetterFunc) Position(typ, nTypes int) r2.Vec {
	return f(typ, nTypes)
}

// TypeSetter picks a type in [0, nTypes) for a particle.
// It is called on creation and whenever the matrix shrinks below the particle's type.
type TypeSetter interface {
	Type(pos, vel r2.Vec, prev, nTypes int) int
}

// TypeSetterFunc adapts a function to TypeSetter.
type TypeSetterFunc func(pos, vel r2.Vec, prev, nTypes int) int

// Type calls f(pos, vel, prev, nTypes).
func (f TypeSetterFunc) Type(pos, vel r2.Vec, prev, nTypes int) int {
	return f(pos, vel, prev, nTypes)
}

// MatrixGenerator builds a size×size interaction matrix.
type MatrixGenerator interface {
	Generate(size int) *Matrix
}

// MatrixGeneratorFunc adapts a function to MatrixGenerator.
type MatrixGeneratorFunc func(size int) *Matrix

// Generate calls f(size).
func (f MatrixGeneratorFunc) Generate(size int) *Matrix {
	return f(size)
}
