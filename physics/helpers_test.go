package physics

import (
	"math/rand"
	"sync/atomic"

	"gonum.org/v1/gonum/spatial/r2"
)

// linearAccel pulls towards (a > 0) or pushes away from (a < 0) the neighbor.
func linearAccel(a float64, pos r2.Vec) r2.Vec {
	return r2.Scale(a, pos)
}

func uniformPositions(seed int64) PositionSetter {
	rng := rand.New(rand.NewSource(seed))
	return PositionSetterFunc(func(_, _ int) r2.Vec {
		return r2.Vec{X: rng.Float64()*2 - 1, Y: rng.Float64()*2 - 1}
	})
}

func uniformTypes(seed int64) TypeSetter {
	rng := rand.New(rand.NewSource(seed))
	return TypeSetterFunc(func(_, _ r2.Vec, _, n int) int {
		return rng.Intn(n)
	})
}

func randomMatrices(seed int64) MatrixGenerator {
	rng := rand.New(rand.NewSource(seed))
	return MatrixGeneratorFunc(func(size int) *Matrix {
		m := NewMatrix(size)
		for i := 0; i < size; i++ {
			for j := 0; j < size; j++ {
				m.Set(i, j, rng.Float64()*2-1)
			}
		}
		return m
	})
}

// fixedPositions hands out the given positions in order, then the origin.
func fixedPositions(ps ...r2.Vec) PositionSetter {
	i := 0
	return PositionSetterFunc(func(_, _ int) r2.Vec {
		if i >= len(ps) {
			return r2.Vec{}
		}
		p := ps[i]
		i++
		return p
	})
}

func testSettings(n int) Settings {
	s := DefaultSettings()
	s.N = n
	s.Rmax = 0.1
	s.Friction = 0.5
	s.Force = 1
	return s
}

func newTestPhysics(s Settings) *Physics {
	return New(Options{
		Settings:    s,
		Accelerator: linearAccel,
		Positions:   uniformPositions(1),
		Types:       uniformTypes(2),
		Matrices:    randomMatrices(3),
		Threads:     4,
		MatrixSize:  4,
		Seed:        5,
	})
}

// countingAccel counts how often the force law is evaluated.
type countingAccel struct {
	calls atomic.Int64
}

func (c *countingAccel) accel(a float64, pos r2.Vec) r2.Vec {
	c.calls.Add(1)
	return r2.Scale(a, pos)
}
