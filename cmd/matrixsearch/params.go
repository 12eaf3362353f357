// Package main searches interaction matrices with CMA-ES.
package main

import (
	"math"

	"github.com/pthm-cable/particlelife/physics"
)

// MatrixParams maps between matrix coefficients and the optimizer's search space.
// Coefficients live in [-1, 1]; the optimizer works on [0, 1] per entry.
type MatrixParams struct {
	Size int
}

// Dim returns the number of parameters.
func (mp MatrixParams) Dim() int {
	return mp.Size * mp.Size
}

// Normalize converts a matrix to a vector in [0, 1].
func (mp MatrixParams) Normalize(m *physics.Matrix) []float64 {
	x := make([]float64, mp.Dim())
	for i := 0; i < mp.Size; i++ {
		for j := 0; j < mp.Size; j++ {
			x[i*mp.Size+j] = (m.At(i, j) + 1) / 2
		}
	}
	return x
}

// Denormalize converts an optimizer vector to a matrix, clamping every
// coefficient into [-1, 1].
func (mp MatrixParams) Denormalize(x []float64) *physics.Matrix {
	m := physics.NewMatrix(mp.Size)
	for i := 0; i < mp.Size; i++ {
		for j := 0; j < mp.Size; j++ {
			v := x[i*mp.Size+j]*2 - 1
			m.Set(i, j, math.Max(-1, math.Min(1, v)))
		}
	}
	return m
}
