package physics

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Matrix holds interaction coefficients indexed by (own type, other type).
// Reads are safe from concurrent goroutines; writes must happen on the loop goroutine.
type Matrix struct {
	d *mat.Dense
}

// NewMatrix creates a zero size×size matrix. Panics if size < 1.
func NewMatrix(size int) *Matrix {
	if size < 1 {
		panic(fmt.Sprintf("physics: matrix size must be positive, got %d", size))
	}
	return &Matrix{d: mat.NewDense(size, size, nil)}
}

// NewMatrixFrom creates a matrix from row-major values. Panics if rows are ragged.
func NewMatrixFrom(rows [][]float64) *Matrix {
	m := NewMatrix(len(rows))
	for i, row := range rows {
		if len(row) != len(rows) {
			panic(fmt.Sprintf("physics: matrix row %d has %d entries, want %d", i, len(row), len(rows)))
		}
		for j, v := range row {
			m.d.Set(i, j, v)
		}
	}
	return m
}

// Size returns the number of types.
func (m *Matrix) Size() int {
	r, _ := m.d.Dims()
	return r
}

// At returns the coefficient of type i towards type j.
func (m *Matrix) At(i, j int) float64 {
	return m.d.At(i, j)
}

// Set sets the coefficient of type i towards type j.
func (m *Matrix) Set(i, j int, v float64) {
	m.d.Set(i, j, v)
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	return &Matrix{d: mat.DenseCopyOf(m.d)}
}

// Equal reports whether both matrices have the same size and entries.
func (m *Matrix) Equal(o *Matrix) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.Size() != o.Size() {
		return false
	}
	return mat.Equal(m.d, o.d)
}

// CopyOverlap copies the top-left min(m.Size(), src.Size()) square of src into m.
func (m *Matrix) CopyOverlap(src *Matrix) {
	n := min(m.Size(), src.Size())
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			m.d.Set(i, j, src.d.At(i, j))
		}
	}
}

// Rows returns the entries as row-major slices.
func (m *Matrix) Rows() [][]float64 {
	n := m.Size()
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = mat.Row(nil, i, m.d)
	}
	return rows
}
