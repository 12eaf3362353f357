package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Grid partitions [-1, 1]² into square cells whose side equals the cutoff radius,
// so every pair closer than rmax lies in the 3×3 cell neighborhood.
// Coupling the cell size to rmax keeps the stencil fixed; it is not a general
// purpose spatial index.
//
// The grid does not store particles. Rebuild sorts the particle store by cell
// and records where each cell's range ends.
type Grid struct {
	cellSize float64
	cellsX   int
	cellsY   int

	// offsets[c] is the exclusive end of cell c's range in the sorted particles.
	// Cell 0 starts at 0, cell c > 0 starts at offsets[c-1].
	offsets []int
}

// maxCellsPerAxis caps the grid for tiny cutoff radii.
const maxCellsPerAxis = 2000

// Resize sets the cell size and recomputes the grid dimensions.
// At least one and at most maxCellsPerAxis cells are kept per axis; when the
// cap applies, cells grow beyond cellSize.
func (g *Grid) Resize(cellSize float64) {
	n := maxCellsPerAxis
	if f := math.Floor(2 / cellSize); f < maxCellsPerAxis {
		n = max(int(f), 1)
	}
	if n == maxCellsPerAxis {
		cellSize = max(cellSize, 2.0/maxCellsPerAxis)
	}
	g.cellSize = cellSize
	g.cellsX = n
	g.cellsY = n

	if len(g.offsets) != g.cellsX*g.cellsY {
		g.offsets = make([]int, g.cellsX*g.cellsY)
	}
}

// Dims returns the number of cells along x and y.
func (g *Grid) Dims() (cellsX, cellsY int) {
	return g.cellsX, g.cellsY
}

// CellCoords returns the cell containing pos. pos must lie in [-1, 1]².
// Coordinates landing on the upper border belong to the last cell.
func (g *Grid) CellCoords(pos r2.Vec) (cx, cy int) {
	cx = clampCell(int(math.Floor((pos.X+1)/g.cellSize)), g.cellsX)
	cy = clampCell(int(math.Floor((pos.Y+1)/g.cellSize)), g.cellsY)
	return cx, cy
}

// CellIndex returns the flat index of the cell containing pos.
func (g *Grid) CellIndex(pos r2.Vec) int {
	cx, cy := g.CellCoords(pos)
	return cx + cy*g.cellsX
}

// Cell returns the half-open range of sorted particle indices in cell c.
func (g *Grid) Cell(c int) (start, end int) {
	if c > 0 {
		start = g.offsets[c-1]
	}
	return start, g.offsets[c]
}

// Rebuild counting-sorts the live particles by cell into the scratch buffer and
// makes the sorted buffer live. Particles in the same cell keep their relative order.
func (g *Grid) Rebuild(s *store) {
	ps := s.particles()
	buf := s.scratch()

	clear(g.offsets)

	// histogram
	for i := range ps {
		g.offsets[g.CellIndex(ps[i].Position)]++
	}

	// counts -> start offsets
	offset := 0
	for c, count := range g.offsets {
		g.offsets[c] = offset
		offset += count
	}

	// scatter; each cell's cursor ends at the start of the next cell
	for i := range ps {
		c := g.CellIndex(ps[i].Position)
		buf[g.offsets[c]] = ps[i]
		g.offsets[c]++
	}

	s.swap()
}

// neighborCells writes the distinct cells of the 3×3 stencil around (cx, cy)
// into dst and returns how many were written. With wrap, both axes wrap with
// their own dimension; without wrap, cells outside the grid are skipped.
func (g *Grid) neighborCells(cx, cy int, wrap bool, dst *[9]int) int {
	var xs, ys [3]int
	nx := axisNeighbors(cx, g.cellsX, wrap, &xs)
	ny := axisNeighbors(cy, g.cellsY, wrap, &ys)

	k := 0
	for _, y := range ys[:ny] {
		for _, x := range xs[:nx] {
			dst[k] = x + y*g.cellsX
			k++
		}
	}
	return k
}

// axisNeighbors collects the distinct coordinates among c-1, c, c+1 on an axis
// with n cells. Grids narrower than 3 cells would otherwise visit a cell twice.
func axisNeighbors(c, n int, wrap bool, dst *[3]int) int {
	k := 0
	for d := -1; d <= 1; d++ {
		v := c + d
		if wrap {
			v = wrapCell(v, n)
		} else if v < 0 || v >= n {
			continue
		}

		dup := false
		for _, seen := range dst[:k] {
			if seen == v {
				dup = true
				break
			}
		}
		if !dup {
			dst[k] = v
			k++
		}
	}
	return k
}

// wrapCell wraps a coordinate that is at most one cell outside [0, n).
func wrapCell(v, n int) int {
	if v < 0 {
		return v + n
	} else if v >= n {
		return v - n
	}
	return v
}

func clampCell(v, n int) int {
	if v < 0 {
		return 0
	} else if v >= n {
		return n - 1
	}
	return v
}
