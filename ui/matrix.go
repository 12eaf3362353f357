package ui

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/particlelife/physics"
)

// MatrixPanel draws the interaction matrix as a grid of colored cells,
// green for attraction and red for repulsion, with the type colors along the edges.
type MatrixPanel struct {
	x, y     int32
	cellSize int32
}

// NewMatrixPanel creates a matrix panel with its top-left corner at (x, y).
func NewMatrixPanel(x, y, cellSize int32) *MatrixPanel {
	return &MatrixPanel{x: x, y: y, cellSize: cellSize}
}

// Draw renders m. palette holds one color per type.
func (p *MatrixPanel) Draw(m *physics.Matrix, palette []color.RGBA) {
	n := m.Size()
	cs := p.cellSize

	for i := 0; i < n && i < len(palette); i++ {
		rl.DrawRectangle(p.x, p.y+cs*int32(i+1), cs, cs, palette[i])
		rl.DrawRectangle(p.x+cs*int32(i+1), p.y, cs, cs, palette[i])
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			x := p.x + cs*int32(j+1)
			y := p.y + cs*int32(i+1)
			rl.DrawRectangle(x, y, cs, cs, CoefficientColor(m.At(i, j)))
		}
	}
}

// CoefficientColor maps a coefficient in [-1, 1] to a color:
// red for repulsion, black for 0, green for attraction.
func CoefficientColor(a float64) color.RGBA {
	a = max(-1, min(1, a))
	if a < 0 {
		return color.RGBA{R: uint8(-a * 255), A: 255}
	}
	return color.RGBA{G: uint8(a * 255), A: 255}
}
