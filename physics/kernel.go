package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Update advances the simulation by dt seconds: grid rebuild, velocity pass,
// position pass. Each stage finishes on all particles before the next starts.
func (p *Physics) Update(dt float64) {
	p.EnsureParticles()
	p.RebuildGrid()
	p.UpdateVelocities(dt)
	p.UpdatePositions(dt)
}

// RebuildGrid resizes the grid to the current cutoff radius and sorts the particles by cell.
func (p *Physics) RebuildGrid() {
	p.grid.Resize(p.Settings.Rmax)
	p.grid.Rebuild(&p.store)
}

// UpdateVelocities applies friction and neighbor forces to every particle.
// RebuildGrid must have run since positions last changed.
func (p *Physics) UpdateVelocities(dt float64) {
	friction := math.Pow(p.Settings.Friction, dt)
	p.distribute(len(p.store.particles()), p.Threads, func(i int) bool {
		if p.abort.Load() {
			return false
		}
		p.updateVelocity(i, dt, friction)
		return true
	})
}

// UpdatePositions integrates velocities and maps positions back into the domain.
func (p *Physics) UpdatePositions(dt float64) {
	p.distribute(len(p.store.particles()), p.Threads, func(i int) bool {
		if p.abort.Load() {
			return false
		}
		p.updatePosition(i, dt)
		return true
	})
}

// updateVelocity writes only particle i's velocity and reads other particles'
// positions, so it is safe to run for different i in parallel.
func (p *Physics) updateVelocity(i int, dt, friction float64) {
	ps := p.store.particles()
	pt := &ps[i]
	s := &p.Settings

	pt.Velocity = r2.Scale(friction, pt.Velocity)

	rmax := s.Rmax
	rmax2 := rmax * rmax
	scale := rmax * s.Force * dt

	var cells [9]int
	cx, cy := p.grid.CellCoords(pt.Position)
	n := p.grid.neighborCells(cx, cy, s.Wrap, &cells)

	for _, c := range cells[:n] {
		start, end := p.grid.Cell(c)
		for j := start; j < end; j++ {
			if j == i {
				continue
			}
			q := &ps[j]

			rel := p.Connection(pt.Position, q.Position)
			d2 := r2.Norm2(rel)
			if d2 == 0 || d2 >= rmax2 {
				continue
			}

			rel = r2.Scale(1/rmax, rel)
			acc := p.Accelerator(s.Matrix.At(pt.Type, q.Type), rel)
			pt.Velocity = r2.Add(pt.Velocity, r2.Scale(scale, acc))
		}
	}
}

func (p *Physics) updatePosition(i int, dt float64) {
	pt := &p.store.particles()[i]
	pt.Position = p.EnsurePosition(r2.Add(pt.Position, r2.Scale(dt, pt.Velocity)))
}
