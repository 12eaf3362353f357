package physics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestLoneParticleOnlyLosesVelocity(t *testing.T) {
	s := testSettings(1)
	s.Friction = 0.3
	p := newTestPhysics(s)

	v0 := r2.Vec{X: 0.2, Y: -0.1}
	p.Particles()[0].Velocity = v0

	const dt = 0.02
	p.Update(dt)

	f := math.Pow(s.Friction, dt)
	want := r2.Vec{X: v0.X * f, Y: v0.Y * f}
	if got := p.Particles()[0].Velocity; got != want {
		t.Errorf("velocity = %v, want %v", got, want)
	}
}

func TestPositionsStayInDomain(t *testing.T) {
	for _, wrap := range []bool{true, false} {
		name := "clamp"
		if wrap {
			name = "wrap"
		}
		t.Run(name, func(t *testing.T) {
			s := testSettings(400)
			s.Wrap = wrap
			s.Force = 50
			s.Friction = 1
			p := newTestPhysics(s)
			for i := range p.Particles() {
				p.Particles()[i].Velocity = r2.Vec{X: 40, Y: -35}
			}

			for tick := 0; tick < 20; tick++ {
				p.Update(0.05)
				for _, pt := range p.Particles() {
					x, y := pt.Position.X, pt.Position.Y
					if wrap && (x < -1 || x >= 1 || y < -1 || y >= 1) {
						t.Fatalf("tick %d: position %v outside [-1, 1)", tick, pt.Position)
					}
					if !wrap && (x < -1 || x > 1 || y < -1 || y > 1) {
						t.Fatalf("tick %d: position %v outside [-1, 1]", tick, pt.Position)
					}
				}
			}
		})
	}
}

// bruteForceVelocity computes particle i's new velocity against every other
// particle, without the grid.
func bruteForceVelocity(p *Physics, ps []Particle, i int, dt float64) r2.Vec {
	s := p.Settings
	pt := ps[i]
	v := r2.Scale(math.Pow(s.Friction, dt), pt.Velocity)
	for j, q := range ps {
		if j == i {
			continue
		}
		rel := p.Connection(pt.Position, q.Position)
		d2 := r2.Norm2(rel)
		if d2 == 0 || d2 >= s.Rmax*s.Rmax {
			continue
		}
		acc := linearAccel(s.Matrix.At(pt.Type, q.Type), r2.Scale(1/s.Rmax, rel))
		v = r2.Add(v, r2.Scale(s.Rmax*s.Force*dt, acc))
	}
	return v
}

func TestGridVelocitiesMatchBruteForce(t *testing.T) {
	for _, wrap := range []bool{true, false} {
		for _, rmax := range []float64{0.07, 0.25, 0.9, 1.5} {
			s := testSettings(300)
			s.Wrap = wrap
			s.Rmax = rmax
			p := newTestPhysics(s)

			p.RebuildGrid()
			snapshot := append([]Particle(nil), p.Particles()...)

			const dt = 0.01
			p.UpdateVelocities(dt)

			for i, pt := range p.Particles() {
				want := bruteForceVelocity(p, snapshot, i, dt)
				if r2.Norm(r2.Sub(pt.Velocity, want)) > 1e-9 {
					t.Fatalf("wrap=%v rmax=%v: particle %d velocity %v, brute force %v", wrap, rmax, i, pt.Velocity, want)
				}
			}
		}
	}
}

func TestCutoffIsExclusive(t *testing.T) {
	tests := []struct {
		name      string
		other     r2.Vec
		wantCalls int64
	}{
		{"exactly at rmax", r2.Vec{X: 0.25}, 0},
		{"inside rmax", r2.Vec{X: 0.1875}, 2},
		{"coincident", r2.Vec{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var counter countingAccel
			s := testSettings(2)
			s.Rmax = 0.25
			s.Wrap = false
			p := New(Options{
				Settings:    s,
				Accelerator: counter.accel,
				Positions:   fixedPositions(r2.Vec{}, tt.other),
				Types:       uniformTypes(1),
				Matrices:    randomMatrices(1),
				Threads:     2,
			})

			p.Update(0.01)
			if got := counter.calls.Load(); got != tt.wantCalls {
				t.Errorf("accelerator called %d times, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestAttractionPullsTogether(t *testing.T) {
	s := testSettings(2)
	s.Rmax = 0.5
	s.Friction = 1
	p := New(Options{
		Settings:    s,
		Accelerator: linearAccel,
		Positions:   fixedPositions(r2.Vec{X: -0.125}, r2.Vec{X: 0.125}),
		Types:       TypeSetterFunc(func(_, _ r2.Vec, _, _ int) int { return 0 }),
		Matrices: MatrixGeneratorFunc(func(size int) *Matrix {
			m := NewMatrix(size)
			m.Set(0, 0, 1)
			return m
		}),
		Threads: 2,
	})

	before := p.Distance(p.Particles()[0].Position, p.Particles()[1].Position)
	p.Update(0.1)
	after := p.Distance(p.Particles()[0].Position, p.Particles()[1].Position)

	if after >= before {
		t.Errorf("distance grew from %v to %v under attraction", before, after)
	}
}

func TestAbortSkipsRemainingWork(t *testing.T) {
	s := testSettings(200)
	p := newTestPhysics(s)
	for i := range p.Particles() {
		p.Particles()[i].Velocity = r2.Vec{X: 0.5, Y: 0.5}
	}
	p.RebuildGrid()
	before := append([]Particle(nil), p.Particles()...)

	p.SetAbort(true)
	p.UpdateVelocities(0.1)
	p.UpdatePositions(0.1)
	p.SetAbort(false)

	for i, pt := range p.Particles() {
		if pt != before[i] {
			t.Fatalf("particle %d changed while aborting: %+v -> %+v", i, before[i], pt)
		}
	}
}
