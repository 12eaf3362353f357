// Package physics implements the particle-life update: a counting-sort spatial
// grid, a parallel velocity pass and a parallel position pass.
//
// Physics is not safe for concurrent mutation. Drive it from one goroutine,
// either directly through Update or through an engine loop that serializes
// external changes as commands.
package physics

import (
	"fmt"
	"math/rand"
	"sync/atomic"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/particlelife/parallel"
)

// DefaultMatrixSize is the number of types used when no matrix is configured.
const DefaultMatrixSize = 7

// DistributeFunc runs step over [0, loadSize) split across preferredThreads batches
// and blocks until all batches are done.
type DistributeFunc func(loadSize, preferredThreads int, step parallel.Step) int

// Options configures a new Physics.
type Options struct {
	Settings    Settings
	Accelerator Accelerator
	Positions   PositionSetter
	Types       TypeSetter
	Matrices    MatrixGenerator

	// Threads is the preferred number of batches per pass. Must be positive.
	Threads int

	// MatrixSize is used when Settings.Matrix is nil. 0 means DefaultMatrixSize.
	MatrixSize int

	// Distribute defaults to parallel.Distribute.
	Distribute DistributeFunc

	// Seed for the shuffle applied when the particle count shrinks.
	Seed int64
}

// Physics owns the particles and advances them in time.
type Physics struct {
	Settings Settings

	Accelerator Accelerator
	Positions   PositionSetter
	Types       TypeSetter
	Matrices    MatrixGenerator

	// Threads is the preferred number of batches per pass.
	Threads int

	// Paused skips particle updates in the engine loop; commands still run.
	Paused bool

	store      store
	grid       Grid
	distribute DistributeFunc
	rng        *rand.Rand

	// abort makes in-flight passes return at the next index.
	abort atomic.Bool
}

// New creates a Physics, generates the matrix if needed and creates Settings.N particles.
// Panics if a collaborator is missing or Threads is not positive.
func New(opts Options) *Physics {
	if opts.Accelerator == nil || opts.Positions == nil || opts.Types == nil || opts.Matrices == nil {
		panic("physics: accelerator, position setter, type setter and matrix generator are required")
	}
	if opts.Threads <= 0 {
		panic(fmt.Sprintf("physics: threads must be positive, got %d", opts.Threads))
	}

	p := &Physics{
		Settings:    opts.Settings,
		Accelerator: opts.Accelerator,
		Positions:   opts.Positions,
		Types:       opts.Types,
		Matrices:    opts.Matrices,
		Threads:     opts.Threads,
		distribute:  opts.Distribute,
		rng:         rand.New(rand.NewSource(opts.Seed)),
	}
	if p.distribute == nil {
		p.distribute = parallel.Distribute
	}

	if p.Settings.Matrix == nil {
		size := opts.MatrixSize
		if size == 0 {
			size = DefaultMatrixSize
		}
		p.Settings.Matrix = p.generateMatrix(size)
	}

	p.EnsureParticles()
	return p
}

// Particles returns the live particles. The slice is reordered by every
// Update and replaced when the particle count changes; do not keep it across ticks.
func (p *Physics) Particles() []Particle {
	return p.store.particles()
}

// Grid returns the spatial grid as of the last rebuild.
func (p *Physics) Grid() *Grid {
	return &p.grid
}

// SetAbort sets or clears the abort flag polled by the update passes.
// Safe to call from any goroutine.
func (p *Physics) SetAbort(v bool) {
	p.abort.Store(v)
}

// Aborting reports whether the abort flag is set.
func (p *Physics) Aborting() bool {
	return p.abort.Load()
}

// EnsureParticles grows or shrinks the particle store to Settings.N, keeping as
// many particles as possible. Shrinking shuffles first so the survivors carry
// no bias from the grid order. Growing appends particles built by the type and
// position setters.
func (p *Physics) EnsureParticles() {
	ps := p.store.particles()
	n := max(p.Settings.N, 0)

	switch {
	case n == len(ps) && ps != nil:
		return

	case n < len(ps):
		p.rng.Shuffle(len(ps), func(i, j int) {
			ps[i], ps[j] = ps[j], ps[i]
		})
		next := make([]Particle, n)
		copy(next, ps)
		p.store.replace(next)

	default:
		next := make([]Particle, n)
		copy(next, ps)
		for i := len(ps); i < n; i++ {
			next[i] = p.newParticle()
		}
		p.store.replace(next)
	}
}

// SetParticleCount sets Settings.N and resizes the store.
func (p *Physics) SetParticleCount(n int) {
	p.Settings.N = n
	p.EnsureParticles()
}

// SetPositions places every particle anew with the position setter and zeroes its velocity.
func (p *Physics) SetPositions() {
	ps := p.store.particles()
	for i := range ps {
		p.place(&ps[i])
	}
}

// SetTypes picks a new type for every particle with the type setter.
func (p *Physics) SetTypes() {
	ps := p.store.particles()
	for i := range ps {
		p.retype(&ps[i])
	}
}

// GenerateMatrix replaces the matrix with a freshly generated one of the same size.
// Use SetMatrixSize to change the number of types.
func (p *Physics) GenerateMatrix() {
	p.Settings.Matrix = p.generateMatrix(p.Settings.Matrix.Size())
}

// SetMatrixSize changes the number of types. Coefficients shared by the old and
// new matrix are kept, new ones come from the matrix generator. When shrinking,
// particles whose type no longer exists get a new type from the type setter.
func (p *Physics) SetMatrixSize(size int) {
	prev := p.Settings.Matrix
	if size == prev.Size() {
		return
	}

	m := p.generateMatrix(size)
	m.CopyOverlap(prev)
	p.Settings.Matrix = m

	if size < prev.Size() {
		ps := p.store.particles()
		for i := range ps {
			if ps[i].Type >= size {
				p.retype(&ps[i])
			}
		}
	}
}

// Connection returns the vector from a to b. With wrap enabled it is the
// shortest such vector on the torus.
func (p *Physics) Connection(a, b r2.Vec) r2.Vec {
	d := r2.Sub(b, a)
	if p.Settings.Wrap {
		d = WrapVec(d)
	}
	return d
}

// Distance returns the length of Connection(a, b).
func (p *Physics) Distance(a, b r2.Vec) float64 {
	return r2.Norm(p.Connection(a, b))
}

// EnsurePosition maps pos into the domain with the active boundary policy.
func (p *Physics) EnsurePosition(pos r2.Vec) r2.Vec {
	if p.Settings.Wrap {
		return WrapVec(pos)
	}
	return ClampVec(pos)
}

func (p *Physics) generateMatrix(size int) *Matrix {
	m := p.Matrices.Generate(size)
	if m == nil || m.Size() != size {
		got := 0
		if m != nil {
			got = m.Size()
		}
		panic(fmt.Sprintf("physics: matrix generator returned size %d, want %d", got, size))
	}
	return m
}

func (p *Physics) newParticle() Particle {
	var pt Particle
	p.retype(&pt)
	p.place(&pt)
	return pt
}

func (p *Physics) place(pt *Particle) {
	pt.Position = WrapVec(p.Positions.Position(pt.Type, p.Settings.Matrix.Size()))
	pt.Velocity = r2.Vec{}
}

func (p *Physics) retype(pt *Particle) {
	n := p.Settings.Matrix.Size()
	t := p.Types.Type(pt.Position, pt.Velocity, pt.Type, n)
	if t < 0 || t >= n {
		panic(fmt.Sprintf("physics: type setter returned %d, want [0, %d)", t, n))
	}
	pt.Type = t
}
