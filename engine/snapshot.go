package engine

import (
	"sync"

	"github.com/pthm-cable/particlelife/physics"
)

// Frame is the state held by a Snapshot.
type Frame struct {
	Particles []physics.Particle
	Matrix    *physics.Matrix
	Wrap      bool
	Paused    bool
}

// Snapshot is a copy of the simulation state that a viewer can read while
// the loop keeps running. Capture it from the loop with DoOnce:
//
//	loop.DoOnce(snap.Capture)
type Snapshot struct {
	mu      sync.Mutex
	frame   Frame
	version uint64
}

// Capture copies the current state of p. It matches the Command signature.
func (s *Snapshot) Capture(p *physics.Physics) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.frame.Particles = append(s.frame.Particles[:0], p.Particles()...)
	s.frame.Matrix = p.Settings.Matrix.Clone()
	s.frame.Wrap = p.Settings.Wrap
	s.frame.Paused = p.Paused
	s.version++
}

// Read calls fn with the captured frame. fn must not keep the particle slice.
func (s *Snapshot) Read(fn func(f Frame)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.frame)
}

// Version counts captures, so readers can skip unchanged snapshots.
func (s *Snapshot) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}
