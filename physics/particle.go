package physics

import "gonum.org/v1/gonum/spatial/r2"

// Particle is a typed point mass.
type Particle struct {
	Position r2.Vec
	Velocity r2.Vec
	Type     int
}

// store owns two equally sized particle buffers. One is live, the other is
// scratch space for the grid's counting sort. Swapping flips the live index
// instead of aliasing slices.
type store struct {
	buffers [2][]Particle
	live    int
}

// particles returns the live buffer.
func (s *store) particles() []Particle {
	return s.buffers[s.live]
}

// scratch returns the non-live buffer, sized to match the live one.
func (s *store) scratch() []Particle {
	other := 1 - s.live
	if len(s.buffers[other]) != len(s.buffers[s.live]) {
		s.buffers[other] = make([]Particle, len(s.buffers[s.live]))
	}
	return s.buffers[other]
}

// swap makes the scratch buffer live.
func (s *store) swap() {
	s.live = 1 - s.live
}

// replace installs ps as the live buffer. The scratch buffer is resized on next use.
func (s *store) replace(ps []Particle) {
	s.buffers[s.live] = ps
}
