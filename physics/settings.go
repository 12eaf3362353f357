package physics

import (
	"errors"
	"fmt"
	"math"
)

// Settings holds the physical parameters read on every tick.
// While a loop is running, change them only through commands.
type Settings struct {
	N        int     // particle count
	Wrap     bool    // toroidal borders instead of clamped ones
	Rmax     float64 // cutoff radius; no interaction at distance >= Rmax
	Friction float64 // fraction of velocity left after one second, in (0, 1]
	Force    float64 // force scale
	Dt       float64 // fixed time step in seconds, also the fallback when AutoDt is off
	AutoDt   bool    // use measured frame time instead of Dt
	MaxDt    float64 // cap for measured time steps; negative disables the cap
	Matrix   *Matrix
}

// MinRmax bounds the cutoff radius from below so the grid stays at most
// 2/MinRmax cells per axis.
const MinRmax = 1e-3

// DefaultSettings returns the parameters of a classic particle-life setup.
// Matrix is left nil; Physics generates one on creation.
func DefaultSettings() Settings {
	return Settings{
		N:        10000,
		Wrap:     true,
		Rmax:     0.04,
		Friction: FrictionFromHalfLife(0.043),
		Force:    1.0,
		Dt:       0.02,
		AutoDt:   true,
		MaxDt:    1.0 / 20.0,
	}
}

// FrictionFromHalfLife converts the time after which half the velocity is lost
// into a per-second friction factor.
func FrictionFromHalfLife(halfLife float64) float64 {
	return math.Pow(0.5, 1/halfLife)
}

// Validate checks the ranges the update kernel relies on.
func (s Settings) Validate() error {
	var errs []error
	if s.N < 0 {
		errs = append(errs, fmt.Errorf("particle count must not be negative, got %d", s.N))
	}
	if !(s.Rmax >= MinRmax) {
		errs = append(errs, fmt.Errorf("rmax must be at least %v, got %v", MinRmax, s.Rmax))
	}
	if !(s.Friction > 0 && s.Friction <= 1) {
		errs = append(errs, fmt.Errorf("friction must be in (0, 1], got %v", s.Friction))
	}
	if s.Dt < 0 {
		errs = append(errs, fmt.Errorf("dt must not be negative, got %v", s.Dt))
	}
	return errors.Join(errs...)
}

// Clone returns a deep copy (the matrix is copied too).
func (s Settings) Clone() Settings {
	c := s
	if s.Matrix != nil {
		c.Matrix = s.Matrix.Clone()
	}
	return c
}

// Equal reports whether both settings hold the same values and matrix entries.
func (s Settings) Equal(o Settings) bool {
	a, b := s, o
	a.Matrix, b.Matrix = nil, nil
	return a == b && s.Matrix.Equal(o.Matrix)
}
