package physics

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.4, 0.4},
		{-1.3, 0.7},
		{2.0, 0.0},
		{-1.0, -1.0},
		{1.0, -1.0},
		{3.5, -0.5},
		{-4.25, -0.25},
	}

	for _, tt := range tests {
		if got := Wrap(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Wrap(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWrapStaysInHalfOpenRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 10000; i++ {
		v := (rng.Float64()*2 - 1) * 5
		got := Wrap(v)
		if got < -1 || got >= 1 {
			t.Fatalf("Wrap(%v) = %v, outside [-1, 1)", v, got)
		}
	}
	// values that round onto the upper bound
	for _, v := range []float64{-1e-17, 1 - 1e-17, -3 - 1e-16} {
		if got := Wrap(v); got < -1 || got >= 1 {
			t.Errorf("Wrap(%v) = %v, outside [-1, 1)", v, got)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.4, 0.4},
		{-1.3, -1.0},
		{2.0, 1.0},
		{1.0, 1.0},
		{-1.0, -1.0},
	}

	for _, tt := range tests {
		if got := Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConnectionIsShortestOnTorus(t *testing.T) {
	p := newTestPhysics(testSettings(0))
	p.Settings.Wrap = true

	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 2000; i++ {
		a := r2.Vec{X: rng.Float64()*2 - 1, Y: rng.Float64()*2 - 1}
		b := r2.Vec{X: rng.Float64()*2 - 1, Y: rng.Float64()*2 - 1}

		got := p.Connection(a, b)

		// brute force over all translations of b - a
		raw := r2.Sub(b, a)
		best := math.Inf(1)
		for _, dx := range []float64{-2, 0, 2} {
			for _, dy := range []float64{-2, 0, 2} {
				best = math.Min(best, r2.Norm(r2.Add(raw, r2.Vec{X: dx, Y: dy})))
			}
		}

		if math.Abs(r2.Norm(got)-best) > 1e-12 {
			t.Fatalf("Connection(%v, %v) = %v (len %v), shortest is %v", a, b, got, r2.Norm(got), best)
		}
		if got.X < -1 || got.X >= 1 || got.Y < -1 || got.Y >= 1 {
			t.Fatalf("Connection(%v, %v) = %v, outside [-1, 1)", a, b, got)
		}
	}
}

func TestWrappedDistanceAcrossBorder(t *testing.T) {
	p := newTestPhysics(testSettings(0))
	a := r2.Vec{X: 0.99, Y: 0}
	b := r2.Vec{X: -0.99, Y: 0}

	p.Settings.Wrap = true
	if d := p.Distance(a, b); math.Abs(d-0.02) > 1e-12 {
		t.Errorf("wrapped distance = %v, want 0.02", d)
	}

	p.Settings.Wrap = false
	if d := p.Distance(a, b); math.Abs(d-1.98) > 1e-12 {
		t.Errorf("clamped distance = %v, want 1.98", d)
	}
}
