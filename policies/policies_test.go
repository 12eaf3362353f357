package policies

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestClassicForceProfile(t *testing.T) {
	accel := Classic(DefaultBeta)

	tests := []struct {
		name string
		a    float64
		dist float64
		want float64 // signed force along the connection
	}{
		{"full repulsion near zero", 1, 1e-9, -1},
		{"repulsion inside beta", 1, 0.15, -0.5},
		{"zero at beta", 1, 0.3, 0},
		{"peak halfway", 1, 0.65, 1},
		{"negative peak", -0.5, 0.65, -0.5},
		{"zero at cutoff", 1, 1, 0},
		{"repulsion ignores a", -1, 0.15, -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := accel(tt.a, r2.Vec{X: tt.dist})
			if math.Abs(got.X-tt.want) > 1e-6 || got.Y != 0 {
				t.Errorf("Classic(%v, %v) = %v, want (%v, 0)", tt.a, tt.dist, got, tt.want)
			}
		})
	}
}

func TestClassicKeepsDirection(t *testing.T) {
	accel := Classic(DefaultBeta)
	pos := r2.Vec{X: 0.3, Y: 0.4} // length 0.5
	got := accel(1, pos)

	// attraction points along pos
	cross := got.X*pos.Y - got.Y*pos.X
	if math.Abs(cross) > 1e-12 || r2.Dot(got, pos) <= 0 {
		t.Errorf("Classic(1, %v) = %v, not along the connection", pos, got)
	}
}

func TestUniformPositionsInDomain(t *testing.T) {
	u := NewUniformPositions(1)
	for i := 0; i < 1000; i++ {
		p := u.Position(0, 4)
		if p.X < -1 || p.X >= 1 || p.Y < -1 || p.Y >= 1 {
			t.Fatalf("position %v outside [-1, 1)", p)
		}
	}
}

func TestNoisePositionsInDomain(t *testing.T) {
	n := NewNoisePositions(3, 2)
	for typ := 0; typ < 4; typ++ {
		for i := 0; i < 250; i++ {
			p := n.Position(typ, 4)
			if p.X < -1 || p.X >= 1 || p.Y < -1 || p.Y >= 1 {
				t.Fatalf("position %v outside [-1, 1)", p)
			}
			if d := n.Density(typ, p); d < 0 || d > 1 {
				t.Fatalf("density %v outside [0, 1]", d)
			}
		}
	}
}

func TestUniformTypesInRange(t *testing.T) {
	u := NewUniformTypes(5)
	counts := make([]int, 6)
	for i := 0; i < 6000; i++ {
		typ := u.Type(r2.Vec{}, r2.Vec{}, 0, 6)
		if typ < 0 || typ >= 6 {
			t.Fatalf("type %d out of range", typ)
		}
		counts[typ]++
	}
	for typ, c := range counts {
		if c < 800 || c > 1200 {
			t.Errorf("type %d drawn %d times out of 6000", typ, c)
		}
	}
}

func TestRandomMatrix(t *testing.T) {
	for _, symmetric := range []bool{false, true} {
		m := NewRandomMatrix(9, symmetric).Generate(5)
		if m.Size() != 5 {
			t.Fatalf("size = %d, want 5", m.Size())
		}

		asymmetric := false
		for i := 0; i < 5; i++ {
			for j := 0; j < 5; j++ {
				v := m.At(i, j)
				if v < -1 || v >= 1 {
					t.Errorf("entry (%d, %d) = %v outside [-1, 1)", i, j, v)
				}
				if m.At(i, j) != m.At(j, i) {
					asymmetric = true
				}
			}
		}
		if symmetric && asymmetric {
			t.Error("symmetric generator produced an asymmetric matrix")
		}
		if !symmetric && !asymmetric {
			t.Error("random generator produced a symmetric matrix")
		}
	}
}
