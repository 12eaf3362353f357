package engine

import (
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/particlelife/config"
	"github.com/pthm-cable/particlelife/physics"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Population.Count = 300
	cfg.Population.Types = 4
	cfg.Physics.Rmax = 0.1
	cfg.Parallel.Threads = 3
	cfg.Derived.Threads = 3
	return cfg
}

func TestNewFromConfig(t *testing.T) {
	tests := []struct {
		name     string
		position string
		matrix   string
	}{
		{"uniform random", "uniform", "random"},
		{"noise symmetric", "noise", "symmetric"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Generators.Position = tt.position
			cfg.Generators.Matrix = tt.matrix

			l, err := New(cfg, 42, nil)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			defer l.Close()

			p := l.Physics()
			if len(p.Particles()) != 300 {
				t.Errorf("particles = %d, want 300", len(p.Particles()))
			}
			if p.Settings.Matrix.Size() != 4 {
				t.Errorf("matrix size = %d, want 4", p.Settings.Matrix.Size())
			}
			if p.Settings.Friction != cfg.Derived.Friction {
				t.Errorf("friction = %v, want derived %v", p.Settings.Friction, cfg.Derived.Friction)
			}

			if tt.matrix == "symmetric" {
				m := p.Settings.Matrix
				for i := 0; i < m.Size(); i++ {
					for j := 0; j < m.Size(); j++ {
						if m.At(i, j) != m.At(j, i) {
							t.Fatalf("matrix not symmetric at (%d, %d)", i, j)
						}
					}
				}
			}

			for i := 0; i < 3; i++ {
				l.Step(0.01)
			}
			for _, pt := range p.Particles() {
				if pt.Position.X < -1 || pt.Position.X >= 1 || pt.Position.Y < -1 || pt.Position.Y >= 1 {
					t.Fatalf("particle left the domain: %+v", pt.Position)
				}
			}
		})
	}
}

func TestNewRejectsInvalidSettings(t *testing.T) {
	cfg := testConfig(t)
	cfg.Physics.Rmax = 0

	if _, err := New(cfg, 1, nil); err == nil {
		t.Error("expected error for rmax = 0")
	}
}

func TestLoopCloseReleasesPool(t *testing.T) {
	l, err := New(testConfig(t), 7, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Start(); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "ticks", func() bool { return l.Ticks() >= 2 })

	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if l.State() != Stopped {
		t.Errorf("state = %v, want stopped", l.State())
	}
	// Close on a stopped loop is fine
	if err := l.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestSnapshotCapture(t *testing.T) {
	l := NewLoop(newTestPhysics(20, nil, nil), LoopOptions{})
	var snap Snapshot

	if snap.Version() != 0 {
		t.Fatal("fresh snapshot should have version 0")
	}

	l.DoOnce(snap.Capture)
	l.Step(0.01)

	if snap.Version() != 1 {
		t.Errorf("version = %d, want 1", snap.Version())
	}

	var captured []physics.Particle
	snap.Read(func(f Frame) {
		captured = append(captured, f.Particles...)
		if f.Matrix.Size() != 3 {
			t.Errorf("matrix size = %d, want 3", f.Matrix.Size())
		}
		if !f.Wrap || f.Paused {
			t.Errorf("flags not captured: wrap=%v paused=%v", f.Wrap, f.Paused)
		}
	})
	if len(captured) != 20 {
		t.Fatalf("captured %d particles, want 20", len(captured))
	}

	// later changes to the physics do not leak into the snapshot
	l.Physics().Particles()[0].Position = r2.Vec{X: 0.5, Y: 0.5}
	l.Physics().Settings.Matrix.Set(0, 0, 99)
	snap.Read(func(f Frame) {
		if f.Matrix.At(0, 0) == 99 {
			t.Error("snapshot matrix aliases the live matrix")
		}
		if f.Particles[0] != captured[0] {
			t.Error("snapshot particles alias the live particles")
		}
	})
}

func TestClock(t *testing.T) {
	now := time.Unix(0, 0)
	c := NewClock(4)
	c.now = func() time.Time { return now }

	if c.AvgFramerate() != 0 {
		t.Errorf("framerate before first frame = %v, want 0", c.AvgFramerate())
	}

	c.Tick() // starts the clock
	for _, ms := range []int{10, 10, 20, 40, 10} {
		now = now.Add(time.Duration(ms) * time.Millisecond)
		c.Tick()
	}

	if c.Dt() != 10*time.Millisecond {
		t.Errorf("Dt = %v, want 10ms", c.Dt())
	}
	// window holds the last four frames: 10, 20, 40, 10 ms
	if got, want := c.AvgFramerate(), 1/0.02; math.Abs(got-want) > 1e-9 {
		t.Errorf("AvgFramerate = %v, want %v", got, want)
	}

	c.Reset()
	if c.Dt() != 0 {
		t.Errorf("Dt after reset = %v, want 0", c.Dt())
	}
	now = now.Add(5 * time.Millisecond)
	c.Tick()
	if c.Dt() != 5*time.Millisecond {
		t.Errorf("Dt after reset and tick = %v, want 5ms", c.Dt())
	}
}
