package engine

import (
	"fmt"

	"github.com/pthm-cable/particlelife/config"
	"github.com/pthm-cable/particlelife/parallel"
	"github.com/pthm-cable/particlelife/physics"
	"github.com/pthm-cable/particlelife/policies"
)

// SettingsFromConfig converts the physics and population sections of cfg.
// The matrix is left nil so that it is generated with cfg.Population.Types.
func SettingsFromConfig(cfg *config.Config) physics.Settings {
	return physics.Settings{
		N:        cfg.Population.Count,
		Wrap:     cfg.Physics.Wrap,
		Rmax:     cfg.Physics.Rmax,
		Friction: cfg.Derived.Friction,
		Force:    cfg.Physics.Force,
		Dt:       cfg.Physics.DT,
		AutoDt:   cfg.Physics.AutoDT,
		MaxDt:    cfg.Physics.MaxDT,
	}
}

// New builds a stopped loop from cfg: the configured policies, a physics with
// cfg.Population.Count particles, and a worker pool for the update passes.
// Every policy gets its own random source derived from seed.
func New(cfg *config.Config, seed int64, hook TickHook) (*Loop, error) {
	settings := SettingsFromConfig(cfg)
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid physics settings: %w", err)
	}

	var positions physics.PositionSetter
	switch cfg.Generators.Position {
	case "noise":
		positions = policies.NewNoisePositions(seed, cfg.Generators.NoiseScale)
	default:
		positions = policies.NewUniformPositions(seed)
	}

	matrices := policies.NewRandomMatrix(seed+1, cfg.Generators.Matrix == "symmetric")

	pool := parallel.NewPool(cfg.Derived.Threads)
	p := physics.New(physics.Options{
		Settings:    settings,
		Accelerator: policies.Classic(cfg.Generators.ClassicBeta),
		Positions:   positions,
		Types:       policies.NewUniformTypes(seed + 2),
		Matrices:    matrices,
		Threads:     cfg.Derived.Threads,
		MatrixSize:  cfg.Population.Types,
		Distribute:  pool.Distribute,
		Seed:        seed + 3,
	})

	l := NewLoop(p, LoopOptions{
		StopTimeout:     cfg.Derived.StopTimeout,
		FramerateWindow: cfg.Loop.FramerateWindow,
		PerfWindow:      cfg.Telemetry.Window,
		Hook:            hook,
	})
	l.pool = pool
	return l, nil
}
