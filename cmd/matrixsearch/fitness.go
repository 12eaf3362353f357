package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/particlelife/config"
	"github.com/pthm-cable/particlelife/engine"
	"github.com/pthm-cable/particlelife/physics"
	"github.com/pthm-cable/particlelife/telemetry"
)

// FitnessEvaluator runs headless simulations and scores a matrix.
type FitnessEvaluator struct {
	params     MatrixParams
	ticks      int
	seeds      []int64
	baseConfig *config.Config

	mu        sync.Mutex
	lastStats telemetry.WindowStats // final stats of the most recent run
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params MatrixParams, ticks int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		ticks:      ticks,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// LastStats returns the final window stats of the most recent run.
func (fe *FitnessEvaluator) LastStats() telemetry.WindowStats {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastStats
}

// Evaluate computes fitness for a normalized parameter vector (lower = better).
// Fitness is the negative mean particle speed at the end of each run, averaged
// over seeds: matrices that keep the particles moving score best.
// A run that fails to start scores +Inf.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	m := fe.params.Denormalize(x)

	scores := make([]float64, len(fe.seeds))
	for i, seed := range fe.seeds {
		ws, err := fe.run(m, seed)
		if err != nil {
			return math.Inf(1)
		}
		scores[i] = -ws.SpeedMean

		fe.mu.Lock()
		fe.lastStats = ws
		fe.mu.Unlock()
	}
	return stat.Mean(scores, nil)
}

// run simulates one seed with fixed time steps and returns the final stats.
func (fe *FitnessEvaluator) run(m *physics.Matrix, seed int64) (telemetry.WindowStats, error) {
	cfg := *fe.baseConfig
	cfg.Population.Types = fe.params.Size

	loop, err := engine.New(&cfg, seed, nil)
	if err != nil {
		return telemetry.WindowStats{}, err
	}
	defer loop.Close()

	loop.Enqueue(func(p *physics.Physics) {
		p.Settings.Matrix = m.Clone()
	})

	dt := cfg.Physics.DT
	for i := 0; i < fe.ticks; i++ {
		loop.Step(dt)
	}

	p := loop.Physics()
	return telemetry.ComputeWindowStats(loop.Ticks(), float64(fe.ticks)*dt, p.Particles(), p.Settings.Matrix.Size()), nil
}
