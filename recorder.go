package main

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/pthm-cable/particlelife/engine"
	"github.com/pthm-cable/particlelife/telemetry"
)

// recorder is the tick hook that samples telemetry once per window and
// signals when the tick limit is reached.
type recorder struct {
	window   uint64
	maxTicks uint64
	logStats bool
	output   *telemetry.OutputManager

	// latest perf window, read by the viewer
	perf atomic.Pointer[telemetry.PerfStats]

	done      chan struct{}
	closeOnce sync.Once
}

func newRecorder(window, maxTicks int, logStats bool, output *telemetry.OutputManager) *recorder {
	return &recorder{
		window:   uint64(max(window, 0)),
		maxTicks: uint64(max(maxTicks, 0)),
		logStats: logStats,
		output:   output,
		done:     make(chan struct{}),
	}
}

func (r *recorder) hook(info engine.TickInfo) {
	if r.window > 0 && info.Tick%r.window == 0 {
		r.sample(info)
	}
	if r.maxTicks > 0 && info.Tick >= r.maxTicks {
		r.closeOnce.Do(func() { close(r.done) })
	}
}

func (r *recorder) sample(info engine.TickInfo) {
	p := info.Physics
	perf := info.Perf.Stats(info.FPS)
	r.perf.Store(&perf)
	pop := telemetry.ComputeWindowStats(info.Tick, info.SimTime, p.Particles(), p.Settings.Matrix.Size())

	if r.logStats {
		perf.LogStats()
		slog.Info("population", "stats", pop)
	}

	if err := r.output.WritePerf(perf, info.Tick); err != nil {
		slog.Error("failed to write perf stats", "error", err)
	}
	if err := r.output.WritePopulation(pop); err != nil {
		slog.Error("failed to write population stats", "error", err)
	}
}
