package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/particlelife/physics"
)

// WindowStats holds population statistics sampled at the end of a window.
type WindowStats struct {
	Tick       uint64  `csv:"tick"`
	SimTimeSec float64 `csv:"sim_time"`

	Particles int `csv:"particles"`
	Types     int `csv:"types"`

	// Speed distribution
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`
	SpeedMax  float64 `csv:"speed_max"`

	// Type balance: share of the rarest and the most common type
	MinTypeShare float64 `csv:"min_type_share"`
	MaxTypeShare float64 `csv:"max_type_share"`

	TypeCounts []int `csv:"-"`
}

// ComputeWindowStats summarizes the particles. nTypes is the matrix size.
func ComputeWindowStats(tick uint64, simTime float64, ps []physics.Particle, nTypes int) WindowStats {
	ws := WindowStats{
		Tick:       tick,
		SimTimeSec: simTime,
		Particles:  len(ps),
		Types:      nTypes,
		TypeCounts: make([]int, nTypes),
	}
	if len(ps) == 0 {
		return ws
	}

	speeds := make([]float64, len(ps))
	for i, p := range ps {
		speeds[i] = r2.Norm(p.Velocity)
		if p.Type >= 0 && p.Type < nTypes {
			ws.TypeCounts[p.Type]++
		}
	}

	ws.SpeedMean, ws.SpeedStd = stat.MeanStdDev(speeds, nil)
	if math.IsNaN(ws.SpeedStd) {
		ws.SpeedStd = 0 // single sample
	}
	sort.Float64s(speeds)
	ws.SpeedP50 = stat.Quantile(0.5, stat.Empirical, speeds, nil)
	ws.SpeedP90 = stat.Quantile(0.9, stat.Empirical, speeds, nil)
	ws.SpeedMax = speeds[len(speeds)-1]

	minCount, maxCount := len(ps), 0
	for _, c := range ws.TypeCounts {
		minCount = min(minCount, c)
		maxCount = max(maxCount, c)
	}
	ws.MinTypeShare = float64(minCount) / float64(len(ps))
	ws.MaxTypeShare = float64(maxCount) / float64(len(ps))

	return ws
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("tick", s.Tick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("particles", s.Particles),
		slog.Int("types", s.Types),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("min_type_share", s.MinTypeShare),
		slog.Float64("max_type_share", s.MaxTypeShare),
	)
}
