package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/particlelife/config"
	"github.com/pthm-cable/particlelife/engine"
	"github.com/pthm-cable/particlelife/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Int("stats-window", 0, "Stats window size in ticks (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	window := cfg.Telemetry.Window
	if *statsWindow > 0 {
		window = *statsWindow
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	rec := newRecorder(window, *maxTicks, *logStats, output)
	loop, err := engine.New(cfg, rngSeed, rec.hook)
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := loop.Close(); err != nil {
			slog.Error("failed to close loop", "error", err)
		}
	}()

	if *headless {
		runHeadless(loop, rec, rngSeed, window)
		return
	}
	runViewer(loop, rec, cfg.Screen)
}

func runHeadless(loop *engine.Loop, rec *recorder, seed int64, window int) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	slog.Info("starting headless simulation",
		"seed", seed,
		"stats_window", window,
		"max_ticks", rec.maxTicks,
	)

	if err := loop.Start(); err != nil {
		slog.Error("failed to start loop", "error", err)
		return
	}

	select {
	case <-rec.done:
		slog.Info("max ticks reached", "tick", loop.Ticks())
	case <-ctx.Done():
		slog.Info("interrupted", "tick", loop.Ticks())
	}

	if ok, err := loop.Stop(); !ok || err != nil {
		slog.Error("loop did not stop", "error", err)
	}
}

func runViewer(loop *engine.Loop, rec *recorder, screen config.ScreenConfig) {
	rl.InitWindow(int32(screen.Width), int32(screen.Height), "Particle Life")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(screen.TargetFPS))

	v := newViewer(loop, rec, screen)
	if err := loop.Start(); err != nil {
		slog.Error("failed to start loop", "error", err)
		return
	}

	for !rl.WindowShouldClose() {
		v.handleInput()
		v.draw()

		select {
		case <-rec.done:
			return
		default:
		}
	}
}
