// Package ui draws the viewer overlays with raylib.
package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/particlelife/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title       string
	Particles   int
	Types       int
	Tick        uint64
	TicksPerSec float64
	Dt          float64
	FPS         int32
	Paused      bool
	Wrap        bool
}

// HUD renders the main heads-up display.
type HUD struct{}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Particles: %d | Types: %d", data.Particles, data.Types),
		10, 35, 16, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | Ticks/s: %.0f | dt: %.4f | FPS: %d", data.Tick, data.TicksPerSec, data.Dt, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	border := "wrap"
	if !data.Wrap {
		border = "clamp"
	}
	status := "Running"
	if data.Paused {
		status = "PAUSED"
	}
	rl.DrawText(fmt.Sprintf("%s | borders: %s", status, border), 10, 75, 16, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the share of each update phase as bars.
type PerfPanel struct {
	x, y int32
}

// NewPerfPanel creates a performance panel at the given position.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{x: x, y: y}
}

// Draw renders the panel. stats may be nil before the first window completes.
func (p *PerfPanel) Draw(stats *telemetry.PerfStats) {
	if stats == nil {
		return
	}

	const barWidth = 160
	rl.DrawText(fmt.Sprintf("tick %dus", stats.AvgTickDuration.Microseconds()), p.x, p.y, 14, rl.LightGray)

	y := p.y + 18
	for _, phase := range telemetry.Phases() {
		pct := stats.PhasePct[phase]
		rl.DrawRectangle(p.x, y, int32(barWidth*pct/100), 12, rl.DarkGreen)
		rl.DrawText(fmt.Sprintf("%s %.1f%%", phase, pct), p.x+barWidth+6, y, 12, rl.LightGray)
		y += 16
	}
}
