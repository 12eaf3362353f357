package main

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/particlelife/camera"
	"github.com/pthm-cable/particlelife/config"
	"github.com/pthm-cable/particlelife/engine"
	"github.com/pthm-cable/particlelife/physics"
	"github.com/pthm-cable/particlelife/ui"
)

const controlsLegend = "SPACE pause | R new matrix | W borders | P positions | T types | UP/DOWN types | wheel zoom | right drag pan | C reset view | TAB panels"

// viewer draws snapshots of a running loop and turns key presses into commands.
type viewer struct {
	loop    *engine.Loop
	rec     *recorder
	snap    engine.Snapshot
	cam     *camera.Camera
	palette []color.RGBA

	hud         *ui.HUD
	perfPanel   *ui.PerfPanel
	matrixPanel *ui.MatrixPanel
	showPanels  bool

	screenH   int32
	pointSize float32
}

func newViewer(loop *engine.Loop, rec *recorder, screen config.ScreenConfig) *viewer {
	return &viewer{
		loop:        loop,
		rec:         rec,
		cam:         camera.New(float64(screen.Width), float64(screen.Height)),
		hud:         ui.NewHUD(),
		perfPanel:   ui.NewPerfPanel(10, 100),
		matrixPanel: ui.NewMatrixPanel(int32(screen.Width)-170, 10, 16),
		showPanels:  true,
		screenH:     int32(screen.Height),
		pointSize:   float32(screen.PointSize),
	}
}

// handleInput turns keys into commands and mouse input into camera moves.
func (v *viewer) handleInput() {
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		v.cam.ZoomBy(1 + 0.1*float64(wheel))
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		v.cam.Pan(-d.X, -d.Y)
	}

	switch {
	case rl.IsKeyPressed(rl.KeyC):
		v.cam.Reset()
	case rl.IsKeyPressed(rl.KeyTab):
		v.showPanels = !v.showPanels
	case rl.IsKeyPressed(rl.KeySpace):
		v.loop.Enqueue(func(p *physics.Physics) { p.Paused = !p.Paused })
	case rl.IsKeyPressed(rl.KeyR):
		v.loop.Enqueue(func(p *physics.Physics) { p.GenerateMatrix() })
	case rl.IsKeyPressed(rl.KeyW):
		v.loop.Enqueue(func(p *physics.Physics) { p.Settings.Wrap = !p.Settings.Wrap })
	case rl.IsKeyPressed(rl.KeyP):
		v.loop.Enqueue(func(p *physics.Physics) { p.SetPositions() })
	case rl.IsKeyPressed(rl.KeyT):
		v.loop.Enqueue(func(p *physics.Physics) { p.SetTypes() })
	case rl.IsKeyPressed(rl.KeyUp):
		v.loop.Enqueue(func(p *physics.Physics) { p.SetMatrixSize(p.Settings.Matrix.Size() + 1) })
	case rl.IsKeyPressed(rl.KeyDown):
		v.loop.Enqueue(func(p *physics.Physics) {
			if n := p.Settings.Matrix.Size(); n > 1 {
				p.SetMatrixSize(n - 1)
			}
		})
	}
}

// draw requests a fresh snapshot for the next frame and renders the current one.
func (v *viewer) draw() {
	v.loop.DoOnce(v.snap.Capture)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	v.snap.Read(func(f engine.Frame) {
		if f.Matrix == nil {
			return
		}
		v.cam.Wrap = f.Wrap
		v.ensurePalette(f.Matrix.Size())

		size := v.pointSize * float32(v.cam.Zoom)
		for _, pt := range f.Particles {
			if !v.cam.IsVisible(pt.Position, size) {
				continue
			}
			x, y := v.cam.WorldToScreen(pt.Position)
			rl.DrawCircleV(rl.NewVector2(x, y), size, v.palette[pt.Type])
		}

		if !v.showPanels {
			return
		}
		v.hud.Draw(ui.HUDData{
			Title:       "Particle Life",
			Particles:   len(f.Particles),
			Types:       f.Matrix.Size(),
			Tick:        v.loop.Ticks(),
			TicksPerSec: v.loop.AvgFramerate(),
			Dt:          v.loop.ActualDt(),
			FPS:         rl.GetFPS(),
			Paused:      f.Paused,
			Wrap:        f.Wrap,
		})
		v.matrixPanel.Draw(f.Matrix, v.palette)
	})

	if v.showPanels {
		v.perfPanel.Draw(v.rec.perf.Load())
		v.hud.DrawControls(v.screenH, controlsLegend)
	}

	rl.EndDrawing()
}

func (v *viewer) ensurePalette(n int) {
	if len(v.palette) == n {
		return
	}
	v.palette = make([]color.RGBA, n)
	for i := range v.palette {
		v.palette[i] = rl.ColorFromHSV(float32(i)*360/float32(n), 0.8, 1)
	}
}
