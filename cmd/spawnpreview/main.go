// Spawn preview tool - interactive view of the noise position policy and the
// classic force law, with sliders.
//
// Usage: go run ./cmd/spawnpreview
package main

import (
	"fmt"
	"image/color"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/particlelife/policies"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	gridSize     = 128
	samples      = 2000
)

// previewParams holds the tunable values.
type previewParams struct {
	NoiseScale float32
	Seed       int64
	Type       int
	Types      int
	Beta       float32
}

func defaultParams() previewParams {
	return previewParams{
		NoiseScale: 2,
		Seed:       12345,
		Type:       0,
		Types:      6,
		Beta:       policies.DefaultBeta,
	}
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Spawn Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaultParams()

	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	var points []r2.Vec
	showPoints := true
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			noise := policies.NewNoisePositions(params.Seed, float64(params.NoiseScale))
			updateTexture(texture, densityGrid(noise, params.Type))
			points = samplePositions(noise, params.Type, params.Types)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Density preview, domain [-1, 1]² mapped onto the square
		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridSize, Height: gridSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		if showPoints {
			for _, p := range points {
				x := 10 + float32(p.X+1)/2*previewSize
				y := 10 + float32(p.Y+1)/2*previewSize
				rl.DrawCircleV(rl.NewVector2(x, y), 1.5, rl.Orange)
			}
		}
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Samples: %d  Type: %d of %d", len(points), params.Type, params.Types), 15, statsY, 16, rl.DarkGray)

		drawForceCurve(policies.Classic(float64(params.Beta)), 10, statsY+30, previewSize, windowHeight-statsY-40)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Spawn Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		if v, changed := slider(&panelX, &panelY, "Noise scale (frequency over the domain)", "0.5", "8.0", params.NoiseScale, 0.5, 8, "%.2f"); changed {
			params.NoiseScale = v
			needsRegen = true
		}
		if v, changed := slider(&panelX, &panelY, "Types", "1", "12", float32(params.Types), 1, 12, "%.0f"); changed && int(v) != params.Types {
			params.Types = int(v)
			params.Type = min(params.Type, params.Types-1)
			needsRegen = true
		}
		if v, changed := slider(&panelX, &panelY, "Previewed type", "0", "11", float32(params.Type), 0, float32(params.Types-1), "%.0f"); changed && int(v) != params.Type {
			params.Type = int(v)
			needsRegen = true
		}
		if v, changed := slider(&panelX, &panelY, "Seed", "0", "99999", float32(params.Seed), 0, 99999, "%.0f"); changed && int64(v) != params.Seed {
			params.Seed = int64(v)
			needsRegen = true
		}

		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+int32(panelWidth)-20, int32(panelY), rl.LightGray)
		panelY += 15

		if v, changed := slider(&panelX, &panelY, "Beta (repulsion radius, relative to rmax)", "0.05", "0.95", params.Beta, 0.05, 0.95, "%.2f"); changed {
			params.Beta = v
		}
		panelY += 10

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(showPoints, "Hide Points", "Show Points")) {
			showPoints = !showPoints
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = int64(rl.GetRandomValue(0, 99999))
			needsRegen = true
		}
		panelY += 40
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams()
			needsRegen = true
		}
		panelY += 55

		// Output YAML
		yamlText := configYAML(params)
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		rl.DrawText(yamlText, int32(panelX), int32(panelY), 14, rl.Gray)

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yamlText)
		}

		rl.EndDrawing()
	}
}

// slider draws a labelled slider and advances the panel cursor.
func slider(panelX, panelY *float32, label, minText, maxText string, value, minValue, maxValue float32, format string) (float32, bool) {
	rl.DrawText(label, int32(*panelX), int32(*panelY), 14, rl.Gray)
	*panelY += 18
	next := gui.SliderBar(
		rl.Rectangle{X: *panelX, Y: *panelY, Width: float32(panelWidth - 80), Height: 20},
		minText, maxText,
		value, minValue, maxValue,
	)
	rl.DrawText(fmt.Sprintf(format, value), int32(*panelX+float32(panelWidth-70)), int32(*panelY+2), 16, rl.DarkGray)
	*panelY += 35
	return next, next != value
}

func configYAML(params previewParams) string {
	return fmt.Sprintf(`population:
  types: %d
generators:
  position: noise
  noise_scale: %.2f
  classic_beta: %.2f`, params.Types, params.NoiseScale, params.Beta)
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// densityGrid samples the acceptance probability over the domain.
func densityGrid(noise *policies.NoisePositions, typ int) []float64 {
	grid := make([]float64, gridSize*gridSize)
	for y := 0; y < gridSize; y++ {
		for x := 0; x < gridSize; x++ {
			pos := r2.Vec{
				X: (float64(x)+0.5)/gridSize*2 - 1,
				Y: (float64(y)+0.5)/gridSize*2 - 1,
			}
			grid[y*gridSize+x] = noise.Density(typ, pos)
		}
	}
	return grid
}

func samplePositions(noise *policies.NoisePositions, typ, types int) []r2.Vec {
	points := make([]r2.Vec, samples)
	for i := range points {
		points[i] = noise.Position(typ, types)
	}
	return points
}

// drawForceCurve plots the accelerator's radial force for coefficients 1 and -1.
func drawForceCurve(accel func(float64, r2.Vec) r2.Vec, x, y, w, h int32) {
	rl.DrawRectangleLines(x, y, w, h, rl.DarkGray)
	mid := y + h/2
	rl.DrawLine(x, mid, x+w, mid, rl.LightGray)

	for _, c := range []struct {
		a     float64
		color color.RGBA
	}{{1, rl.DarkGreen}, {-1, rl.Maroon}} {
		prevX, prevY := x, mid
		for px := int32(1); px < w; px++ {
			d := float64(px) / float64(w)
			f := accel(c.a, r2.Vec{X: d}).X
			py := mid - int32(f*float64(h)/2.2)
			rl.DrawLine(prevX, prevY, x+px, py, c.color)
			prevX, prevY = x+px, py
		}
	}
	rl.DrawText("force over distance / rmax", x+6, y+4, 12, rl.Gray)
}

// updateTexture updates the GPU texture from density values in [0, 1].
func updateTexture(texture rl.Texture2D, grid []float64) {
	pixels := make([]color.RGBA, len(grid))
	for i, v := range grid {
		g := uint8(v * 255)
		pixels[i] = color.RGBA{R: g / 3, G: g, B: g / 2, A: 255}
	}
	rl.UpdateTexture(texture, pixels)
}
