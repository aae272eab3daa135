// Package ui renders the on-screen HUD and the live tuning panel for the
// freecam engine.
package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/battlecam/config"
	"github.com/pthm-cable/battlecam/engine"
	"github.com/pthm-cable/battlecam/telemetry"
)

// HUDData holds the per-frame values the HUD displays.
type HUDData struct {
	Status   engine.Status
	Perf     telemetry.PerfRow
	FPS      int32
	Units    int
	Selected uint32

	ScreenWidth  int32
	ScreenHeight int32
}

// HUD renders engine state and hosts the tuning panel.
type HUD struct {
	store *config.Store

	panelVisible bool
}

// NewHUD creates a HUD bound to the config store so slider edits publish
// new config snapshots.
func NewHUD(store *config.Store) *HUD {
	return &HUD{store: store}
}

// TogglePanel shows or hides the tuning panel.
func (h *HUD) TogglePanel() {
	h.panelVisible = !h.panelVisible
}

// Draw renders the HUD for one frame.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText("battlecam", 10, 10, 20, rl.White)

	st := data.Status
	rl.DrawText(
		fmt.Sprintf("Mode: %s | Pos: (%.1f, %.1f, %.1f) | Yaw: %.2f Pitch: %.2f",
			st.Mode, st.Transform.X, st.Transform.Y, st.Transform.Z, st.Transform.Yaw, st.Transform.Pitch),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | Avg: %.2fms Max: %.2fms Overruns: %d | FPS: %d",
			data.Perf.Tick, data.Perf.AvgMs, data.Perf.MaxMs, data.Perf.Overruns, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	sel := "none"
	if data.Selected != 0 {
		sel = fmt.Sprintf("unit %d", data.Selected)
	}
	rl.DrawText(
		fmt.Sprintf("Units: %d | Selected: %s", data.Units, sel),
		10, 75, 16, rl.LightGray,
	)

	rl.DrawText(
		"Hold RMB to fly | WASD move, Q/E rotate, wheel height | double-click unit to jump | Tab: tuning",
		10, data.ScreenHeight-25, 14, rl.Gray,
	)

	if h.panelVisible {
		h.drawPanel(data)
	}
}

// drawPanel renders the live tuning sliders. Edits go through Clone and
// Replace so the engine picks up a whole validated snapshot, never a
// partially edited one.
func (h *HUD) drawPanel(data HUDData) {
	cfg := h.store.Current()
	edited := cfg.Clone()
	changed := false

	panelX := float32(data.ScreenWidth - 330)
	panelY := float32(10)
	width := float32(320)

	rl.DrawRectangle(int32(panelX)-10, int32(panelY)-10, int32(width)+20, 330, rl.Color{R: 20, G: 25, B: 30, A: 230})
	rl.DrawText("Camera Tuning", int32(panelX), int32(panelY), 20, rl.White)
	panelY += 30

	slider := func(label string, value float32, min, max float32) float32 {
		rl.DrawText(label, int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		v := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: width - 70, Height: 20},
			"", "",
			value, min, max,
		)
		rl.DrawText(fmt.Sprintf("%.3f", value), int32(panelX+width-60), int32(panelY+2), 16, rl.LightGray)
		panelY += 30
		return v
	}

	if v := slider("Horizontal smoothing", float32(edited.Camera.HorizontalSmoothing), 0.5, 0.99); v != float32(edited.Camera.HorizontalSmoothing) {
		edited.Camera.HorizontalSmoothing = float64(v)
		changed = true
	}
	if v := slider("Pan smoothing", float32(edited.Camera.PanSmoothing), 0.5, 0.99); v != float32(edited.Camera.PanSmoothing) {
		edited.Camera.PanSmoothing = float64(v)
		changed = true
	}
	if v := slider("Sensitivity", float32(edited.Camera.Sensitivity), 0.1, 5); v != float32(edited.Camera.Sensitivity) {
		edited.Camera.Sensitivity = float64(v)
		changed = true
	}
	if v := slider("Horizontal speed", float32(edited.Camera.HorizontalBaseSpeed), 10, 200); v != float32(edited.Camera.HorizontalBaseSpeed) {
		edited.Camera.HorizontalBaseSpeed = float64(v)
		changed = true
	}

	if v := gui.CheckBox(
		rl.Rectangle{X: panelX, Y: panelY, Width: 16, Height: 16},
		"Invert mouse", edited.Camera.Inverted,
	); v != edited.Camera.Inverted {
		edited.Camera.Inverted = v
		changed = true
	}
	panelY += 24

	if v := gui.CheckBox(
		rl.Rectangle{X: panelX, Y: panelY, Width: 16, Height: 16},
		"Prevent ground clipping", edited.Camera.PreventGroundClipping,
	); v != edited.Camera.PreventGroundClipping {
		edited.Camera.PreventGroundClipping = v
		changed = true
	}
	panelY += 24

	if v := gui.CheckBox(
		rl.Rectangle{X: panelX, Y: panelY, Width: 16, Height: 16},
		"Maintain relative height", edited.Camera.MaintainRelativeHeight,
	); v != edited.Camera.MaintainRelativeHeight {
		edited.Camera.MaintainRelativeHeight = v
		changed = true
	}
	panelY += 30

	if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 130, Height: 26}, "Reload config") {
		// Reload discards slider edits on purpose: the file wins.
		_ = h.store.Reload()
		changed = false
	}

	if changed {
		// Replace validates; a slider can never publish a broken config.
		_ = h.store.Replace(edited)
	}
}
