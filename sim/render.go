package sim

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/battlecam/camera"
)

func sinf(a float32) float32 { return float32(math.Sin(float64(a))) }
func cosf(a float32) float32 { return float32(math.Cos(float64(a))) }

// Renderer draws the battlefield top-down: the heightfield baked into a
// texture once, units as circles, and the camera as a heading marker. The
// view is centered on the freecam position so flying around scrolls the
// map.
type Renderer struct {
	screenW, screenH int32

	// Pixels per world unit.
	zoom float32

	fieldTex   rl.Texture2D
	fieldReady bool
}

// NewRenderer creates a renderer for the given screen size.
func NewRenderer(screenW, screenH int32) *Renderer {
	return &Renderer{
		screenW: screenW,
		screenH: screenH,
		zoom:    0.5,
	}
}

// Init bakes the heightfield into a texture. Must run after the raylib
// window exists.
func (r *Renderer) Init(w *World) {
	field := w.Field()
	n := field.Resolution()
	min, max := field.Bounds()
	span := max - min
	if span <= 0 {
		span = 1
	}

	img := rl.GenImageColor(n, n, rl.Black)
	tex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)

	pixels := make([]color.RGBA, n*n)
	for gy := 0; gy < n; gy++ {
		for gx := 0; gx < n; gx++ {
			t := (field.At(gx, gy) - min) / span
			// Low ground dark green, plateaus toward sandy brown.
			pixels[gy*n+gx] = color.RGBA{
				R: uint8(40 + t*140),
				G: uint8(90 + t*70),
				B: uint8(40 + t*30),
				A: 255,
			}
		}
	}
	rl.UpdateTexture(tex, pixels)
	rl.SetTextureFilter(tex, rl.FilterBilinear)

	r.fieldTex = tex
	r.fieldReady = true
}

// Unload releases GPU resources.
func (r *Renderer) Unload() {
	if r.fieldReady {
		rl.UnloadTexture(r.fieldTex)
		r.fieldReady = false
	}
}

// worldToScreen maps battlefield coordinates to screen pixels with the
// view centered on (cx, cy).
func (r *Renderer) worldToScreen(x, y, cx, cy float32) (float32, float32) {
	sx := float32(r.screenW)/2 + (x-cx)*r.zoom
	sy := float32(r.screenH)/2 + (y-cy)*r.zoom
	return sx, sy
}

// ScreenToWorld maps a screen point back to battlefield coordinates, for
// click picking.
func (r *Renderer) ScreenToWorld(sx, sy float32, cam camera.Transform) (float32, float32) {
	wx := cam.X + (sx-float32(r.screenW)/2)/r.zoom
	wy := cam.Y + (sy-float32(r.screenH)/2)/r.zoom
	return wx, wy
}

// Draw renders one frame of the battlefield under the given camera.
func (r *Renderer) Draw(w *World, cam camera.Transform, selected uint32) {
	extent := w.Field().Extent()

	if r.fieldReady {
		sx, sy := r.worldToScreen(-extent, -extent, cam.X, cam.Y)
		size := 2 * extent * r.zoom
		rl.DrawTexturePro(
			r.fieldTex,
			rl.Rectangle{X: 0, Y: 0, Width: float32(r.fieldTex.Width), Height: float32(r.fieldTex.Height)},
			rl.Rectangle{X: sx, Y: sy, Width: size, Height: size},
			rl.Vector2{},
			0,
			rl.White,
		)
	}

	w.Each(func(pos Position, unit Unit) {
		sx, sy := r.worldToScreen(pos.X, pos.Y, cam.X, cam.Y)
		if sx < -20 || sx > float32(r.screenW)+20 || sy < -20 || sy > float32(r.screenH)+20 {
			return
		}
		c := rl.Color{R: 200, G: 60, B: 60, A: 255}
		if unit.ID == selected {
			c = rl.Yellow
			rl.DrawCircleLines(int32(sx), int32(sy), unit.Radius*r.zoom+4, rl.White)
		}
		rl.DrawCircle(int32(sx), int32(sy), unit.Radius*r.zoom, c)
	})

	r.drawCameraMarker(cam)
}

// drawCameraMarker draws the freecam as a heading triangle at screen
// center with a shadow ring sized by altitude.
func (r *Renderer) drawCameraMarker(cam camera.Transform) {
	cx := float32(r.screenW) / 2
	cy := float32(r.screenH) / 2

	ring := 6 + cam.Z*0.15*r.zoom
	rl.DrawCircleLines(int32(cx), int32(cy), ring, rl.Color{R: 255, G: 255, B: 255, A: 90})

	dirX := cosf(cam.Yaw)
	dirY := sinf(cam.Yaw)
	tip := rl.Vector2{X: cx + dirX*14, Y: cy + dirY*14}
	left := rl.Vector2{X: cx - dirY*6 - dirX*6, Y: cy + dirX*6 - dirY*6}
	right := rl.Vector2{X: cx + dirY*6 - dirX*6, Y: cy - dirX*6 - dirY*6}
	rl.DrawTriangle(tip, left, right, rl.SkyBlue)
}
