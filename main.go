package main

import (
	"flag"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/battlecam/camera"
	"github.com/pthm-cable/battlecam/config"
	"github.com/pthm-cable/battlecam/engine"
	"github.com/pthm-cable/battlecam/selection"
	"github.com/pthm-cable/battlecam/sim"
	"github.com/pthm-cable/battlecam/telemetry"
	"github.com/pthm-cable/battlecam/terrain"
	"github.com/pthm-cable/battlecam/ui"
)

const (
	screenWidth  = 1280
	screenHeight = 720
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run a scripted flight without graphics")
	watch := flag.Bool("watch", false, "Hot-reload the config file on change")
	outputDir := flag.String("output-dir", "", "Output directory for perf CSV and config snapshot")
	seed := flag.Int64("seed", 0, "Terrain and unit RNG seed (0 = time-based)")
	units := flag.Int("units", 60, "Number of units to spawn")
	maxTicks := flag.Int64("max-ticks", 0, "Stop after N engine ticks (0 = unlimited, headless defaults to 1440)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	store, err := config.NewStore(config.FileSource(*configPath))
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := store.Current()

	if *watch && *configPath != "" {
		watcher, err := config.Watch(*configPath, store, logger)
		if err != nil {
			slog.Error("failed to watch config", "error", err)
			os.Exit(1)
		}
		defer watcher.Close()
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Warn("failed to snapshot config", "error", err)
	}

	params := terrain.DefaultHeightfieldParams()
	params.Extent = float32(cfg.World.Extent)
	field := terrain.NewHeightfield(rngSeed, params)

	slog.Info("battlefield generated", "seed", rngSeed, "extent", params.Extent)

	if *headless {
		ticks := *maxTicks
		if ticks == 0 {
			ticks = 1440
		}
		runHeadless(store, field, output, ticks)
		return
	}
	runInteractive(store, field, output, rngSeed, *units, *maxTicks)
}

// runHeadless plays a fixed flight script through the engine at full tick
// rate, for soak testing and perf capture without a display.
func runHeadless(store *config.Store, field *terrain.Heightfield, output *telemetry.OutputManager, maxTicks int64) {
	cfg := store.Current()
	kb := cfg.Keybinds

	hold := func(codes ...int) []int { return codes }
	script := []sim.ScriptStep{
		{Hold: hold(kb.Freecam), Ticks: 10},
		{Hold: hold(kb.Freecam, kb.Forward), Ticks: 400},
		{Hold: hold(kb.Freecam, kb.Forward, kb.RotateLeft), Ticks: 300},
		{Hold: hold(kb.Freecam, kb.Down), Ticks: 300},
		{Hold: hold(kb.Freecam, kb.Forward, kb.Fast), Ticks: 400},
		{Hold: nil, Ticks: 30},
	}

	port := sim.NewScriptedHost(camera.Transform{Z: 60, Pitch: -0.6}, script)
	eng := engine.New(engine.Options{
		Port:    port,
		Store:   store,
		Terrain: field,
		Logger:  slog.Default(),
	})
	eng.Start()
	defer eng.Stop()

	slog.Info("starting headless flight", "max_ticks", maxTicks)

	for {
		time.Sleep(250 * time.Millisecond)
		st := eng.Status()
		if err := output.WritePerf(eng.Perf().Window()); err != nil {
			slog.Warn("perf write failed", "error", err)
		}
		if port.Done() || (maxTicks > 0 && st.Ticks >= maxTicks) {
			cam := port.Camera()
			slog.Info("flight complete",
				"ticks", st.Ticks,
				"overruns", st.Overruns,
				"x", cam.X, "y", cam.Y, "z", cam.Z,
			)
			return
		}
	}
}

// runInteractive opens a raylib window over the simulated battlefield.
func runInteractive(store *config.Store, field *terrain.Heightfield, output *telemetry.OutputManager, seed int64, units int, maxTicks int64) {
	rl.InitWindow(screenWidth, screenHeight, "battlecam")
	defer rl.CloseWindow()
	rl.SetTargetFPS(144)

	world := sim.NewWorld(field, units, seed)
	port := sim.NewHost(0, 0, 60)

	renderer := sim.NewRenderer(screenWidth, screenHeight)
	renderer.Init(world)
	defer renderer.Unload()

	// Selected unit is written by the arbiter goroutine and read by the
	// render loop.
	var selected atomic.Uint32

	eng := engine.New(engine.Options{
		Port:    port,
		Store:   store,
		Terrain: field,
		Logger:  slog.Default(),
		OnDoubleClick: func(unit uint32) {
			selected.Store(unit)
			pos, ok := world.UnitPosition(unit)
			if !ok {
				return
			}
			ground, _ := world.GroundAt(pos.X, pos.Y)
			// Teleporting from outside the engine exercises the same
			// resync path a host cutscene would.
			port.Teleport(camera.Transform{
				X: pos.X, Y: pos.Y, Z: ground + 40, Pitch: -0.6,
			})
		},
	})
	eng.Start()
	defer eng.Stop()

	hud := ui.NewHUD(store)
	lastPerfWrite := time.Now()

	for !rl.WindowShouldClose() {
		cfg := store.Current()
		port.CaptureInput(cfg.Keybinds.Codes())

		if rl.IsKeyPressed(rl.KeyTab) {
			hud.TogglePanel()
		}

		if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
			mouse := rl.GetMousePosition()
			wx, wy := renderer.ScreenToWorld(mouse.X, mouse.Y, port.Camera())
			if unit, ok := world.UnitAt(wx, wy); ok {
				eng.OfferClick(selection.ClickEvent{
					Unit:    unit,
					CursorX: mouse.X,
					CursorY: mouse.Y,
					At:      time.Now(),
				})
			}
		}

		st := eng.Status()

		rl.BeginDrawing()
		rl.ClearBackground(rl.Color{R: 12, G: 14, B: 18, A: 255})
		renderer.Draw(world, st.Transform, selected.Load())
		hud.Draw(ui.HUDData{
			Status:       st,
			Perf:         eng.Perf().Window(),
			FPS:          rl.GetFPS(),
			Units:        world.Count(),
			Selected:     selected.Load(),
			ScreenWidth:  screenWidth,
			ScreenHeight: screenHeight,
		})
		rl.EndDrawing()

		if time.Since(lastPerfWrite) >= time.Second {
			lastPerfWrite = time.Now()
			if err := output.WritePerf(eng.Perf().Window()); err != nil {
				slog.Warn("perf write failed", "error", err)
			}
		}

		if maxTicks > 0 && st.Ticks >= maxTicks {
			break
		}
	}
}
