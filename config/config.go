// Package config provides configuration loading, validation, and the
// atomically hot-swappable store consumed by the camera control engine.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/battlecam/camera"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all engine tuning parameters. A Config is a value: it is
// constructed by Load, validated, and never mutated afterwards. Reloads
// replace the whole value through the Store.
type Config struct {
	// UpdateRate is the engine tick rate in Hz. Below ~60 the smoothing
	// math degrades visibly.
	UpdateRate int `yaml:"update_rate"`

	// SmoothingReferenceRate is the tick rate the smoothing coefficients
	// were tuned at. Actual tick durations are normalized against it.
	SmoothingReferenceRate int `yaml:"smoothing_reference_rate"`

	Keybinds  KeybindsConfig  `yaml:"keybinds"`
	Camera    CameraConfig    `yaml:"camera"`
	World     WorldConfig     `yaml:"world"`
	Selection SelectionConfig `yaml:"selection"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// KeybindsConfig maps logical actions to input codes. Codes 1-8 address
// mouse buttons (button + 1), higher codes are keyboard keys in the host's
// layout.
type KeybindsConfig struct {
	Forward     int `yaml:"forward"`
	Backward    int `yaml:"backward"`
	Left        int `yaml:"left"`
	Right       int `yaml:"right"`
	Up          int `yaml:"up"`
	Down        int `yaml:"down"`
	RotateLeft  int `yaml:"rotate_left"`
	RotateRight int `yaml:"rotate_right"`
	Fast        int `yaml:"fast"`
	Slow        int `yaml:"slow"`
	Freecam     int `yaml:"freecam"`

	// ReloadChord lists codes that must all be held to trigger a config
	// reload.
	ReloadChord []int `yaml:"reload_chord"`
}

// Codes returns the deduplicated set of all bound input codes, chord
// included. Host integrations use it to know which codes to capture.
func (k KeybindsConfig) Codes() []int {
	all := []int{
		k.Forward, k.Backward, k.Left, k.Right, k.Up, k.Down,
		k.RotateLeft, k.RotateRight, k.Fast, k.Slow, k.Freecam,
	}
	all = append(all, k.ReloadChord...)

	seen := make(map[int]bool, len(all))
	out := make([]int, 0, len(all))
	for _, c := range all {
		if c <= 0 || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// CameraConfig holds motion tuning.
type CameraConfig struct {
	// Smoothing coefficients in (0, 1); higher is smoother but laggier.
	// Values >= 1 diverge and are rejected at validation time.
	HorizontalSmoothing float64 `yaml:"horizontal_smoothing"`
	VerticalSmoothing   float64 `yaml:"vertical_smoothing"`
	PanSmoothing        float64 `yaml:"pan_smoothing"`

	// Base speeds in world units (radians for rotate) per second.
	HorizontalBaseSpeed float64 `yaml:"horizontal_base_speed"`
	VerticalBaseSpeed   float64 `yaml:"vertical_base_speed"`
	RotateSpeed         float64 `yaml:"rotate_speed"`

	FastMultiplier float64 `yaml:"fast_multiplier"`
	SlowMultiplier float64 `yaml:"slow_multiplier"`

	Sensitivity    float64 `yaml:"sensitivity"`
	Inverted       bool    `yaml:"inverted"`
	InvertedScroll bool    `yaml:"inverted_scroll"`

	MaintainRelativeHeight bool    `yaml:"maintain_relative_height"`
	PreventGroundClipping  bool    `yaml:"prevent_ground_clipping"`
	GroundClipMargin       float64 `yaml:"ground_clip_margin"`

	// RelativeHeightPanningDelay suppresses height correction for this
	// many seconds after horizontal panning begins.
	RelativeHeightPanningDelay float64 `yaml:"relative_height_panning_delay"`

	GroundDistance GroundDistanceConfig `yaml:"ground_distance"`
}

// GroundDistanceConfig controls speed scaling near the ground. The taper
// curve is deliberately a tunable ("off", "linear", "smoothstep").
type GroundDistanceConfig struct {
	Taper      string  `yaml:"taper"`
	FullHeight float64 `yaml:"full_height"`
	MinScale   float64 `yaml:"min_scale"`
}

// WorldConfig holds world geometry limits.
type WorldConfig struct {
	// Extent clamps the camera to ±extent on both horizontal axes.
	// Zero disables the clamp.
	Extent float64 `yaml:"extent"`
}

// SelectionConfig holds double-click arbitration tuning.
type SelectionConfig struct {
	// DoubleClickWindow is the maximum seconds between two clicks on the
	// same unit to count as one double-click.
	DoubleClickWindow float64 `yaml:"double_click_window"`

	// ClickTravelPx is the maximum cursor travel between the two clicks.
	ClickTravelPx float64 `yaml:"click_travel_px"`
}

// TelemetryConfig holds performance tracking parameters.
type TelemetryConfig struct {
	// PerfWindow is the number of ticks in the rolling stats window.
	PerfWindow int `yaml:"perf_window"`
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	TickInterval      time.Duration
	ReferenceTick     float32 // seconds
	PanningDelay      time.Duration
	DoubleClickWindow time.Duration
	TaperCurve        camera.TaperCurve
}

// Load loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects configurations that would destabilize the control loop.
func (c *Config) Validate() error {
	var errs []string

	if c.UpdateRate < 1 {
		errs = append(errs, fmt.Sprintf("update_rate must be >= 1, got %d", c.UpdateRate))
	}
	if c.SmoothingReferenceRate < 1 {
		errs = append(errs, fmt.Sprintf("smoothing_reference_rate must be >= 1, got %d", c.SmoothingReferenceRate))
	}

	// Coefficients >= 1 make the exponential filter diverge.
	for name, v := range map[string]float64{
		"horizontal_smoothing": c.Camera.HorizontalSmoothing,
		"vertical_smoothing":   c.Camera.VerticalSmoothing,
		"pan_smoothing":        c.Camera.PanSmoothing,
	} {
		if v <= 0 || v >= 1 {
			errs = append(errs, fmt.Sprintf("%s must be in (0, 1), got %g", name, v))
		}
	}

	if c.Camera.FastMultiplier <= 0 || c.Camera.SlowMultiplier <= 0 {
		errs = append(errs, "speed multipliers must be > 0")
	}
	if c.Camera.GroundClipMargin < 0 {
		errs = append(errs, fmt.Sprintf("ground_clip_margin must be >= 0, got %g", c.Camera.GroundClipMargin))
	}
	if c.Camera.RelativeHeightPanningDelay < 0 {
		errs = append(errs, "relative_height_panning_delay must be >= 0")
	}
	if _, err := parseTaper(c.Camera.GroundDistance.Taper); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Selection.DoubleClickWindow <= 0 {
		errs = append(errs, "double_click_window must be > 0")
	}
	if c.World.Extent < 0 {
		errs = append(errs, "world extent must be >= 0")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func parseTaper(s string) (camera.TaperCurve, error) {
	switch s {
	case "", "off":
		return camera.TaperOff, nil
	case "linear":
		return camera.TaperLinear, nil
	case "smoothstep":
		return camera.TaperSmoothstep, nil
	default:
		return camera.TaperOff, fmt.Errorf("ground_distance.taper must be off, linear, or smoothstep, got %q", s)
	}
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.TickInterval = time.Duration(float64(time.Second) / float64(c.UpdateRate))
	c.Derived.ReferenceTick = float32(1.0 / float64(c.SmoothingReferenceRate))
	c.Derived.PanningDelay = time.Duration(c.Camera.RelativeHeightPanningDelay * float64(time.Second))
	c.Derived.DoubleClickWindow = time.Duration(c.Selection.DoubleClickWindow * float64(time.Second))
	c.Derived.TaperCurve, _ = parseTaper(c.Camera.GroundDistance.Taper)
}

// Clone returns a deep copy, for deriving an edited config to publish
// through the store.
func (c *Config) Clone() *Config {
	out := *c
	out.Keybinds.ReloadChord = append([]int(nil), c.Keybinds.ReloadChord...)
	return &out
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
