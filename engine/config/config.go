// Package config loads the YAML description of a planet scene: window, renderer, camera,
// light and the bodies to draw.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-raster/common"
	"github.com/Carmen-Shannon/oxy-raster/engine/renderer/shader"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// defaultSegments is the sphere tessellation of a body that does not set one.
var defaultSegments = [2]int{24, 32}

// maxConfigSize bounds the file Load will read.
const maxConfigSize = 1024 * 1024

// Config is the top-level application configuration.
type Config struct {
	Window Window `yaml:"window"`
	Render Render `yaml:"render"`
	Camera Camera `yaml:"camera"`
	Light  Light  `yaml:"light"`
	Bodies []Body `yaml:"bodies"`
}

// Window configures the presentation window.
type Window struct {
	Title      string  `yaml:"title"`
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Resizable  bool    `yaml:"resizable"`
	FrameLimit float64 `yaml:"frame_limit"` // frames per second, 0 = uncapped
	VSync      bool    `yaml:"vsync"`
}

// Render configures the software pipeline.
type Render struct {
	Mode       shader.Mode `yaml:"mode"`
	Seed       int64       `yaml:"seed"`
	Workers    int         `yaml:"workers"` // 0 = one per CPU minus one
	ChunkSize  int         `yaml:"chunk_size"`
	BandHeight int         `yaml:"band_height"`
	Background [3]int      `yaml:"background"` // RGB, 0-255
	Profiling  bool        `yaml:"profiling"`
	Culling    *bool       `yaml:"culling"` // nil = enabled
}

// Camera configures the perspective camera and its orbit controller.
type Camera struct {
	Fov        float32 `yaml:"fov"` // vertical, degrees
	Near       float32 `yaml:"near"`
	Far        float32 `yaml:"far"`
	Radius     float32 `yaml:"radius"`
	MinRadius  float32 `yaml:"min_radius"`
	MaxRadius  float32 `yaml:"max_radius"`
	ZoomSpeed  float32 `yaml:"zoom_speed"`
	OrbitSpeed float32 `yaml:"orbit_speed"`
}

// Light configures the scene's point light.
type Light struct {
	Position [3]float32 `yaml:"position"`
	Ambient  float32    `yaml:"ambient"`
}

// Body describes one sphere in the scene.
type Body struct {
	Name        string       `yaml:"name"`
	Mode        *shader.Mode `yaml:"mode"` // nil = follow the renderer's active mode
	Position    [3]float32   `yaml:"position"`
	Scale       float32      `yaml:"scale"`
	Spin        [3]float32   `yaml:"spin"` // radians per second
	Parent      string       `yaml:"parent"`
	OrbitRadius float32      `yaml:"orbit_radius"`
	OrbitSpeed  float32      `yaml:"orbit_speed"`
	OrbitPhase  float32      `yaml:"orbit_phase"`
	Segments    [2]int       `yaml:"segments"` // latitude, longitude
	EmitsLight  bool         `yaml:"emits_light"`
}

// Default returns the built-in scene: an 800x600 window looking at a spinning planet from
// (0, 0, 2.5) with a moon in orbit, lit from (2, 2, 2).
func Default() Config {
	pluton := shader.ModePluton
	return Config{
		Window: Window{
			Title:  "oxy-raster",
			Width:  800,
			Height: 600,
		},
		Render: Render{
			Mode:       shader.ModeSun,
			ChunkSize:  64,
			BandHeight: 16,
		},
		Camera: Camera{
			Fov:        45,
			Near:       0.1,
			Far:        100,
			Radius:     2.5,
			MinRadius:  1.2,
			MaxRadius:  20,
			ZoomSpeed:  0.1,
			OrbitSpeed: 0.05,
		},
		Light: Light{
			Position: [3]float32{2, 2, 2},
			Ambient:  shader.DefaultAmbient,
		},
		Bodies: []Body{
			{
				Name:     "planet",
				Scale:    1,
				Spin:     [3]float32{0, 0.3, 0},
				Segments: [2]int{32, 48},
			},
			{
				Name:        "moon",
				Mode:        &pluton,
				Scale:       0.25,
				Spin:        [3]float32{0, 0.6, 0},
				Parent:      "planet",
				OrbitRadius: 1.6,
				OrbitSpeed:  0.4,
				Segments:    [2]int{12, 18},
			},
		},
	}
}

// Load reads a YAML file over Default and validates the result. Sections or fields missing
// from the file keep their default values; a bodies list replaces the default bodies.
//
// Parameters:
//   - path: the file to read
//
// Returns:
//   - Config: the loaded configuration
//   - error: a read, parse or ErrInvalidConfig error
func Load(path string) (Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to stat config: %w", err)
	}
	if info.Size() > maxConfigSize {
		return Config{}, fmt.Errorf("config file %s is too large (%d bytes)", path, info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over Default and validates the result.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - Config: the parsed configuration
//   - error: a parse or ErrInvalidConfig error
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	for i := range cfg.Bodies {
		b := &cfg.Bodies[i]
		b.Scale = common.Coalesce(b.Scale, 1)
		if b.Segments == [2]int{} {
			b.Segments = defaultSegments
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Marshal encodes the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks every section and returns the first problem wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return invalid("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Window.FrameLimit < 0 {
		return invalid("frame_limit %v must not be negative", c.Window.FrameLimit)
	}

	for _, v := range c.Render.Background {
		if v < 0 || v > 255 {
			return invalid("background %v must be 0-255 per channel", c.Render.Background)
		}
	}
	if !c.Render.Mode.Valid() {
		return invalid("render mode %v", c.Render.Mode)
	}
	if c.Render.Workers < 0 || c.Render.ChunkSize < 0 || c.Render.BandHeight < 0 {
		return invalid("workers, chunk_size and band_height must not be negative")
	}

	if c.Camera.Fov <= 0 || c.Camera.Fov >= 180 {
		return invalid("camera fov %v must be in (0, 180)", c.Camera.Fov)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return invalid("camera planes need 0 < near < far, got %v and %v", c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.MinRadius <= 0 || c.Camera.MaxRadius < c.Camera.MinRadius {
		return invalid("camera radius bounds [%v, %v]", c.Camera.MinRadius, c.Camera.MaxRadius)
	}
	if c.Camera.Radius < c.Camera.MinRadius || c.Camera.Radius > c.Camera.MaxRadius {
		return invalid("camera radius %v outside [%v, %v]", c.Camera.Radius, c.Camera.MinRadius, c.Camera.MaxRadius)
	}

	if c.Light.Ambient < 0 || c.Light.Ambient > 1 {
		return invalid("light ambient %v must be in [0, 1]", c.Light.Ambient)
	}

	seen := make(map[string]bool, len(c.Bodies))
	for i, b := range c.Bodies {
		if b.Name == "" {
			return invalid("body %d has no name", i)
		}
		if seen[b.Name] {
			return invalid("duplicate body %q", b.Name)
		}
		if b.Mode != nil && !b.Mode.Valid() {
			return invalid("body %q mode %v", b.Name, *b.Mode)
		}
		if b.Scale <= 0 {
			return invalid("body %q scale %v must be positive", b.Name, b.Scale)
		}
		if b.Segments[0] < 2 || b.Segments[1] < 3 {
			return invalid("body %q needs at least 2x3 segments, got %v", b.Name, b.Segments)
		}
		// Parents must be declared first so orbits form a forest.
		if b.Parent != "" && !seen[b.Parent] {
			return invalid("body %q orbits %q, which is not declared before it", b.Name, b.Parent)
		}
		seen[b.Name] = true
	}
	return nil
}
