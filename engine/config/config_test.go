package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-raster/engine/renderer"
	"github.com/Carmen-Shannon/oxy-raster/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
window:
  title: planets
render:
  mode: neptune
  workers: 2
light:
  position: [0, 3, 1]
`))
	require.NoError(t, err)

	assert.Equal(t, "planets", cfg.Window.Title)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, shader.ModeNeptune, cfg.Render.Mode)
	assert.Equal(t, 2, cfg.Render.Workers)
	assert.Equal(t, [3]float32{0, 3, 1}, cfg.Light.Position)
	assert.Equal(t, shader.DefaultAmbient, cfg.Light.Ambient)
	assert.Len(t, cfg.Bodies, 2)
}

func TestParseBodies(t *testing.T) {
	cfg, err := Parse([]byte(`
bodies:
  - name: sun
    mode: sun
    emits_light: true
    position: [0, 0, -5]
  - name: rock
    parent: sun
    orbit_radius: 2
    scale: 0.3
`))
	require.NoError(t, err)
	require.Len(t, cfg.Bodies, 2)

	sun := cfg.Bodies[0]
	require.NotNil(t, sun.Mode)
	assert.Equal(t, shader.ModeSun, *sun.Mode)
	assert.Equal(t, float32(1), sun.Scale)
	assert.Equal(t, defaultSegments, sun.Segments)

	rock := cfg.Bodies[1]
	assert.Nil(t, rock.Mode)
	assert.Equal(t, "sun", rock.Parent)
}

func TestParseRejectsUnknownMode(t *testing.T) {
	_, err := Parse([]byte("render:\n  mode: jupiter\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, shader.ErrUnknownMode)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "zero width", mutate: func(c *Config) { c.Window.Width = 0 }},
		{name: "negative frame limit", mutate: func(c *Config) { c.Window.FrameLimit = -1 }},
		{name: "background channel", mutate: func(c *Config) { c.Render.Background = [3]int{0, 256, 0} }},
		{name: "bad mode", mutate: func(c *Config) { c.Render.Mode = shader.Mode(99) }},
		{name: "negative workers", mutate: func(c *Config) { c.Render.Workers = -1 }},
		{name: "fov too wide", mutate: func(c *Config) { c.Camera.Fov = 180 }},
		{name: "near behind far", mutate: func(c *Config) { c.Camera.Near = 200 }},
		{name: "radius out of bounds", mutate: func(c *Config) { c.Camera.Radius = 50 }},
		{name: "ambient above one", mutate: func(c *Config) { c.Light.Ambient = 1.5 }},
		{name: "unnamed body", mutate: func(c *Config) { c.Bodies[0].Name = "" }},
		{name: "duplicate body", mutate: func(c *Config) { c.Bodies[1].Name = c.Bodies[0].Name }},
		{name: "negative scale", mutate: func(c *Config) { c.Bodies[0].Scale = -1 }},
		{name: "too few segments", mutate: func(c *Config) { c.Bodies[0].Segments = [2]int{1, 3} }},
		{name: "unknown parent", mutate: func(c *Config) { c.Bodies[1].Parent = "nowhere" }},
		{name: "parent declared later", mutate: func(c *Config) { c.Bodies[0], c.Bodies[1] = c.Bodies[1], c.Bodies[0] }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Bodies = append([]Body(nil), cfg.Bodies...)
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yml")
	require.NoError(t, os.WriteFile(path, []byte("camera:\n  radius: 4\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, float32(4), cfg.Camera.Radius)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMarshalRoundTripsModes(t *testing.T) {
	data, err := Default().Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "mode: pluton")

	cfg, err := Parse(data)
	require.NoError(t, err)
	require.NotNil(t, cfg.Bodies[1].Mode)
	assert.Equal(t, shader.ModePluton, *cfg.Bodies[1].Mode)
}

func TestNewSceneBuildsBodies(t *testing.T) {
	cfg := Default()
	s, err := cfg.NewScene("default")
	require.NoError(t, err)

	objs := s.Objects()
	require.Len(t, objs, 2)
	planet, moon := objs[0], objs[1]

	assert.Equal(t, "planet", planet.Name())
	_, forced := planet.Mode()
	assert.False(t, forced)

	m, forced := moon.Mode()
	assert.True(t, forced)
	assert.Equal(t, shader.ModePluton, m)
	assert.Equal(t, planet, moon.Parent())
	assertNear(t, mgl32.Vec3{1.6, 0, 0}, moon.WorldPosition(), 1e-5)

	assert.InDelta(t, 800.0/600.0, s.Camera().Aspect(), 1e-6)
	assertNear(t, mgl32.Vec3{0, 0, 2.5}, s.Camera().Controller().Position(), 1e-5)
}

func TestRendererOptions(t *testing.T) {
	cfg := Default()
	cfg.Render.Mode = shader.ModeVenus
	cfg.Render.Workers = 1
	cfg.Render.Background = [3]int{10, 20, 30}

	r, err := renderer.NewRenderer(8, 8, cfg.RendererOptions()...)
	require.NoError(t, err)
	t.Cleanup(r.Release)
	assert.Equal(t, shader.ModeVenus, r.Mode())
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, r.Environment().Light)

	r.BeginFrame()
	assert.Equal(t, []byte{10, 20, 30, 255}, r.Framebuffer().Pixels()[:4])
}

// assertNear compares by distance; ApproxEqual is absolute at 1e-10 wherever a component is 0.
func assertNear(t *testing.T, want, got mgl32.Vec3, tol float32) {
	t.Helper()
	assert.LessOrEqual(t, got.Sub(want).Len(), tol, "want %v, got %v", want, got)
}
