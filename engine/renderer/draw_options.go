package renderer

import (
	"github.com/Carmen-Shannon/oxy-raster/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// drawConfig collects the per-call settings of one Draw.
type drawConfig struct {
	mode *shader.Mode

	hasBounds bool
	center    mgl32.Vec3
	radius    float32
}

// DrawOption adjusts a single Draw call without touching renderer state.
type DrawOption func(*drawConfig)

// WithModeOverride shades this draw call with m instead of the renderer's active mode.
// The active mode is neither read nor changed.
//
// Parameters:
//   - m: the mode for this call
//
// Returns:
//   - DrawOption: the override option
func WithModeOverride(m shader.Mode) DrawOption {
	return func(d *drawConfig) {
		d.mode = &m
	}
}

// WithBounds gives the model-space bounding sphere of the vertex buffer. When the sphere is
// entirely outside the view frustum the draw call returns before any vertex work.
//
// Parameters:
//   - center: sphere center in model space
//   - radius: sphere radius in model space
//
// Returns:
//   - DrawOption: the bounds option
func WithBounds(center mgl32.Vec3, radius float32) DrawOption {
	return func(d *drawConfig) {
		d.hasBounds = true
		d.center = center
		d.radius = radius
	}
}
