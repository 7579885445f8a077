package renderer

import (
	"image/color"

	"github.com/Carmen-Shannon/oxy-raster/engine/renderer/framebuffer"
	"github.com/Carmen-Shannon/oxy-raster/engine/renderer/shader"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithSurface sets the Surface that EndFrame flushes completed frames to.
//
// Parameters:
//   - s: the presentation surface
//
// Returns:
//   - RendererBuilderOption: a function that applies the surface option to a renderer
func WithSurface(s framebuffer.Surface) RendererBuilderOption {
	return func(r *renderer) {
		r.surface = s
	}
}

// WithMode sets the initial shading mode. The default is shader.ModeSun.
//
// Parameters:
//   - m: the initial mode
//
// Returns:
//   - RendererBuilderOption: a function that applies the mode option to a renderer
func WithMode(m shader.Mode) RendererBuilderOption {
	return func(r *renderer) {
		r.mode = m
	}
}

// WithEnvironment sets the light, noise and ambient term used by every fragment program.
//
// Parameters:
//   - env: the shading environment
//
// Returns:
//   - RendererBuilderOption: a function that applies the environment option to a renderer
func WithEnvironment(env shader.Environment) RendererBuilderOption {
	return func(r *renderer) {
		r.env = env
	}
}

// WithBackground sets the colour each frame is cleared to.
//
// Parameters:
//   - c: the background colour
//
// Returns:
//   - RendererBuilderOption: a function that applies the background option to a renderer
func WithBackground(c color.RGBA) RendererBuilderOption {
	return func(r *renderer) {
		r.background = c
	}
}

// WithWorkers sets the number of rasterization and shading workers. With 1 worker every
// stage runs inline on the calling goroutine. The default is max(runtime.NumCPU()-1, 1).
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - RendererBuilderOption: a function that applies the worker option to a renderer
func WithWorkers(n int) RendererBuilderOption {
	return func(r *renderer) {
		r.workers = max(n, 1)
	}
}

// WithChunkSize sets how many triangles each rasterization task handles.
//
// Parameters:
//   - n: triangles per task
//
// Returns:
//   - RendererBuilderOption: a function that applies the chunk size option to a renderer
func WithChunkSize(n int) RendererBuilderOption {
	return func(r *renderer) {
		r.chunkSize = max(n, 1)
	}
}

// WithBandHeight sets the height in rows of the framebuffer bands that partition shading.
// Each band is shaded by exactly one task.
//
// Parameters:
//   - rows: rows per band
//
// Returns:
//   - RendererBuilderOption: a function that applies the band height option to a renderer
func WithBandHeight(rows int) RendererBuilderOption {
	return func(r *renderer) {
		r.bandHeight = max(rows, 1)
	}
}
