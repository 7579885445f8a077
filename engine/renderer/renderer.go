package renderer

import (
	"fmt"
	"image/color"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-raster/common"
	"github.com/Carmen-Shannon/oxy-raster/engine/geometry"
	"github.com/Carmen-Shannon/oxy-raster/engine/renderer/framebuffer"
	"github.com/Carmen-Shannon/oxy-raster/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-raster/engine/renderer/raster"
	"github.com/Carmen-Shannon/oxy-raster/engine/renderer/shader"
	"github.com/chewxy/math32"
)

const (
	defaultChunkSize  = 64
	defaultBandHeight = 16
)

// FrameStats counts the work done since the last BeginFrame.
type FrameStats struct {
	Draws     int
	Culled    int
	Triangles int
	Fragments int
	Written   int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	fb         framebuffer.Framebuffer
	surface    framebuffer.Surface
	background color.RGBA

	mode shader.Mode
	env  shader.Environment

	workers    int
	chunkSize  int
	bandHeight int
	pool       worker.DynamicWorkerPool

	stats FrameStats

	// Scratch buffers reused across draw calls. Only the frame goroutine touches them.
	vertices   []geometry.Vertex
	triangles  []geometry.Triangle
	chunkFrags [][]geometry.Fragment
	bands      [][]geometry.Fragment
	written    []int
}

// Renderer is the CPU render orchestrator. It owns the framebuffer and runs the pipeline
// stages for each draw call in a fixed order: vertex stage, primitive assembly,
// rasterization, then fragment shading with the depth test.
//
// BeginFrame, Draw and EndFrame form one frame and must be called from a single goroutine.
// The mode and environment accessors may be called from any goroutine, e.g. an input callback.
type Renderer interface {
	// Framebuffer returns the render target.
	Framebuffer() framebuffer.Framebuffer

	// SetSurface replaces the Surface that EndFrame presents to.
	//
	// Parameters:
	//   - s: the presentation surface, or nil to render without presenting
	SetSurface(s framebuffer.Surface)

	// Mode returns the active shading mode.
	Mode() shader.Mode

	// SetMode sets the active shading mode. It panics if m is not a valid mode.
	//
	// Parameters:
	//   - m: the new mode
	SetMode(m shader.Mode)

	// CycleMode advances the active mode to the next one in the cycle.
	//
	// Returns:
	//   - shader.Mode: the new active mode
	CycleMode() shader.Mode

	// Environment returns the shading environment.
	Environment() shader.Environment

	// SetEnvironment replaces the shading environment used by subsequent draw calls.
	//
	// Parameters:
	//   - env: the new environment
	SetEnvironment(env shader.Environment)

	// BeginFrame clears the colour grid to the background and the depth grid to the far plane,
	// and resets the frame statistics.
	BeginFrame()

	// Draw renders one vertex buffer into the framebuffer. The mode is read once at the start of
	// the call unless WithModeOverride supplies one. Draw may be called many times per frame;
	// results accumulate and the depth test resolves overlaps regardless of call order.
	//
	// Parameters:
	//   - buffer: model-space vertices, three per triangle
	//   - u: the uniforms for this call
	//   - opts: per-call options
	//
	// Returns:
	//   - error: pipeline.ErrVertexCount (wrapped) if the buffer is not whole triangles; the draw is aborted
	Draw(buffer []geometry.Vertex, u pipeline.Uniforms, opts ...DrawOption) error

	// EndFrame flushes the completed framebuffer to the surface, if one is set.
	//
	// Returns:
	//   - error: the wrapped surface error
	EndFrame() error

	// Resize reallocates the framebuffer.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	//
	// Returns:
	//   - error: framebuffer.ErrInvalidSize if either dimension is not positive
	Resize(width, height int) error

	// Stats returns the counters accumulated since the last BeginFrame.
	Stats() FrameStats

	// Release stops the worker pool. Later draws run on the calling goroutine.
	// Safe to call more than once.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer drawing into a new width x height framebuffer.
//
// Parameters:
//   - width: framebuffer width in pixels
//   - height: framebuffer height in pixels
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the renderer
//   - error: framebuffer.ErrInvalidSize if either dimension is not positive
func NewRenderer(width, height int, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:         &sync.Mutex{},
		background: color.RGBA{A: 255},
		mode:       shader.ModeSun,
		env:        shader.DefaultEnvironment(shader.NewSimplexNoise(0)),
		workers:    max(runtime.NumCPU()-1, 1),
		chunkSize:  defaultChunkSize,
		bandHeight: defaultBandHeight,
	}
	for _, opt := range options {
		opt(r)
	}
	if !r.mode.Valid() {
		return nil, fmt.Errorf("invalid initial mode %d", int(r.mode))
	}

	fb, err := framebuffer.New(width, height, framebuffer.WithBackground(r.background))
	if err != nil {
		return nil, fmt.Errorf("failed to create framebuffer: %w", err)
	}
	r.fb = fb

	if r.workers > 1 {
		r.pool = worker.NewDynamicWorkerPool(r.workers, 256, 1*time.Second)
	}
	return r, nil
}

func (r *renderer) Framebuffer() framebuffer.Framebuffer {
	return r.fb
}

func (r *renderer) SetSurface(s framebuffer.Surface) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.surface = s
}

func (r *renderer) Mode() shader.Mode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode
}

func (r *renderer) SetMode(m shader.Mode) {
	if !m.Valid() {
		panic(fmt.Sprintf("renderer: invalid mode %d", int(m)))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mode = m
}

func (r *renderer) CycleMode() shader.Mode {
	r.mu.Lock()
	r.mode = r.mode.Next()
	m := r.mode
	r.mu.Unlock()

	Logger().Info("shading mode changed", "mode", m)
	return m
}

func (r *renderer) Environment() shader.Environment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.env
}

func (r *renderer) SetEnvironment(env shader.Environment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.env = env
}

func (r *renderer) BeginFrame() {
	r.fb.Clear()
	r.stats = FrameStats{}
}

func (r *renderer) Draw(buffer []geometry.Vertex, u pipeline.Uniforms, opts ...DrawOption) error {
	var cfg drawConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	r.mu.Lock()
	mode := r.mode
	env := r.env
	r.mu.Unlock()
	if cfg.mode != nil {
		mode = *cfg.mode
	}
	if !mode.Valid() {
		panic(fmt.Sprintf("renderer: invalid mode %d", int(mode)))
	}

	if cfg.hasBounds && !boundsVisible(cfg, u) {
		r.stats.Culled++
		return nil
	}

	r.vertices = pipeline.ShadeVertices(r.vertices[:0], buffer, u)

	var err error
	r.triangles, err = pipeline.Assemble(r.triangles[:0], r.vertices)
	if err != nil {
		Logger().Warn("draw aborted", "mode", mode, "vertices", len(buffer), "error", err)
		return fmt.Errorf("draw aborted: %w", err)
	}

	r.stats.Draws++
	r.stats.Triangles += len(r.triangles)
	if len(r.triangles) == 0 {
		return nil
	}

	r.rasterize()
	fragments := r.mergeBands()
	r.stats.Fragments += fragments
	if fragments > 0 {
		r.stats.Written += r.shadeBands(mode, env)
	}
	return nil
}

func (r *renderer) EndFrame() error {
	r.mu.Lock()
	s := r.surface
	r.mu.Unlock()

	if s == nil {
		return nil
	}
	return r.fb.Flush(s)
}

func (r *renderer) Resize(width, height int) error {
	return r.fb.Resize(width, height)
}

func (r *renderer) Stats() FrameStats {
	return r.stats
}

func (r *renderer) Release() {
	r.mu.Lock()
	pool := r.pool
	r.pool = nil
	r.mu.Unlock()

	if pool != nil {
		pool.Stop()
	}
}

// rasterize splits the assembled triangles into chunks, each rasterized by one task into its
// own fragment buffer.
func (r *renderer) rasterize() {
	tris := r.triangles
	width, height := r.fb.Width(), r.fb.Height()

	chunks := (len(tris) + r.chunkSize - 1) / r.chunkSize
	for len(r.chunkFrags) < chunks {
		r.chunkFrags = append(r.chunkFrags, nil)
	}

	r.parallel(chunks, func(c int) {
		lo := c * r.chunkSize
		hi := min(lo+r.chunkSize, len(tris))

		buf := r.chunkFrags[c][:0]
		for i := lo; i < hi; i++ {
			buf = raster.Rasterize(tris[i], width, height, buf)
		}
		r.chunkFrags[c] = buf
	})

	// Drop stale chunks from a larger previous draw so mergeBands only sees this draw.
	for c := chunks; c < len(r.chunkFrags); c++ {
		r.chunkFrags[c] = r.chunkFrags[c][:0]
	}
}

// mergeBands buckets every chunk's fragments by framebuffer band, in chunk order.
func (r *renderer) mergeBands() int {
	bands := (r.fb.Height() + r.bandHeight - 1) / r.bandHeight
	for len(r.bands) < bands {
		r.bands = append(r.bands, nil)
	}
	r.bands = r.bands[:bands]
	for b := range r.bands {
		r.bands[b] = r.bands[b][:0]
	}

	total := 0
	for _, frags := range r.chunkFrags {
		for i := range frags {
			b := frags[i].Y / r.bandHeight
			r.bands[b] = append(r.bands[b], frags[i])
		}
		total += len(frags)
	}
	return total
}

// shadeBands shades and depth-tests each band in its own task. A pixel belongs to exactly one
// band, so every TestAndSet on it comes from the same task.
func (r *renderer) shadeBands(mode shader.Mode, env shader.Environment) int {
	if cap(r.written) < len(r.bands) {
		r.written = make([]int, len(r.bands))
	}
	r.written = r.written[:len(r.bands)]

	fb := r.fb
	r.parallel(len(r.bands), func(b int) {
		written := 0
		band := r.bands[b]
		for i := range band {
			f := &band[i]
			// Skip shading fragments that cannot pass the depth test.
			if f.Depth >= fb.Depth(f.X, f.Y) {
				continue
			}
			if fb.TestAndSet(f.X, f.Y, f.Depth, shader.Shade(mode, f, env)) {
				written++
			}
		}
		r.written[b] = written
	})

	total := 0
	for _, w := range r.written {
		total += w
	}
	return total
}

// parallel runs fn(0..n-1) on the worker pool and waits for all of them. Without a pool the
// calls run inline.
func (r *renderer) parallel(n int, fn func(i int)) {
	r.mu.Lock()
	pool := r.pool
	r.mu.Unlock()

	if pool == nil || n == 1 {
		for i := range n {
			fn(i)
		}
		return
	}

	// A WaitGroup is the per-call barrier; pool.Wait would block until workers idle out.
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				fn(i)
				return nil, nil
			},
		})
	}
	wg.Wait()
}

// boundsVisible reports whether the draw's bounding sphere, moved into world space by the
// model matrix, intersects the view frustum.
func boundsVisible(cfg drawConfig, u pipeline.Uniforms) bool {
	center := u.Model.Mul4x1(cfg.center.Vec4(1)).Vec3()

	m := u.Model
	scale := math32.Max(
		m.Col(0).Vec3().Len(),
		math32.Max(m.Col(1).Vec3().Len(), m.Col(2).Vec3().Len()),
	)

	frustum := common.ExtractFrustum(u.ViewProjection())
	return frustum.SphereVisible(center, cfg.radius*scale)
}
