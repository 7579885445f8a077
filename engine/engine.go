package engine

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-raster/common"
	"github.com/Carmen-Shannon/oxy-raster/engine/profiler"
	"github.com/Carmen-Shannon/oxy-raster/engine/renderer"
	"github.com/Carmen-Shannon/oxy-raster/engine/renderer/framebuffer"
	"github.com/Carmen-Shannon/oxy-raster/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-raster/engine/scene"
)

// Window is the part of window.Window the engine drives: the message loop, input callbacks
// and the title bar.
type Window interface {
	SetUpdateCallback(callback func())
	SetResizeCallback(callback func(width, height int))
	SetScrollCallback(callback func(delta float32))
	SetKeyDownCallback(callback func(keyCode uint32))
	SetMouseButtonCallback(callback func(button common.MouseButton, pressed bool, x, y int32))
	SetMouseMoveCallback(callback func(x, y int32))
	SetTitle(title string)
	ProcessMessages()
	Close() error
}

// resizableSurface is implemented by surfaces that track the window size.
type resizableSurface interface {
	Resize(width, height int)
}

// engine implements the Engine interface.
type engine struct {
	mu *sync.Mutex

	window   Window
	renderer renderer.Renderer
	surface  framebuffer.Surface
	title    string

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	scenes map[int]scene.Scene

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	now              func() time.Time
	lastFrame        time.Time
	quit             atomic.Bool

	// left-button drag state, touched only by window callbacks
	dragging     bool
	lastX, lastY int32
}

// Engine runs the frame loop. Each frame it advances every active scene, then clears the
// framebuffer, draws the active scenes in ascending z-index order and presents the finished
// frame. Frames run synchronously on the window's message loop, so input callbacks and
// rendering share one goroutine.
//
// Keyboard: M or Space cycles the shading mode, Up/Down zoom, A/D/W/S and Left/Right orbit,
// P toggles the profiler. Dragging with the left mouse button orbits; scrolling zooms.
type Engine interface {
	// Window returns the window, or nil for a headless engine.
	Window() Window

	// Renderer returns the renderer frames are drawn with.
	Renderer() renderer.Renderer

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickCallback registers the function called at the start of each frame, before the
	// scenes are updated.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called after each frame is presented.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// AddScene registers a scene at the given z-index key.
	// Scenes are drawn in ascending key order.
	//
	// Parameters:
	//   - key: the z-index determining draw order (lower draws first)
	//   - s: the Scene to register
	AddScene(key int, s scene.Scene)

	// RemoveScene removes the scene at the given z-index key.
	//
	// Parameters:
	//   - key: the z-index of the scene to remove
	RemoveScene(key int)

	// Scene retrieves the scene registered at the given z-index key, or nil.
	//
	// Parameters:
	//   - key: the z-index of the scene to retrieve
	//
	// Returns:
	//   - scene.Scene: the scene at the key, or nil if not found
	Scene(key int) scene.Scene

	// Scenes returns a copy of all registered scenes keyed by z-index.
	Scenes() map[int]scene.Scene

	// CycleMode advances the renderer's shading mode and shows it in the window title.
	//
	// Returns:
	//   - shader.Mode: the new mode
	CycleMode() shader.Mode

	// Frame runs one complete frame with the given time step.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the previous frame in seconds
	//
	// Returns:
	//   - error: the joined draw and present errors; the frame is still completed
	Frame(deltaTime float32) error

	// RunFrames runs n frames with a fixed time step without a window, e.g. to render
	// snapshots into a framebuffer.ImageSurface.
	//
	// Parameters:
	//   - n: the number of frames
	//   - deltaTime: the time step in seconds
	//
	// Returns:
	//   - error: the first frame error; later frames are not run
	RunFrames(n int, deltaTime float32) error

	// Run hooks the frame loop into the window and blocks until the window closes.
	// Panics if the engine has no window.
	Run()

	// Quit closes the window at the start of the next frame.
	// Safe to call multiple times and from any goroutine.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates an Engine drawing with r. Panics if r is nil.
// Input and resize callbacks are registered on the window when one is given.
//
// Parameters:
//   - r: the renderer
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(r renderer.Renderer, options ...EngineBuilderOption) Engine {
	if r == nil {
		panic("engine: NewEngine requires a non-nil Renderer")
	}

	e := &engine{
		mu:       &sync.Mutex{},
		renderer: r,
		title:    "oxy-raster",
		scenes:   make(map[int]scene.Scene),
		now:      time.Now,
	}
	for _, opt := range options {
		opt(e)
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler()
	}
	if e.surface != nil {
		r.SetSurface(e.surface)
	}

	if e.window != nil {
		e.window.SetResizeCallback(e.onResize)
		e.window.SetKeyDownCallback(e.onKeyDown)
		e.window.SetScrollCallback(e.onScroll)
		e.window.SetMouseButtonCallback(e.onMouseButton)
		e.window.SetMouseMoveCallback(e.onMouseMove)
		e.updateTitle(r.Mode())
	}

	renderer.Logger().Info("engine ready",
		"width", r.Framebuffer().Width(),
		"height", r.Framebuffer().Height(),
		"mode", r.Mode(),
		"windowed", e.window != nil,
	)
	return e
}

func (e *engine) Window() Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderFrameLimit = frameDuration(fps)
}

func (e *engine) AddScene(key int, s scene.Scene) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scenes[key] = s
}

func (e *engine) RemoveScene(key int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.scenes, key)
}

func (e *engine) Scene(key int) scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scenes[key]
}

func (e *engine) Scenes() map[int]scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	cp := make(map[int]scene.Scene, len(e.scenes))
	for k, v := range e.scenes {
		cp[k] = v
	}
	return cp
}

func (e *engine) CycleMode() shader.Mode {
	m := e.renderer.CycleMode()
	e.updateTitle(m)
	return m
}

func (e *engine) Frame(deltaTime float32) error {
	e.mu.Lock()
	tick, render := e.tickCallback, e.renderCallback
	profiling := e.profilingEnabled
	e.mu.Unlock()

	if tick != nil {
		tick(deltaTime)
	}

	active := e.activeScenes()
	for _, s := range active {
		s.Update(deltaTime)
	}

	var errs []error
	e.renderer.BeginFrame()
	for _, s := range active {
		// Failed draws are logged by the renderer; the remaining scenes are still drawn.
		if err := s.Draw(e.renderer); err != nil {
			errs = append(errs, fmt.Errorf("scene %q: %w", s.Name(), err))
		}
	}
	if err := e.renderer.EndFrame(); err != nil {
		renderer.Logger().Warn("present failed", "error", err)
		errs = append(errs, err)
	}

	stats := e.renderer.Stats()
	renderer.Logger().Debug("frame",
		"draws", stats.Draws,
		"culled", stats.Culled,
		"triangles", stats.Triangles,
		"fragments", stats.Fragments,
		"written", stats.Written,
	)

	if render != nil {
		render(deltaTime)
	}
	if profiling {
		e.profiler.Record(stats)
		e.profiler.Tick()
	}
	return errors.Join(errs...)
}

func (e *engine) RunFrames(n int, deltaTime float32) error {
	for i := range n {
		if err := e.Frame(deltaTime); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return nil
}

func (e *engine) Run() {
	if e.window == nil {
		panic("engine: Run requires a window; use RunFrames to render headless")
	}
	e.lastFrame = e.now()
	e.window.SetUpdateCallback(e.onUpdate)
	e.window.ProcessMessages()
	renderer.Logger().Info("engine stopped")
}

func (e *engine) Quit() {
	e.quit.Store(true)
}

// onUpdate runs one frame per message loop iteration and sleeps off the remaining frame budget.
func (e *engine) onUpdate() {
	if e.quit.Load() {
		if err := e.window.Close(); err != nil {
			renderer.Logger().Warn("failed to close window", "error", err)
		}
		return
	}

	start := e.now()
	dt := float32(start.Sub(e.lastFrame).Seconds())
	e.lastFrame = start

	// Errors are already logged where they occur; the loop keeps going.
	_ = e.Frame(dt)

	e.mu.Lock()
	limit := e.renderFrameLimit
	e.mu.Unlock()
	if limit > 0 {
		if remaining := limit - e.now().Sub(start); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

// activeScenes returns the active scenes in ascending z-index order.
func (e *engine) activeScenes() []scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()

	keys := make([]int, 0, len(e.scenes))
	for k := range e.scenes {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	active := make([]scene.Scene, 0, len(keys))
	for _, k := range keys {
		if s := e.scenes[k]; s.Active() {
			active = append(active, s)
		}
	}
	return active
}

func (e *engine) updateTitle(m shader.Mode) {
	if e.window != nil {
		e.window.SetTitle(fmt.Sprintf("%s [%s]", e.title, m))
	}
}

func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
