package engine

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-raster/common"
	"github.com/Carmen-Shannon/oxy-raster/engine/camera"
	"github.com/Carmen-Shannon/oxy-raster/engine/game_object"
	"github.com/Carmen-Shannon/oxy-raster/engine/geometry"
	"github.com/Carmen-Shannon/oxy-raster/engine/renderer"
	"github.com/Carmen-Shannon/oxy-raster/engine/renderer/framebuffer"
	"github.com/Carmen-Shannon/oxy-raster/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-raster/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWindow records callbacks and runs a fixed number of message loop iterations.
type fakeWindow struct {
	onUpdate      func()
	onResize      func(width, height int)
	onScroll      func(delta float32)
	onKeyDown     func(keyCode uint32)
	onMouseButton func(button common.MouseButton, pressed bool, x, y int32)
	onMouseMove   func(x, y int32)

	title      string
	iterations int
	closed     bool
}

func (w *fakeWindow) SetUpdateCallback(cb func())                  { w.onUpdate = cb }
func (w *fakeWindow) SetResizeCallback(cb func(width, height int)) { w.onResize = cb }
func (w *fakeWindow) SetScrollCallback(cb func(delta float32))     { w.onScroll = cb }
func (w *fakeWindow) SetKeyDownCallback(cb func(keyCode uint32))   { w.onKeyDown = cb }
func (w *fakeWindow) SetMouseMoveCallback(cb func(x, y int32))     { w.onMouseMove = cb }
func (w *fakeWindow) SetTitle(title string)                        { w.title = title }

func (w *fakeWindow) SetMouseButtonCallback(cb func(common.MouseButton, bool, int32, int32)) {
	w.onMouseButton = cb
}

func (w *fakeWindow) Close() error {
	w.closed = true
	return nil
}

func (w *fakeWindow) ProcessMessages() {
	for i := 0; i < w.iterations && !w.closed; i++ {
		w.onUpdate()
	}
}

type failingSurface struct{}

func (failingSurface) Present([]byte, int, int) error { return errors.New("device lost") }

const testSize = 48

func newTestEngine(t *testing.T, options ...EngineBuilderOption) (Engine, scene.Scene, *framebuffer.ImageSurface) {
	t.Helper()

	r, err := renderer.NewRenderer(testSize, testSize,
		renderer.WithWorkers(1),
		renderer.WithEnvironment(shader.DefaultEnvironment(shader.NewSimplexNoise(2))),
	)
	require.NoError(t, err)

	mesh, err := geometry.NewSphere(8, 12)
	require.NoError(t, err)
	buf, err := geometry.BuildVertexBuffer(mesh)
	require.NoError(t, err)

	planet := game_object.NewGameObject(
		game_object.WithMesh(buf, 1),
		game_object.WithRotationSpeed(mgl32.Vec3{0, 1, 0}),
	)
	cam := camera.NewCamera(camera.WithController(camera.NewCameraController()))
	s := scene.NewScene("planets", cam, scene.WithObjects(planet))

	img := framebuffer.NewImageSurface()
	options = append([]EngineBuilderOption{WithSurface(img), WithScene(0, s)}, options...)
	return NewEngine(r, options...), s, img
}

func TestNewEngineRequiresRenderer(t *testing.T) {
	assert.Panics(t, func() { NewEngine(nil) })
}

func TestRunFramesPresentsEveryFrame(t *testing.T) {
	e, s, img := newTestEngine(t)

	ticks := 0
	e.SetTickCallback(func(float32) { ticks++ })

	require.NoError(t, e.RunFrames(3, 0.5))
	assert.Equal(t, 3, img.Frames())
	assert.Equal(t, 3, ticks)
	assert.InDelta(t, 1.5, s.Objects()[0].Rotation().Y(), 1e-5)

	// The planet covers the centre; the corner keeps the background.
	frame := img.Frame()
	assert.NotEqual(t, frame.RGBAAt(0, 0), frame.RGBAAt(testSize/2, testSize/2))
	assert.Equal(t, uint8(255), frame.RGBAAt(0, 0).A)
}

func TestInactiveScenesAreSkipped(t *testing.T) {
	e, s, _ := newTestEngine(t)
	s.SetActive(false)

	require.NoError(t, e.Frame(0.1))
	assert.Zero(t, e.Renderer().Stats().Draws)
	assert.Zero(t, s.Objects()[0].Rotation().Y())
}

func TestScenesDrawInKeyOrder(t *testing.T) {
	e, _, _ := newTestEngine(t)
	cam := camera.NewCamera()
	e.AddScene(5, scene.NewScene("overlay", cam))
	e.AddScene(-1, scene.NewScene("background", cam))

	var names []string
	for _, s := range e.(*engine).activeScenes() {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"background", "planets", "overlay"}, names)

	e.RemoveScene(5)
	assert.Nil(t, e.Scene(5))
	assert.Len(t, e.Scenes(), 2)
}

func TestPresentFailureIsReturnedAndFrameCompletes(t *testing.T) {
	e, _, _ := newTestEngine(t, WithSurface(failingSurface{}))

	err := e.Frame(0.1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device lost")
	assert.Equal(t, 1, e.Renderer().Stats().Draws)
	assert.Error(t, e.RunFrames(2, 0.1))
}

func TestKeyboardControls(t *testing.T) {
	w := &fakeWindow{}
	e, s, _ := newTestEngine(t, WithWindow(w), WithTitle("demo"))
	ctrl := s.Camera().Controller()

	assert.Equal(t, "demo [sun]", w.title)

	w.onKeyDown(common.KeyM)
	assert.Equal(t, shader.ModeEarth, e.Renderer().Mode())
	assert.Equal(t, "demo [earth]", w.title)
	w.onKeyDown(common.KeySpace)
	assert.Equal(t, shader.ModeNeptune, e.Renderer().Mode())

	radius := ctrl.Radius()
	w.onKeyDown(common.KeyUp)
	assert.Less(t, ctrl.Radius(), radius)
	w.onKeyDown(common.KeyDown)
	assert.InDelta(t, radius, ctrl.Radius(), 1e-6)

	w.onKeyDown(common.KeyD)
	assert.Positive(t, ctrl.Azimuth())
	w.onKeyDown(common.KeyW)
	assert.Positive(t, ctrl.Elevation())
}

func TestModeCycleWrapsThroughAllModes(t *testing.T) {
	w := &fakeWindow{}
	e, _, _ := newTestEngine(t, WithWindow(w))

	for range len(shader.Modes()) {
		w.onKeyDown(common.KeyM)
	}
	assert.Equal(t, shader.ModeSun, e.Renderer().Mode())
}

func TestMouseDragOrbits(t *testing.T) {
	w := &fakeWindow{}
	_, s, _ := newTestEngine(t, WithWindow(w))
	ctrl := s.Camera().Controller()

	w.onMouseMove(50, 50)
	assert.Zero(t, ctrl.Azimuth())

	w.onMouseButton(common.MouseButtonLeft, true, 10, 10)
	w.onMouseMove(0, 10)
	assert.Positive(t, ctrl.Azimuth())

	w.onMouseButton(common.MouseButtonLeft, false, 0, 10)
	az := ctrl.Azimuth()
	w.onMouseMove(100, 10)
	assert.Equal(t, az, ctrl.Azimuth())
}

func TestResizeFollowsWindow(t *testing.T) {
	w := &fakeWindow{}
	e, s, _ := newTestEngine(t, WithWindow(w))

	w.onResize(96, 48)
	assert.Equal(t, 96, e.Renderer().Framebuffer().Width())
	assert.InDelta(t, 2, s.Camera().Aspect(), 1e-6)

	w.onResize(0, 0)
	assert.Equal(t, 96, e.Renderer().Framebuffer().Width())
}

func TestRunDrivesFramesUntilQuit(t *testing.T) {
	w := &fakeWindow{iterations: 10}
	e, _, img := newTestEngine(t, WithWindow(w))

	frames := 0
	e.SetRenderCallback(func(float32) {
		frames++
		if frames == 4 {
			e.Quit()
		}
	})

	e.Run()
	assert.True(t, w.closed)
	assert.Equal(t, 4, img.Frames())
}

func TestRunWithoutWindowPanics(t *testing.T) {
	e, _, _ := newTestEngine(t)
	assert.Panics(t, e.Run)
}
