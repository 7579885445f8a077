package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-raster/engine/camera"
	"github.com/Carmen-Shannon/oxy-raster/engine/game_object"
	"github.com/Carmen-Shannon/oxy-raster/engine/geometry"
	"github.com/Carmen-Shannon/oxy-raster/engine/light"
	"github.com/Carmen-Shannon/oxy-raster/engine/renderer"
	"github.com/Carmen-Shannon/oxy-raster/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-raster/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSize = 64

func sphereBuffer(t *testing.T) []geometry.Vertex {
	t.Helper()
	mesh, err := geometry.NewSphere(8, 12)
	require.NoError(t, err)
	buf, err := geometry.BuildVertexBuffer(mesh)
	require.NoError(t, err)
	return buf
}

func newTestScene(options ...SceneBuilderOption) Scene {
	cam := camera.NewCamera(camera.WithController(camera.NewCameraController()))
	return NewScene("test", cam, options...)
}

func newTestRenderer(t *testing.T) renderer.Renderer {
	t.Helper()
	r, err := renderer.NewRenderer(testSize, testSize,
		renderer.WithWorkers(1),
		renderer.WithEnvironment(shader.DefaultEnvironment(shader.NewSimplexNoise(1))),
	)
	require.NoError(t, err)
	return r
}

func TestNewSceneRequiresCamera(t *testing.T) {
	assert.Panics(t, func() { NewScene("nil", nil) })
}

func TestRegistry(t *testing.T) {
	s := newTestScene()
	a := game_object.NewGameObject()
	b := game_object.NewGameObject()

	assert.Equal(t, uint64(1), s.Add(a))
	assert.Equal(t, uint64(2), s.Add(b))
	assert.Equal(t, 2, s.Count())
	assert.Equal(t, b, s.Get(2))
	assert.Equal(t, []game_object.GameObject{a, b}, s.Objects())

	s.Remove(1)
	assert.Nil(t, s.Get(1))
	assert.Equal(t, 1, s.Count())

	s.Clear()
	assert.Zero(t, s.Count())
}

func TestWithObjectsAssignsIDsInOrder(t *testing.T) {
	a := game_object.NewGameObject()
	b := game_object.NewGameObject()
	s := newTestScene(WithObjects(a, b))

	assert.Equal(t, uint64(1), a.ID())
	assert.Equal(t, uint64(2), b.ID())
	assert.Equal(t, uint64(3), s.Add(game_object.NewGameObject()))
}

func TestUpdateSyncsAttachedLight(t *testing.T) {
	l := light.NewLight()
	sun := game_object.NewGameObject(
		game_object.WithPosition(mgl32.Vec3{3, 0, 0}),
		game_object.WithLight(l),
	)
	s := newTestScene(WithObjects(sun))
	require.Equal(t, l, s.Light())

	s.Update(0.1)
	assert.Equal(t, mgl32.Vec3{3, 0, 0}, l.Position())
}

func TestDrawOneCallPerEnabledObject(t *testing.T) {
	buf := sphereBuffer(t)
	r := newTestRenderer(t)

	hidden := game_object.NewGameObject(game_object.WithMesh(buf, 1), game_object.WithEnabled(false))
	s := newTestScene(WithObjects(
		game_object.NewGameObject(game_object.WithMesh(buf, 1)),
		game_object.NewGameObject(game_object.WithMesh(buf, 1), game_object.WithScale(mgl32.Vec3{0.5, 0.5, 0.5})),
		hidden,
		game_object.NewGameObject(),
	))

	r.BeginFrame()
	require.NoError(t, s.Draw(r))

	stats := r.Stats()
	assert.Equal(t, 2, stats.Draws)
	assert.Equal(t, 2*len(buf)/3, stats.Triangles)
	assert.Positive(t, stats.Written)
}

func TestDrawCullsObjectsOutsideFrustum(t *testing.T) {
	buf := sphereBuffer(t)
	r := newTestRenderer(t)
	s := newTestScene(WithObjects(
		game_object.NewGameObject(game_object.WithMesh(buf, 1), game_object.WithPosition(mgl32.Vec3{0, 0, 10})),
	))

	r.BeginFrame()
	require.NoError(t, s.Draw(r))
	assert.Equal(t, 1, r.Stats().Culled)
	assert.Zero(t, r.Stats().Draws)
}

func TestDrawWithCullingDisabled(t *testing.T) {
	buf := sphereBuffer(t)
	r := newTestRenderer(t)
	s := newTestScene(
		WithCullingDisabled(true),
		WithObjects(game_object.NewGameObject(game_object.WithMesh(buf, 1), game_object.WithPosition(mgl32.Vec3{0, 0, 10}))),
	)

	r.BeginFrame()
	require.NoError(t, s.Draw(r))
	assert.Zero(t, r.Stats().Culled)
	assert.Equal(t, 1, r.Stats().Draws)
	assert.Zero(t, r.Stats().Written)
}

func TestForcedModeOverridesOnlyItsDraw(t *testing.T) {
	buf := sphereBuffer(t)

	render := func(options ...game_object.GameObjectBuilderOption) []byte {
		r := newTestRenderer(t)
		s := newTestScene(WithObjects(game_object.NewGameObject(append(options, game_object.WithMesh(buf, 1))...)))
		r.BeginFrame()
		require.NoError(t, s.Draw(r))
		assert.Equal(t, shader.ModeSun, r.Mode())
		return append([]byte(nil), r.Framebuffer().Pixels()...)
	}

	active := render()
	forced := render(game_object.WithMode(shader.ModePluton))
	assert.NotEqual(t, active, forced)
}

func TestDrawJoinsErrorsAndContinues(t *testing.T) {
	buf := sphereBuffer(t)
	r := newTestRenderer(t)
	s := newTestScene(WithObjects(
		game_object.NewGameObject(game_object.WithName("broken"), game_object.WithMesh(buf[:4], 1)),
		game_object.NewGameObject(game_object.WithMesh(buf, 1)),
	))

	r.BeginFrame()
	err := s.Draw(r)
	require.Error(t, err)
	assert.ErrorIs(t, err, pipeline.ErrVertexCount)
	assert.Contains(t, err.Error(), "broken")
	assert.Equal(t, 1, r.Stats().Draws)
}

func TestDrawAppliesSceneLight(t *testing.T) {
	r := newTestRenderer(t)
	s := newTestScene(WithLight(light.NewLight(light.WithPosition(mgl32.Vec3{0, 5, 0}), light.WithAmbient(0.3))))

	r.BeginFrame()
	require.NoError(t, s.Draw(r))
	assert.Equal(t, mgl32.Vec3{0, 5, 0}, r.Environment().Light)
	assert.Equal(t, float32(0.3), r.Environment().Ambient)
}
