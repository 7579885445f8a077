package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-raster/common"
	"github.com/Carmen-Shannon/oxy-raster/engine/geometry"
	"github.com/Carmen-Shannon/oxy-raster/engine/renderer/pipeline"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCamera(options ...CameraControllerOption) (Camera, CameraController) {
	ctrl := NewCameraController(options...)
	cam := NewCamera(
		WithAspect(800.0/600.0),
		WithController(ctrl),
	)
	return cam, ctrl
}

func TestDefaultControllerPosition(t *testing.T) {
	ctrl := NewCameraController()
	assertNear(t, mgl32.Vec3{0, 0, 2.5}, ctrl.Position(), 1e-5)
	assert.Equal(t, mgl32.Vec3{}, ctrl.Target())
}

func TestCameraViewMatchesLookAt(t *testing.T) {
	cam, _ := newTestCamera()
	want := mgl32.LookAtV(mgl32.Vec3{0, 0, 2.5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	assert.True(t, cam.ViewMatrix().ApproxEqualThreshold(want, 1e-5))
	assert.True(t, cam.ProjectionMatrix().ApproxEqual(
		common.Perspective(mgl32.DegToRad(45), 800.0/600.0, 0.1, 100)))
}

func TestCameraUniformsProjectOrigin(t *testing.T) {
	cam, _ := newTestCamera()
	u := cam.Uniforms(common.Viewport(800, 600))

	out := pipeline.ShadeVertex(geometry.Vertex{}, u)
	require.False(t, out.Clipped)
	assert.InDelta(t, 400, out.Position.X(), 1e-3)
	assert.InDelta(t, 300, out.Position.Y(), 1e-3)
	assert.InDelta(t, 0.960961, out.Position.Z(), 1e-4)
	assert.Equal(t, mgl32.Ident4(), u.Model)
}

func TestCameraWithoutControllerUsesIdentityView(t *testing.T) {
	cam := NewCamera()
	cam.Update()
	assert.Equal(t, mgl32.Ident4(), cam.ViewMatrix())
	assert.Nil(t, cam.Controller())
}

func TestCameraSettersRebuildProjection(t *testing.T) {
	cam := NewCamera()
	before := cam.ProjectionMatrix()

	cam.SetFov(mgl32.DegToRad(60))
	assert.NotEqual(t, before, cam.ProjectionMatrix())
	assert.InDelta(t, mgl32.DegToRad(60), cam.Fov(), 1e-6)

	cam.SetAspect(2)
	cam.SetNear(1)
	cam.SetFar(50)
	assert.True(t, cam.ProjectionMatrix().ApproxEqual(common.Perspective(mgl32.DegToRad(60), 2, 1, 50)))
}

func TestZoomIsClamped(t *testing.T) {
	tests := []struct {
		name  string
		delta float32
		want  float32
	}{
		{name: "closer", delta: 5, want: 2.0},
		{name: "farther", delta: -5, want: 3.0},
		{name: "min bound", delta: 1000, want: 1.2},
		{name: "max bound", delta: -1000, want: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewCameraController()
			ctrl.Zoom(tt.delta)
			assert.InDelta(t, tt.want, ctrl.Radius(), 1e-5)
			assert.InDelta(t, tt.want, ctrl.Position().Len(), 1e-4)
		})
	}
}

func TestZoomMovesCameraAfterUpdate(t *testing.T) {
	cam, ctrl := newTestCamera()
	ctrl.Zoom(5)
	cam.Update()

	want := mgl32.LookAtV(mgl32.Vec3{0, 0, 2}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	assert.True(t, cam.ViewMatrix().ApproxEqualThreshold(want, 1e-5))
}

func TestOrbitKeepsRadius(t *testing.T) {
	ctrl := NewCameraController(WithOrbitSpeed(math32.Pi / 2))

	ctrl.OrbitRight()
	assertNear(t, mgl32.Vec3{2.5, 0, 0}, ctrl.Position(), 1e-5)

	ctrl.OrbitLeft()
	ctrl.OrbitLeft()
	assertNear(t, mgl32.Vec3{-2.5, 0, 0}, ctrl.Position(), 1e-5)

	ctrl.OrbitUp()
	assert.InDelta(t, math32.Pi/2-0.1, ctrl.Elevation(), 1e-6)
	assert.InDelta(t, 2.5, ctrl.Position().Len(), 1e-4)

	ctrl.OrbitDown()
	ctrl.OrbitDown()
	assert.InDelta(t, -math32.Pi/2+0.1, ctrl.Elevation(), 1e-6)
}

func TestDragOrbitsBySensitivity(t *testing.T) {
	ctrl := NewCameraController(WithMouseSensitivity(0.01))
	ctrl.Drag(-10, 20)
	assert.InDelta(t, 0.1, ctrl.Azimuth(), 1e-6)
	assert.InDelta(t, 0.2, ctrl.Elevation(), 1e-6)
}

func TestPanMovesPositionAndTarget(t *testing.T) {
	ctrl := NewCameraController(WithPanSpeed(1))

	ctrl.PanRight(1)
	assertNear(t, mgl32.Vec3{1, 0, 0}, ctrl.Target(), 1e-5)
	assertNear(t, mgl32.Vec3{1, 0, 2.5}, ctrl.Position(), 1e-5)

	ctrl.PanUp(1)
	assertNear(t, mgl32.Vec3{1, 1, 0}, ctrl.Target(), 1e-5)
	assert.InDelta(t, 2.5, ctrl.Position().Sub(ctrl.Target()).Len(), 1e-5)
}

func TestFrustumContainsTarget(t *testing.T) {
	cam, _ := newTestCamera()
	f := cam.Frustum()
	assert.True(t, f.SphereVisible(mgl32.Vec3{}, 1))
	assert.False(t, f.SphereVisible(mgl32.Vec3{0, 0, 10}, 1))
}

// assertNear compares by distance; ApproxEqual is absolute at 1e-10 wherever a component is 0.
func assertNear(t *testing.T, want, got mgl32.Vec3, tol float32) {
	t.Helper()
	assert.LessOrEqual(t, got.Sub(want).Len(), tol, "want %v, got %v", want, got)
}
