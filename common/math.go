package common

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Perspective creates a perspective projection matrix mapping view-space depth into the [0, 1]
// clip range (WebGPU convention) rather than OpenGL's [-1, 1]. mgl32.Perspective uses the
// latter, which is why the rasterizer builds its own.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / math32.Tan(fovY/2.0)

	var out mgl32.Mat4
	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	return out
}

// Viewport creates the matrix mapping normalized device coordinates to framebuffer pixels.
// X in [-1, 1] maps to [0, width], Y in [-1, 1] maps to [height, 0] (rows grow downward),
// and depth passes through unchanged.
//
// Parameters:
//   - width: framebuffer width in pixels
//   - height: framebuffer height in pixels
//
// Returns:
//   - mgl32.Mat4: the column-major viewport matrix
func Viewport(width, height int) mgl32.Mat4 {
	hw := float32(width) / 2
	hh := float32(height) / 2

	out := mgl32.Ident4()
	out[0] = hw
	out[5] = -hh
	out[12] = hw
	out[13] = hh
	return out
}

// ModelMatrix constructs a model matrix from position, Euler rotation, and scale.
// The rotation order is Y * X * Z (yaw-pitch-roll), applied after scale.
//
// Parameters:
//   - position: translation in world space
//   - rotation: rotation angles in radians around each axis
//   - scale: scale factors along each axis
//
// Returns:
//   - mgl32.Mat4: the column-major model matrix
func ModelMatrix(position, rotation, scale mgl32.Vec3) mgl32.Mat4 {
	r := mgl32.HomogRotate3DY(rotation.Y()).
		Mul4(mgl32.HomogRotate3DX(rotation.X())).
		Mul4(mgl32.HomogRotate3DZ(rotation.Z()))
	return mgl32.Translate3D(position.X(), position.Y(), position.Z()).
		Mul4(r).
		Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
}

// NormalMatrix returns the inverse-transpose of the model matrix's upper 3x3, which keeps
// normals perpendicular to surfaces under non-uniform scale. A singular model falls back
// to its plain upper 3x3.
//
// Parameters:
//   - model: the model matrix
//
// Returns:
//   - mgl32.Mat3: the normal matrix
func NormalMatrix(model mgl32.Mat4) mgl32.Mat3 {
	m := model.Mat3()
	if math32.Abs(m.Det()) < 1e-12 {
		return m
	}
	return m.Inv().Transpose()
}

// Clamp01 clamps v into [0, 1].
func Clamp01(v float32) float32 {
	return math32.Max(0, math32.Min(1, v))
}
