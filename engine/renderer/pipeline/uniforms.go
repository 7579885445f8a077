package pipeline

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Uniforms are the transforms shared by every vertex of one draw call.
// Projection and Viewport are constant for a frame; Model and View vary per draw call.
type Uniforms struct {
	Model      mgl32.Mat4
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Viewport   mgl32.Mat4
}

// NewUniforms returns Uniforms with identity model and view and the given frame-constant
// projection and viewport.
//
// Parameters:
//   - projection: the camera projection matrix
//   - viewport: the NDC-to-pixel matrix
//
// Returns:
//   - Uniforms: the uniforms for a frame
func NewUniforms(projection, viewport mgl32.Mat4) Uniforms {
	return Uniforms{
		Model:      mgl32.Ident4(),
		View:       mgl32.Ident4(),
		Projection: projection,
		Viewport:   viewport,
	}
}

// WithModel returns a copy of u using the given model matrix.
func (u Uniforms) WithModel(model mgl32.Mat4) Uniforms {
	u.Model = model
	return u
}

// WithView returns a copy of u using the given view matrix.
func (u Uniforms) WithView(view mgl32.Mat4) Uniforms {
	u.View = view
	return u
}

// ViewProjection returns Projection * View, the world-to-clip transform. The view frustum
// is extracted from it and the vertex stage applies it after the model matrix.
func (u Uniforms) ViewProjection() mgl32.Mat4 {
	return u.Projection.Mul4(u.View)
}
