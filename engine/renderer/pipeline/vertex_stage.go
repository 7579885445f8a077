package pipeline

import (
	"github.com/Carmen-Shannon/oxy-raster/common"
	"github.com/Carmen-Shannon/oxy-raster/engine/geometry"
	"github.com/go-gl/mathgl/mgl32"
)

// clipEpsilon is the smallest clip-space w accepted before a vertex counts as behind the camera.
const clipEpsilon = 1e-6

// vertexStage holds the per-draw matrices derived from Uniforms so each vertex only pays
// for matrix-vector products.
type vertexStage struct {
	model    mgl32.Mat4
	viewProj mgl32.Mat4
	viewport mgl32.Mat4
	normal   mgl32.Mat3
}

func newVertexStage(u Uniforms) vertexStage {
	return vertexStage{
		model:    u.Model,
		viewProj: u.ViewProjection(),
		viewport: u.Viewport,
		normal:   common.NormalMatrix(u.Model),
	}
}

// apply transforms one model-space vertex into screen space.
func (s *vertexStage) apply(v geometry.Vertex) geometry.Vertex {
	world := s.model.Mul4x1(v.Position.Vec4(1))
	clip := s.viewProj.Mul4x1(world)

	out := geometry.Vertex{
		Normal:   s.normal.Mul3x1(v.Normal),
		TexCoord: v.TexCoord,
		World:    world.Vec3(),
		Object:   v.Position,
	}
	if n := out.Normal.Len(); n > 0 {
		out.Normal = out.Normal.Mul(1 / n)
	}

	w := clip.W()
	if w <= clipEpsilon {
		out.Clipped = true
		return out
	}

	// The perspective divide happens before viewport mapping.
	invW := 1 / w
	ndc := mgl32.Vec4{clip.X() * invW, clip.Y() * invW, clip.Z() * invW, 1}
	out.Position = s.viewport.Mul4x1(ndc).Vec3()
	out.InvW = invW
	return out
}

// ShadeVertex runs the vertex stage for a single vertex: model to world, world to clip,
// perspective divide, then viewport mapping. The normal is carried into world space with
// the inverse-transpose of the model matrix.
//
// Parameters:
//   - v: the model-space vertex
//   - u: the draw call's uniforms
//
// Returns:
//   - geometry.Vertex: the screen-space vertex with World, Object and InvW populated
func ShadeVertex(v geometry.Vertex, u Uniforms) geometry.Vertex {
	s := newVertexStage(u)
	return s.apply(v)
}

// ShadeVertices runs the vertex stage over a whole buffer, appending the results to dst.
// Derived matrices are computed once for the buffer.
//
// Parameters:
//   - dst: destination slice, reused when its capacity allows
//   - src: the model-space vertex buffer
//   - u: the draw call's uniforms
//
// Returns:
//   - []geometry.Vertex: dst extended with one transformed vertex per input vertex
func ShadeVertices(dst, src []geometry.Vertex, u Uniforms) []geometry.Vertex {
	s := newVertexStage(u)
	for _, v := range src {
		dst = append(dst, s.apply(v))
	}
	return dst
}
