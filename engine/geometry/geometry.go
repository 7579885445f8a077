// Package geometry holds the records that flow through the software pipeline: vertices,
// faces, assembled triangles, and rasterized fragments.
package geometry

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is one corner of a triangle as it travels through the pipeline.
// On input Position is in model space; after the vertex stage it is in screen space
// (x and y in pixels, z the depth in [0, 1]) and World/Object/InvW are populated.
type Vertex struct {
	// Position is the model-space position on input and the screen-space position after transformation.
	Position mgl32.Vec3

	// Normal is the surface normal; world space after transformation.
	Normal mgl32.Vec3

	// TexCoord is the texture coordinate carried through unchanged.
	TexCoord mgl32.Vec2

	// World is the world-space position, used for lighting.
	World mgl32.Vec3

	// Object is the untransformed model-space position, used for surface patterns that
	// must rotate with the body.
	Object mgl32.Vec3

	// InvW is 1/w of the clip-space position, used for perspective-correct interpolation.
	InvW float32

	// Clipped is set when the vertex lies on or behind the camera plane (w <= 0).
	// Triangles touching a clipped vertex are not rasterized.
	Clipped bool
}

// Face is a triangulated face of a parsed mesh: three index triplets into the mesh's
// separate position, normal, and texture-coordinate arrays.
type Face struct {
	Vertices  [3]int
	Normals   [3]int
	TexCoords [3]int
}

// Mesh is a parsed model as delivered by an external loader: separate attribute arrays
// plus triangulated faces referencing them.
type Mesh struct {
	Vertices  []mgl32.Vec3
	Normals   []mgl32.Vec3
	TexCoords []mgl32.Vec2
	Faces     []Face
}

// Triangle is an ordered triple of vertices, preserving the source winding.
type Triangle [3]Vertex

// Fragment is a candidate pixel produced by rasterizing a triangle.
type Fragment struct {
	// X, Y are the pixel coordinates.
	X, Y int

	// Depth is the interpolated depth in [0, 1); smaller is nearer.
	Depth float32

	World    mgl32.Vec3
	Normal   mgl32.Vec3
	Object   mgl32.Vec3
	TexCoord mgl32.Vec2

	// Barycentric holds the screen-space weights of the triangle's three vertices.
	// They are non-negative and sum to 1.
	Barycentric [3]float32
}
