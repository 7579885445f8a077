package geometry

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// NewSphere generates a unit UV sphere centred on the origin with +Y as the polar axis.
// Positions double as normals; texture coordinates run u along longitude and v from the
// north pole (0) to the south pole (1). Pole-adjacent triangles that would collapse to a
// line are omitted.
//
// Parameters:
//   - latSegments: number of latitude bands (>= 2)
//   - lonSegments: number of longitude slices (>= 3)
//
// Returns:
//   - Mesh: the generated mesh
//   - error: if the segment counts are too small to enclose a volume
func NewSphere(latSegments, lonSegments int) (Mesh, error) {
	if latSegments < 2 || lonSegments < 3 {
		return Mesh{}, fmt.Errorf("sphere needs at least 2 latitude and 3 longitude segments, got %d and %d", latSegments, lonSegments)
	}

	latStep := math32.Pi / float32(latSegments)
	lonStep := 2 * math32.Pi / float32(lonSegments)

	ringSize := lonSegments + 1
	count := (latSegments + 1) * ringSize
	m := Mesh{
		Vertices:  make([]mgl32.Vec3, 0, count),
		Normals:   make([]mgl32.Vec3, 0, count),
		TexCoords: make([]mgl32.Vec2, 0, count),
	}

	for i := 0; i <= latSegments; i++ {
		sinTheta, cosTheta := math32.Sincos(float32(i) * latStep)
		for j := 0; j <= lonSegments; j++ {
			sinPhi, cosPhi := math32.Sincos(float32(j) * lonStep)
			p := mgl32.Vec3{sinTheta * cosPhi, cosTheta, sinTheta * sinPhi}
			m.Vertices = append(m.Vertices, p)
			m.Normals = append(m.Normals, p)
			m.TexCoords = append(m.TexCoords, mgl32.Vec2{
				float32(j) / float32(lonSegments),
				float32(i) / float32(latSegments),
			})
		}
	}

	face := func(a, b, c int) Face {
		idx := [3]int{a, b, c}
		return Face{Vertices: idx, Normals: idx, TexCoords: idx}
	}

	for i := 0; i < latSegments; i++ {
		for j := 0; j < lonSegments; j++ {
			first := i*ringSize + j
			second := first + ringSize

			if i != 0 {
				m.Faces = append(m.Faces, face(first, second, first+1))
			}
			if i != latSegments-1 {
				m.Faces = append(m.Faces, face(second, second+1, first+1))
			}
		}
	}
	return m, nil
}
