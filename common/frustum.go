package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Plane represents a plane in 3D space using the equation: ax + by + cz + d = 0
// where (a, b, c) is the normal and d is the distance from origin.
type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

// Frustum represents the six planes of a view frustum for culling.
// Planes are oriented so that positive half-space is inside the frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumPlane indices for clarity
const (
	FrustumLeft   = 0
	FrustumRight  = 1
	FrustumBottom = 2
	FrustumTop    = 3
	FrustumNear   = 4
	FrustumFar    = 5
)

// ExtractFrustum extracts frustum planes from a combined projection * view (* model) matrix
// using the Gribb/Hartmann method. The near plane assumes the [0, 1] depth range produced
// by Perspective, so it is row 2 alone rather than row 3 + row 2.
//
// Reference: https://www8.cs.umu.se/kurser/5DV051/HT12/lab/plane_extraction.pdf
//
// Parameters:
//   - m: the combined clip-space matrix (column-major)
//
// Returns:
//   - Frustum: the extracted frustum with normalized planes
func ExtractFrustum(m mgl32.Mat4) Frustum {
	r0, r1, r2, r3 := m.Rows()

	var f Frustum
	f.setPlane(FrustumLeft, r3.Add(r0))
	f.setPlane(FrustumRight, r3.Sub(r0))
	f.setPlane(FrustumBottom, r3.Add(r1))
	f.setPlane(FrustumTop, r3.Sub(r1))
	f.setPlane(FrustumNear, r2)
	f.setPlane(FrustumFar, r3.Sub(r2))
	return f
}

// SphereVisible reports whether a sphere intersects or lies inside the frustum.
//
// Parameters:
//   - center: sphere center in the space the frustum was extracted for
//   - radius: sphere radius
//
// Returns:
//   - bool: false only when the sphere is fully outside at least one plane
func (f Frustum) SphereVisible(center mgl32.Vec3, radius float32) bool {
	for _, p := range f.Planes {
		if p.Normal.Dot(center)+p.Distance < -radius {
			return false
		}
	}
	return true
}

// setPlane stores a plane from its raw (a, b, c, d) coefficients, normalized so that the
// normal has unit length.
func (f *Frustum) setPlane(index int, coeffs mgl32.Vec4) {
	p := &f.Planes[index]
	p.Normal = coeffs.Vec3()
	p.Distance = coeffs.W()

	if length := p.Normal.Len(); length > 0 {
		invLen := 1.0 / length
		p.Normal = p.Normal.Mul(invLen)
		p.Distance *= invLen
	}
}
