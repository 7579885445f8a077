package raster

import (
	"github.com/Carmen-Shannon/oxy-raster/engine/geometry"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// coverageEpsilon lets samples lying on an edge or vertex count as inside despite
	// floating point error in the edge functions.
	coverageEpsilon float32 = 1e-4

	// degenerateArea is the smallest absolute doubled signed area a triangle must have
	// to produce fragments.
	degenerateArea float32 = 1e-6
)

// Barycentric returns the weights of p relative to triangle (a, b, c), computed from signed
// areas. The weights sum to 1 for any p when the triangle is not degenerate.
//
// Parameters:
//   - a, b, c: the triangle corners in screen space
//   - p: the sample point
//
// Returns:
//   - [3]float32: the weights for a, b and c
//   - bool: false when the triangle's area is below the degenerate threshold
func Barycentric(a, b, c, p mgl32.Vec2) ([3]float32, bool) {
	area := edge(a, b, c)
	if math32.Abs(area) < degenerateArea {
		return [3]float32{}, false
	}
	inv := 1 / area
	return [3]float32{
		edge(b, c, p) * inv,
		edge(c, a, p) * inv,
		edge(a, b, p) * inv,
	}, true
}

// Rasterize converts one screen-space triangle into fragments, appending them to dst.
//
// Samples are taken at integer pixel coordinates inside the triangle's bounding box, clipped
// to [0, width) x [0, height). A sample is covered when every barycentric weight is at least
// -1e-4, so shared edges are covered by both triangles and the depth test resolves them.
// Depth is interpolated linearly in screen space. World position, object position, normal
// and texture coordinates are interpolated perspective-correctly using each vertex's InvW.
// Fragments whose depth falls outside [0, 1) are dropped; depth 1 is the cleared far value
// and can never pass the depth test.
//
// Degenerate triangles and triangles with a vertex behind the camera produce no fragments.
//
// Parameters:
//   - tri: the triangle after the vertex stage
//   - width: framebuffer width in pixels
//   - height: framebuffer height in pixels
//   - dst: destination slice, owned by the caller
//
// Returns:
//   - []geometry.Fragment: dst extended with the covered fragments
func Rasterize(tri geometry.Triangle, width, height int, dst []geometry.Fragment) []geometry.Fragment {
	v0, v1, v2 := &tri[0], &tri[1], &tri[2]
	if v0.Clipped || v1.Clipped || v2.Clipped {
		return dst
	}

	a := mgl32.Vec2{v0.Position.X(), v0.Position.Y()}
	b := mgl32.Vec2{v1.Position.X(), v1.Position.Y()}
	c := mgl32.Vec2{v2.Position.X(), v2.Position.Y()}

	area := edge(a, b, c)
	if !(math32.Abs(area) >= degenerateArea) {
		return dst
	}
	invArea := 1 / area

	minX := clampPixel(math32.Floor(min(a.X(), b.X(), c.X())), width)
	minY := clampPixel(math32.Floor(min(a.Y(), b.Y(), c.Y())), height)
	maxX := clampPixel(math32.Ceil(max(a.X(), b.X(), c.X())), width)
	maxY := clampPixel(math32.Ceil(max(a.Y(), b.Y(), c.Y())), height)
	if max(a.X(), b.X(), c.X()) < 0 || max(a.Y(), b.Y(), c.Y()) < 0 ||
		min(a.X(), b.X(), c.X()) > float32(width-1) || min(a.Y(), b.Y(), c.Y()) > float32(height-1) {
		return dst
	}
	if minX > maxX || minY > maxY {
		return dst
	}

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			p := mgl32.Vec2{float32(x), float32(y)}
			w := [3]float32{
				edge(b, c, p) * invArea,
				edge(c, a, p) * invArea,
				edge(a, b, p) * invArea,
			}
			if w[0] < -coverageEpsilon || w[1] < -coverageEpsilon || w[2] < -coverageEpsilon {
				continue
			}
			w = normalizeWeights(w)

			depth := w[0]*v0.Position.Z() + w[1]*v1.Position.Z() + w[2]*v2.Position.Z()
			if depth < 0 || depth >= 1 {
				continue
			}

			dst = append(dst, interpolate(x, y, depth, w, v0, v1, v2))
		}
	}
	return dst
}

// edge is twice the signed area of (a, b, p).
func edge(a, b, p mgl32.Vec2) float32 {
	return (b.X()-a.X())*(p.Y()-a.Y()) - (b.Y()-a.Y())*(p.X()-a.X())
}

// clampPixel converts a bounding box coordinate to a pixel index in [0, size-1] without
// overflowing on far off-screen vertices.
func clampPixel(v float32, size int) int {
	return int(math32.Max(0, math32.Min(v, float32(size-1))))
}

// normalizeWeights clamps weights to be non-negative and rescales them to sum to 1.
func normalizeWeights(w [3]float32) [3]float32 {
	w[0] = max(w[0], 0)
	w[1] = max(w[1], 0)
	w[2] = max(w[2], 0)
	sum := w[0] + w[1] + w[2]
	if sum == 0 {
		return [3]float32{1, 0, 0}
	}
	inv := 1 / sum
	return [3]float32{w[0] * inv, w[1] * inv, w[2] * inv}
}

func interpolate(x, y int, depth float32, w [3]float32, v0, v1, v2 *geometry.Vertex) geometry.Fragment {
	// Perspective-correct weights: screen weights scaled by 1/w and renormalised.
	p0 := w[0] * v0.InvW
	p1 := w[1] * v1.InvW
	p2 := w[2] * v2.InvW
	if sum := p0 + p1 + p2; sum > 0 {
		inv := 1 / sum
		p0, p1, p2 = p0*inv, p1*inv, p2*inv
	} else {
		p0, p1, p2 = w[0], w[1], w[2]
	}

	return geometry.Fragment{
		X:           x,
		Y:           y,
		Depth:       depth,
		World:       mix3(v0.World, v1.World, v2.World, p0, p1, p2),
		Normal:      mix3(v0.Normal, v1.Normal, v2.Normal, p0, p1, p2),
		Object:      mix3(v0.Object, v1.Object, v2.Object, p0, p1, p2),
		TexCoord:    v0.TexCoord.Mul(p0).Add(v1.TexCoord.Mul(p1)).Add(v2.TexCoord.Mul(p2)),
		Barycentric: w,
	}
}

func mix3(a, b, c mgl32.Vec3, wa, wb, wc float32) mgl32.Vec3 {
	return mgl32.Vec3{
		a[0]*wa + b[0]*wb + c[0]*wc,
		a[1]*wa + b[1]*wb + c[1]*wc,
		a[2]*wa + b[2]*wb + c[2]*wc,
	}
}
