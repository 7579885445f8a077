package pipeline

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-raster/engine/geometry"
)

// ErrVertexCount is returned when a vertex buffer cannot be split into whole triangles.
var ErrVertexCount = errors.New("vertex count is not a multiple of 3")

// Assemble groups a flat vertex sequence into triangles, three consecutive vertices each,
// keeping the source winding order.
//
// Parameters:
//   - dst: destination slice, reused when its capacity allows
//   - vertices: the transformed vertex buffer
//
// Returns:
//   - []geometry.Triangle: dst extended with len(vertices)/3 triangles
//   - error: ErrVertexCount (wrapped) when len(vertices) is not a multiple of 3; dst is returned unchanged
func Assemble(dst []geometry.Triangle, vertices []geometry.Vertex) ([]geometry.Triangle, error) {
	if len(vertices)%3 != 0 {
		return dst, fmt.Errorf("%w: got %d", ErrVertexCount, len(vertices))
	}
	for i := 0; i < len(vertices); i += 3 {
		dst = append(dst, geometry.Triangle{vertices[i], vertices[i+1], vertices[i+2]})
	}
	return dst, nil
}
