package geometry

import (
	"errors"
	"fmt"
)

// ErrFaceIndex is returned when a face references an attribute index outside its array.
var ErrFaceIndex = errors.New("face index out of range")

// BuildVertexBuffer flattens a parsed mesh into the interleaved vertex buffer consumed by the
// pipeline, three vertices per face in face order. Every index is validated before any vertex
// is emitted, so a malformed mesh yields an error and no buffer.
//
// A mesh without normals or texture coordinates is accepted as long as its faces reference
// none: an empty Normals or TexCoords array leaves that attribute zeroed.
//
// Parameters:
//   - m: the parsed mesh
//
// Returns:
//   - []Vertex: the flat vertex buffer, len(m.Faces)*3 long
//   - error: ErrFaceIndex (wrapped with the face and corner) on any out-of-range index
func BuildVertexBuffer(m Mesh) ([]Vertex, error) {
	for fi, f := range m.Faces {
		for corner := range 3 {
			if err := checkIndex(f.Vertices[corner], len(m.Vertices), false); err != nil {
				return nil, fmt.Errorf("face %d corner %d position: %w", fi, corner, err)
			}
			if err := checkIndex(f.Normals[corner], len(m.Normals), true); err != nil {
				return nil, fmt.Errorf("face %d corner %d normal: %w", fi, corner, err)
			}
			if err := checkIndex(f.TexCoords[corner], len(m.TexCoords), true); err != nil {
				return nil, fmt.Errorf("face %d corner %d texcoord: %w", fi, corner, err)
			}
		}
	}

	out := make([]Vertex, 0, len(m.Faces)*3)
	for _, f := range m.Faces {
		for corner := range 3 {
			v := Vertex{Position: m.Vertices[f.Vertices[corner]]}
			if len(m.Normals) > 0 {
				v.Normal = m.Normals[f.Normals[corner]]
			}
			if len(m.TexCoords) > 0 {
				v.TexCoord = m.TexCoords[f.TexCoords[corner]]
			}
			out = append(out, v)
		}
	}
	return out, nil
}

// checkIndex validates idx against an array of length n. Optional arrays that are empty
// accept any index since the attribute is simply not present.
func checkIndex(idx, n int, optional bool) error {
	if optional && n == 0 {
		return nil
	}
	if idx < 0 || idx >= n {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrFaceIndex, idx, n)
	}
	return nil
}
