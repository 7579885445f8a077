package geometry

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangleMesh() Mesh {
	return Mesh{
		Vertices:  []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Normals:   []mgl32.Vec3{{0, 0, 1}},
		TexCoords: []mgl32.Vec2{{0, 0}, {1, 0}, {0, 1}},
		Faces: []Face{{
			Vertices:  [3]int{0, 1, 2},
			Normals:   [3]int{0, 0, 0},
			TexCoords: [3]int{0, 1, 2},
		}},
	}
}

func TestBuildVertexBuffer(t *testing.T) {
	buf, err := BuildVertexBuffer(triangleMesh())
	require.NoError(t, err)
	require.Len(t, buf, 3)

	assert.Equal(t, mgl32.Vec3{1, 0, 0}, buf[1].Position)
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, buf[2].Normal)
	assert.Equal(t, mgl32.Vec2{0, 1}, buf[2].TexCoord)
}

func TestBuildVertexBufferOptionalAttributes(t *testing.T) {
	m := triangleMesh()
	m.Normals = nil
	m.TexCoords = nil
	m.Faces[0].Normals = [3]int{7, 7, 7}

	buf, err := BuildVertexBuffer(m)
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{}, buf[0].Normal)
}

func TestBuildVertexBufferRejectsBadIndices(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Mesh)
	}{
		{"position past end", func(m *Mesh) { m.Faces[0].Vertices[2] = 3 }},
		{"negative position", func(m *Mesh) { m.Faces[0].Vertices[0] = -1 }},
		{"normal past end", func(m *Mesh) { m.Faces[0].Normals[1] = 1 }},
		{"texcoord past end", func(m *Mesh) { m.Faces[0].TexCoords[0] = 9 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := triangleMesh()
			tt.mutate(&m)
			buf, err := BuildVertexBuffer(m)
			assert.ErrorIs(t, err, ErrFaceIndex)
			assert.Nil(t, buf)
		})
	}
}

func TestNewSphere(t *testing.T) {
	const lat, lon = 8, 6
	m, err := NewSphere(lat, lon)
	require.NoError(t, err)

	assert.Len(t, m.Vertices, (lat+1)*(lon+1))
	assert.Len(t, m.Faces, 2*lat*lon-2*lon)

	for _, v := range m.Vertices {
		assert.InDelta(t, 1.0, v.Len(), 1e-5)
	}

	buf, err := BuildVertexBuffer(m)
	require.NoError(t, err)
	assert.Len(t, buf, len(m.Faces)*3)
}

func TestNewSphereRejectsTooFewSegments(t *testing.T) {
	_, err := NewSphere(1, 6)
	assert.Error(t, err)
	_, err = NewSphere(4, 2)
	assert.Error(t, err)
}
