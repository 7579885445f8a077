package raster

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-raster/engine/geometry"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func screenVertex(x, y, z float32) geometry.Vertex {
	return geometry.Vertex{
		Position: mgl32.Vec3{x, y, z},
		Normal:   mgl32.Vec3{0, 0, 1},
		InvW:     1,
	}
}

func TestBarycentricSumsToOne(t *testing.T) {
	a := mgl32.Vec2{0, 0}
	b := mgl32.Vec2{10, 0}
	c := mgl32.Vec2{0, 10}

	for _, p := range []mgl32.Vec2{{0, 0}, {10, 0}, {0, 10}, {3, 3}, {5, 5}, {1.25, 7.5}, {20, -4}} {
		w, ok := Barycentric(a, b, c, p)
		require.True(t, ok)
		assert.InDelta(t, 1, w[0]+w[1]+w[2], 1e-5, "p=%v", p)
	}

	w, ok := Barycentric(a, b, c, b)
	require.True(t, ok)
	assert.InDelta(t, 1, w[1], 1e-6)
}

func TestBarycentricDegenerate(t *testing.T) {
	_, ok := Barycentric(mgl32.Vec2{0, 0}, mgl32.Vec2{5, 5}, mgl32.Vec2{10, 10}, mgl32.Vec2{1, 1})
	assert.False(t, ok)
}

func TestRasterizeCoversRightTriangle(t *testing.T) {
	tri := geometry.Triangle{
		screenVertex(0, 0, 0.5),
		screenVertex(10, 0, 0.5),
		screenVertex(0, 10, 0.5),
	}

	frags := Rasterize(tri, 20, 20, nil)
	require.Len(t, frags, 66)

	seen := make(map[[2]int]bool, len(frags))
	for _, f := range frags {
		assert.GreaterOrEqual(t, f.X, 0)
		assert.GreaterOrEqual(t, f.Y, 0)
		assert.LessOrEqual(t, f.X+f.Y, 10)
		assertWeights(t, f)
		assert.InDelta(t, 0.5, f.Depth, 1e-6)
		seen[[2]int{f.X, f.Y}] = true
	}
	assert.Len(t, seen, 66)
}

func TestRasterizeWindingIndependent(t *testing.T) {
	cw := geometry.Triangle{screenVertex(0, 0, 0.5), screenVertex(0, 10, 0.5), screenVertex(10, 0, 0.5)}
	assert.Len(t, Rasterize(cw, 20, 20, nil), 66)
}

func TestRasterizeDegenerateProducesNothing(t *testing.T) {
	tests := []struct {
		name string
		tri  geometry.Triangle
	}{
		{
			name: "collinear",
			tri:  geometry.Triangle{screenVertex(0, 0, 0.5), screenVertex(5, 5, 0.5), screenVertex(10, 10, 0.5)},
		},
		{
			name: "single point",
			tri:  geometry.Triangle{screenVertex(3, 3, 0.5), screenVertex(3, 3, 0.5), screenVertex(3, 3, 0.5)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, Rasterize(tt.tri, 20, 20, nil))
		})
	}
}

func TestRasterizeSkipsClippedTriangle(t *testing.T) {
	tri := geometry.Triangle{screenVertex(0, 0, 0.5), screenVertex(10, 0, 0.5), screenVertex(0, 10, 0.5)}
	tri[1].Clipped = true
	assert.Empty(t, Rasterize(tri, 20, 20, nil))
}

func TestRasterizeClipsToFramebuffer(t *testing.T) {
	tri := geometry.Triangle{screenVertex(-50, -50, 0.5), screenVertex(100, -50, 0.5), screenVertex(-50, 100, 0.5)}
	frags := Rasterize(tri, 8, 6, nil)
	require.Len(t, frags, 48)
	for _, f := range frags {
		assert.True(t, f.X >= 0 && f.X < 8 && f.Y >= 0 && f.Y < 6)
		assertWeights(t, f)
	}

	offscreen := geometry.Triangle{screenVertex(-30, -30, 0.5), screenVertex(-20, -30, 0.5), screenVertex(-30, -20, 0.5)}
	assert.Empty(t, Rasterize(offscreen, 8, 6, nil))
}

func TestRasterizeDropsOutOfRangeDepth(t *testing.T) {
	tests := []struct {
		name  string
		depth float32
		want  int
	}{
		{name: "beyond far", depth: 1.5},
		{name: "at far", depth: 1},
		{name: "before near", depth: -0.25},
		{name: "at near", depth: 0, want: 66},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tri := geometry.Triangle{screenVertex(0, 0, tt.depth), screenVertex(10, 0, tt.depth), screenVertex(0, 10, tt.depth)}
			assert.Len(t, Rasterize(tri, 20, 20, nil), tt.want)
		})
	}
}

func TestRasterizeSlantedTriangleWeights(t *testing.T) {
	a, b, c := mgl32.Vec2{0.3, 0.7}, mgl32.Vec2{13.6, 2.2}, mgl32.Vec2{4.1, 11.9}
	tri := geometry.Triangle{
		screenVertex(a.X(), a.Y(), 0.1),
		screenVertex(b.X(), b.Y(), 0.5),
		screenVertex(c.X(), c.Y(), 0.9),
	}

	frags := Rasterize(tri, 16, 16, nil)
	require.NotEmpty(t, frags)
	for _, f := range frags {
		assertWeights(t, f)

		w := f.Barycentric
		p := a.Mul(w[0]).Add(b.Mul(w[1])).Add(c.Mul(w[2]))
		assert.InDelta(t, float32(f.X), p.X(), 1e-2, "fragment %d,%d", f.X, f.Y)
		assert.InDelta(t, float32(f.Y), p.Y(), 1e-2, "fragment %d,%d", f.X, f.Y)
		assert.InDelta(t, 0.1*w[0]+0.5*w[1]+0.9*w[2], f.Depth, 1e-5)
	}
}

func TestNormalizeWeightsClampsEdgeSamples(t *testing.T) {
	tests := []struct {
		name string
		in   [3]float32
		want [3]float32
	}{
		{name: "inside", in: [3]float32{0.2, 0.3, 0.5}, want: [3]float32{0.2, 0.3, 0.5}},
		{name: "just outside one edge", in: [3]float32{-5e-5, 0.6, 0.40005}, want: [3]float32{0, 0.6, 0.4}},
		{name: "just outside two edges", in: [3]float32{-5e-5, -5e-5, 1.0001}, want: [3]float32{0, 0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeWeights(tt.in)
			for i := range got {
				assert.GreaterOrEqual(t, got[i], float32(0))
				assert.InDelta(t, tt.want[i], got[i], 1e-5)
			}
			assert.InDelta(t, 1, got[0]+got[1]+got[2], 1e-6)
		})
	}
}

func TestRasterizeAppendsToDestination(t *testing.T) {
	tri := geometry.Triangle{screenVertex(0, 0, 0.5), screenVertex(2, 0, 0.5), screenVertex(0, 2, 0.5)}
	dst := make([]geometry.Fragment, 1)
	out := Rasterize(tri, 4, 4, dst)
	assert.Len(t, out, 1+6)
}

func TestRasterizePerspectiveCorrectAttributes(t *testing.T) {
	near := screenVertex(0, 0, 0.2)
	near.World = mgl32.Vec3{0, 0, 0}
	near.InvW = 1

	far := screenVertex(10, 0, 0.8)
	far.World = mgl32.Vec3{10, 0, 0}
	far.InvW = 0.25

	top := screenVertex(0, 10, 0.2)
	top.World = mgl32.Vec3{0, 0, 0}
	top.InvW = 1

	frags := Rasterize(geometry.Triangle{near, far, top}, 20, 20, nil)
	for _, f := range frags {
		if f.X == 5 && f.Y == 0 {
			// halfway across the screen is nearer than halfway in world space
			assert.InDelta(t, 0.5, f.Depth, 1e-5)
			assert.InDelta(t, 2, f.World.X(), 1e-4)
			return
		}
	}
	t.Fatal("fragment (5, 0) not produced")
}

// assertWeights checks the barycentric weights of f are non-negative and sum to 1.
func assertWeights(t *testing.T, f geometry.Fragment) {
	t.Helper()
	for i, w := range f.Barycentric {
		assert.GreaterOrEqual(t, w, float32(0), "fragment %d,%d weight %d", f.X, f.Y, i)
	}
	assert.InDelta(t, 1, f.Barycentric[0]+f.Barycentric[1]+f.Barycentric[2], 1e-5)
}
