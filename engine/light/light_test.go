package light

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-raster/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestNewLightDefaults(t *testing.T) {
	l := NewLight()
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, l.Position())
	assert.Equal(t, shader.DefaultAmbient, l.Ambient())
}

func TestAmbientIsClamped(t *testing.T) {
	assert.Equal(t, float32(1), NewLight(WithAmbient(3)).Ambient())

	l := NewLight()
	l.SetAmbient(-1)
	assert.Equal(t, float32(0), l.Ambient())
}

func TestApplyKeepsNoise(t *testing.T) {
	noise := shader.NewSimplexNoise(9)
	env := shader.DefaultEnvironment(noise)

	l := NewLight(WithPosition(mgl32.Vec3{-5, 0, 1}), WithAmbient(0.25))
	got := l.Apply(env)

	assert.Equal(t, mgl32.Vec3{-5, 0, 1}, got.Light)
	assert.Equal(t, float32(0.25), got.Ambient)
	assert.Equal(t, noise, got.Noise)
}
