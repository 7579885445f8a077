package light

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-raster/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	mu       *sync.Mutex
	position mgl32.Vec3
	ambient  float32
}

// Light is the scene's point light. Its position and ambient term feed the shading
// environment of every draw call in a frame. A light attached to a game object follows
// that object's world position.
type Light interface {
	// Position returns the world-space position of the light.
	//
	// Returns:
	//   - mgl32.Vec3: position as (x, y, z)
	Position() mgl32.Vec3

	// SetPosition sets the world-space position of the light.
	//
	// Parameters:
	//   - position: the new position
	SetPosition(position mgl32.Vec3)

	// Ambient returns the ambient fraction in [0, 1] applied to unlit surfaces.
	Ambient() float32

	// SetAmbient sets the ambient fraction, clamped to [0, 1].
	//
	// Parameters:
	//   - ambient: the ambient fraction
	SetAmbient(ambient float32)

	// Apply copies the light into a shading environment, leaving its noise source untouched.
	//
	// Parameters:
	//   - env: the environment to update
	//
	// Returns:
	//   - shader.Environment: env with Light and Ambient replaced
	Apply(env shader.Environment) shader.Environment
}

var _ Light = &lightImpl{}

// NewLight creates a Light at (2, 2, 2) with the default ambient fraction.
//
// Parameters:
//   - options: functional options to configure the light
//
// Returns:
//   - Light: the new light
func NewLight(options ...LightBuilderOption) Light {
	l := &lightImpl{
		mu:       &sync.Mutex{},
		position: mgl32.Vec3{2, 2, 2},
		ambient:  shader.DefaultAmbient,
	}
	for _, opt := range options {
		opt(l)
	}
	l.ambient = clampAmbient(l.ambient)
	return l
}

func (l *lightImpl) Position() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.position
}

func (l *lightImpl) SetPosition(position mgl32.Vec3) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.position = position
}

func (l *lightImpl) Ambient() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ambient
}

func (l *lightImpl) SetAmbient(ambient float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ambient = clampAmbient(ambient)
}

func (l *lightImpl) Apply(env shader.Environment) shader.Environment {
	l.mu.Lock()
	defer l.mu.Unlock()
	env.Light = l.position
	env.Ambient = l.ambient
	return env
}

func clampAmbient(a float32) float32 {
	return max(0, min(1, a))
}
