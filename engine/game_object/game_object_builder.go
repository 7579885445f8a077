package game_object

import (
	"github.com/Carmen-Shannon/oxy-raster/engine/geometry"
	"github.com/Carmen-Shannon/oxy-raster/engine/light"
	"github.com/Carmen-Shannon/oxy-raster/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithName sets the display name used in logs.
func WithName(name string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.name = name
	}
}

// WithEnabled sets whether the GameObject is drawn.
//
// Parameters:
//   - enabled: true to draw the object, false to skip it
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithMesh sets the vertex buffer and the radius of its bounding sphere.
//
// Parameters:
//   - mesh: model-space vertices, three per triangle
//   - boundsRadius: radius around the model origin enclosing every vertex
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the mesh
func WithMesh(mesh []geometry.Vertex, boundsRadius float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.mesh = mesh
		obj.boundsRadius = boundsRadius
	}
}

// WithMode forces the object's shading mode.
//
// Parameters:
//   - m: the mode used for this object's draw calls
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the mode
func WithMode(m shader.Mode) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.mode = &m
	}
}

// WithPosition sets the initial local position.
//
// Parameters:
//   - position: the position
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the position
func WithPosition(position mgl32.Vec3) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.position = position
	}
}

// WithRotation sets the initial Euler rotation in radians.
//
// Parameters:
//   - rotation: the rotation
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the rotation
func WithRotation(rotation mgl32.Vec3) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.rotation = rotation
	}
}

// WithRotationSpeed sets the spin in radians per second.
//
// Parameters:
//   - speed: the rotation speed around each axis
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the rotation speed
func WithRotationSpeed(speed mgl32.Vec3) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.rotationSpeed = speed
	}
}

// WithScale sets the per-axis scale.
//
// Parameters:
//   - scale: the scale
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the scale
func WithScale(scale mgl32.Vec3) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.scale = scale
	}
}

// WithOrbit makes the object circle parent in the XZ plane, starting at phase radians.
//
// Parameters:
//   - parent: the body to orbit (nil for the world origin)
//   - radius: the orbit radius
//   - speed: the angular speed in radians per second
//   - phase: the starting angle in radians
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the orbit
func WithOrbit(parent GameObject, radius, speed, phase float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.parent = parent
		obj.orbitRadius = radius
		obj.orbitSpeed = speed
		obj.orbitPhase = phase
	}
}

// WithLight attaches a light that follows the object's world position.
//
// Parameters:
//   - l: the light to attach
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the light
func WithLight(l light.Light) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.attachedLight = l
	}
}
