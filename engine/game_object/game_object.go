package game_object

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-raster/common"
	"github.com/Carmen-Shannon/oxy-raster/engine/geometry"
	"github.com/Carmen-Shannon/oxy-raster/engine/light"
	"github.com/Carmen-Shannon/oxy-raster/engine/renderer/shader"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type gameObject struct {
	mu *sync.Mutex

	id      uint64
	name    string
	enabled atomic.Bool

	mesh         []geometry.Vertex
	boundsRadius float32

	// forced shading mode; nil draws with the renderer's active mode
	mode *shader.Mode

	position      mgl32.Vec3
	rotation      mgl32.Vec3
	rotationSpeed mgl32.Vec3
	scale         mgl32.Vec3

	parent      GameObject
	orbitRadius float32
	orbitSpeed  float32
	orbitPhase  float32

	attachedLight light.Light
}

// GameObject is a body in a scene: a vertex buffer placed in the world by a model matrix.
// Each Update spins the body by its rotation speed and advances its orbit around an optional
// parent. A body may force its own shading mode, which overrides the renderer's active mode
// for its draw call only.
type GameObject interface {
	// ID returns the object's unique identifier, 0 until added to a scene.
	ID() uint64

	// SetID sets the object's unique identifier.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// Name returns the object's display name.
	Name() string

	// Enabled returns whether this object is drawn.
	Enabled() bool

	// SetEnabled sets whether the object is drawn.
	//
	// Parameters:
	//   - enabled: true to draw
	SetEnabled(enabled bool)

	// Mesh returns the model-space vertex buffer, three vertices per triangle.
	Mesh() []geometry.Vertex

	// SetMesh replaces the vertex buffer.
	//
	// Parameters:
	//   - mesh: the vertex buffer
	SetMesh(mesh []geometry.Vertex)

	// BoundsRadius returns the model-space radius of a sphere around the origin enclosing the mesh.
	BoundsRadius() float32

	// Mode returns the forced shading mode, if any.
	//
	// Returns:
	//   - shader.Mode: the forced mode
	//   - bool: false when the object uses the renderer's active mode
	Mode() (shader.Mode, bool)

	// SetMode forces the object's shading mode. It panics if m is not a valid mode.
	//
	// Parameters:
	//   - m: the mode to force
	SetMode(m shader.Mode)

	// ClearMode removes a forced mode.
	ClearMode()

	// Position returns the local position, relative to the parent's orbit centre when a parent is set.
	Position() mgl32.Vec3

	// SetPosition sets the local position.
	//
	// Parameters:
	//   - position: the new position
	SetPosition(position mgl32.Vec3)

	// Rotation returns the Euler rotation in radians.
	Rotation() mgl32.Vec3

	// SetRotation sets the Euler rotation in radians.
	//
	// Parameters:
	//   - rotation: the new rotation
	SetRotation(rotation mgl32.Vec3)

	// RotationSpeed returns the spin in radians per second around each axis.
	RotationSpeed() mgl32.Vec3

	// SetRotationSpeed sets the spin in radians per second around each axis.
	//
	// Parameters:
	//   - speed: the new rotation speed
	SetRotationSpeed(speed mgl32.Vec3)

	// Scale returns the per-axis scale.
	Scale() mgl32.Vec3

	// SetScale sets the per-axis scale.
	//
	// Parameters:
	//   - scale: the new scale
	SetScale(scale mgl32.Vec3)

	// Parent returns the body this object orbits, or nil.
	Parent() GameObject

	// SetOrbit makes the object circle parent in the XZ plane.
	//
	// Parameters:
	//   - parent: the body to orbit (nil to orbit the world origin)
	//   - radius: the orbit radius
	//   - speed: the angular speed in radians per second
	SetOrbit(parent GameObject, radius, speed float32)

	// OrbitPhase returns the current orbit angle in radians.
	OrbitPhase() float32

	// Light returns the attached light, or nil.
	Light() light.Light

	// SetLight attaches a light that follows the object's world position.
	//
	// Parameters:
	//   - l: the light to attach (nil to detach)
	SetLight(l light.Light)

	// Update advances spin and orbit by deltaTime seconds.
	//
	// Parameters:
	//   - deltaTime: elapsed time in seconds
	Update(deltaTime float32)

	// WorldPosition returns the object's world-space centre, including its parent chain.
	WorldPosition() mgl32.Vec3

	// ModelMatrix returns the model matrix: translate to WorldPosition, rotate, then scale.
	ModelMatrix() mgl32.Mat4
}

var _ GameObject = &gameObject{}

// NewGameObject creates a GameObject with unit scale, enabled, with no mesh.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the new object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		mu:           &sync.Mutex{},
		scale:        mgl32.Vec3{1, 1, 1},
		boundsRadius: 1,
	}
	obj.enabled.Store(true)
	for _, opt := range options {
		opt(obj)
	}
	if obj.mode != nil && !obj.mode.Valid() {
		panic("game_object: invalid forced mode " + obj.mode.String())
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.id
}

func (g *gameObject) SetID(id uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.id = id
}

func (g *gameObject) Name() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.name
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) Mesh() []geometry.Vertex {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mesh
}

func (g *gameObject) SetMesh(mesh []geometry.Vertex) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mesh = mesh
}

func (g *gameObject) BoundsRadius() float32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.boundsRadius
}

func (g *gameObject) Mode() (shader.Mode, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.mode == nil {
		return 0, false
	}
	return *g.mode, true
}

func (g *gameObject) SetMode(m shader.Mode) {
	if !m.Valid() {
		panic("game_object: invalid forced mode " + m.String())
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mode = &m
}

func (g *gameObject) ClearMode() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mode = nil
}

func (g *gameObject) Position() mgl32.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.position
}

func (g *gameObject) SetPosition(position mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.position = position
}

func (g *gameObject) Rotation() mgl32.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rotation
}

func (g *gameObject) SetRotation(rotation mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotation = rotation
}

func (g *gameObject) RotationSpeed() mgl32.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rotationSpeed
}

func (g *gameObject) SetRotationSpeed(speed mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotationSpeed = speed
}

func (g *gameObject) Scale() mgl32.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scale
}

func (g *gameObject) SetScale(scale mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scale = scale
}

func (g *gameObject) Parent() GameObject {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.parent
}

func (g *gameObject) SetOrbit(parent GameObject, radius, speed float32) {
	if parent == GameObject(g) {
		panic("game_object: an object cannot orbit itself")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.parent = parent
	g.orbitRadius = radius
	g.orbitSpeed = speed
}

func (g *gameObject) OrbitPhase() float32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.orbitPhase
}

func (g *gameObject) Light() light.Light {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.attachedLight
}

func (g *gameObject) SetLight(l light.Light) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.attachedLight = l
}

func (g *gameObject) Update(deltaTime float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotation = wrapAngles(g.rotation.Add(g.rotationSpeed.Mul(deltaTime)))
	g.orbitPhase = wrapAngle(g.orbitPhase + g.orbitSpeed*deltaTime)
}

func (g *gameObject) WorldPosition() mgl32.Vec3 {
	g.mu.Lock()
	parent := g.parent
	local := g.position
	radius, phase := g.orbitRadius, g.orbitPhase
	g.mu.Unlock()

	if radius != 0 {
		local = local.Add(mgl32.Vec3{radius * math32.Cos(phase), 0, radius * math32.Sin(phase)})
	}
	if parent == nil {
		return local
	}
	return parent.WorldPosition().Add(local)
}

func (g *gameObject) ModelMatrix() mgl32.Mat4 {
	pos := g.WorldPosition()
	g.mu.Lock()
	defer g.mu.Unlock()
	return common.ModelMatrix(pos, g.rotation, g.scale)
}

func wrapAngle(a float32) float32 {
	return math32.Mod(a, 2*math32.Pi)
}

func wrapAngles(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{wrapAngle(v[0]), wrapAngle(v[1]), wrapAngle(v[2])}
}
