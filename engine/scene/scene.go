package scene

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-raster/common"
	"github.com/Carmen-Shannon/oxy-raster/engine/camera"
	"github.com/Carmen-Shannon/oxy-raster/engine/game_object"
	"github.com/Carmen-Shannon/oxy-raster/engine/light"
	"github.com/Carmen-Shannon/oxy-raster/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

// Scene manages a registry of GameObjects, a Camera and a Light. Each frame the engine calls
// Update to advance the bodies and Draw to issue one draw call per enabled body.
// Scenes can be hot-swapped via the Active flag.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently drawn.
	Active() bool

	// SetActive sets whether this scene is drawn.
	SetActive(active bool)

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// SetCamera replaces the scene's camera.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// Light returns the scene's light. When a game object carrying a light is added, that
	// light becomes the scene's light.
	Light() light.Light

	// SetLight replaces the scene's light.
	//
	// Parameters:
	//   - l: the new light
	SetLight(l light.Light)

	// Count returns the number of GameObjects in the scene.
	Count() int

	// Add registers a GameObject and assigns it an ID if it has none. Objects are drawn in
	// ascending ID order.
	//
	// Parameters:
	//   - obj: the GameObject to add
	//
	// Returns:
	//   - uint64: the object's ID
	Add(obj game_object.GameObject) uint64

	// Get retrieves a GameObject by its ID. Returns nil if not found.
	//
	// Parameters:
	//   - id: the object's unique ID
	//
	// Returns:
	//   - game_object.GameObject: the object or nil
	Get(id uint64) game_object.GameObject

	// Remove removes a GameObject by ID.
	//
	// Parameters:
	//   - id: the object's unique ID
	Remove(id uint64)

	// Clear removes all objects from the scene.
	Clear()

	// Objects returns the registered objects in draw order.
	Objects() []game_object.GameObject

	// Update advances every enabled object by deltaTime seconds, syncs attached lights to their
	// object's world position and updates the camera.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last frame in seconds
	Update(deltaTime float32)

	// Draw issues one draw call per enabled object with a mesh, using the camera's view and
	// projection and the object's model matrix. Objects with a forced mode override the
	// renderer's active mode for their own draw only. The scene's light is written into the
	// renderer's environment first. Must be called between BeginFrame and EndFrame.
	//
	// Parameters:
	//   - r: the renderer to draw with
	//
	// Returns:
	//   - error: the joined errors of every failed draw call; other objects are still drawn
	Draw(r renderer.Renderer) error
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool

	registry map[uint64]game_object.GameObject
	nextID   uint64

	cam camera.Camera
	lt  light.Light

	cullingDisabled bool
}

var _ Scene = &scene{}

// NewScene creates a new Scene with the given camera. NewScene panics if cam is nil.
// Without WithLight the scene uses a default light at (2, 2, 2).
//
// Parameters:
//   - name: the name of the scene
//   - cam: the camera to attach (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}

	s := &scene{
		mu:       &sync.RWMutex{},
		name:     name,
		active:   true,
		registry: make(map[uint64]game_object.GameObject),
		nextID:   1,
		cam:      cam,
	}
	for _, option := range options {
		option(s)
	}
	if s.lt == nil {
		s.lt = light.NewLight()
	}
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) Light() light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lt
}

func (s *scene) SetLight(l light.Light) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lt = l
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registry)
}

func (s *scene) Add(obj game_object.GameObject) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLocked(obj)
	return obj.ID()
}

// addLocked registers obj. Caller must hold s.mu write lock.
func (s *scene) addLocked(obj game_object.GameObject) {
	if obj.ID() == 0 {
		obj.SetID(atomic.AddUint64(&s.nextID, 1) - 1)
	}
	s.registry[obj.ID()] = obj

	if l := obj.Light(); l != nil {
		s.lt = l
	}
}

func (s *scene) Get(id uint64) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry[id]
}

func (s *scene) Remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.registry, id)
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry = make(map[uint64]game_object.GameObject)
}

func (s *scene) Objects() []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked()
}

// sortedLocked returns the registry ordered by ID. Caller must hold s.mu.
func (s *scene) sortedLocked() []game_object.GameObject {
	objs := make([]game_object.GameObject, 0, len(s.registry))
	for _, obj := range s.registry {
		objs = append(objs, obj)
	}
	slices.SortFunc(objs, func(a, b game_object.GameObject) int {
		switch {
		case a.ID() < b.ID():
			return -1
		case a.ID() > b.ID():
			return 1
		}
		return 0
	})
	return objs
}

func (s *scene) Update(deltaTime float32) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	objs := s.sortedLocked()
	for _, obj := range objs {
		if obj.Enabled() {
			obj.Update(deltaTime)
		}
	}

	// Sync attached lights after every body moved so orbits read final parent positions.
	for _, obj := range objs {
		if l := obj.Light(); l != nil && obj.Enabled() {
			l.SetPosition(obj.WorldPosition())
		}
	}

	if s.cam != nil {
		s.cam.Update()
	}
}

func (s *scene) Draw(r renderer.Renderer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if r == nil {
		return fmt.Errorf("scene %q has no renderer", s.name)
	}

	r.SetEnvironment(s.lt.Apply(r.Environment()))

	fb := r.Framebuffer()
	base := s.cam.Uniforms(common.Viewport(fb.Width(), fb.Height()))

	var errs []error
	for _, obj := range s.sortedLocked() {
		mesh := obj.Mesh()
		if !obj.Enabled() || len(mesh) == 0 {
			continue
		}

		var opts []renderer.DrawOption
		if !s.cullingDisabled {
			opts = append(opts, renderer.WithBounds(mgl32.Vec3{}, obj.BoundsRadius()))
		}
		if m, forced := obj.Mode(); forced {
			opts = append(opts, renderer.WithModeOverride(m))
		}

		if err := r.Draw(mesh, base.WithModel(obj.ModelMatrix()), opts...); err != nil {
			errs = append(errs, fmt.Errorf("object %d (%s): %w", obj.ID(), obj.Name(), err))
		}
	}
	return errors.Join(errs...)
}
