package config

import (
	"fmt"
	"image/color"

	"github.com/Carmen-Shannon/oxy-raster/engine/camera"
	"github.com/Carmen-Shannon/oxy-raster/engine/game_object"
	"github.com/Carmen-Shannon/oxy-raster/engine/geometry"
	"github.com/Carmen-Shannon/oxy-raster/engine/light"
	"github.com/Carmen-Shannon/oxy-raster/engine/renderer"
	"github.com/Carmen-Shannon/oxy-raster/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-raster/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// RendererOptions returns the renderer options for the Render section.
func (c Config) RendererOptions() []renderer.RendererBuilderOption {
	bg := c.Render.Background
	opts := []renderer.RendererBuilderOption{
		renderer.WithMode(c.Render.Mode),
		renderer.WithEnvironment(c.NewLight().Apply(shader.DefaultEnvironment(shader.NewSimplexNoise(c.Render.Seed)))),
		renderer.WithBackground(color.RGBA{R: uint8(bg[0]), G: uint8(bg[1]), B: uint8(bg[2]), A: 255}),
	}
	if c.Render.Workers > 0 {
		opts = append(opts, renderer.WithWorkers(c.Render.Workers))
	}
	if c.Render.ChunkSize > 0 {
		opts = append(opts, renderer.WithChunkSize(c.Render.ChunkSize))
	}
	if c.Render.BandHeight > 0 {
		opts = append(opts, renderer.WithBandHeight(c.Render.BandHeight))
	}
	return opts
}

// NewCamera builds the camera and orbit controller described by the Camera section, with the
// aspect ratio of the window.
func (c Config) NewCamera() camera.Camera {
	ctrl := camera.NewCameraController(
		camera.WithRadiusBounds(c.Camera.MinRadius, c.Camera.MaxRadius),
		camera.WithRadius(c.Camera.Radius),
		camera.WithZoomSpeed(c.Camera.ZoomSpeed),
		camera.WithOrbitSpeed(c.Camera.OrbitSpeed),
	)
	return camera.NewCamera(
		camera.WithFov(mgl32.DegToRad(c.Camera.Fov)),
		camera.WithAspect(float32(c.Window.Width)/float32(c.Window.Height)),
		camera.WithNear(c.Camera.Near),
		camera.WithFar(c.Camera.Far),
		camera.WithController(ctrl),
	)
}

// NewLight builds the light described by the Light section.
func (c Config) NewLight() light.Light {
	return light.NewLight(
		light.WithPosition(mgl32.Vec3(c.Light.Position)),
		light.WithAmbient(c.Light.Ambient),
	)
}

// NewObjects builds one GameObject per body, in declaration order. Bodies with equal
// segment counts share a vertex buffer. A body with EmitsLight carries the scene light.
//
// Parameters:
//   - lt: the light attached to emitting bodies
//
// Returns:
//   - []game_object.GameObject: the bodies
//   - error: a geometry error for an unusable tessellation
func (c Config) NewObjects(lt light.Light) ([]game_object.GameObject, error) {
	buffers := make(map[[2]int][]geometry.Vertex)
	byName := make(map[string]game_object.GameObject, len(c.Bodies))
	objs := make([]game_object.GameObject, 0, len(c.Bodies))

	for _, b := range c.Bodies {
		buf, ok := buffers[b.Segments]
		if !ok {
			mesh, err := geometry.NewSphere(b.Segments[0], b.Segments[1])
			if err != nil {
				return nil, fmt.Errorf("body %q: %w", b.Name, err)
			}
			if buf, err = geometry.BuildVertexBuffer(mesh); err != nil {
				return nil, fmt.Errorf("body %q: %w", b.Name, err)
			}
			buffers[b.Segments] = buf
		}

		opts := []game_object.GameObjectBuilderOption{
			game_object.WithName(b.Name),
			game_object.WithMesh(buf, 1),
			game_object.WithPosition(mgl32.Vec3(b.Position)),
			game_object.WithScale(mgl32.Vec3{b.Scale, b.Scale, b.Scale}),
			game_object.WithRotationSpeed(mgl32.Vec3(b.Spin)),
		}
		if b.Mode != nil {
			opts = append(opts, game_object.WithMode(*b.Mode))
		}
		if b.Parent != "" || b.OrbitRadius != 0 {
			opts = append(opts, game_object.WithOrbit(byName[b.Parent], b.OrbitRadius, b.OrbitSpeed, b.OrbitPhase))
		}
		if b.EmitsLight {
			opts = append(opts, game_object.WithLight(lt))
		}

		obj := game_object.NewGameObject(opts...)
		byName[b.Name] = obj
		objs = append(objs, obj)
	}
	return objs, nil
}

// NewScene builds the camera, light and bodies into an active scene.
//
// Parameters:
//   - name: the scene name
//
// Returns:
//   - scene.Scene: the scene
//   - error: a geometry error for an unusable tessellation
func (c Config) NewScene(name string) (scene.Scene, error) {
	lt := c.NewLight()
	objs, err := c.NewObjects(lt)
	if err != nil {
		return nil, err
	}
	culling := c.Render.Culling == nil || *c.Render.Culling
	return scene.NewScene(name, c.NewCamera(),
		scene.WithLight(lt),
		scene.WithObjects(objs...),
		scene.WithCullingDisabled(!culling),
	), nil
}
