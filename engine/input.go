package engine

import (
	"github.com/Carmen-Shannon/oxy-raster/common"
	"github.com/Carmen-Shannon/oxy-raster/engine/camera"
	"github.com/Carmen-Shannon/oxy-raster/engine/renderer"
)

func (e *engine) onKeyDown(keyCode uint32) {
	switch keyCode {
	case common.KeyM, common.KeySpace:
		e.CycleMode()
	case common.KeyUp:
		e.eachController(func(c camera.CameraController) { c.Zoom(1) })
	case common.KeyDown:
		e.eachController(func(c camera.CameraController) { c.Zoom(-1) })
	case common.KeyA, common.KeyLeft:
		e.eachController(camera.CameraController.OrbitLeft)
	case common.KeyD, common.KeyRight:
		e.eachController(camera.CameraController.OrbitRight)
	case common.KeyW:
		e.eachController(camera.CameraController.OrbitUp)
	case common.KeyS:
		e.eachController(camera.CameraController.OrbitDown)
	case common.KeyP:
		e.mu.Lock()
		e.profilingEnabled = !e.profilingEnabled
		enabled := e.profilingEnabled
		e.mu.Unlock()
		renderer.Logger().Info("profiler toggled", "enabled", enabled)
	}
}

func (e *engine) onScroll(delta float32) {
	e.eachController(func(c camera.CameraController) { c.Zoom(delta) })
}

func (e *engine) onMouseButton(button common.MouseButton, pressed bool, x, y int32) {
	if button != common.MouseButtonLeft {
		return
	}
	e.dragging = pressed
	e.lastX, e.lastY = x, y
}

func (e *engine) onMouseMove(x, y int32) {
	if !e.dragging {
		return
	}
	dx, dy := float32(x-e.lastX), float32(y-e.lastY)
	e.lastX, e.lastY = x, y
	e.eachController(func(c camera.CameraController) { c.Drag(dx, dy) })
}

// onResize follows the window's framebuffer size. A minimized window reports 0x0 and is ignored.
func (e *engine) onResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if err := e.renderer.Resize(width, height); err != nil {
		renderer.Logger().Warn("resize failed", "width", width, "height", height, "error", err)
		return
	}
	if rs, ok := e.surface.(resizableSurface); ok {
		rs.Resize(width, height)
	}
	for _, s := range e.activeScenes() {
		if cam := s.Camera(); cam != nil {
			cam.SetAspect(float32(width) / float32(height))
		}
	}
	renderer.Logger().Info("resized", "width", width, "height", height)
}

// eachController applies fn to the camera controller of every active scene.
func (e *engine) eachController(fn func(camera.CameraController)) {
	for _, s := range e.activeScenes() {
		cam := s.Camera()
		if cam == nil {
			continue
		}
		if ctrl := cam.Controller(); ctrl != nil {
			fn(ctrl)
		}
	}
}
