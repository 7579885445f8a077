package surface

// SurfaceBuilderOption is a functional option applied to a GPU surface during construction via New.
type SurfaceBuilderOption func(*gpuSurface)

// WithPresentMode sets how presented frames are synchronised with the display.
//
// Parameters:
//   - mode: PresentModeVSync or PresentModeUncapped
//
// Returns:
//   - SurfaceBuilderOption: a function that applies the present mode option to a surface
func WithPresentMode(mode PresentMode) SurfaceBuilderOption {
	return func(s *gpuSurface) {
		s.presentMode = mode
	}
}

// WithForceSoftwareAdapter forces WGPU onto a CPU fallback adapter. This requires a software
// Vulkan ICD (e.g. SwiftShader or lavapipe) to be installed.
//
// Parameters:
//   - force: true to request the fallback adapter
//
// Returns:
//   - SurfaceBuilderOption: a function that applies the adapter option to a surface
func WithForceSoftwareAdapter(force bool) SurfaceBuilderOption {
	return func(s *gpuSurface) {
		s.forceFallbackAdapter = force
	}
}

// WithLabel sets the prefix used for GPU object labels.
//
// Parameters:
//   - label: the label prefix
//
// Returns:
//   - SurfaceBuilderOption: a function that applies the label option to a surface
func WithLabel(label string) SurfaceBuilderOption {
	return func(s *gpuSurface) {
		s.label = label
	}
}
