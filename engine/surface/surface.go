package surface

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-raster/engine/renderer/framebuffer"
	"github.com/cogentcore/webgpu/wgpu"
)

// PresentMode controls how presented frames are synchronised with the display.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents immediately. May tear but has the lowest latency.
	PresentModeUncapped
)

// ErrReleased is returned when presenting to a surface after Release.
var ErrReleased = errors.New("surface has been released")

// gpuSurface is the implementation of the Surface interface.
type gpuSurface struct {
	mu *sync.Mutex

	label                string
	presentMode          PresentMode
	forceFallbackAdapter bool

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface

	surfaceFormat wgpu.TextureFormat
	width         int
	height        int

	pipeline        *wgpu.RenderPipeline
	bindGroupLayout *wgpu.BindGroupLayout
	sampler         *wgpu.Sampler

	// frameTexture receives the framebuffer pixels each Present; it is recreated on resize.
	frameTexture *wgpu.Texture
	frameView    *wgpu.TextureView
	bindGroup    *wgpu.BindGroup
	frameWidth   int
	frameHeight  int

	released bool
}

// Surface presents CPU framebuffers in a window through WebGPU. Each Present uploads the
// pixels into a texture and draws it over the whole swapchain image.
type Surface interface {
	framebuffer.Surface

	// Resize reconfigures the swapchain for a new window size.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	Resize(width, height int)

	// Release frees every GPU object owned by the surface. Present fails afterwards.
	Release()
}

var _ Surface = &gpuSurface{}

// New creates a Surface for a platform window. The descriptor is typically obtained from
// Window.SurfaceDescriptor(). New panics if no adapter or device can be acquired, since
// nothing can be presented without one.
//
// Parameters:
//   - descriptor: the platform-specific surface descriptor
//   - width: initial swapchain width in pixels
//   - height: initial swapchain height in pixels
//   - options: variadic list of SurfaceBuilderOption functions
//
// Returns:
//   - Surface: the GPU-backed presentation surface
func New(descriptor *wgpu.SurfaceDescriptor, width, height int, options ...SurfaceBuilderOption) Surface {
	runtime.LockOSThread()
	s := &gpuSurface{
		mu:          &sync.Mutex{},
		label:       "Framebuffer",
		presentMode: PresentModeVSync,
		instance:    wgpu.CreateInstance(nil),
	}
	for _, opt := range options {
		opt(s)
	}

	s.surface = s.instance.CreateSurface(descriptor)

	a, err := s.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: s.forceFallbackAdapter,
		CompatibleSurface:    s.surface,
	})
	if err != nil {
		panic(err)
	}
	s.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: s.label + " Device",
	})
	if err != nil {
		panic(err)
	}
	s.device = d
	s.queue = d.GetQueue()

	s.Resize(width, height)
	if err := s.createPipeline(); err != nil {
		panic(err)
	}
	return s
}

func (s *gpuSurface) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if width <= 0 || height <= 0 || s.released {
		return
	}

	capabilities := s.surface.GetCapabilities(s.adapter)
	s.surfaceFormat = pickFormat(capabilities.Formats)

	presentMode := wgpu.PresentModeFifo
	if s.presentMode == PresentModeUncapped {
		presentMode = wgpu.PresentModeImmediate
	}

	s.surface.Configure(s.adapter, s.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      s.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})
	s.width = width
	s.height = height
}

func (s *gpuSurface) Present(pixels []byte, width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return ErrReleased
	}
	if width <= 0 || height <= 0 || len(pixels) < width*height*4 {
		return fmt.Errorf("%w: %dx%d with %d bytes", framebuffer.ErrInvalidSize, width, height, len(pixels))
	}

	if err := s.ensureFrameTexture(width, height); err != nil {
		return err
	}

	s.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  s.frameTexture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		pixels[:width*height*4],
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(width * 4),
			RowsPerImage: uint32(height),
		},
		&wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
	)

	surfaceTexture, err := s.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("failed to acquire surface texture: %w", err)
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("failed to create surface view: %w", err)
	}
	defer view.Release()

	encoder, err := s.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("failed to create command encoder: %w", err)
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{A: 1.0},
			},
		},
	})
	pass.SetPipeline(s.pipeline)
	pass.SetBindGroup(0, s.bindGroup, nil)
	pass.Draw(3, 1, 0, 0)
	pass.End()
	pass.Release()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("failed to finish command encoder: %w", err)
	}
	defer commandBuffer.Release()

	s.queue.Submit(commandBuffer)
	s.surface.Present()
	return nil
}

func (s *gpuSurface) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return
	}
	s.released = true

	s.releaseFrameTexture()
	if s.sampler != nil {
		s.sampler.Release()
	}
	if s.pipeline != nil {
		s.pipeline.Release()
	}
	if s.bindGroupLayout != nil {
		s.bindGroupLayout.Release()
	}
	s.queue.Release()
	s.device.Release()
	s.adapter.Release()
	s.surface.Release()
	s.instance.Release()
}

// createPipeline builds the blit pipeline, its bind group layout and the nearest-filter sampler.
func (s *gpuSurface) createPipeline() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	module, err := s.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: s.label + " Blit Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: blitShaderSource,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create blit shader: %w", err)
	}
	defer module.Release()

	s.bindGroupLayout, err = s.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: s.label + " Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create bind group layout: %w", err)
	}

	layout, err := s.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            s.label + " Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{s.bindGroupLayout},
	})
	if err != nil {
		return fmt.Errorf("failed to create pipeline layout: %w", err)
	}
	defer layout.Release()

	s.pipeline, err = s.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  s.label + " Blit Pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    s.surfaceFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create blit pipeline: %w", err)
	}

	s.sampler, err = s.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         s.label + " Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeNearest,
		MinFilter:     wgpu.FilterModeNearest,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to create sampler: %w", err)
	}
	return nil
}

// ensureFrameTexture (re)creates the upload texture and its bind group when the frame size
// changes. Callers hold s.mu.
func (s *gpuSurface) ensureFrameTexture(width, height int) error {
	if s.frameTexture != nil && s.frameWidth == width && s.frameHeight == height {
		return nil
	}
	s.releaseFrameTexture()

	tex, err := s.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     s.label + " Texture",
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		Format:        wgpu.TextureFormatRGBA8Unorm,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return fmt.Errorf("failed to create frame texture: %w", err)
	}

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return fmt.Errorf("failed to create frame texture view: %w", err)
	}

	bindGroup, err := s.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  s.label + " Bind Group",
		Layout: s.bindGroupLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: view},
			{Binding: 1, Sampler: s.sampler},
		},
	})
	if err != nil {
		view.Release()
		tex.Release()
		return fmt.Errorf("failed to create frame bind group: %w", err)
	}

	s.frameTexture = tex
	s.frameView = view
	s.bindGroup = bindGroup
	s.frameWidth = width
	s.frameHeight = height
	return nil
}

func (s *gpuSurface) releaseFrameTexture() {
	if s.bindGroup != nil {
		s.bindGroup.Release()
		s.bindGroup = nil
	}
	if s.frameView != nil {
		s.frameView.Release()
		s.frameView = nil
	}
	if s.frameTexture != nil {
		s.frameTexture.Release()
		s.frameTexture = nil
	}
}

// pickFormat prefers a non-sRGB 8-bit format so the already display-ready framebuffer
// bytes are not gamma-encoded a second time.
func pickFormat(formats []wgpu.TextureFormat) wgpu.TextureFormat {
	for _, f := range formats {
		if f == wgpu.TextureFormatBGRA8Unorm || f == wgpu.TextureFormatRGBA8Unorm {
			return f
		}
	}
	return formats[0]
}
