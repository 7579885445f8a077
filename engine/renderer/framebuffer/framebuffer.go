package framebuffer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"
)

// ErrInvalidSize is returned when a framebuffer is requested with a non-positive dimension.
var ErrInvalidSize = errors.New("framebuffer dimensions must be positive")

// farDepth is the value every depth cell holds after Clear. The rasterizer only emits depth
// in [0, 1), so the first fragment to reach a cleared pixel is always written.
const farDepth float32 = 1.0

// framebuffer is the implementation of the Framebuffer interface.
type framebuffer struct {
	mu *sync.Mutex

	width  int
	height int

	background color.RGBA

	// pixels is tightly packed RGBA8, row-major, top row first.
	pixels []byte
	depth  []float32
}

// Framebuffer is the CPU render target: an RGBA8 colour grid paired with a float32 depth grid
// of the same size.
//
// Per-pixel operations (TestAndSet, Set, At, Depth) are not synchronised. Concurrent callers
// must partition the pixel grid so that no two goroutines touch the same pixel. Frame-level
// operations (Clear, Flush, Resize) must not overlap with pixel writes.
type Framebuffer interface {
	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int

	// Background returns the colour Clear fills the colour grid with.
	Background() color.RGBA

	// SetBackground sets the colour used by subsequent Clear calls.
	//
	// Parameters:
	//   - c: the new background colour
	SetBackground(c color.RGBA)

	// Clear resets every colour cell to the background colour and every depth cell to the far
	// plane, which is the maximum representable depth.
	Clear()

	// TestAndSet writes colour and depth at (x, y) only when depth is strictly less than the
	// stored depth. Out-of-bounds coordinates are ignored.
	//
	// Parameters:
	//   - x: pixel column
	//   - y: pixel row, 0 at the top
	//   - depth: fragment depth in [0, 1)
	//   - c: fragment colour
	//
	// Returns:
	//   - bool: true if the fragment was written
	TestAndSet(x, y int, depth float32, c color.RGBA) bool

	// At returns the colour stored at (x, y), or the zero colour when out of bounds.
	At(x, y int) color.RGBA

	// Depth returns the depth stored at (x, y), or the far plane when out of bounds.
	Depth(x, y int) float32

	// Pixels returns the underlying RGBA8 buffer. The slice aliases framebuffer memory and is
	// only valid until the next Resize.
	Pixels() []byte

	// Image returns an image.RGBA view sharing the framebuffer's colour memory.
	Image() *image.RGBA

	// Resize reallocates both grids to the new dimensions and clears them.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	//
	// Returns:
	//   - error: ErrInvalidSize if either dimension is not positive
	Resize(width, height int) error

	// Flush hands the completed colour grid to a Surface.
	//
	// Parameters:
	//   - s: the presentation surface
	//
	// Returns:
	//   - error: the surface error, wrapped
	Flush(s Surface) error
}

var _ Framebuffer = &framebuffer{}

// New creates a Framebuffer of the given size, cleared to the background colour.
// The default background is opaque black.
//
// Parameters:
//   - width: width in pixels
//   - height: height in pixels
//   - options: variadic list of FramebufferBuilderOption functions
//
// Returns:
//   - Framebuffer: the new framebuffer
//   - error: ErrInvalidSize if either dimension is not positive
func New(width, height int, options ...FramebufferBuilderOption) (Framebuffer, error) {
	fb := &framebuffer{
		mu:         &sync.Mutex{},
		background: color.RGBA{A: 255},
	}
	for _, opt := range options {
		opt(fb)
	}
	if err := fb.Resize(width, height); err != nil {
		return nil, err
	}
	return fb, nil
}

func (f *framebuffer) Width() int {
	return f.width
}

func (f *framebuffer) Height() int {
	return f.height
}

func (f *framebuffer) Background() color.RGBA {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.background
}

func (f *framebuffer) SetBackground(c color.RGBA) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.background = c
}

func (f *framebuffer) Clear() {
	f.mu.Lock()
	bg := f.background
	f.mu.Unlock()

	if len(f.pixels) == 0 {
		return
	}
	// Seed the first pixel then double the filled prefix.
	f.pixels[0], f.pixels[1], f.pixels[2], f.pixels[3] = bg.R, bg.G, bg.B, bg.A
	for filled := 4; filled < len(f.pixels); filled *= 2 {
		copy(f.pixels[filled:], f.pixels[:filled])
	}
	for i := range f.depth {
		f.depth[i] = farDepth
	}
}

func (f *framebuffer) TestAndSet(x, y int, depth float32, c color.RGBA) bool {
	if !f.inBounds(x, y) {
		return false
	}
	i := y*f.width + x
	if depth >= f.depth[i] {
		return false
	}
	f.depth[i] = depth
	f.put(i*4, c)
	return true
}

func (f *framebuffer) At(x, y int) color.RGBA {
	if !f.inBounds(x, y) {
		return color.RGBA{}
	}
	o := (y*f.width + x) * 4
	return color.RGBA{R: f.pixels[o], G: f.pixels[o+1], B: f.pixels[o+2], A: f.pixels[o+3]}
}

func (f *framebuffer) Depth(x, y int) float32 {
	if !f.inBounds(x, y) {
		return farDepth
	}
	return f.depth[y*f.width+x]
}

func (f *framebuffer) Pixels() []byte {
	return f.pixels
}

func (f *framebuffer) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    f.pixels,
		Stride: f.width * 4,
		Rect:   image.Rect(0, 0, f.width, f.height),
	}
}

func (f *framebuffer) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	f.width = width
	f.height = height
	f.pixels = make([]byte, width*height*4)
	f.depth = make([]float32, width*height)
	f.Clear()
	return nil
}

func (f *framebuffer) Flush(s Surface) error {
	if err := s.Present(f.pixels, f.width, f.height); err != nil {
		return fmt.Errorf("failed to present framebuffer: %w", err)
	}
	return nil
}

func (f *framebuffer) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < f.width && y < f.height
}

func (f *framebuffer) put(o int, c color.RGBA) {
	f.pixels[o] = c.R
	f.pixels[o+1] = c.G
	f.pixels[o+2] = c.B
	f.pixels[o+3] = c.A
}
