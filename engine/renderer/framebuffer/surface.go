package framebuffer

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"sync"
)

// Surface is a presentation target that receives completed frames.
type Surface interface {
	// Present displays or stores one complete frame.
	//
	// Parameters:
	//   - pixels: tightly packed RGBA8 rows, top row first; only valid for the duration of the call
	//   - width: frame width in pixels
	//   - height: frame height in pixels
	//
	// Returns:
	//   - error: an error if the frame could not be presented
	Present(pixels []byte, width, height int) error
}

// ImageSurface is a headless Surface that keeps a copy of the last presented frame and can
// write it out as a PNG.
type ImageSurface struct {
	mu     sync.Mutex
	frame  *image.RGBA
	frames int
}

var _ Surface = &ImageSurface{}

// NewImageSurface returns an empty ImageSurface.
func NewImageSurface() *ImageSurface {
	return &ImageSurface{}
}

func (s *ImageSurface) Present(pixels []byte, width, height int) error {
	if width <= 0 || height <= 0 || len(pixels) < width*height*4 {
		return fmt.Errorf("%w: %dx%d with %d bytes", ErrInvalidSize, width, height, len(pixels))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frame == nil || s.frame.Rect.Dx() != width || s.frame.Rect.Dy() != height {
		s.frame = image.NewRGBA(image.Rect(0, 0, width, height))
	}
	copy(s.frame.Pix, pixels[:width*height*4])
	s.frames++
	return nil
}

// Frame returns the last presented frame, or nil before the first Present.
func (s *ImageSurface) Frame() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// Frames returns how many frames have been presented.
func (s *ImageSurface) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// WritePNG encodes the last presented frame to path.
//
// Parameters:
//   - path: destination file path
//
// Returns:
//   - error: an error if nothing was presented yet or the file could not be written
func (s *ImageSurface) WritePNG(path string) error {
	frame := s.Frame()
	if frame == nil {
		return fmt.Errorf("no frame presented")
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(file, frame); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return file.Close()
}
