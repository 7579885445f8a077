package framebuffer

import "image/color"

// FramebufferBuilderOption is a functional option applied to a framebuffer during construction via New.
type FramebufferBuilderOption func(*framebuffer)

// WithBackground sets the colour the framebuffer is cleared to.
//
// Parameters:
//   - c: the background colour
//
// Returns:
//   - FramebufferBuilderOption: a function that applies the background option to a framebuffer
func WithBackground(c color.RGBA) FramebufferBuilderOption {
	return func(f *framebuffer) {
		f.background = c
	}
}
