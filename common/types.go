// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Color is a linear RGB colour with components nominally in [0, 1].
// Shading math happens in this form; it is quantized to color.RGBA only when written to a framebuffer.
type Color = mgl32.Vec3

// RGB builds a Color from its components.
//
// Parameters:
//   - r, g, b: colour components in [0, 1]
//
// Returns:
//   - Color: the colour
func RGB(r, g, b float32) Color {
	return Color{r, g, b}
}

// ToRGBA quantizes a Color to an opaque 8-bit color.RGBA, clamping each component to [0, 1].
//
// Parameters:
//   - c: the colour to convert
//
// Returns:
//   - color.RGBA: the opaque 8-bit colour
func ToRGBA(c Color) color.RGBA {
	return color.RGBA{
		R: uint8(Clamp01(c[0])*255 + 0.5),
		G: uint8(Clamp01(c[1])*255 + 0.5),
		B: uint8(Clamp01(c[2])*255 + 0.5),
		A: 255,
	}
}

// MixColor linearly interpolates between a and b by t (t = 0 yields a, t = 1 yields b).
//
// Parameters:
//   - a: the start colour
//   - b: the end colour
//   - t: the interpolation factor
//
// Returns:
//   - Color: the blended colour
func MixColor(a, b Color, t float32) Color {
	return a.Mul(1 - t).Add(b.Mul(t))
}
