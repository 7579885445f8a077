package shader

import (
	"image/color"

	"github.com/Carmen-Shannon/oxy-raster/common"
	"github.com/Carmen-Shannon/oxy-raster/engine/geometry"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultAmbient is the share of a lit surface's base colour visible with no direct light.
const DefaultAmbient float32 = 0.1

// Environment is the per-frame state shared by every fragment program.
type Environment struct {
	// Light is the world-space position of the point light.
	Light mgl32.Vec3

	// Noise drives the procedural patterns. A nil Noise samples as a flat 0.5.
	Noise Noise

	// Ambient is the unlit share of the base colour, in [0, 1].
	Ambient float32
}

// DefaultEnvironment returns an Environment lit from (2, 2, 2) with DefaultAmbient.
//
// Parameters:
//   - noise: the pattern noise source
//
// Returns:
//   - Environment: the environment
func DefaultEnvironment(noise Noise) Environment {
	return Environment{
		Light:   mgl32.Vec3{2, 2, 2},
		Noise:   noise,
		Ambient: DefaultAmbient,
	}
}

// surfacePoint is a fragment reduced to what the programs consume.
type surfacePoint struct {
	// longitude in (-pi, pi] and latitude in [0, pi], from the object-space direction.
	longitude float32
	latitude  float32

	// intensity is the Lambert term against the light.
	intensity float32
}

// Shade computes the colour of a fragment under the given mode.
//
// The surface pattern comes from the fragment's object-space position, so it stays fixed to
// the body as it spins. Lighting is Lambertian: intensity = max(dot(n, l), 0) where l points
// from the fragment's world position to the light, and the lit colour is
// base * (ambient + (1 - ambient) * intensity). ModeSun is emissive and ignores lighting.
// Shade panics if mode is not a valid Mode.
//
// Parameters:
//   - mode: the shading program to apply
//   - frag: the interpolated fragment
//   - env: light, noise and ambient settings
//
// Returns:
//   - color.RGBA: the opaque fragment colour
func Shade(mode Mode, frag *geometry.Fragment, env Environment) color.RGBA {
	mode.mustBeValid()
	if env.Noise == nil {
		env.Noise = constantNoise(0.5)
	}

	p := surfacePoint{intensity: lambert(frag.Normal, env.Light.Sub(frag.World))}
	p.longitude, p.latitude = sphericalCoords(frag.Object)

	return common.ToRGBA(programs[mode](&p, &env))
}

// lambert returns max(dot(normalize(n), normalize(l)), 0), or 0 for zero-length inputs.
func lambert(n, l mgl32.Vec3) float32 {
	nl := n.Len()
	ll := l.Len()
	if nl == 0 || ll == 0 {
		return 0
	}
	return max(n.Dot(l)/(nl*ll), 0)
}

// sphericalCoords maps a direction to longitude atan2(z, x) and latitude acos(y) of its
// unit vector, with latitude 0 at the +Y pole.
func sphericalCoords(p mgl32.Vec3) (longitude, latitude float32) {
	l := p.Len()
	if l == 0 {
		return 0, math32.Pi / 2
	}
	return math32.Atan2(p.Z(), p.X()), math32.Acos(common.Clamp(p.Y()/l, -1, 1))
}

// lit applies ambient plus diffuse lighting to a base colour.
func lit(base common.Color, p *surfacePoint, env *Environment) common.Color {
	return base.Mul(env.Ambient + (1-env.Ambient)*p.intensity)
}
