package shader

import (
	"github.com/Carmen-Shannon/oxy-raster/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// program computes an unclamped linear colour for one surface point.
type program func(p *surfacePoint, env *Environment) common.Color

// programs is indexed by Mode; its length ties it to the enumeration.
var programs = [modeCount]program{
	ModeSun:     shadeSun,
	ModeEarth:   shadeEarth,
	ModeNeptune: shadeNeptune,
	ModeVenus:   shadeVenus,
	ModeRandom:  shadeRandom,
	ModePluton:  shadePluton,
}

// region is a disc in (longitude, latitude) space.
type region struct {
	center mgl32.Vec2
	size   float32
}

func (r region) contains(p *surfacePoint) bool {
	d := mgl32.Vec2{p.longitude, p.latitude}.Sub(r.center)
	return d.Len() < r.size
}

var (
	sunCore  = common.RGB(1, 0.45, 0.05)
	sunFlare = common.RGB(1, 0.9, 0.35)

	earthOcean = common.RGB(0.05, 0.2, 0.8)
	earthLand  = common.RGB(0.15, 0.6, 0.2)
	earthIce   = common.RGB(1, 1, 1)

	earthContinents = []region{
		{center: mgl32.Vec2{0, 1}, size: 0.3},
		{center: mgl32.Vec2{0.425, 1}, size: 0.1},
	}
	earthPole = region{center: mgl32.Vec2{2, 4}, size: 2}

	neptuneDeep = common.RGB(0.1, 0.2, 0.65)
	neptunePale = common.RGB(0.35, 0.55, 0.95)
	neptuneSpot = region{center: mgl32.Vec2{1.2, 2}, size: 0.25}
	neptuneDark = common.RGB(0.05, 0.08, 0.3)

	venusLow  = common.RGB(0.75, 0.5, 0.2)
	venusHigh = common.RGB(0.95, 0.82, 0.55)

	plutonRock  = common.RGB(0.62, 0.58, 0.54)
	plutonPlain = common.RGB(0.9, 0.85, 0.78)
	plutonBasin = region{center: mgl32.Vec2{0.5, 1.7}, size: 0.5}
)

// surfaceNoise samples fractal noise around a circle per latitude so longitude has no seam.
func surfaceNoise(env *Environment, p *surfacePoint, scale float32, octaves int) float32 {
	s, c := math32.Sincos(p.longitude)
	x := c * scale
	y := s*scale + p.latitude*scale
	return fractal(env.Noise, float64(x), float64(y), octaves)
}

func shadeSun(p *surfacePoint, env *Environment) common.Color {
	return common.MixColor(sunCore, sunFlare, surfaceNoise(env, p, 3, 4))
}

func shadeEarth(p *surfacePoint, env *Environment) common.Color {
	base := earthOcean
	for _, c := range earthContinents {
		if c.contains(p) {
			base = earthLand
		}
	}
	if surfaceNoise(env, p, 1.5, 3) > 0.62 {
		base = earthLand
	}
	if earthPole.contains(p) {
		base = earthIce
	}
	return lit(base, p, env)
}

func shadeNeptune(p *surfacePoint, env *Environment) common.Color {
	turbulence := surfaceNoise(env, p, 2, 3) - 0.5
	band := 0.5 + 0.5*math32.Sin(p.latitude*9+turbulence*3)
	base := common.MixColor(neptuneDeep, neptunePale, band)
	if neptuneSpot.contains(p) {
		base = neptuneDark
	}
	return lit(base, p, env)
}

func shadeVenus(p *surfacePoint, env *Environment) common.Color {
	swirl := surfaceNoise(env, p, 2, 5)
	return lit(common.MixColor(venusLow, venusHigh, swirl), p, env)
}

func shadeRandom(p *surfacePoint, env *Environment) common.Color {
	x := float64(p.longitude) * 2
	y := float64(p.latitude) * 2
	base := common.RGB(
		float32(env.Noise.Eval2(x, y)),
		float32(env.Noise.Eval2(x+17.3, y+5.1)),
		float32(env.Noise.Eval2(x-9.7, y+31.9)),
	)
	return lit(base, p, env)
}

func shadePluton(p *surfacePoint, env *Environment) common.Color {
	base := plutonRock
	if plutonBasin.contains(p) {
		base = plutonPlain
	}
	if surfaceNoise(env, p, 6, 2) > 0.72 {
		base = base.Mul(0.55)
	}
	return lit(base, p, env)
}
