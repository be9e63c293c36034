package willowfx

import "math"

// maxGlowRadius bounds the blur kernel. The Kage loop is unrolled to
// -maxGlowRadius..maxGlowRadius and masked by the Radius uniform.
const maxGlowRadius = 32

// Tint multiplies the premultiplied source by a straight-alpha color.
const tintShaderSrc = `//kage:unit pixels

package main

var Tint vec4

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	return vec4(c.rgb*Tint.rgb*Tint.a, c.a*Tint.a)
}
`

var tintProgram = &Program{
	Name:   "tint",
	Source: tintShaderSrc,
	Kernel: func(f *Fragment) Color {
		c := f.Src(0, f.X, f.Y)
		t := f.Vec4("Tint")
		return Color{c.R * t.R * t.A, c.G * t.G * t.A, c.B * t.B * t.A, c.A * t.A}
	},
}

const brightnessContrastShaderSrc = `//kage:unit pixels

package main

var Brightness float
var Contrast float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	if c.a == 0 {
		return vec4(0)
	}
	rgb := c.rgb / c.a
	rgb = clamp((rgb-0.5)*Contrast+0.5+Brightness, 0, 1)
	return vec4(rgb*c.a, c.a)
}
`

var brightnessContrastProgram = &Program{
	Name:   "brightness_contrast",
	Source: brightnessContrastShaderSrc,
	Kernel: func(f *Fragment) Color {
		c := f.Src(0, f.X, f.Y)
		if c.A == 0 {
			return Color{}
		}
		b := f.Float("Brightness")
		k := f.Float("Contrast")
		adj := func(v float64) float64 {
			return clamp01((v/c.A-0.5)*k+0.5+b) * c.A
		}
		return Color{adj(c.R), adj(c.G), adj(c.B), c.A}
	},
}

// The bright pass keeps pixels whose straight-alpha luminance reaches
// Threshold and clears the rest.
const glowBrightShaderSrc = `//kage:unit pixels

package main

var Threshold float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	if c.a == 0 {
		return vec4(0)
	}
	lum := dot(c.rgb/c.a, vec3(0.299, 0.587, 0.114))
	return c * step(Threshold, lum)
}
`

var glowBrightProgram = &Program{
	Name:   "glow_bright",
	Source: glowBrightShaderSrc,
	Kernel: func(f *Fragment) Color {
		c := f.Src(0, f.X, f.Y)
		if c.A == 0 {
			return Color{}
		}
		if c.Unpremultiply().Luminance() < f.Float("Threshold") {
			return Color{}
		}
		return c
	},
}

// One-dimensional Gaussian blur along Direction. Taps beyond Radius get zero
// weight; the result is normalized by the weight sum.
const glowBlurShaderSrc = `//kage:unit pixels

package main

var Radius float
var Sigma float
var Direction vec2

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	sum := vec4(0)
	wsum := 0.0
	for i := -32; i <= 32; i++ {
		x := float(i)
		w := exp(-(x*x)/(2.0*Sigma*Sigma)) * step(abs(x), Radius)
		sum += imageSrc0At(src+Direction*x) * w
		wsum += w
	}
	return sum / wsum
}
`

var glowBlurProgram = &Program{
	Name:   "glow_blur",
	Source: glowBlurShaderSrc,
	Kernel: func(f *Fragment) Color {
		radius := f.Float("Radius")
		sigma := f.Float("Sigma")
		var dx, dy float64
		if v, ok := f.Uniforms["Direction"].([]float32); ok && len(v) >= 2 {
			dx, dy = float64(v[0]), float64(v[1])
		}
		r := int(math.Min(math.Floor(radius), maxGlowRadius))
		var sum Color
		var wsum float64
		for i := -r; i <= r; i++ {
			x := float64(i)
			w := math.Exp(-(x * x) / (2 * sigma * sigma))
			c := f.Src(0, f.X+dx*x, f.Y+dy*x)
			sum = Color{sum.R + c.R*w, sum.G + c.G*w, sum.B + c.B*w, sum.A + c.A*w}
			wsum += w
		}
		if wsum == 0 {
			return Color{}
		}
		return Color{sum.R / wsum, sum.G / wsum, sum.B / wsum, sum.A / wsum}
	},
}

// Additive composite of the blurred highlights (source 1) over the original
// (source 0).
const glowCompositeShaderSrc = `//kage:unit pixels

package main

var Intensity float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	base := imageSrc0At(src)
	glow := imageSrc1At(src)
	return clamp(base+glow*Intensity, 0, 1)
}
`

var glowCompositeProgram = &Program{
	Name:   "glow_composite",
	Source: glowCompositeShaderSrc,
	Kernel: func(f *Fragment) Color {
		base := f.Src(0, f.X, f.Y)
		glow := f.Src(1, f.X, f.Y)
		k := f.Float("Intensity")
		return Color{
			base.R + glow.R*k,
			base.G + glow.G*k,
			base.B + glow.B*k,
			base.A + glow.A*k,
		}.clamped()
	},
}

// builtinPrograms lists every program the built-in effects use.
var builtinPrograms = []*Program{
	tintProgram,
	brightnessContrastProgram,
	glowBrightProgram,
	glowBlurProgram,
	glowCompositeProgram,
}

// Precompile builds the programs of every built-in effect on b, so the first
// frame that uses them does not stall on shader compilation.
func Precompile(b Backend) error {
	for _, p := range builtinPrograms {
		if err := b.Compile(p); err != nil {
			return err
		}
	}
	return nil
}
