package willowfx

// glowPassCount is bright pass, horizontal blur, vertical blur, composite.
const glowPassCount = 4

// Glow adds a soft halo around the bright parts of the input. Pixels whose
// luminance reaches Threshold are blurred with a separable Gaussian of
// Radius pixels and added back on top of the original, scaled by Intensity.
// Four passes.
type Glow struct {
	// Radius of the blur in pixels, clamped to [0, 32]. Zero adds the bright
	// pixels back unblurred.
	Radius float64
	// Intensity scales the added halo. Zero is identity.
	Intensity float64
	// Threshold is the minimum luminance in [0, 1] that glows.
	Threshold float64
}

// NewGlow creates a glow with the given radius and intensity and a
// threshold of 0.5.
func NewGlow(radius, intensity float64) *Glow {
	return &Glow{Radius: radius, Intensity: intensity, Threshold: 0.5}
}

func (*Glow) Kind() Kind { return KindGlow }
func (*Glow) effect()    {}

func (g *Glow) radius() float64 {
	return clamp(g.Radius, 0, maxGlowRadius)
}

// sigma is the Gaussian deviation for the blur: half the radius, never so
// small that the center tap weight degenerates.
func (g *Glow) sigma() float64 {
	return max(g.radius()/2, 0.5)
}

// BrightnessAndContrast adjusts brightness and contrast of the un-premultiplied
// color: out = (in - 0.5) * Contrast + 0.5 + Brightness, clamped to [0, 1].
// Alpha is preserved. The zero value is NOT identity; use
// NewBrightnessAndContrast(0, 1). One pass.
type BrightnessAndContrast struct {
	// Brightness offset, clamped to [-1, 1] when applied.
	Brightness float64
	// Contrast factor, clamped to [0, 2] when applied. 1 is unchanged.
	Contrast float64
}

// NewBrightnessAndContrast creates the effect.
func NewBrightnessAndContrast(brightness, contrast float64) *BrightnessAndContrast {
	return &BrightnessAndContrast{Brightness: brightness, Contrast: contrast}
}

func (*BrightnessAndContrast) Kind() Kind { return KindBrightnessAndContrast }
func (*BrightnessAndContrast) effect()    {}

// Custom runs a user-supplied program as one pass. Source image 0 is the
// effect input; Images are bound to sources 1..3 up to the last one set and
// must match the input size. A gap or a size mismatch renders passthrough
// and is reported as an *ImageBindingError. Uniforms are passed through
// unchanged.
type Custom struct {
	Program  *Program
	Uniforms map[string]any
	Images   [maxPassSources - 1]Texture
}

// NewCustom creates a custom effect around p.
func NewCustom(p *Program, uniforms map[string]any) *Custom {
	return &Custom{Program: p, Uniforms: uniforms}
}

func (*Custom) Kind() Kind { return KindCustom }
func (*Custom) effect()    {}
