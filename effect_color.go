package willowfx

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/tanema/gween/ease"
)

// ColorEffect multiplies every pixel by Color. ColorWhite leaves the input
// unchanged; a lower alpha fades the content out. One pass.
type ColorEffect struct {
	Color Color
}

// NewColor creates a tint effect.
func NewColor(c Color) *ColorEffect {
	return &ColorEffect{Color: c}
}

func (*ColorEffect) Kind() Kind { return KindColor }
func (*ColorEffect) effect()    {}

// PulseSpace selects the color space a ColorPulse interpolates in.
type PulseSpace uint8

const (
	PulseRGB PulseSpace = iota // componentwise sRGB interpolation
	PulseLab                   // perceptual CIE L*a*b* interpolation
)

// String returns the name used in presets.
func (s PulseSpace) String() string {
	if s == PulseLab {
		return "lab"
	}
	return "rgb"
}

// ColorPulse tints the input with a color that oscillates between From and
// To. One full cycle (From -> To -> From) takes Period seconds. The phase is
// advanced by the EffectStack the pulse is attached through, so two nodes
// sharing one ColorPulse pulse independently. One pass.
type ColorPulse struct {
	From, To Color
	// Period is the cycle length in seconds. Period <= 0 holds From.
	Period float64
	// Easing shapes each half of the cycle. Nil means ease.InOutSine.
	Easing ease.TweenFunc
	Space  PulseSpace
}

// NewColorPulse creates a pulse with sine easing in RGB space.
func NewColorPulse(from, to Color, period float64) *ColorPulse {
	return &ColorPulse{From: from, To: to, Period: period}
}

func (*ColorPulse) Kind() Kind { return KindColorPulse }
func (*ColorPulse) effect()    {}

// ColorAt returns the tint after t seconds of elapsed time. ColorAt(t) and
// ColorAt(t+Period) agree up to float rounding.
func (p *ColorPulse) ColorAt(t float64) Color {
	if p.Period <= 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		return p.From
	}
	phase := math.Mod(t, p.Period) / p.Period
	if phase < 0 {
		phase++
	}
	tri := 1 - math.Abs(2*phase-1)
	fn := p.Easing
	if fn == nil {
		fn = ease.InOutSine
	}
	k := clamp01(float64(fn(float32(tri), 0, 1, 1)))
	return blendColors(p.From, p.To, k, p.Space)
}

// blendColors interpolates between two straight-alpha colors. Alpha is
// always interpolated linearly.
func blendColors(from, to Color, t float64, space PulseSpace) Color {
	if space != PulseLab {
		return from.Lerp(to, t)
	}
	a := colorful.Color{R: clamp01(from.R), G: clamp01(from.G), B: clamp01(from.B)}
	b := colorful.Color{R: clamp01(to.R), G: clamp01(to.G), B: clamp01(to.B)}
	c := a.BlendLab(b, t).Clamped()
	return Color{c.R, c.G, c.B, from.A + (to.A-from.A)*t}
}
