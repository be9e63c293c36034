package willowfx

import "github.com/hajimehoshi/ebiten/v2"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

var (
	// ColorWhite is the default tint (no color modification).
	ColorWhite = Color{1, 1, 1, 1}
	// ColorTransparent is transparent black, the clear color of render targets.
	ColorTransparent = Color{}
)

// Premultiply returns the color with R, G and B scaled by A.
func (c Color) Premultiply() Color {
	return Color{c.R * c.A, c.G * c.A, c.B * c.A, c.A}
}

// Unpremultiply reverses Premultiply. Fully transparent colors are returned as-is.
func (c Color) Unpremultiply() Color {
	if c.A <= 0 {
		return c
	}
	return Color{c.R / c.A, c.G / c.A, c.B / c.A, c.A}
}

// Lerp linearly interpolates between c and to by t.
func (c Color) Lerp(to Color, t float64) Color {
	return Color{
		c.R + (to.R-c.R)*t,
		c.G + (to.G-c.G)*t,
		c.B + (to.B-c.B)*t,
		c.A + (to.A-c.A)*t,
	}
}

// Luminance returns the Rec. 601 luma of the color's RGB components.
func (c Color) Luminance() float64 {
	return 0.299*c.R + 0.587*c.G + 0.114*c.B
}

// clamped returns the color with every component clamped to [0, 1].
func (c Color) clamped() Color {
	return Color{clamp01(c.R), clamp01(c.G), clamp01(c.B), clamp01(c.A)}
}

// vec4 writes the color into a persistent float32 buffer for shader uniforms.
func (c Color) vec4(dst []float32) {
	dst[0] = float32(c.R)
	dst[1] = float32(c.G)
	dst[2] = float32(c.B)
	dst[3] = float32(c.A)
}

// toRGBA converts a Color to a premultiplied colorRGBA.
func (c Color) toRGBA() colorRGBA {
	return colorRGBA{
		R: uint8(clamp01(c.R*c.A)*255 + 0.5),
		G: uint8(clamp01(c.G*c.A)*255 + 0.5),
		B: uint8(clamp01(c.B*c.A)*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

// colorRGBA implements the color.Color interface for image.Fill.
type colorRGBA struct {
	R, G, B, A uint8
}

func (c colorRGBA) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = uint32(c.A) * 0x101
	return
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// BlendMode selects a compositing operation. Each maps to a specific ebiten.Blend value.
type BlendMode uint8

const (
	BlendNormal   BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                       // additive / lighter
	BlendMultiply                  // multiply (source * destination; only darkens)
	BlendScreen                    // screen (1 - (1-src)*(1-dst); only brightens)
	BlendErase                     // destination-out (punch transparent holes)
	BlendNone                      // opaque copy (skip blending)
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendNormal:
		return ebiten.BlendSourceOver
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendMultiply:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
			BlendFactorSourceAlpha:      ebiten.BlendFactorDestinationAlpha,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendScreen:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceColor,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendErase:
		return ebiten.BlendDestinationOut
	case BlendNone:
		return ebiten.BlendCopy
	default:
		return ebiten.BlendSourceOver
	}
}

// blendPremultiplied composites premultiplied src over premultiplied dst
// using the same factors as EbitenBlend. The software backend uses this so
// both backends agree on every mode.
func (b BlendMode) blendPremultiplied(src, dst Color) Color {
	switch b {
	case BlendAdd:
		return Color{src.R + dst.R, src.G + dst.G, src.B + dst.B, src.A + dst.A}
	case BlendMultiply:
		ia := 1 - src.A
		return Color{
			src.R*dst.R + dst.R*ia,
			src.G*dst.G + dst.G*ia,
			src.B*dst.B + dst.B*ia,
			src.A*dst.A + dst.A*ia,
		}
	case BlendScreen:
		return Color{
			src.R + dst.R*(1-src.R),
			src.G + dst.G*(1-src.G),
			src.B + dst.B*(1-src.B),
			src.A + dst.A*(1-src.A),
		}
	case BlendErase:
		ia := 1 - src.A
		return Color{dst.R * ia, dst.G * ia, dst.B * ia, dst.A * ia}
	case BlendNone:
		return src
	default:
		ia := 1 - src.A
		return Color{src.R + dst.R*ia, src.G + dst.G*ia, src.B + dst.B*ia, src.A + dst.A*ia}
	}
}

// Filter selects how a texture is sampled when drawn scaled or rotated.
type Filter uint8

const (
	FilterNearest Filter = iota // nearest-neighbor (default, pixel exact at 1:1)
	FilterLinear                // bilinear
)

func (f Filter) ebitenFilter() ebiten.Filter {
	if f == FilterLinear {
		return ebiten.FilterLinear
	}
	return ebiten.FilterNearest
}

// NodeType distinguishes rendering behavior for a Node.
type NodeType uint8

const (
	NodeTypeContainer NodeType = iota // group node with no visual output
	NodeTypeSprite                    // renders a texture or a solid-color quad
	NodeTypeEffect                    // graph half of an EffectNode
)

// String returns the node type name used in logs.
func (t NodeType) String() string {
	switch t {
	case NodeTypeContainer:
		return "container"
	case NodeTypeSprite:
		return "sprite"
	case NodeTypeEffect:
		return "effect"
	default:
		return "unknown"
	}
}
