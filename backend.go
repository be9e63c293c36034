package willowfx

// Texture is an opaque handle to a backend-owned RGBA color buffer. Pixel
// data is premultiplied. A Texture must only be used with the Backend that
// created it.
type Texture interface {
	// Size returns the texture dimensions in pixels.
	Size() (w, h int)
	// Dispose releases the texture. Using it afterwards is undefined.
	// Dispose on an already disposed texture is a no-op.
	Dispose()
}

// DrawOptions controls a textured-quad draw. The zero value draws the source
// at the destination origin, untinted, with source-over blending.
type DrawOptions struct {
	// GeoM maps source pixel space into destination pixel space.
	// Layout is [a, b, c, d, tx, ty]; the zero value is treated as identity.
	GeoM [6]float64
	// ColorScale multiplies the (premultiplied) sampled color. The zero value
	// is treated as white.
	ColorScale Color
	Blend      BlendMode
	Filter     Filter
}

func (op *DrawOptions) geoM() [6]float64 {
	if op.GeoM == ([6]float64{}) {
		return identityTransform
	}
	return op.GeoM
}

// colorScale returns the premultiplied per-channel multiplier for the draw.
func (op *DrawOptions) colorScale() Color {
	if op.ColorScale == (Color{}) {
		return ColorWhite
	}
	return op.ColorScale.Premultiply()
}

// Backend is everything the effect pipeline needs from a graphics context:
// offscreen textures, shader programs and two kinds of draw (a full-rect
// shader pass and a textured quad). All calls happen on the thread that owns
// the graphics context, in traversal order.
type Backend interface {
	// NewTexture allocates a cleared w x h texture. It returns an
	// *InvalidDimensionsError for non-positive sizes and an *AllocationError
	// when the backend cannot provide the texture (too large, out of memory).
	NewTexture(w, h int) (Texture, error)
	// MaxTextureSize is the largest width or height NewTexture accepts.
	MaxTextureSize() int
	// White returns a shared 1x1 opaque white texture used for solid quads.
	White() Texture

	Clear(t Texture)
	Fill(t Texture, c Color)

	// Compile builds p for this backend. Results, including failures, are
	// cached per program so repeated calls are cheap.
	Compile(p *Program) error
	// DrawPass runs p over every pixel of dst. srcs[i] is bound to the
	// program's source image i; all sources and dst share one size.
	DrawPass(dst Texture, p *Program, srcs []Texture, uniforms map[string]any)
	// DrawTexture draws src as a quad into dst.
	DrawTexture(dst, src Texture, op *DrawOptions)

	// ReadPixels copies premultiplied RGBA8 pixel data into pix, which must
	// hold 4*w*h bytes.
	ReadPixels(t Texture, pix []byte)
}
