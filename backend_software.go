package willowfx

import (
	"errors"
	"math"
)

const defaultSoftwareMaxTextureSize = 4096

var (
	errTextureTooLarge = errors.New("exceeds max texture size")
	errTextureBudget   = errors.New("texture budget exhausted")
	errNotCompiled     = errors.New("program not compiled")
)

// SoftwareOptions configures a SoftwareBackend. The zero value is usable.
type SoftwareOptions struct {
	// MaxTextureSize bounds width and height. Zero means 4096.
	MaxTextureSize int
	// MaxTextures caps the number of live textures (excluding White) to
	// simulate GPU memory exhaustion. Zero means unlimited.
	MaxTextures int
}

// SoftwareBackend is a deterministic CPU rasterizer implementing Backend.
// Textures hold float32 premultiplied RGBA clamped to [0, 1]. Shader passes
// run each Program's Kernel; the Kage source is only validated.
//
// It is used headless (tests, cmd/fxpreview) and as the reference the Kage
// shaders are checked against.
type SoftwareBackend struct {
	opts      SoftwareOptions
	white     *softTexture
	compiled  map[*Program]error
	live      int
	allocated int
	frag      Fragment
}

// NewSoftwareBackend creates a CPU backend. opts may be nil.
func NewSoftwareBackend(opts *SoftwareOptions) *SoftwareBackend {
	b := &SoftwareBackend{compiled: make(map[*Program]error)}
	if opts != nil {
		b.opts = *opts
	}
	if b.opts.MaxTextureSize <= 0 {
		b.opts.MaxTextureSize = defaultSoftwareMaxTextureSize
	}
	return b
}

type softTexture struct {
	b        *SoftwareBackend
	w, h     int
	pix      []float32
	disposed bool
}

func (t *softTexture) Size() (int, int) { return t.w, t.h }

func (t *softTexture) Dispose() {
	if t.disposed {
		return
	}
	t.disposed = true
	t.pix = nil
	if t != t.b.white {
		t.b.live--
	}
}

// at returns the premultiplied color at (x, y), transparent outside bounds.
func (t *softTexture) at(x, y int) Color {
	if x < 0 || y < 0 || x >= t.w || y >= t.h || t.pix == nil {
		return Color{}
	}
	i := (y*t.w + x) * 4
	return Color{float64(t.pix[i]), float64(t.pix[i+1]), float64(t.pix[i+2]), float64(t.pix[i+3])}
}

func (t *softTexture) set(x, y int, c Color) {
	i := (y*t.w + x) * 4
	t.pix[i] = float32(clamp01(c.R))
	t.pix[i+1] = float32(clamp01(c.G))
	t.pix[i+2] = float32(clamp01(c.B))
	t.pix[i+3] = float32(clamp01(c.A))
}

// bilinear samples with pixel-center convention, clamping to the edge.
func (t *softTexture) bilinear(u, v float64) Color {
	u -= 0.5
	v -= 0.5
	x0 := int(math.Floor(u))
	y0 := int(math.Floor(v))
	fx := u - float64(x0)
	fy := v - float64(y0)
	cx := func(x int) int { return max(0, min(x, t.w-1)) }
	cy := func(y int) int { return max(0, min(y, t.h-1)) }
	c00 := t.at(cx(x0), cy(y0))
	c10 := t.at(cx(x0+1), cy(y0))
	c01 := t.at(cx(x0), cy(y0+1))
	c11 := t.at(cx(x0+1), cy(y0+1))
	return c00.Lerp(c10, fx).Lerp(c01.Lerp(c11, fx), fy)
}

func (b *SoftwareBackend) tex(t Texture) *softTexture {
	st, ok := t.(*softTexture)
	if !ok || st.b != b {
		panic("willowfx: texture does not belong to this SoftwareBackend")
	}
	return st
}

// NewTexture implements Backend.
func (b *SoftwareBackend) NewTexture(w, h int) (Texture, error) {
	if w <= 0 || h <= 0 {
		return nil, &InvalidDimensionsError{Width: w, Height: h}
	}
	if w > b.opts.MaxTextureSize || h > b.opts.MaxTextureSize {
		return nil, &AllocationError{Width: w, Height: h, Err: errTextureTooLarge}
	}
	if b.opts.MaxTextures > 0 && b.live >= b.opts.MaxTextures {
		return nil, &AllocationError{Width: w, Height: h, Err: errTextureBudget}
	}
	b.live++
	b.allocated++
	return &softTexture{b: b, w: w, h: h, pix: make([]float32, w*h*4)}, nil
}

// MaxTextureSize implements Backend.
func (b *SoftwareBackend) MaxTextureSize() int { return b.opts.MaxTextureSize }

// White implements Backend.
func (b *SoftwareBackend) White() Texture {
	if b.white == nil {
		b.white = &softTexture{b: b, w: 1, h: 1, pix: []float32{1, 1, 1, 1}}
	}
	return b.white
}

// Allocated returns the number of textures created since construction.
func (b *SoftwareBackend) Allocated() int { return b.allocated }

// Live returns the number of textures created and not yet disposed.
func (b *SoftwareBackend) Live() int { return b.live }

// At returns the premultiplied color of a single pixel.
func (b *SoftwareBackend) At(t Texture, x, y int) Color {
	return b.tex(t).at(x, y)
}

// Clear implements Backend.
func (b *SoftwareBackend) Clear(t Texture) {
	st := b.tex(t)
	clear(st.pix)
}

// Fill implements Backend.
func (b *SoftwareBackend) Fill(t Texture, c Color) {
	st := b.tex(t)
	p := c.clamped().Premultiply()
	for i := 0; i < len(st.pix); i += 4 {
		st.pix[i] = float32(p.R)
		st.pix[i+1] = float32(p.G)
		st.pix[i+2] = float32(p.B)
		st.pix[i+3] = float32(p.A)
	}
}

// Compile implements Backend.
func (b *SoftwareBackend) Compile(p *Program) error {
	if err, ok := b.compiled[p]; ok {
		return err
	}
	err := validateKage(p.Name, p.Source)
	if err == nil && p.Kernel == nil {
		err = errors.New("program " + p.Name + ": no CPU kernel")
	}
	b.compiled[p] = err
	return err
}

// DrawPass implements Backend. Uncompiled or failed programs draw nothing.
func (b *SoftwareBackend) DrawPass(dst Texture, p *Program, srcs []Texture, uniforms map[string]any) {
	if err, ok := b.compiled[p]; !ok || err != nil {
		Logger().Warn("software pass skipped", "program", p.Name, "err", errNotCompiled)
		return
	}
	d := b.tex(dst)
	f := &b.frag
	f.Uniforms = uniforms
	for i := range f.srcs {
		f.srcs[i] = nil
	}
	for i, s := range srcs {
		if i >= maxPassSources {
			break
		}
		f.srcs[i] = b.tex(s)
	}
	for y := 0; y < d.h; y++ {
		for x := 0; x < d.w; x++ {
			f.X = float64(x) + 0.5
			f.Y = float64(y) + 0.5
			out := p.Kernel(f).clamped()
			d.set(x, y, BlendNormal.blendPremultiplied(out, d.at(x, y)))
		}
	}
	f.Uniforms = nil
	f.srcs = [maxPassSources]*softTexture{}
}

// DrawTexture implements Backend.
func (b *SoftwareBackend) DrawTexture(dst, src Texture, op *DrawOptions) {
	if op == nil {
		op = &DrawOptions{}
	}
	d := b.tex(dst)
	s := b.tex(src)
	geo := op.geoM()
	det := geo[0]*geo[3] - geo[2]*geo[1]
	if math.Abs(det) < 1e-12 {
		return
	}
	inv := invertAffine(geo)
	scale := op.colorScale()

	// Destination bounding box of the transformed source quad.
	sw, sh := float64(s.w), float64(s.h)
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range [4][2]float64{{0, 0}, {sw, 0}, {0, sh}, {sw, sh}} {
		x, y := transformPoint(geo, p[0], p[1])
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	x0 := max(0, int(math.Floor(minX)))
	y0 := max(0, int(math.Floor(minY)))
	x1 := min(d.w, int(math.Ceil(maxX)))
	y1 := min(d.h, int(math.Ceil(maxY)))

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			u, v := transformPoint(inv, float64(x)+0.5, float64(y)+0.5)
			if u < 0 || v < 0 || u >= sw || v >= sh {
				continue
			}
			var c Color
			if op.Filter == FilterLinear {
				c = s.bilinear(u, v)
			} else {
				c = s.at(int(u), int(v))
			}
			c = Color{c.R * scale.R, c.G * scale.G, c.B * scale.B, c.A * scale.A}
			d.set(x, y, op.Blend.blendPremultiplied(c, d.at(x, y)))
		}
	}
}

// ReadPixels implements Backend.
func (b *SoftwareBackend) ReadPixels(t Texture, pix []byte) {
	st := b.tex(t)
	for i, v := range st.pix {
		if i >= len(pix) {
			return
		}
		pix[i] = byte(clamp01(float64(v))*255 + 0.5)
	}
}
