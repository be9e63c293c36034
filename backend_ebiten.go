package willowfx

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

const defaultEbitenMaxTextureSize = 8192

// EbitenBackend implements Backend on Ebitengine. Offscreen textures are
// unmanaged images; programs are Kage shaders compiled with ebiten.NewShader.
// Like the rest of the package it is single-threaded: use it from the game
// loop only.
type EbitenBackend struct {
	maxSize int
	white   *ebitenTexture
	shaders map[*Program]*ebiten.Shader
	failed  map[*Program]error

	// Persistent option structs avoid a heap escape per draw.
	shaderOp ebiten.DrawRectShaderOptions
	imgOp    ebiten.DrawImageOptions
}

// NewEbitenBackend creates a backend. maxTextureSize <= 0 selects 8192.
func NewEbitenBackend(maxTextureSize int) *EbitenBackend {
	if maxTextureSize <= 0 {
		maxTextureSize = defaultEbitenMaxTextureSize
	}
	return &EbitenBackend{
		maxSize: maxTextureSize,
		shaders: make(map[*Program]*ebiten.Shader),
		failed:  make(map[*Program]error),
	}
}

type ebitenTexture struct {
	img   *ebiten.Image
	owned bool
}

func (t *ebitenTexture) Size() (int, int) {
	b := t.img.Bounds()
	return b.Dx(), b.Dy()
}

func (t *ebitenTexture) Dispose() {
	if t.owned && t.img != nil {
		t.img.Deallocate()
	}
	t.img = nil
}

// Wrap adapts an image owned by the caller (typically the screen passed to
// Draw) so it can be used as a draw destination. Dispose on the wrapper does
// not deallocate the image.
func (b *EbitenBackend) Wrap(img *ebiten.Image) Texture {
	return &ebitenTexture{img: img}
}

// Image returns the *ebiten.Image behind a texture created by this backend.
func (b *EbitenBackend) Image(t Texture) *ebiten.Image {
	return b.img(t)
}

func (b *EbitenBackend) img(t Texture) *ebiten.Image {
	et, ok := t.(*ebitenTexture)
	if !ok {
		panic("willowfx: texture does not belong to an EbitenBackend")
	}
	if et.img == nil {
		panic("willowfx: use of disposed texture")
	}
	return et.img
}

// NewTexture implements Backend. Ebitengine panics on image sizes it cannot
// serve; the panic is converted to an *AllocationError.
func (b *EbitenBackend) NewTexture(w, h int) (tex Texture, err error) {
	if w <= 0 || h <= 0 {
		return nil, &InvalidDimensionsError{Width: w, Height: h}
	}
	if w > b.maxSize || h > b.maxSize {
		return nil, &AllocationError{Width: w, Height: h, Err: errTextureTooLarge}
	}
	defer func() {
		if r := recover(); r != nil {
			tex = nil
			err = &AllocationError{Width: w, Height: h, Err: fmt.Errorf("ebiten: %v", r)}
		}
	}()
	img := ebiten.NewImageWithOptions(image.Rect(0, 0, w, h), &ebiten.NewImageOptions{Unmanaged: true})
	return &ebitenTexture{img: img, owned: true}, nil
}

// MaxTextureSize implements Backend.
func (b *EbitenBackend) MaxTextureSize() int { return b.maxSize }

// White implements Backend.
func (b *EbitenBackend) White() Texture {
	if b.white == nil {
		img := ebiten.NewImage(1, 1)
		img.Fill(ColorWhite.toRGBA())
		b.white = &ebitenTexture{img: img, owned: true}
	}
	return b.white
}

// Clear implements Backend.
func (b *EbitenBackend) Clear(t Texture) { b.img(t).Clear() }

// Fill implements Backend.
func (b *EbitenBackend) Fill(t Texture, c Color) { b.img(t).Fill(c.toRGBA()) }

// Compile implements Backend.
func (b *EbitenBackend) Compile(p *Program) error {
	if _, ok := b.shaders[p]; ok {
		return nil
	}
	if err, ok := b.failed[p]; ok {
		return err
	}
	s, err := ebiten.NewShader([]byte(p.Source))
	if err != nil {
		err = fmt.Errorf("program %q: %w", p.Name, err)
		b.failed[p] = err
		return err
	}
	b.shaders[p] = s
	return nil
}

// DrawPass implements Backend.
func (b *EbitenBackend) DrawPass(dst Texture, p *Program, srcs []Texture, uniforms map[string]any) {
	shader := b.shaders[p]
	if shader == nil {
		Logger().Warn("ebiten pass skipped", "program", p.Name, "err", errNotCompiled)
		return
	}
	d := b.img(dst)
	op := &b.shaderOp
	for i := range op.Images {
		op.Images[i] = nil
	}
	for i, s := range srcs {
		if i >= len(op.Images) {
			break
		}
		op.Images[i] = b.img(s)
	}
	op.Uniforms = uniforms
	w, h := dst.Size()
	d.DrawRectShader(w, h, shader, op)
	op.Uniforms = nil
	for i := range op.Images {
		op.Images[i] = nil
	}
}

// DrawTexture implements Backend.
func (b *EbitenBackend) DrawTexture(dst, src Texture, op *DrawOptions) {
	if op == nil {
		op = &DrawOptions{}
	}
	geo := op.geoM()
	scale := op.colorScale()
	io := &b.imgOp
	io.GeoM.Reset()
	io.GeoM.SetElement(0, 0, geo[0])
	io.GeoM.SetElement(1, 0, geo[1])
	io.GeoM.SetElement(0, 1, geo[2])
	io.GeoM.SetElement(1, 1, geo[3])
	io.GeoM.SetElement(0, 2, geo[4])
	io.GeoM.SetElement(1, 2, geo[5])
	io.ColorScale.Reset()
	io.ColorScale.Scale(float32(scale.R), float32(scale.G), float32(scale.B), float32(scale.A))
	io.Blend = op.Blend.EbitenBlend()
	io.Filter = op.Filter.ebitenFilter()
	b.img(dst).DrawImage(b.img(src), io)
}

// ReadPixels implements Backend. Only valid once the game loop is running.
func (b *EbitenBackend) ReadPixels(t Texture, pix []byte) {
	b.img(t).ReadPixels(pix)
}

// Dispose releases every compiled shader and the shared white texture.
func (b *EbitenBackend) Dispose() {
	for p, s := range b.shaders {
		s.Deallocate()
		delete(b.shaders, p)
	}
	clear(b.failed)
	if b.white != nil {
		b.white.Dispose()
		b.white = nil
	}
}
