package willowfx

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want [6]float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

func colorNear(a, b Color, tol float64) bool {
	return math.Abs(a.R-b.R) <= tol && math.Abs(a.G-b.G) <= tol &&
		math.Abs(a.B-b.B) <= tol && math.Abs(a.A-b.A) <= tol
}

func assertColorNear(t *testing.T, name string, got, want Color, tol float64) {
	t.Helper()
	if !colorNear(got, want, tol) {
		t.Errorf("%s = %+v, want %+v (tol %g)", name, got, want, tol)
	}
}

// gray returns an opaque gray.
func gray(v float64) Color { return Color{v, v, v, 1} }

// newScreen allocates a w x h destination texture.
func newScreen(t *testing.T, b *SoftwareBackend, w, h int) Texture {
	t.Helper()
	tex, err := b.NewTexture(w, h)
	if err != nil {
		t.Fatalf("NewTexture(%d, %d): %v", w, h, err)
	}
	return tex
}

// newTestEffectNode creates an effect node and fails the test on error.
func newTestEffectNode(t *testing.T, b Backend, name string, w, h int) *EffectNode {
	t.Helper()
	en, err := NewEffectNode(b, name, w, h)
	if err != nil {
		t.Fatalf("NewEffectNode(%q, %d, %d): %v", name, w, h, err)
	}
	return en
}

// assertSamePixels compares two textures pixel by pixel.
func assertSamePixels(t *testing.T, b *SoftwareBackend, got, want Texture, tol float64) {
	t.Helper()
	gw, gh := got.Size()
	ww, wh := want.Size()
	if gw != ww || gh != wh {
		t.Fatalf("size = %dx%d, want %dx%d", gw, gh, ww, wh)
	}
	bad := 0
	for y := 0; y < gh; y++ {
		for x := 0; x < gw; x++ {
			g, w := b.At(got, x, y), b.At(want, x, y)
			if !colorNear(g, w, tol) {
				if bad < 5 {
					t.Errorf("pixel (%d,%d) = %+v, want %+v", x, y, g, w)
				}
				bad++
			}
		}
	}
	if bad > 5 {
		t.Errorf("... %d mismatched pixels in total", bad)
	}
}

// addSampleContent adds a small scene with opaque and translucent shapes,
// offset by (ox, oy).
func addSampleContent(parent *Node, ox, oy float64) {
	bg := NewRect("bg", 12, 10, gray(0.2))
	bg.SetPosition(ox, oy)
	parent.AddChild(bg)

	red := NewRect("red", 6, 5, Color{1, 0.1, 0.1, 0.5})
	red.SetPosition(ox+2, oy+3)
	parent.AddChild(red)

	blue := NewRect("blue", 5, 6, Color{0.2, 0.3, 1, 0.7})
	blue.SetPosition(ox+5, oy+1)
	blue.ZIndex = -1
	parent.AddChild(blue)

	dot := NewRect("dot", 1, 1, ColorWhite)
	dot.SetPosition(ox+8, oy+7)
	parent.AddChild(dot)
}
