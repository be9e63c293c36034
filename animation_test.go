package willowfx

import (
	"testing"

	"github.com/tanema/gween/ease"
)

const tweenEpsilon = 1e-4

func assertTween(t *testing.T, name string, got, want float64) {
	t.Helper()
	if d := got - want; d > tweenEpsilon || d < -tweenEpsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestTweenPosition(t *testing.T) {
	n := NewContainer("n")
	g := TweenPosition(n, 100, -50, 1, ease.Linear)

	g.Update(0.5)
	assertTween(t, "X mid", n.X, 50)
	assertTween(t, "Y mid", n.Y, -25)
	if g.Done {
		t.Error("should not be done halfway")
	}

	g.Update(0.5)
	assertTween(t, "X end", n.X, 100)
	assertTween(t, "Y end", n.Y, -50)
	if !g.Done {
		t.Error("should be done")
	}

	n.X = 7
	g.Update(1)
	if n.X != 7 {
		t.Error("a finished group must not write")
	}
}

func TestTweenAlphaClampsTarget(t *testing.T) {
	n := NewContainer("n")
	n.Alpha = 0
	g := TweenAlpha(n, 3, 1, ease.Linear)
	g.Update(1)
	assertTween(t, "alpha", n.Alpha, 1)
}

func TestTweenStopsOnDisposedNode(t *testing.T) {
	n := NewContainer("n")
	g := TweenPosition(n, 100, 0, 1, ease.Linear)
	n.Dispose()
	g.Update(0.5)
	if !g.Done {
		t.Error("group should stop when its node is disposed")
	}
	if n.X != 0 {
		t.Errorf("X = %v, want 0", n.X)
	}
}

func TestTweenEffectParameters(t *testing.T) {
	bc := NewBrightnessAndContrast(0, 1)
	glow := NewGlow(2, 0)
	tint := NewColor(ColorWhite)

	groups := []*TweenGroup{
		TweenBrightness(bc, 0.4, 1, ease.Linear),
		TweenContrast(bc, 2, 1, ease.Linear),
		TweenGlowIntensity(glow, 1, 1, ease.Linear),
		TweenGlowRadius(glow, 10, 1, ease.Linear),
		TweenTint(tint, Color{0, 0.5, 1, 0}, 1, ease.Linear),
	}
	for _, g := range groups {
		g.Update(0.5)
	}
	assertTween(t, "brightness", bc.Brightness, 0.2)
	assertTween(t, "contrast", bc.Contrast, 1.5)
	assertTween(t, "intensity", glow.Intensity, 0.5)
	assertTween(t, "radius", glow.Radius, 6)
	assertTween(t, "tint R", tint.Color.R, 0.5)
	assertTween(t, "tint G", tint.Color.G, 0.75)
	assertTween(t, "tint B", tint.Color.B, 1)
	assertTween(t, "tint A", tint.Color.A, 0.5)

	for _, g := range groups {
		g.Update(0.5)
		if !g.Done {
			t.Error("group should be done")
		}
	}
}

// A tweened parameter takes effect on the next draw.
func TestTweenDrivesRendering(t *testing.T) {
	b := NewSoftwareBackend(nil)
	in := filledTexture(t, b, 2, 2, gray(0.5))
	bc := NewBrightnessAndContrast(0, 1)
	s := NewEffectStack(b)
	s.SetEffect(bc)

	g := TweenBrightness(bc, 0.5, 1, ease.Linear)
	g.Update(1)
	out := applyOrFail(t, s, in)
	assertColorNear(t, "brightened", b.At(out, 0, 0), gray(1), 1e-4)
}

func TestTweenInvalidatesOnDemandContent(t *testing.T) {
	b := NewSoftwareBackend(nil)
	en := newTestEffectNode(t, b, "fx", 4, 4)
	r := NewRect("r", 2, 2, ColorWhite)
	en.AddChild(r)
	en.SetRenderOnDemand(true)

	screen := newScreen(t, b, 4, 4)
	if err := en.Draw(screen, identityTransform, 1); err != nil {
		t.Fatal(err)
	}

	TweenPosition(r, 2, 2, 1, ease.Linear).Update(1)
	b.Clear(screen)
	if err := en.Draw(screen, identityTransform, 1); err != nil {
		t.Fatal(err)
	}
	assertColorNear(t, "old position", b.At(screen, 0, 0), ColorTransparent, 1e-6)
	assertColorNear(t, "new position", b.At(screen, 3, 3), ColorWhite, 1e-6)
}
