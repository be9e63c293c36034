package willowfx

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"hello", "hello"},
		{"glow-frame.1", "glow-frame.1"},
		{"a b/c", "a_b_c"},
		{"  padded  ", "padded"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"über", "_ber"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.input); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTextureImageUnpremultiplies(t *testing.T) {
	b := NewSoftwareBackend(nil)
	tex := newScreen(t, b, 2, 1)
	b.tex(tex).set(0, 0, Color{1, 0.5, 0, 1})
	b.tex(tex).set(1, 0, Color{0.5, 0.25, 0, 0.5})

	img := TextureImage(b, tex)
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 1 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	opaque := img.NRGBAAt(0, 0)
	if opaque.R != 255 || opaque.G != 128 || opaque.B != 0 || opaque.A != 255 {
		t.Errorf("opaque pixel = %+v", opaque)
	}
	half := img.NRGBAAt(1, 0)
	if half.R != 255 || half.G != 127 || half.B != 0 || half.A != 128 {
		t.Errorf("translucent pixel = %+v", half)
	}
}

func TestSaveTexturePNG(t *testing.T) {
	b := NewSoftwareBackend(nil)
	tex := filledTexture(t, b, 3, 2, Color{0, 1, 0, 1})
	path := filepath.Join(t.TempDir(), "out.png")
	if err := SaveTexturePNG(b, tex, path); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Errorf("bounds = %v", img.Bounds())
	}
	r, g, bl, a := img.At(2, 1).RGBA()
	if r != 0 || g != 0xffff || bl != 0 || a != 0xffff {
		t.Errorf("pixel = %d %d %d %d", r, g, bl, a)
	}
}

func TestSaveTexturePNGBadPath(t *testing.T) {
	b := NewSoftwareBackend(nil)
	tex := newScreen(t, b, 1, 1)
	err := SaveTexturePNG(b, tex, filepath.Join(t.TempDir(), "missing", "out.png"))
	if err == nil || !strings.Contains(err.Error(), "create") {
		t.Errorf("err = %v, want a create error", err)
	}
}

func TestSceneScreenshot(t *testing.T) {
	b := NewSoftwareBackend(nil)
	scene := NewScene(b)
	scene.ScreenshotDir = filepath.Join(t.TempDir(), "shots")
	sink := &recordingSink{}
	scene.SetEventSink(sink)

	screen := newScreen(t, b, 2, 2)
	scene.Draw(screen)
	scene.Screenshot("first shot")
	scene.Draw(screen)
	scene.Draw(screen)

	if len(sink.events) != 1 {
		t.Fatalf("events = %d, want 1", len(sink.events))
	}
	e := sink.events[0]
	if e.Type != EventScreenshot || e.Label != "first shot" || e.Frame != 1 {
		t.Errorf("event = %+v", e)
	}
	if !strings.HasSuffix(e.Path, "_000001_first_shot.png") {
		t.Errorf("path = %s", e.Path)
	}
	if _, err := os.Stat(e.Path); err != nil {
		t.Error(err)
	}
}
