package willowfx

import (
	"errors"
	"strings"
	"testing"
)

func TestBuiltinProgramsCompile(t *testing.T) {
	b := NewSoftwareBackend(nil)
	for _, p := range builtinPrograms {
		t.Run(p.Name, func(t *testing.T) {
			if err := validateKage(p.Name, p.Source); err != nil {
				t.Errorf("validateKage: %v", err)
			}
			if p.Kernel == nil {
				t.Error("missing CPU kernel")
			}
			if err := b.Compile(p); err != nil {
				t.Errorf("Compile: %v", err)
			}
		})
	}
}

func TestValidateKageRejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"empty", "", "empty source"},
		{"syntax", "package main\nfunc Fragment( {", "expected"},
		{"no package", "func Fragment() vec4 { return vec4(0) }", "expected 'package'"},
		{"no fragment", "package main\n\nfunc main() {}\n", "no Fragment"},
		{"method fragment", "package main\n\ntype T int\n\nfunc (T) Fragment() vec4 { return vec4(0) }\n", "no Fragment"},
		{"no result", "package main\n\nfunc Fragment(dst vec4, src vec2, color vec4) {}\n", "single vec4"},
		{"two results", "package main\n\nfunc Fragment(dst vec4, src vec2, color vec4) (vec4, vec4) { return dst, dst }\n", "single vec4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateKage(tt.name, tt.src)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %q, want it to contain %q", err, tt.want)
			}
		})
	}
	if err := validateKage("x", "package main\n\nfunc main() {}\n"); !errors.Is(err, errNoFragment) {
		t.Errorf("err = %v, want errNoFragment", err)
	}
}

func TestCompileCachesFailures(t *testing.T) {
	b := NewSoftwareBackend(nil)
	p := &Program{Name: "bad", Source: "{"}
	first := b.Compile(p)
	if first == nil {
		t.Fatal("expected error")
	}
	p.Source = tintShaderSrc
	p.Kernel = tintProgram.Kernel
	if second := b.Compile(p); second != first {
		t.Errorf("Compile should return the cached result, got %v", second)
	}
}

func TestGlowBlurKernelNormalized(t *testing.T) {
	b := NewSoftwareBackend(nil)
	src := filledTexture(t, b, 9, 1, gray(0.5))
	dst := newScreen(t, b, 9, 1)
	if err := b.Compile(glowBlurProgram); err != nil {
		t.Fatal(err)
	}
	g := NewGlow(2, 1)
	var st effectState
	var d passDesc
	describePass(g, 1, &st, &d)
	b.DrawPass(dst, glowBlurProgram, []Texture{src}, d.uniforms)
	// A uniform row stays uniform away from the edges.
	assertColorNear(t, "center", b.At(dst, 4, 0), gray(0.5).Premultiply(), 1e-5)
}

func TestGlowBrightKernelThreshold(t *testing.T) {
	b := NewSoftwareBackend(nil)
	src := newScreen(t, b, 3, 1)
	b.tex(src).set(0, 0, gray(0.4))
	b.tex(src).set(1, 0, gray(0.6))
	b.tex(src).set(2, 0, Color{0.3, 0.3, 0.3, 0.5}) // straight 0.6

	dst := newScreen(t, b, 3, 1)
	if err := b.Compile(glowBrightProgram); err != nil {
		t.Fatal(err)
	}
	b.DrawPass(dst, glowBrightProgram, []Texture{src}, map[string]any{"Threshold": float32(0.5)})
	assertColorNear(t, "dark", b.At(dst, 0, 0), ColorTransparent, 1e-6)
	assertColorNear(t, "bright", b.At(dst, 1, 0), gray(0.6), 1e-6)
	assertColorNear(t, "bright translucent", b.At(dst, 2, 0), Color{0.3, 0.3, 0.3, 0.5}, 1e-6)
}

func TestDescribePasses(t *testing.T) {
	got := describePasses(NewStack(NewGlow(2, 1), NewColor(ColorWhite), NewCustom(nil, nil)))
	want := []string{
		"Glow/glow_bright",
		"Glow/glow_blur",
		"Glow/glow_blur",
		"Glow/glow_composite",
		"Color/tint",
		"Custom/<nil>",
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("describePasses = %v, want %v", got, want)
	}
}

func TestGlowPassSources(t *testing.T) {
	g := NewGlow(3, 1)
	var st effectState
	var d passDesc
	wantReads := [][]passRef{
		{refInput},
		{0},
		{1},
		{refInput, 2},
	}
	for i, want := range wantReads {
		describePass(g, i, &st, &d)
		if d.nsrc != len(want) {
			t.Errorf("pass %d nsrc = %d, want %d", i, d.nsrc, len(want))
			continue
		}
		for _, r := range want {
			if !d.reads(r) {
				t.Errorf("pass %d should read %d", i, r)
			}
		}
	}
	if dir := st.vecs[1]; dir[0] != 1 || dir[1] != 0 {
		t.Errorf("horizontal direction = %v", dir)
	}
	if dir := st.vecs[2]; dir[0] != 0 || dir[1] != 1 {
		t.Errorf("vertical direction = %v", dir)
	}
}

func TestPassRefImage(t *testing.T) {
	for k := 0; k < maxPassSources-1; k++ {
		got, ok := refImage(k).image()
		if !ok || got != k {
			t.Errorf("refImage(%d).image() = %d, %v", k, got, ok)
		}
	}
	if _, ok := refInput.image(); ok {
		t.Error("refInput is not an image")
	}
	if _, ok := passRef(0).image(); ok {
		t.Error("pass output is not an image")
	}
}

func TestPrecompile(t *testing.T) {
	b := NewSoftwareBackend(nil)
	if err := Precompile(b); err != nil {
		t.Fatal(err)
	}
	for _, p := range builtinPrograms {
		if err, ok := b.compiled[p]; !ok || err != nil {
			t.Errorf("%s not compiled: %v", p.Name, err)
		}
	}
}
