package willowfx

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"math"
)

// maxPassSources is the number of source images a pass can bind, matching
// ebiten.DrawRectShaderOptions.Images.
const maxPassSources = 4

// Kernel is the CPU form of a shader program, evaluated once per destination
// pixel by the SoftwareBackend. It must compute exactly what the program's
// Kage Fragment function computes and return a premultiplied color.
type Kernel func(f *Fragment) Color

// Program is one shader: Kage source for GPU backends plus an equivalent CPU
// kernel. Programs are compared by pointer; backends cache compiled results
// per *Program, so declare them once and reuse them.
type Program struct {
	Name   string
	Source string
	Kernel Kernel
}

// Fragment is the per-pixel input handed to a Kernel. It mirrors the
// arguments Kage gives a Fragment function in pixel units.
type Fragment struct {
	// X and Y are the pixel-center coordinates being shaded (x+0.5, y+0.5).
	X, Y     float64
	Uniforms map[string]any

	srcs [maxPassSources]*softTexture
}

// Src samples source image i at pixel position (x, y), like imageSrcNAt.
// Positions outside the image return transparent black.
func (f *Fragment) Src(i int, x, y float64) Color {
	if i < 0 || i >= maxPassSources || f.srcs[i] == nil {
		return Color{}
	}
	return f.srcs[i].at(int(math.Floor(x)), int(math.Floor(y)))
}

// Float reads a scalar uniform. Missing uniforms read as zero, as in Kage.
func (f *Fragment) Float(name string) float64 {
	switch v := f.Uniforms[name].(type) {
	case float32:
		return float64(v)
	case float64:
		return v
	case int:
		return float64(v)
	case []float32:
		if len(v) > 0 {
			return float64(v[0])
		}
	}
	return 0
}

// Vec4 reads a four-component uniform as a Color.
func (f *Fragment) Vec4(name string) Color {
	switch v := f.Uniforms[name].(type) {
	case []float32:
		if len(v) >= 4 {
			return Color{float64(v[0]), float64(v[1]), float64(v[2]), float64(v[3])}
		}
	case [4]float32:
		return Color{float64(v[0]), float64(v[1]), float64(v[2]), float64(v[3])}
	case Color:
		return v
	}
	return Color{}
}

var errNoFragment = errors.New("no Fragment function")

// validateKage performs the syntactic checks a Kage compiler would reject
// first: the source must parse as a Go-syntax file and declare a Fragment
// function with a single result.
func validateKage(name, src string) error {
	if src == "" {
		return fmt.Errorf("program %q: empty source", name)
	}
	file, err := parser.ParseFile(token.NewFileSet(), name+".kage", src, parser.SkipObjectResolution)
	if err != nil {
		return fmt.Errorf("program %q: %w", name, err)
	}
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv != nil || fn.Name.Name != "Fragment" {
			continue
		}
		if fn.Type.Results == nil || fn.Type.Results.NumFields() != 1 {
			return fmt.Errorf("program %q: Fragment must return a single vec4", name)
		}
		return nil
	}
	return fmt.Errorf("program %q: %w", name, errNoFragment)
}
