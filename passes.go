package willowfx

import "errors"

// passRef names the texture a pass reads. Non-negative values are the
// outputs of earlier passes of the same effect.
type passRef int8

const refInput passRef = -1 // the effect's input texture

// refImage refers to Custom.Images[k].
func refImage(k int) passRef { return passRef(-2 - k) }

func (r passRef) image() (int, bool) {
	if r <= -2 {
		return int(-2 - r), true
	}
	return 0, false
}

// passDesc is one step of an effect for the current frame.
type passDesc struct {
	program  *Program
	uniforms map[string]any
	sources  [maxPassSources]passRef
	nsrc     int
}

func (d *passDesc) reads(r passRef) bool {
	for _, s := range d.sources[:d.nsrc] {
		if s == r {
			return true
		}
	}
	return false
}

// effectState is the per-attachment runtime state of one flattened effect:
// its clock and the uniform maps handed to the backend. The maps persist
// across frames so steady-state rendering does not rebuild them.
type effectState struct {
	elapsed  float64
	uniforms [glowPassCount]map[string]any
	vecs     [glowPassCount][]float32
}

func (st *effectState) uniformMap(i int) map[string]any {
	if st.uniforms[i] == nil {
		st.uniforms[i] = make(map[string]any, 4)
	}
	return st.uniforms[i]
}

func (st *effectState) vec(i, n int) []float32 {
	if len(st.vecs[i]) != n {
		st.vecs[i] = make([]float32, n)
	}
	return st.vecs[i]
}

var errNoProgram = errors.New("custom effect has no program")

// programsFor returns the programs e runs. A Custom without a program
// yields a nil entry, reported as a compilation failure.
func programsFor(e Effect) []*Program {
	switch e := e.(type) {
	case *ColorEffect, *ColorPulse:
		return []*Program{tintProgram}
	case *BrightnessAndContrast:
		return []*Program{brightnessContrastProgram}
	case *Glow:
		return []*Program{glowBrightProgram, glowBlurProgram, glowCompositeProgram}
	case *Custom:
		return []*Program{e.Program}
	default:
		return nil
	}
}

// describePass fills d with pass i of leaf effect e. All knowledge of how an
// effect maps onto passes lives here and in PassCount.
func describePass(e Effect, i int, st *effectState, d *passDesc) {
	d.nsrc = 1
	d.sources[0] = refInput
	switch e := e.(type) {
	case *ColorEffect:
		describeTint(e.Color, st, d)
	case *ColorPulse:
		describeTint(e.ColorAt(st.elapsed), st, d)
	case *BrightnessAndContrast:
		u := st.uniformMap(0)
		u["Brightness"] = float32(clamp(e.Brightness, -1, 1))
		u["Contrast"] = float32(clamp(e.Contrast, 0, 2))
		d.program = brightnessContrastProgram
		d.uniforms = u
	case *Glow:
		describeGlowPass(e, i, st, d)
	case *Custom:
		d.program = e.Program
		d.uniforms = e.Uniforms
		// Bind up to the last set image; a gap is caught when the plan is
		// checked.
		last := -1
		for k, img := range e.Images {
			if img != nil {
				last = k
			}
		}
		for k := 0; k <= last; k++ {
			d.sources[d.nsrc] = refImage(k)
			d.nsrc++
		}
	default:
		panic("willowfx: describePass on non-leaf effect")
	}
}

func describeTint(c Color, st *effectState, d *passDesc) {
	u := st.uniformMap(0)
	v := st.vec(0, 4)
	c.clamped().vec4(v)
	u["Tint"] = v
	d.program = tintProgram
	d.uniforms = u
}

func describeGlowPass(g *Glow, i int, st *effectState, d *passDesc) {
	u := st.uniformMap(i)
	d.uniforms = u
	switch i {
	case 0:
		u["Threshold"] = float32(clamp01(g.Threshold))
		d.program = glowBrightProgram
	case 1, 2:
		dir := st.vec(i, 2)
		dir[0], dir[1] = 1, 0
		if i == 2 {
			dir[0], dir[1] = 0, 1
		}
		u["Radius"] = float32(g.radius())
		u["Sigma"] = float32(g.sigma())
		u["Direction"] = dir
		d.program = glowBlurProgram
		d.sources[0] = passRef(i - 1)
	case 3:
		u["Intensity"] = float32(max(g.Intensity, 0))
		d.program = glowCompositeProgram
		d.sources[1] = 2
		d.nsrc = 2
	}
}

// describePasses returns a human-readable pass list, for debug logging.
func describePasses(e Effect) []string {
	var out []string
	var st effectState
	var d passDesc
	for _, leaf := range Flatten(e) {
		for i := 0; i < PassCount(leaf); i++ {
			describePass(leaf, i, &st, &d)
			name := "<nil>"
			if d.program != nil {
				name = d.program.Name
			}
			out = append(out, leaf.Kind().String()+"/"+name)
		}
		st = effectState{}
	}
	return out
}
