package willowfx

import (
	"context"
	"log/slog"
)

// slotInput marks a pass source bound to the stack input rather than a pool
// slot; slotImage one bound to a Custom image.
const (
	slotInput = -1
	slotImage = -2
)

// EffectStack runs a chain of effects over an input texture. It flattens
// nested Stacks, owns the intermediate texture pool, and keeps the runtime
// state (such as ColorPulse clocks) of every effect in the chain.
//
// An EffectStack belongs to exactly one owner, usually an EffectNode. It is
// not safe for concurrent use.
type EffectStack struct {
	b       Backend
	effect  Effect
	entries []stackEntry

	pool  texturePool
	alloc slotAllocator

	// Per-frame scratch, reused to keep steady-state frames allocation free.
	plan    []plannedPass
	descs   []passDesc
	outSlot []int
	lastUse []int
	srcBuf  [maxPassSources]Texture

	compiled   bool
	broken     error
	poolFailed bool
	bindFailed bool
	lastPasses int
	disposed   bool
}

type stackEntry struct {
	effect Effect
	state  effectState
}

// plannedPass is one pass resolved to concrete pool slots for this frame.
type plannedPass struct {
	entry    int
	program  *Program
	uniforms map[string]any
	srcs     [maxPassSources]int
	extern   [maxPassSources]Texture
	nsrc     int
	out      int
}

// NewEffectStack creates an empty stack drawing through b.
func NewEffectStack(b Backend) *EffectStack {
	if b == nil {
		panic("willowfx: nil backend")
	}
	return &EffectStack{b: b}
}

// SetEffect replaces the chain. Nil clears it. Setting the effect already
// attached is a no-op and keeps the runtime state; anything else resets the
// clocks, drops pooled textures and clears a latched compilation failure.
func (s *EffectStack) SetEffect(e Effect) {
	if e == s.effect && e != nil {
		return
	}
	s.effect = e
	leaves := Flatten(e)
	s.entries = s.entries[:0]
	for _, leaf := range leaves {
		s.entries = append(s.entries, stackEntry{effect: leaf})
	}
	s.pool.release()
	s.alloc = slotAllocator{}
	s.plan = s.plan[:0]
	s.compiled = false
	s.broken = nil
	s.poolFailed = false
	s.bindFailed = false
}

// Effect returns the attached chain as set, or nil.
func (s *EffectStack) Effect() Effect { return s.effect }

// Len returns the number of leaf effects after flattening.
func (s *EffectStack) Len() int { return len(s.entries) }

// PassCount returns the number of passes the chain runs per frame.
func (s *EffectStack) PassCount() int {
	n := 0
	for i := range s.entries {
		n += PassCount(s.entries[i].effect)
	}
	return n
}

// Advance moves every time-driven effect in the chain forward by dt seconds.
func (s *EffectStack) Advance(dt float64) {
	if !(dt > 0) {
		return
	}
	for i := range s.entries {
		s.entries[i].state.elapsed += dt
	}
}

// Animated reports whether the chain holds a time-driven effect whose output
// changes as its clock advances.
func (s *EffectStack) Animated() bool {
	for i := range s.entries {
		if p, ok := s.entries[i].effect.(*ColorPulse); ok && p.Period > 0 {
			return true
		}
	}
	return false
}

// Elapsed returns the clock of the effect at flattened index i.
func (s *EffectStack) Elapsed(i int) float64 {
	return s.entries[i].state.elapsed
}

// Apply runs the chain over in and returns the texture holding the result.
// The result is in itself for an empty chain, otherwise a pooled texture
// owned by the stack and valid until the next Apply, SetEffect or Dispose.
//
// When a program fails to compile, Apply returns in together with an
// *EffectCompilationError naming the failing effect. The failure is latched:
// later calls return in with a nil error until SetEffect is called. When a
// pooled texture cannot be allocated, or a Custom image is missing or sized
// differently from in, the frame passes in through unchanged and the
// *AllocationError or *ImageBindingError is returned once per failure streak.
func (s *EffectStack) Apply(in Texture) (Texture, error) {
	s.lastPasses = 0
	if s.disposed || in == nil || len(s.entries) == 0 || s.broken != nil {
		return in, nil
	}
	if err := s.compile(); err != nil {
		s.broken = err
		Logger().Warn("effect compilation failed, rendering passthrough", "err", err)
		return in, err
	}

	w, h := in.Size()
	peak := s.buildPlan(&s.alloc)
	if err := s.checkImages(w, h); err != nil {
		if s.bindFailed {
			return in, nil
		}
		s.bindFailed = true
		Logger().Warn("effect image binding failed, rendering passthrough", "err", err)
		return in, err
	}
	s.bindFailed = false
	if err := s.pool.ensure(s.b, peak, w, h); err != nil {
		if s.poolFailed {
			return in, nil
		}
		s.poolFailed = true
		Logger().Warn("effect pool allocation failed, rendering passthrough",
			"width", w, "height", h, "textures", peak, "err", err)
		return in, err
	}
	s.poolFailed = false

	for i := range s.plan {
		p := &s.plan[i]
		out := s.pool.tex[p.out]
		s.b.Clear(out)
		srcs := s.srcBuf[:p.nsrc]
		for k := range srcs {
			switch {
			case p.srcs[k] == slotImage:
				srcs[k] = p.extern[k]
			case p.srcs[k] == slotInput:
				srcs[k] = in
			default:
				srcs[k] = s.pool.tex[p.srcs[k]]
			}
		}
		s.b.DrawPass(out, p.program, srcs, p.uniforms)
	}
	s.srcBuf = [maxPassSources]Texture{}
	s.lastPasses = len(s.plan)
	return s.pool.tex[s.plan[len(s.plan)-1].out], nil
}

// compile builds every program of the chain once.
func (s *EffectStack) compile() error {
	if s.compiled {
		return nil
	}
	for i := range s.entries {
		e := s.entries[i].effect
		for _, p := range programsFor(e) {
			if p == nil {
				return &EffectCompilationError{Index: i, Kind: e.Kind(), Err: errNoProgram}
			}
			if err := s.b.Compile(p); err != nil {
				return &EffectCompilationError{Index: i, Kind: e.Kind(), Program: p.Name, Err: err}
			}
		}
	}
	s.compiled = true
	if l := Logger(); l.Enabled(context.Background(), slog.LevelDebug) {
		l.Debug("effect chain compiled", "passes", describePasses(s.effect))
	}
	return nil
}

// buildPlan resolves this frame's passes to pool slots using alloc and
// returns the number of slots needed.
//
// Within an effect, a pass output is released after the last pass that
// reads it; the effect input is released after its last read. The final
// output of each effect stays live as the next effect's input.
func (s *EffectStack) buildPlan(alloc *slotAllocator) int {
	s.plan = s.plan[:0]
	alloc.reset()
	cur := slotInput
	for ei := range s.entries {
		e := &s.entries[ei]
		n := PassCount(e.effect)
		s.descs = growSlice(s.descs, n)
		s.outSlot = growSlice(s.outSlot, n)
		s.lastUse = growSlice(s.lastUse, n)

		inputLast := 0
		for i := 0; i < n; i++ {
			d := &s.descs[i]
			describePass(e.effect, i, &e.state, d)
			s.lastUse[i] = i
			for _, r := range d.sources[:d.nsrc] {
				switch {
				case r == refInput:
					inputLast = i
				case r >= 0:
					s.lastUse[r] = i
				}
			}
		}

		for i := 0; i < n; i++ {
			d := &s.descs[i]
			out := alloc.acquire()
			s.outSlot[i] = out
			p := plannedPass{
				entry:    ei,
				program:  d.program,
				uniforms: d.uniforms,
				nsrc:     d.nsrc,
				out:      out,
			}
			for k, r := range d.sources[:d.nsrc] {
				if img, ok := r.image(); ok {
					p.srcs[k] = slotImage
					p.extern[k] = e.effect.(*Custom).Images[img]
					continue
				}
				if r == refInput {
					p.srcs[k] = cur
				} else {
					p.srcs[k] = s.outSlot[r]
				}
			}
			s.plan = append(s.plan, p)

			if i == inputLast && cur != slotInput {
				alloc.release(cur)
			}
			for j := 0; j < i; j++ {
				if s.lastUse[j] == i {
					alloc.release(s.outSlot[j])
				}
			}
			if i < n-1 && s.lastUse[i] == i {
				alloc.release(out)
			}
		}
		cur = s.outSlot[n-1]
	}
	return alloc.size()
}

// checkImages verifies that every Custom image the plan binds is set and
// matches the w x h input. Backends sample images in the input's pixel
// space and Ebiten rejects mismatched sources.
func (s *EffectStack) checkImages(w, h int) error {
	for i := range s.plan {
		p := &s.plan[i]
		for k := 0; k < p.nsrc; k++ {
			if p.srcs[k] != slotImage {
				continue
			}
			err := &ImageBindingError{Index: p.entry, Image: k - 1, WantWidth: w, WantHeight: h}
			img := p.extern[k]
			if img == nil {
				return err
			}
			if err.Width, err.Height = img.Size(); err.Width != w || err.Height != h {
				return err
			}
		}
	}
	return nil
}

func growSlice[T any](s []T, n int) []T {
	if cap(s) < n {
		return make([]T, n)
	}
	return s[:n]
}

// Allocations returns how many pooled textures the stack has created over
// its lifetime.
func (s *EffectStack) Allocations() int { return s.pool.allocations }

// PooledTextures returns the number of textures currently held by the pool.
func (s *EffectStack) PooledTextures() int { return len(s.pool.tex) }

// MaxConcurrentTextures returns the peak number of intermediate textures the
// current chain keeps alive within one frame. It does not allocate.
func (s *EffectStack) MaxConcurrentTextures() int {
	if len(s.entries) == 0 {
		return 0
	}
	var dry slotAllocator
	return s.buildPlan(&dry)
}

// PassesLastFrame returns the number of passes the last Apply executed.
func (s *EffectStack) PassesLastFrame() int { return s.lastPasses }

// Err returns the latched compilation failure, if any.
func (s *EffectStack) Err() error { return s.broken }

// Dispose releases the pooled textures. The stack renders passthrough
// afterwards. Safe to call more than once.
func (s *EffectStack) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	s.pool.release()
	s.plan = nil
	s.entries = nil
}
