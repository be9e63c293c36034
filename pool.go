package willowfx

// --- Intermediate texture pool ---

// slotAllocator hands out pool slot indices for pass outputs. Acquire scans
// for a free slot in ring order starting after the slot handed out last, and
// only grows when every existing slot is live. The number of slots is
// therefore the peak number of simultaneously live intermediates.
type slotAllocator struct {
	live []bool
	next int
}

// reset frees every slot. The ring position is kept so consecutive frames
// rotate through the pool.
func (a *slotAllocator) reset() {
	clear(a.live)
}

func (a *slotAllocator) acquire() int {
	n := len(a.live)
	for k := 0; k < n; k++ {
		i := (a.next + k) % n
		if !a.live[i] {
			a.live[i] = true
			a.next = (i + 1) % n
			return i
		}
	}
	a.live = append(a.live, true)
	a.next = 0
	return n
}

func (a *slotAllocator) release(i int) {
	if i >= 0 && i < len(a.live) {
		a.live[i] = false
	}
}

// size returns the number of slots ever needed.
func (a *slotAllocator) size() int { return len(a.live) }

// texturePool owns the intermediate textures of one EffectStack. All
// textures share the size of the stack input; a different input size drops
// and reallocates them.
type texturePool struct {
	tex         []Texture
	w, h        int
	allocations int
}

// ensure makes at least n textures of w x h available. On failure the
// textures allocated so far are kept and the error is returned.
func (p *texturePool) ensure(b Backend, n, w, h int) error {
	if w != p.w || h != p.h {
		p.release()
		p.w, p.h = w, h
	}
	for len(p.tex) < n {
		t, err := b.NewTexture(w, h)
		if err != nil {
			return err
		}
		p.tex = append(p.tex, t)
		p.allocations++
		Logger().Info("effect pool texture allocated", "width", w, "height", h, "slot", len(p.tex)-1)
	}
	return nil
}

// release disposes every pooled texture.
func (p *texturePool) release() {
	for i, t := range p.tex {
		t.Dispose()
		p.tex[i] = nil
	}
	p.tex = p.tex[:0]
	p.w, p.h = 0, 0
}
