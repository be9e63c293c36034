package willowfx

// EffectNode is a scene graph node that renders its children into an owned
// offscreen target of fixed size, runs an effect chain over the target, and
// composites the result into its parent's target at its own transform and
// alpha.
//
// Children are drawn into the target in the node's local space: a child at
// (0, 0) lands at the target's top-left corner. Content outside the target
// rectangle is clipped.
type EffectNode struct {
	b      Backend
	node   *Node
	w, h   int
	target Texture
	stack  *EffectStack

	onDemand bool
	dirty    bool
	lastErr  error
	disposed bool
}

// NewEffectNode creates an effect node with a w x h render target.
//
// It returns an *InvalidDimensionsError when w or h is not positive and an
// *AllocationError when the backend cannot provide the target. The size is
// never clamped, and nothing is left allocated on failure.
func NewEffectNode(b Backend, name string, w, h int) (*EffectNode, error) {
	if b == nil {
		panic("willowfx: nil backend")
	}
	if w <= 0 || h <= 0 {
		return nil, &InvalidDimensionsError{Width: w, Height: h}
	}
	target, err := b.NewTexture(w, h)
	if err != nil {
		return nil, asAllocationError(w, h, err)
	}
	en := &EffectNode{
		b:      b,
		w:      w,
		h:      h,
		target: target,
		stack:  NewEffectStack(b),
		dirty:  true,
	}
	n := &Node{Name: name, Type: NodeTypeEffect, Width: float64(w), Height: float64(h)}
	nodeDefaults(n)
	n.effect = en
	en.node = n
	Logger().Info("effect node created", "name", name, "width", w, "height", h)
	return en, nil
}

// asAllocationError keeps typed backend errors and wraps anything else.
func asAllocationError(w, h int, err error) error {
	switch err.(type) {
	case *AllocationError, *InvalidDimensionsError:
		return err
	}
	return &AllocationError{Width: w, Height: h, Err: err}
}

// Node returns the graph node to attach to a parent.
func (en *EffectNode) Node() *Node { return en.node }

// AddChild adds a child to the node's content.
func (en *EffectNode) AddChild(child *Node) { en.node.AddChild(child) }

// Size returns the render target dimensions given at creation.
func (en *EffectNode) Size() (w, h int) { return en.w, en.h }

// Target returns the render target. After a draw it holds the content
// before effects.
func (en *EffectNode) Target() Texture { return en.target }

// Stack returns the node's effect stack, for diagnostics.
func (en *EffectNode) Stack() *EffectStack { return en.stack }

// SetEffect replaces the effect chain. Nil renders children unmodified.
func (en *EffectNode) SetEffect(e Effect) {
	if en.disposed {
		return
	}
	en.stack.SetEffect(e)
	en.lastErr = nil
	en.node.invalidateParent()
}

// Effect returns the current effect chain, or nil.
func (en *EffectNode) Effect() Effect { return en.stack.Effect() }

// Update advances the node's time-driven effects by dt seconds, then those
// of the effect nodes nested in its content. When an animated effect moves,
// enclosing on-demand nodes re-render their content.
func (en *EffectNode) Update(dt float64) {
	if en.disposed {
		return
	}
	en.stack.Advance(dt)
	if dt > 0 && en.stack.Animated() {
		en.node.invalidateParent()
	}
	for _, c := range en.node.children {
		advanceEffects(c, dt)
	}
}

// SetRenderOnDemand switches content caching. When enabled, children are
// only re-rendered into the target after Invalidate. Tree edits, transform
// setters, tweens and animated effects of nested effect nodes invalidate
// automatically; direct field writes do not. Effects still run every frame.
func (en *EffectNode) SetRenderOnDemand(enabled bool) {
	en.onDemand = enabled
	en.dirty = true
}

// Invalidate marks the content for re-rendering on the next draw, along
// with the content of every effect node enclosing this one.
func (en *EffectNode) Invalidate() {
	en.dirty = true
	en.node.invalidateParent()
}

// LastError returns the most recent error reported by a draw or nil.
func (en *EffectNode) LastError() error { return en.lastErr }

// IsDisposed reports whether Dispose has been called.
func (en *EffectNode) IsDisposed() bool { return en.disposed }

// Draw renders the node's content and effects and composites the result
// into dst with the given transform and alpha, ignoring the graph node's
// own transform. Scene traversal calls this through the graph. The returned
// error is the first one reported during the draw; the frame itself always
// completes, degrading to passthrough where needed.
func (en *EffectNode) Draw(dst Texture, transform [6]float64, alpha float64) error {
	rc := renderContext{b: en.b}
	en.draw(&rc, dst, transform, alpha)
	return rc.firstErr
}

func (en *EffectNode) draw(rc *renderContext, dst Texture, transform [6]float64, alpha float64) {
	if en.disposed {
		return
	}
	if rc.stats != nil {
		rc.stats.EffectNodes++
	}
	if !en.onDemand || en.dirty {
		en.b.Clear(en.target)
		for _, c := range en.node.sortedRenderChildren() {
			rc.drawNode(c, en.target, identityTransform, 1)
		}
		en.dirty = false
	}

	out, err := en.stack.Apply(en.target)
	if err != nil {
		en.lastErr = err
		rc.report(en, err)
	}
	if rc.stats != nil {
		rc.stats.Passes += en.stack.PassesLastFrame()
	}

	if alpha <= 0 {
		return
	}
	rc.op = DrawOptions{
		GeoM:       transform,
		ColorScale: Color{1, 1, 1, clamp01(alpha)},
		Blend:      en.node.BlendMode,
		Filter:     en.node.Filter,
	}
	en.b.DrawTexture(dst, out, &rc.op)
	if rc.stats != nil {
		rc.stats.DrawCalls++
	}
}

// Dispose detaches the node from the graph, disposes its children and
// releases the render target and pooled textures. Safe to call more than once.
func (en *EffectNode) Dispose() {
	en.node.Dispose()
}

// release frees GPU resources; called from Node.dispose.
func (en *EffectNode) release() {
	if en.disposed {
		return
	}
	en.disposed = true
	en.stack.Dispose()
	en.target.Dispose()
	Logger().Info("effect node disposed", "name", en.node.Name)
}
