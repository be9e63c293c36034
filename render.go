package willowfx

// renderContext carries per-draw state through a traversal. Drawing is
// immediate: nodes are drawn in tree order as they are visited, and an
// effect node finishes its own content, passes and composite before the
// traversal moves on to its next sibling.
type renderContext struct {
	b        Backend
	stats    *FrameStats
	onError  func(en *EffectNode, err error)
	firstErr error

	// op is reused for every quad to avoid a heap escape per draw.
	op DrawOptions
}

func (rc *renderContext) report(en *EffectNode, err error) {
	if rc.firstErr == nil {
		rc.firstErr = err
	}
	if rc.onError != nil {
		rc.onError(en, err)
	}
}

// drawNode draws n and its subtree into dst. parent maps n's parent space
// into dst pixel space.
func (rc *renderContext) drawNode(n *Node, dst Texture, parent [6]float64, parentAlpha float64) {
	if !n.Visible || n.disposed {
		return
	}
	m := multiplyAffine(parent, computeLocalTransform(n))
	alpha := parentAlpha * n.Alpha
	if rc.stats != nil {
		rc.stats.Nodes++
	}

	switch n.Type {
	case NodeTypeEffect:
		// Children are drawn inside the effect node's own target.
		if n.Renderable && n.effect != nil && !degenerate(m) {
			n.effect.draw(rc, dst, m, alpha)
		}
		return
	case NodeTypeSprite:
		if n.Renderable {
			rc.drawSprite(n, dst, m, alpha)
		}
	}

	for _, child := range n.sortedRenderChildren() {
		rc.drawNode(child, dst, m, alpha)
	}
}

func (rc *renderContext) drawSprite(n *Node, dst Texture, m [6]float64, alpha float64) {
	a := n.Color.A * alpha
	if a <= 0 || n.Width <= 0 || n.Height <= 0 || degenerate(m) {
		return
	}
	src := n.Texture
	sw, sh := 1.0, 1.0
	if src == nil {
		src = rc.b.White()
	} else {
		w, h := src.Size()
		sw, sh = float64(w), float64(h)
	}
	if sw != n.Width || sh != n.Height {
		m = multiplyAffine(m, [6]float64{n.Width / sw, 0, 0, n.Height / sh, 0, 0})
	}
	rc.op = DrawOptions{
		GeoM:       m,
		ColorScale: Color{n.Color.R, n.Color.G, n.Color.B, a},
		Blend:      n.BlendMode,
		Filter:     n.Filter,
	}
	rc.b.DrawTexture(dst, src, &rc.op)
	if rc.stats != nil {
		rc.stats.Sprites++
		rc.stats.DrawCalls++
	}
}

// degenerate reports whether m collapses everything onto a line or point.
func degenerate(m [6]float64) bool {
	det := m[0]*m[3] - m[2]*m[1]
	return det > -1e-12 && det < 1e-12
}

// advanceEffects calls Update on every effect node in the subtree.
func advanceEffects(n *Node, dt float64) {
	if n.disposed {
		return
	}
	if n.effect != nil {
		// The effect node advances its own subtree.
		n.effect.Update(dt)
		return
	}
	for _, child := range n.children {
		advanceEffects(child, dt)
	}
}

// findEffectNodes appends every effect node in the subtree to dst in tree
// order.
func findEffectNodes(n *Node, dst []*EffectNode) []*EffectNode {
	if n.effect != nil {
		dst = append(dst, n.effect)
	}
	for _, child := range n.children {
		dst = findEffectNodes(child, dst)
	}
	return dst
}
