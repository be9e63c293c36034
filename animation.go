package willowfx

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields simultaneously, either on a
// Node or on an effect's parameters. Create one via the convenience
// constructors and call Update(dt) each frame. If the target node is
// disposed, the group stops immediately.
//
// There is no global animation manager; users call Update themselves.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	target *Node
	Done   bool
}

func newTweenGroup(target *Node, duration float32, fn ease.TweenFunc, fields []*float64, to []float64) *TweenGroup {
	g := &TweenGroup{count: len(fields), target: target}
	for i, f := range fields {
		g.tweens[i] = gween.New(float32(*f), float32(to[i]), duration, fn)
		g.fields[i] = f
	}
	return g
}

// Update advances all tweens by dt seconds and writes values to the target
// fields. A node target re-renders the enclosing on-demand effect nodes. If
// the target node has been disposed, Done is set to true and no writes
// occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
	if g.target != nil {
		g.target.invalidateParent()
	}
}

// --- Node tweens ---

// TweenPosition animates node.X and node.Y to the given coordinates.
func TweenPosition(node *Node, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn, []*float64{&node.X, &node.Y}, []float64{toX, toY})
}

// TweenAlpha animates node.Alpha to the target value. On an effect node's
// graph node this fades the composited result.
func TweenAlpha(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn, []*float64{&node.Alpha}, []float64{clamp01(to)})
}

// --- Effect parameter tweens ---
//
// Effect parameters are read when the pass plan is built each frame, so a
// tween takes effect on the next draw of the node it is attached to. An
// on-demand effect node enclosing that node keeps its cached content until
// Invalidate.

// TweenBrightness animates e.Brightness.
func TweenBrightness(e *BrightnessAndContrast, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(nil, duration, fn, []*float64{&e.Brightness}, []float64{to})
}

// TweenContrast animates e.Contrast.
func TweenContrast(e *BrightnessAndContrast, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(nil, duration, fn, []*float64{&e.Contrast}, []float64{to})
}

// TweenGlowIntensity animates g.Intensity.
func TweenGlowIntensity(g *Glow, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(nil, duration, fn, []*float64{&g.Intensity}, []float64{to})
}

// TweenGlowRadius animates g.Radius.
func TweenGlowRadius(g *Glow, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(nil, duration, fn, []*float64{&g.Radius}, []float64{to})
}

// TweenTint animates all four components of e.Color.
func TweenTint(e *ColorEffect, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	c := &e.Color
	return newTweenGroup(nil, duration, fn,
		[]*float64{&c.R, &c.G, &c.B, &c.A},
		[]float64{to.R, to.G, to.B, to.A})
}
