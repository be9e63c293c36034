package willowfx

import (
	"time"
)

// FrameStats holds per-frame traversal and draw metrics, collected on every
// Scene.Draw and logged when debug mode is on.
type FrameStats struct {
	Nodes       int // visible nodes visited
	Sprites     int
	EffectNodes int
	Passes      int // effect passes executed
	DrawCalls   int // textured quads drawn (sprites and composites)
	Duration    time.Duration
}

// debugLog writes the frame stats at debug level.
func (s *Scene) debugLog(stats FrameStats) {
	if !s.debug {
		return
	}
	Logger().Debug("frame",
		"frame", s.frame,
		"nodes", stats.Nodes,
		"sprites", stats.Sprites,
		"effect_nodes", stats.EffectNodes,
		"passes", stats.Passes,
		"draw_calls", stats.DrawCalls,
		"duration", stats.Duration,
	)
}

// debugMaxTreeDepth is the depth beyond which debug mode warns.
const debugMaxTreeDepth = 32

// debugCheckTree warns about suspiciously deep trees and nested effect nodes
// whose targets are larger than the target they composite into.
func debugCheckTree(n *Node, depth int, parentTarget [2]int) {
	if depth == debugMaxTreeDepth+1 {
		Logger().Warn("tree depth exceeds threshold", "node", n.Name, "depth", depth, "threshold", debugMaxTreeDepth)
	}
	if en := n.effect; en != nil {
		if parentTarget[0] > 0 && (en.w > parentTarget[0] || en.h > parentTarget[1]) {
			Logger().Warn("effect node larger than its parent target",
				"node", n.Name, "width", en.w, "height", en.h,
				"parent_width", parentTarget[0], "parent_height", parentTarget[1])
		}
		parentTarget = [2]int{en.w, en.h}
	}
	for _, child := range n.children {
		debugCheckTree(child, depth+1, parentTarget)
	}
}
