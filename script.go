package willowfx

import (
	"fmt"

	"gopkg.in/yaml.v2"
)

// scriptStep represents a single action in a frame script.
type scriptStep struct {
	Action  string  `yaml:"action"`
	Label   string  `yaml:"label,omitempty"`
	Node    string  `yaml:"node,omitempty"`
	Frames  int     `yaml:"frames,omitempty"`
	Seconds float64 `yaml:"seconds,omitempty"`
	Value   float64 `yaml:"value,omitempty"`
}

// frameScript is the top-level structure for a frame script.
type frameScript struct {
	Steps []scriptStep `yaml:"steps"`
}

// FrameScript sequences screenshots, waits and effect clock changes across
// frames for automated visual checks. Attach to a Scene via SetFrameScript.
//
// Actions:
//   - screenshot: queue a screenshot with Label
//   - wait: do nothing for Frames frames
//   - advance: move every effect clock forward by Seconds
//   - alpha: set the alpha of the node named Node to Value
//   - invalidate: re-render the content of the effect node named Node
type FrameScript struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadFrameScript parses a YAML (or JSON) frame script.
func LoadFrameScript(data []byte) (*FrameScript, error) {
	var script frameScript
	if err := yaml.UnmarshalStrict(data, &script); err != nil {
		return nil, fmt.Errorf("parse frame script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse frame script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "screenshot", "wait", "advance":
		case "alpha", "invalidate":
			if st.Node == "" {
				return nil, fmt.Errorf("parse frame script: step %d: %s needs a node", i, st.Action)
			}
		default:
			return nil, fmt.Errorf("parse frame script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &FrameScript{steps: script.Steps}, nil
}

// SetFrameScript attaches a script to the scene. The script steps once per
// Scene.Update, before effect clocks advance.
func (s *Scene) SetFrameScript(script *FrameScript) {
	s.script = script
}

// Done reports whether all steps have been executed.
func (r *FrameScript) Done() bool {
	return r.done
}

// step advances the script by one frame.
func (r *FrameScript) step(s *Scene) {
	if r.done {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		s.Screenshot(st.Label)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "advance":
		advanceEffects(s.root, st.Seconds)
	case "alpha":
		if n := findNode(s.root, st.Node); n != nil {
			n.SetAlpha(st.Value)
		} else {
			Logger().Warn("frame script: node not found", "node", st.Node)
		}
	case "invalidate":
		if n := findNode(s.root, st.Node); n != nil && n.effect != nil {
			n.effect.Invalidate()
		} else {
			Logger().Warn("frame script: effect node not found", "node", st.Node)
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}

// findNode returns the first node named name in tree order.
func findNode(n *Node, name string) *Node {
	if n.Name == name {
		return n
	}
	for _, child := range n.children {
		if found := findNode(child, name); found != nil {
			return found
		}
	}
	return nil
}
