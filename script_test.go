package willowfx

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// recordingSink collects emitted events.
type recordingSink struct {
	events []EffectEvent
}

func (r *recordingSink) EmitEvent(e EffectEvent) {
	r.events = append(r.events, e)
}

func TestLoadFrameScriptExample(t *testing.T) {
	data, err := os.ReadFile("examples/presets/pulse-script.yaml")
	if err != nil {
		t.Fatal(err)
	}
	script, err := LoadFrameScript(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(script.steps) != 8 {
		t.Errorf("steps = %d, want 8", len(script.steps))
	}
	if script.Done() {
		t.Error("new script should not be done")
	}
}

func TestLoadFrameScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"empty", "", "no steps"},
		{"no steps", "steps: []\n", "no steps"},
		{"unknown action", "steps:\n  - action: dance\n", `unknown action "dance"`},
		{"alpha without node", "steps:\n  - action: alpha\n    value: 0.5\n", "alpha needs a node"},
		{"invalidate without node", "steps:\n  - action: invalidate\n", "invalidate needs a node"},
		{"unknown field", "steps:\n  - action: wait\n    frame: 2\n", "frame"},
		{"json", `{"steps": [{"action": "dance"}]}`, "step 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrameScript([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestFrameScriptRun(t *testing.T) {
	data, err := os.ReadFile("examples/presets/pulse-script.yaml")
	if err != nil {
		t.Fatal(err)
	}
	script, err := LoadFrameScript(data)
	if err != nil {
		t.Fatal(err)
	}

	b := NewSoftwareBackend(nil)
	scene := NewScene(b)
	scene.ScreenshotDir = t.TempDir()
	sink := &recordingSink{}
	scene.SetEventSink(sink)
	scene.SetFrameScript(script)

	en, err := scene.NewEffectNode("preview", 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	en.SetEffect(NewColorPulse(ColorWhite, Color{1, 0, 0, 1}, 1.5))
	en.AddChild(NewRect("r", 4, 4, ColorWhite))
	scene.Root().AddChild(en.Node())

	screen := newScreen(t, b, 4, 4)
	frames := 0
	for !script.Done() && frames < 100 {
		scene.Update(0)
		scene.Draw(screen)
		frames++
	}
	if !script.Done() {
		t.Fatal("script did not finish")
	}
	if frames != 9 {
		t.Errorf("frames = %d, want 9", frames)
	}

	assertNear(t, "pulse clock", en.Stack().Elapsed(0), 0.75)
	assertNear(t, "alpha", en.Node().Alpha, 0.5)

	var labels []string
	for _, e := range sink.events {
		if e.Type != EventScreenshot {
			continue
		}
		labels = append(labels, e.Label)
		if _, err := os.Stat(e.Path); err != nil {
			t.Errorf("screenshot %q: %v", e.Label, err)
		}
		if filepath.Dir(e.Path) != scene.ScreenshotDir {
			t.Errorf("screenshot %q written to %s", e.Label, e.Path)
		}
	}
	if got := strings.Join(labels, ","); got != "start,quarter,half,faded" {
		t.Errorf("screenshots = %s", got)
	}

	// A finished script stays finished.
	scene.Update(0)
	if !script.Done() {
		t.Error("Done should stay true")
	}
}

func TestFrameScriptMissingNode(t *testing.T) {
	script, err := LoadFrameScript([]byte("steps:\n  - action: alpha\n    node: ghost\n    value: 0\n  - action: invalidate\n    node: ghost\n"))
	if err != nil {
		t.Fatal(err)
	}
	scene := NewScene(NewSoftwareBackend(nil))
	scene.SetFrameScript(script)
	scene.Update(0)
	scene.Update(0)
	if !script.Done() {
		t.Error("missing nodes should be skipped, not stall the script")
	}
}

func TestFrameScriptInvalidate(t *testing.T) {
	script, err := LoadFrameScript([]byte("steps:\n  - action: invalidate\n    node: fx\n"))
	if err != nil {
		t.Fatal(err)
	}
	b := NewSoftwareBackend(nil)
	scene := NewScene(b)
	en, err := scene.NewEffectNode("fx", 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	scene.Root().AddChild(en.Node())
	en.SetRenderOnDemand(true)
	scene.Draw(newScreen(t, b, 2, 2))
	if en.dirty {
		t.Fatal("draw should clear the dirty flag")
	}

	scene.SetFrameScript(script)
	scene.Update(0)
	if !en.dirty {
		t.Error("invalidate step should mark the node dirty")
	}
}

func TestFindNode(t *testing.T) {
	root := NewContainer("root")
	a := NewContainer("a")
	b := NewContainer("b")
	dup := NewContainer("b")
	root.AddChild(a)
	a.AddChild(b)
	root.AddChild(dup)
	if findNode(root, "b") != b {
		t.Error("findNode should return the first match in tree order")
	}
	if findNode(root, "zzz") != nil {
		t.Error("findNode should return nil when absent")
	}
}
