package willowfx

import (
	"time"
)

// EventSink is the interface for optional ECS integration.
// When set on a Scene, effect events are forwarded to it.
type EventSink interface {
	EmitEvent(event EffectEvent)
}

// EffectEventType identifies the kind of EffectEvent.
type EffectEventType uint8

const (
	EventEffectError EffectEventType = iota // an effect node reported an error
	EventScreenshot                         // a queued screenshot was written
)

// String returns the event type name.
func (t EffectEventType) String() string {
	switch t {
	case EventEffectError:
		return "effect_error"
	case EventScreenshot:
		return "screenshot"
	default:
		return "unknown"
	}
}

// EffectEvent carries scene events for the ECS bridge.
type EffectEvent struct {
	Type  EffectEventType
	Frame uint64
	// Effect error fields (valid for EventEffectError)
	Node     *EffectNode
	NodeName string
	Err      error
	// Screenshot fields (valid for EventScreenshot)
	Label string
	Path  string
}

// Scene is the top-level object that owns the node tree and drives updates
// and drawing through one Backend.
type Scene struct {
	root *Node
	b    Backend
	sink EventSink

	// ClearColor fills the destination at the start of Draw. A transparent
	// ClearColor leaves the destination untouched.
	ClearColor Color

	// OnEffectError is called once for each error an effect node reports.
	// The frame has already degraded to passthrough for that node.
	OnEffectError func(node *EffectNode, err error)

	// ScreenshotDir is where queued screenshots are written.
	ScreenshotDir string

	debug           bool
	frame           uint64
	stats           FrameStats
	rc              renderContext
	screenshotQueue []string
	script          *FrameScript
}

// NewScene creates a new scene with a pre-created root container.
func NewScene(b Backend) *Scene {
	if b == nil {
		panic("willowfx: nil backend")
	}
	return &Scene{
		root:          NewContainer("root"),
		b:             b,
		ScreenshotDir: "screenshots",
	}
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// Backend returns the backend the scene draws with.
func (s *Scene) Backend() Backend {
	return s.b
}

// NewEffectNode creates an effect node on the scene's backend. It is not
// attached; add its Node() wherever it belongs.
func (s *Scene) NewEffectNode(name string, w, h int) (*EffectNode, error) {
	return NewEffectNode(s.b, name, w, h)
}

// EffectNodes returns every effect node in the tree in traversal order.
func (s *Scene) EffectNodes() []*EffectNode {
	return findEffectNodes(s.root, nil)
}

// Update advances the scene by dt seconds: the frame script (if any) steps
// and every effect node's time-driven effects advance.
func (s *Scene) Update(dt float64) {
	if s.script != nil {
		s.script.step(s)
	}
	advanceEffects(s.root, dt)
}

// Draw traverses the scene tree and draws it into dst. Effect errors are
// reported through OnEffectError and the event sink; they never abort the
// frame.
func (s *Scene) Draw(dst Texture) {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
		debugCheckTree(s.root, 0, [2]int{})
	}
	if s.ClearColor.A > 0 {
		s.b.Fill(dst, s.ClearColor)
	}

	s.stats = FrameStats{}
	s.rc = renderContext{b: s.b, stats: &s.stats, onError: s.reportEffectError}
	s.rc.drawNode(s.root, dst, identityTransform, 1)
	s.rc.onError = nil

	if s.debug {
		s.stats.Duration = time.Since(t0)
		s.debugLog(s.stats)
	}
	s.flushScreenshots(dst)
	s.frame++
}

func (s *Scene) reportEffectError(en *EffectNode, err error) {
	if s.OnEffectError != nil {
		s.OnEffectError(en, err)
	}
	s.emit(EffectEvent{
		Type:     EventEffectError,
		Node:     en,
		NodeName: en.node.Name,
		Err:      err,
	})
}

func (s *Scene) emit(e EffectEvent) {
	if s.sink == nil {
		return
	}
	e.Frame = s.frame
	s.sink.EmitEvent(e)
}

// Stats returns the metrics of the last Draw.
func (s *Scene) Stats() FrameStats {
	return s.stats
}

// Frame returns the number of completed Draw calls.
func (s *Scene) Frame() uint64 {
	return s.frame
}

// SetEventSink sets the optional ECS bridge.
func (s *Scene) SetEventSink(sink EventSink) {
	s.sink = sink
}

// SetDebugMode enables or disables debug mode. When enabled, per-frame stats
// are logged at debug level and tree sanity warnings at warn level.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// Dispose disposes the whole tree, releasing every effect node's textures.
func (s *Scene) Dispose() {
	s.root.Dispose()
}
