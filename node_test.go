package willowfx

import "testing"

func assertNodeDefaults(t *testing.T, n *Node, name string, typ NodeType) {
	t.Helper()
	if n.Name != name {
		t.Errorf("Name = %q, want %q", n.Name, name)
	}
	if n.Type != typ {
		t.Errorf("Type = %v, want %v", n.Type, typ)
	}
	if n.ID == 0 {
		t.Error("ID should be non-zero")
	}
	if n.ScaleX != 1 || n.ScaleY != 1 {
		t.Errorf("Scale = (%v, %v), want (1, 1)", n.ScaleX, n.ScaleY)
	}
	if n.Alpha != 1 {
		t.Errorf("Alpha = %v, want 1", n.Alpha)
	}
	if !n.Visible || !n.Renderable {
		t.Error("nodes should start visible and renderable")
	}
}

func TestNodeConstructors(t *testing.T) {
	b := NewSoftwareBackend(nil)
	tex := newScreen(t, b, 7, 3)

	tests := []struct {
		name string
		n    *Node
		typ  NodeType
		w, h float64
	}{
		{"container", NewContainer("container"), NodeTypeContainer, 0, 0},
		{"sprite", NewSprite("sprite", tex), NodeTypeSprite, 7, 3},
		{"rect", NewRect("rect", 4, 5, gray(0.5)), NodeTypeSprite, 4, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertNodeDefaults(t, tt.n, tt.name, tt.typ)
			assertNear(t, "Width", tt.n.Width, tt.w)
			assertNear(t, "Height", tt.n.Height, tt.h)
		})
	}
}

func TestNodeIDsUnique(t *testing.T) {
	a, b := NewContainer("a"), NewContainer("b")
	if a.ID == b.ID {
		t.Errorf("IDs should differ, both %d", a.ID)
	}
}

func TestAddChildSetsParent(t *testing.T) {
	parent := NewContainer("parent")
	child := NewContainer("child")
	parent.AddChild(child)
	if child.Parent != parent {
		t.Error("child.Parent not set")
	}
	if parent.NumChildren() != 1 || parent.ChildAt(0) != child {
		t.Error("child not in parent's children")
	}
}

func TestAddChildReparents(t *testing.T) {
	a, b := NewContainer("a"), NewContainer("b")
	child := NewContainer("child")
	a.AddChild(child)
	b.AddChild(child)
	if a.NumChildren() != 0 {
		t.Errorf("old parent still has %d children", a.NumChildren())
	}
	if child.Parent != b {
		t.Error("child not reparented")
	}
}

func TestAddChildSameParentMovesToEnd(t *testing.T) {
	p := NewContainer("p")
	a, b := NewContainer("a"), NewContainer("b")
	p.AddChild(a)
	p.AddChild(b)
	p.AddChild(a)
	if p.NumChildren() != 2 || p.ChildAt(0) != b || p.ChildAt(1) != a {
		t.Errorf("children = %q, %q", p.ChildAt(0).Name, p.ChildAt(1).Name)
	}
}

func TestAddChildAtInsertsInOrder(t *testing.T) {
	p := NewContainer("p")
	a, b, c := NewContainer("a"), NewContainer("b"), NewContainer("c")
	p.AddChild(a)
	p.AddChild(c)
	p.AddChildAt(b, 1)
	for i, want := range []*Node{a, b, c} {
		if p.ChildAt(i) != want {
			t.Errorf("child %d = %q, want %q", i, p.ChildAt(i).Name, want.Name)
		}
	}
}

func TestAddChildPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"nil child", func() { NewContainer("p").AddChild(nil) }},
		{"self", func() {
			n := NewContainer("n")
			n.AddChild(n)
		}},
		{"cycle", func() {
			a, b := NewContainer("a"), NewContainer("b")
			a.AddChild(b)
			b.AddChild(a)
		}},
		{"index out of range", func() { NewContainer("p").AddChildAt(NewContainer("c"), 1) }},
		{"remove foreign child", func() { NewContainer("p").RemoveChild(NewContainer("c")) }},
		{"disposed child", func() {
			c := NewContainer("c")
			c.Dispose()
			NewContainer("p").AddChild(c)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestRemoveChildAt(t *testing.T) {
	p := NewContainer("p")
	a, b := NewContainer("a"), NewContainer("b")
	p.AddChild(a)
	p.AddChild(b)
	got := p.RemoveChildAt(0)
	if got != a || a.Parent != nil {
		t.Error("RemoveChildAt should return and detach the child")
	}
	if p.NumChildren() != 1 || p.ChildAt(0) != b {
		t.Error("remaining children wrong")
	}
}

func TestRemoveChildrenAndFromParent(t *testing.T) {
	p := NewContainer("p")
	a, b := NewContainer("a"), NewContainer("b")
	p.AddChild(a)
	p.AddChild(b)

	a.RemoveFromParent()
	if a.Parent != nil || p.NumChildren() != 1 {
		t.Error("RemoveFromParent failed")
	}
	a.RemoveFromParent() // no-op without parent

	p.RemoveChildren()
	if p.NumChildren() != 0 || b.Parent != nil {
		t.Error("RemoveChildren failed")
	}
	if b.IsDisposed() {
		t.Error("RemoveChildren must not dispose")
	}
}

func TestSortedRenderChildrenStableByZIndex(t *testing.T) {
	p := NewContainer("p")
	names := []string{"a", "b", "c", "d"}
	z := []int{1, 0, 1, -1}
	for i, name := range names {
		n := NewContainer(name)
		n.ZIndex = z[i]
		p.AddChild(n)
	}
	got := p.sortedRenderChildren()
	want := []string{"d", "b", "a", "c"}
	for i, n := range got {
		if n.Name != want[i] {
			t.Fatalf("order[%d] = %q, want %q", i, n.Name, want[i])
		}
	}

	p.ChildAt(3).SetZIndex(5) // d moves to the end
	got = p.sortedRenderChildren()
	if got[len(got)-1].Name != "d" {
		t.Errorf("after SetZIndex, last = %q, want d", got[len(got)-1].Name)
	}
}

func TestDisposeRecursive(t *testing.T) {
	root := NewContainer("root")
	p := NewContainer("p")
	c := NewContainer("c")
	root.AddChild(p)
	p.AddChild(c)

	p.Dispose()
	if !p.IsDisposed() || !c.IsDisposed() {
		t.Error("Dispose should be recursive")
	}
	if root.NumChildren() != 0 {
		t.Error("disposed node should be detached")
	}
	p.Dispose() // idempotent
}

func TestDisposeReleasesEffectNode(t *testing.T) {
	b := NewSoftwareBackend(nil)
	root := NewContainer("root")
	en := newTestEffectNode(t, b, "fx", 8, 8)
	en.SetEffect(NewGlow(2, 1))
	en.AddChild(NewRect("r", 8, 8, ColorWhite))
	root.AddChild(en.Node())

	screen := newScreen(t, b, 8, 8)
	rc := renderContext{b: b}
	rc.drawNode(root, screen, identityTransform, 1)
	if b.Live() <= 2 {
		t.Fatalf("expected pooled textures to be live, Live() = %d", b.Live())
	}

	root.Dispose()
	if !en.IsDisposed() {
		t.Error("disposing an ancestor should dispose the effect node")
	}
	if b.Live() != 1 {
		t.Errorf("Live() = %d after dispose, want 1 (the screen)", b.Live())
	}
}

func TestNodeTypeString(t *testing.T) {
	tests := []struct {
		typ  NodeType
		want string
	}{
		{NodeTypeContainer, "container"},
		{NodeTypeSprite, "sprite"},
		{NodeTypeEffect, "effect"},
		{NodeType(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("NodeType(%d).String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}
