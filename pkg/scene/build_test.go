package scene

import (
	"fmt"
	"testing"

	"github.com/matzehuels/boxlayout/pkg/geom"
	"github.com/matzehuels/boxlayout/pkg/layout"
)

func mustBuild(t *testing.T, src string) *Tree {
	t.Helper()
	s, err := Decode([]byte(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	tree, err := s.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tree
}

const fitScene = `
[root]
id = "screen"
size = [200.0, 100.0, 0.0]

[[root.children]]
id = "panel"
anchor_max = [1.0, 1.0, 0.0]

[[root.children.behaviors]]
kind = "aspect_fit"
mode = "parent_fit"
aspect_ratio = %.1f
`

func TestBuildScenario(t *testing.T) {
	tests := []struct {
		ratio float64
		want  geom.Vec3
	}{
		{0.5, geom.V3(200, 100, 0)},
		{1.0, geom.V3(100, 100, 0)},
		{2.0, geom.V3(50, 100, 0)},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.ratio), func(t *testing.T) {
			tree := mustBuild(t, fmt.Sprintf(fitScene, tt.ratio))
			stats := tree.Step(nil)
			if stats.Ran != 1 || stats.Skipped != 0 {
				t.Errorf("stats = %+v, want 1 ran", stats)
			}

			r, ok := tree.Rect("panel")
			if !ok {
				t.Fatal("Rect(panel) not found")
			}
			if !r.Size.ApproxEqual(tt.want) {
				t.Errorf("panel size = %v, want %v", r.Size, tt.want)
			}
			if !r.LocalPos.ApproxEqual(geom.Zero) {
				t.Errorf("panel pos = %v, want centered", r.LocalPos)
			}
		})
	}
}

func TestTreeStepIdempotent(t *testing.T) {
	tree := mustBuild(t, hudScene)
	first := tree.Step(nil)
	if first.Nodes != 3 || first.Ran != 2 {
		t.Errorf("first Step() = %+v, want 3 nodes, 2 ran", first)
	}

	want := map[string]geom.Vec3{
		"screen": geom.V3(200, 100, 0),
		"panel":  geom.V3(192, 96, 0),
	}
	for id, size := range want {
		n, ok := tree.Node(id)
		if !ok {
			t.Fatalf("Node(%q) not found", id)
		}
		if !n.LocalSize().ApproxEqual(size) {
			t.Errorf("%s size = %v, want %v", id, n.LocalSize(), size)
		}
	}
	panel, _ := tree.Node("panel")
	leaf := panel.Children()[0]
	if !leaf.LocalSize().ApproxEqual(panel.LocalSize()) {
		t.Errorf("follower size = %v, want %v", leaf.LocalSize(), panel.LocalSize())
	}

	second := tree.Step(nil)
	if second.Ran != 0 {
		t.Errorf("second Step() ran %d behaviors, want 0", second.Ran)
	}
	if !panel.LocalSize().ApproxEqual(want["panel"]) {
		t.Errorf("panel drifted to %v", panel.LocalSize())
	}
}

func TestTreeResize(t *testing.T) {
	tree := mustBuild(t, fmt.Sprintf(fitScene, 0.5))
	tree.Step(nil)

	tree.Resize(geom.V3(100, 100, 0))
	tree.Step(nil)

	r, _ := tree.Rect("panel")
	if !r.Size.ApproxEqual(geom.V3(100, 50, 0)) {
		t.Errorf("panel size after resize = %v, want (100, 50, 0)", r.Size)
	}
	if root, _ := tree.Rect("screen"); root.Size != geom.V3(100, 100, 0) {
		t.Errorf("screen size = %v", root.Size)
	}

	tree.Resize(geom.V3(-5, 10, 0))
	if root, _ := tree.Rect("screen"); root.Size != geom.V3(0, 10, 0) {
		t.Errorf("Resize should clamp negatives, got %v", root.Size)
	}
}

func TestBuildLayoutInfo(t *testing.T) {
	tree := mustBuild(t, `
[root]
id = "screen"
size = [200.0, 100.0, 0.0]
layout_size = [-1.0, 50.0, -1.0]

[[root.children]]
id = "bar"
anchor_max = [1.0, 1.0, 0.0]
size = [500.0, 10.0, 0.0]
max_size = [120.0, -1.0, -1.0]
`)
	tree.Step(nil)

	screen, _ := tree.Node("screen")
	if got := screen.LayoutSize(); got != geom.V3(200, 50, 0) {
		t.Errorf("screen LayoutSize() = %v, want (200, 50, 0)", got)
	}
	bar, _ := tree.Node("bar")
	if got := bar.LocalSize(); !got.ApproxEqual(geom.V3(120, 10, 0)) {
		t.Errorf("bar size = %v, want clamped to (120, 10, 0)", got)
	}
}

func TestBuildPriorityOrder(t *testing.T) {
	tree := mustBuild(t, `
[root]
id = "screen"
size = [200.0, 100.0, 0.0]

[[root.children]]
id = "panel"

[[root.children.behaviors]]
kind = "aspect_fit"
mode = "anchor_fit"
aspect_ratio = 1.0
priority = 1

[[root.children.behaviors]]
kind = "aspect_fit"
mode = "parent_fit"
aspect_ratio = 1.0
priority = 5

[[root.children.behaviors]]
kind = "follow_parent"
priority = 3
`)
	panel, _ := tree.Node("panel")
	var got []string
	for _, b := range panel.Behaviors() {
		got = append(got, fmt.Sprintf("%s/%d", layout.KindOf(b), b.OperationPriority()))
	}
	want := fmt.Sprintf("[follow_parent/%d aspect_fit/5 aspect_fit/1]", layout.NewFollowParent().OperationPriority())
	if fmt.Sprint(got) != want {
		t.Errorf("behaviors = %v, want %v", got, want)
	}

	var skipped []string
	stats := tree.Step(func(n *layout.Node, b layout.Behavior) {
		skipped = append(skipped, n.ID()+":"+layout.KindOf(b))
	})
	if stats.Ran != 1 || stats.Skipped != 2 {
		t.Errorf("stats = %+v, want 1 ran, 2 skipped", stats)
	}
	if fmt.Sprint(skipped) != "[panel:aspect_fit panel:aspect_fit]" {
		t.Errorf("skipped = %v", skipped)
	}
	if !panel.LocalSize().ApproxEqual(geom.V3(200, 100, 0)) {
		t.Errorf("panel size = %v, want the parent size", panel.LocalSize())
	}
}

type marker struct {
	layout.BehaviorBase
	runs int
}

func (m *marker) Kind() string { return "test_marker" }

func (m *marker) OperationTargetFlags() layout.OperationFlags { return 0 }

func (m *marker) Validate() bool { return true }

func (m *marker) UpdateLayout() {
	if !m.IsDirty() {
		return
	}
	m.runs++
	m.ClearDirty()
}

func TestBuildCustomKind(t *testing.T) {
	var made []*marker
	Register("test_marker", func(BehaviorSpec) layout.Behavior {
		m := &marker{}
		made = append(made, m)
		return m
	})

	tree := mustBuild(t, `
[root]
id = "screen"
size = [10.0, 10.0, 0.0]

[[root.behaviors]]
kind = "test_marker"
priority = 7
`)
	if len(made) != 1 {
		t.Fatalf("factory called %d times, want 1", len(made))
	}
	if made[0].OperationPriority() != 7 {
		t.Errorf("priority = %d, want 7", made[0].OperationPriority())
	}
	tree.Step(nil)
	tree.Step(nil)
	if made[0].runs != 1 {
		t.Errorf("runs = %d, want 1", made[0].runs)
	}
	if tree.Len() != 1 || tree.Adapters()[0].Node != tree.LayoutInstance() {
		t.Error("single-node tree should expose its root")
	}
}

func TestBuildAssignsIDs(t *testing.T) {
	s := &Scene{Root: NodeSpec{Children: []NodeSpec{{}, {}}}}
	tree, err := s.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if tree.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", tree.Len())
	}
	for _, c := range s.Root.Children {
		if _, ok := tree.Node(c.ID); !ok || c.ID == "" {
			t.Errorf("child id %q not assigned or not found", c.ID)
		}
	}
}

func TestBuildRejectsInvalid(t *testing.T) {
	s := &Scene{Root: NodeSpec{ID: "a", Behaviors: []BehaviorSpec{{Kind: "nope"}}}}
	if _, err := s.Build(); err == nil {
		t.Error("Build() with an unknown kind should fail")
	}
}

func TestTreeDispose(t *testing.T) {
	tree := mustBuild(t, hudScene)
	nodes := []*layout.Node{}
	for _, a := range tree.Adapters() {
		nodes = append(nodes, a.Node)
	}
	tree.Dispose()
	for _, n := range nodes {
		if !n.IsDisposed() {
			t.Errorf("%s not disposed", n.ID())
		}
		if n.Parent() != nil || len(n.Children()) != 0 {
			t.Errorf("%s still linked after Dispose", n.ID())
		}
	}
}
