package layout

import (
	"testing"

	"github.com/matzehuels/boxlayout/pkg/geom"
)

func buildTree(t *testing.T) (root, a, b, leaf *Node) {
	t.Helper()
	root, a, b, leaf = NewNode("root"), NewNode("a"), NewNode("b"), NewNode("leaf")
	for _, link := range [][2]*Node{{a, root}, {b, root}, {leaf, a}} {
		if err := link[0].SetParent(link[1]); err != nil {
			t.Fatal(err)
		}
	}
	return root, a, b, leaf
}

func TestWalk(t *testing.T) {
	root, _, _, _ := buildTree(t)

	var got []string
	Walk(root, func(n *Node) bool {
		got = append(got, n.ID())
		return true
	})
	if want := []string{"root", "a", "b", "leaf"}; !equalStrings(got, want) {
		t.Errorf("Walk order = %v, want %v", got, want)
	}

	got = nil
	Walk(root, func(n *Node) bool {
		got = append(got, n.ID())
		return n.ID() != "a"
	})
	if want := []string{"root", "a", "b"}; !equalStrings(got, want) {
		t.Errorf("Walk with skip = %v, want %v", got, want)
	}

	Walk(nil, func(*Node) bool {
		t.Error("Walk(nil) visited a node")
		return true
	})
}

func TestTick(t *testing.T) {
	root := sized("root", geom.V3(400, 200, 0))
	panel := childOf(t, root, "panel", geom.Zero, geom.V3(1, 1, 0), geom.Zero, geom.Zero)
	panel.AddBehavior(NewAspectFit(ParentFit, 1))
	inner := NewNode("inner")
	_ = inner.SetParent(panel)
	inner.AddBehavior(NewFollowParent())

	stats := Tick(root)

	if stats != (TickStats{Nodes: 3, Ran: 2}) {
		t.Errorf("first Tick = %+v, want 3 nodes 2 ran", stats)
	}
	if panel.LocalSize() != geom.V3(200, 200, 0) {
		t.Errorf("panel = %v, want (200, 200, 0)", panel.LocalSize())
	}
	if inner.LocalSize() != geom.V3(200, 200, 0) {
		t.Errorf("inner = %v, want (200, 200, 0)", inner.LocalSize())
	}

	if stats := Tick(root); stats.Ran != 0 || stats.Skipped != 0 {
		t.Errorf("second Tick = %+v, want nothing to run", stats)
	}

	root.UpdateLocalSize(geom.V3(100, 300, 0), geom.Zero)
	Tick(root)
	if panel.LocalSize() != geom.V3(100, 100, 0) || inner.LocalSize() != geom.V3(100, 100, 0) {
		t.Errorf("after resize panel = %v inner = %v, want (100, 100, 0)", panel.LocalSize(), inner.LocalSize())
	}
}

func TestTickObserver(t *testing.T) {
	root := sized("root", geom.V3(100, 100, 0))
	c := childOf(t, root, "c", geom.Zero, geom.V3(1, 1, 0), geom.Zero, geom.Zero)
	c.AddBehavior(NewAspectFit(ParentFit, 1))
	c.AddBehavior(NewAspectFit(AnchorFit, 2))

	var skipped []string
	stats := TickWithObserver(func(n *Node, b Behavior) {
		skipped = append(skipped, n.ID()+":"+KindOf(b))
	}, root)

	if stats.Skipped != 2 || stats.Ran != 0 {
		t.Errorf("stats = %+v, want 2 skipped", stats)
	}
	if want := []string{"c:aspect_fit", "c:aspect_fit"}; !equalStrings(skipped, want) {
		t.Errorf("skipped = %v, want %v", skipped, want)
	}
}

func TestCollectBehaviors(t *testing.T) {
	root, a, b, leaf := buildTree(t)
	root.AddBehavior(newProbe("r", 0, 0))
	leaf.AddBehavior(newProbe("l", 0, 0))
	a.AddBehavior(newProbe("a-low", 1, 0))
	a.AddBehavior(newProbe("a-high", 9, 0))
	b.AddBehavior(NewFollowParent())

	got := names(CollectBehaviors(root))
	want := []string{"r", "a-high", "a-low", "follow_parent", "l"}
	if !equalStrings(got, want) {
		t.Errorf("CollectBehaviors() = %v, want %v", got, want)
	}
}

type host struct{ node *Node }

func (h host) LayoutInstance() *Node { return h.node }

func TestTickHostInstance(t *testing.T) {
	root := sized("root", geom.V3(50, 50, 0))
	c := NewNode("c")
	_ = c.SetParent(root)
	c.AddBehavior(NewFollowParent())

	Tick(host{root})
	if c.LocalSize() != geom.V3(50, 50, 0) {
		t.Errorf("LocalSize() = %v, want (50, 50, 0)", c.LocalSize())
	}
}
