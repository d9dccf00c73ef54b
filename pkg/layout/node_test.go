package layout

import (
	"errors"
	"testing"

	"github.com/matzehuels/boxlayout/pkg/geom"
)

// sized returns a root node with the given local size.
func sized(id string, size geom.Vec3) *Node {
	n := NewNode(id)
	n.UpdateLocalSize(size, geom.Zero)
	return n
}

// childOf attaches a new node to p with the given anchors and edge offsets.
func childOf(t *testing.T, p *Node, id string, aMin, aMax, oMin, oMax geom.Vec3) *Node {
	t.Helper()
	c := NewNode(id)
	if err := c.SetParent(p); err != nil {
		t.Fatalf("SetParent: %v", err)
	}
	c.UpdateAnchorParam(aMin, aMax, oMin, oMax)
	return c
}

func TestNewNode(t *testing.T) {
	n := NewNode("a")
	if n.ID() != "a" {
		t.Errorf("ID() = %q, want a", n.ID())
	}
	if n.Parent() != nil || len(n.Children()) != 0 {
		t.Error("new node should be a childless root")
	}
	if n.LocalSize() != geom.Zero {
		t.Errorf("LocalSize() = %v, want zero", n.LocalSize())
	}
	if n.LayoutInfo() != DefaultLayoutInfo() {
		t.Errorf("LayoutInfo() = %+v, want unset", n.LayoutInfo())
	}
}

func TestSetParent(t *testing.T) {
	a, b, c := NewNode("a"), NewNode("b"), NewNode("c")

	var parentEvents []ParentChange
	c.OnParentChanged().Connect(func(ch ParentChange) { parentEvents = append(parentEvents, ch) })
	var aEvents, bEvents []ChildrenChange
	a.OnChildrenChanged().Connect(func(ch ChildrenChange) { aEvents = append(aEvents, ch) })
	b.OnChildrenChanged().Connect(func(ch ChildrenChange) { bEvents = append(bEvents, ch) })

	if err := c.SetParent(a); err != nil {
		t.Fatal(err)
	}
	if err := c.SetParent(a); err != nil {
		t.Fatal(err)
	}
	if err := c.SetParent(b); err != nil {
		t.Fatal(err)
	}

	if c.Parent() != b {
		t.Errorf("Parent() = %v, want b", c.Parent())
	}
	if len(a.Children()) != 0 {
		t.Errorf("a.Children() = %d, want 0", len(a.Children()))
	}
	if kids := b.Children(); len(kids) != 1 || kids[0] != c {
		t.Errorf("b.Children() = %v, want [c]", kids)
	}
	if len(parentEvents) != 2 {
		t.Fatalf("ParentChanged fired %d times, want 2", len(parentEvents))
	}
	if parentEvents[1].Current != b || parentEvents[1].Previous != a {
		t.Errorf("second ParentChanged = %+v, want a -> b", parentEvents[1])
	}
	if len(aEvents) != 2 || !aEvents[0].Added || aEvents[1].Added {
		t.Errorf("a ChildrenChanged = %+v, want added then removed", aEvents)
	}
	if len(bEvents) != 1 || !bEvents[0].Added || bEvents[0].Child != c {
		t.Errorf("b ChildrenChanged = %+v, want one add of c", bEvents)
	}
}

func TestSetParentSubscription(t *testing.T) {
	p, c := NewNode("p"), NewNode("c")
	if err := c.SetParent(p); err != nil {
		t.Fatal(err)
	}
	if got := p.OnLayoutSizeChanged().Len(); got != 1 {
		t.Errorf("listeners after attach = %d, want 1", got)
	}
	if err := c.SetParent(nil); err != nil {
		t.Fatal(err)
	}
	if got := p.OnLayoutSizeChanged().Len(); got != 0 {
		t.Errorf("listeners after detach = %d, want 0", got)
	}
}

func TestSetParentCycle(t *testing.T) {
	root, mid, leaf := NewNode("root"), NewNode("mid"), NewNode("leaf")
	_ = mid.SetParent(root)
	_ = leaf.SetParent(mid)

	tests := map[string]struct {
		node, parent *Node
	}{
		"self":       {root, root},
		"child":      {root, mid},
		"grandchild": {root, leaf},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if err := tt.node.SetParent(tt.parent); !errors.Is(err, ErrCycle) {
				t.Errorf("SetParent() = %v, want ErrCycle", err)
			}
		})
	}
	if root.Parent() != nil || mid.Parent() != root || leaf.Parent() != mid {
		t.Error("rejected SetParent must not change the tree")
	}
}

func TestSetParentDisposed(t *testing.T) {
	p, c := NewNode("p"), NewNode("c")
	p.Dispose()
	if err := c.SetParent(p); !errors.Is(err, ErrDisposed) {
		t.Errorf("SetParent(disposed) = %v, want ErrDisposed", err)
	}
}

func TestUpdateAnchorParamNormalizes(t *testing.T) {
	p := sized("p", geom.V3(100, 100, 0))
	tests := []struct {
		name       string
		aMin, aMax geom.Vec3
		wantMin    geom.Vec3
		wantMax    geom.Vec3
	}{
		{"ordered", geom.V3(0, 0.25, 0), geom.V3(1, 0.75, 0), geom.V3(0, 0.25, 0), geom.V3(1, 0.75, 0)},
		{"swapped", geom.V3(1, 0.75, 0), geom.V3(0, 0.25, 0), geom.V3(0, 0.25, 0), geom.V3(1, 0.75, 0)},
		{"mixed", geom.V3(0.8, 0.1, 1), geom.V3(0.2, 0.9, 0), geom.V3(0.2, 0.1, 0), geom.V3(0.8, 0.9, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := childOf(t, p, tt.name, tt.aMin, tt.aMax, geom.Zero, geom.Zero)
			if c.AnchorMin() != tt.wantMin || c.AnchorMax() != tt.wantMax {
				t.Errorf("anchors = %v..%v, want %v..%v", c.AnchorMin(), c.AnchorMax(), tt.wantMin, tt.wantMax)
			}
			for axis := 0; axis < 3; axis++ {
				if c.AnchorMin().At(axis) > c.AnchorMax().At(axis) {
					t.Errorf("axis %d not normalized", axis)
				}
			}
		})
	}
}

func TestUpdateAnchorParam(t *testing.T) {
	p := sized("p", geom.V3(200, 100, 0))
	quarter, threeQuarter := geom.V3(0.25, 0.25, 0), geom.V3(0.75, 0.75, 0)

	tests := []struct {
		name       string
		oMin, oMax geom.Vec3
		wantSize   geom.Vec3
		wantOffset geom.Vec3
	}{
		{"anchor area only", geom.Zero, geom.Zero, geom.V3(100, 50, 0), geom.Zero},
		{"symmetric grow", geom.V3(10, 0, 0), geom.V3(10, 0, 0), geom.V3(120, 50, 0), geom.Zero},
		{"upper grow", geom.Zero, geom.V3(20, 10, 0), geom.V3(120, 60, 0), geom.V3(10, 5, 0)},
		{"shrink", geom.V3(-10, -5, 0), geom.V3(-10, -5, 0), geom.V3(80, 40, 0), geom.Zero},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := childOf(t, p, tt.name, quarter, threeQuarter, tt.oMin, tt.oMax)
			if !c.LocalSize().ApproxEqual(tt.wantSize) {
				t.Errorf("LocalSize() = %v, want %v", c.LocalSize(), tt.wantSize)
			}
			if !c.Offset().ApproxEqual(tt.wantOffset) {
				t.Errorf("Offset() = %v, want %v", c.Offset(), tt.wantOffset)
			}
			if !c.OffsetMin().ApproxEqual(tt.oMin) || !c.OffsetMax().ApproxEqual(tt.oMax) {
				t.Errorf("offsets = %v/%v, want %v/%v", c.OffsetMin(), c.OffsetMax(), tt.oMin, tt.oMax)
			}
			if !c.LocalPos().ApproxEqual(tt.wantOffset) {
				t.Errorf("LocalPos() = %v, want %v (centered anchors)", c.LocalPos(), tt.wantOffset)
			}
		})
	}
}

func TestLocalPos(t *testing.T) {
	p := sized("p", geom.V3(200, 100, 0))
	c := childOf(t, p, "c", geom.Zero, geom.V3(0.5, 0.5, 0), geom.Zero, geom.V3(10, 0, 0))
	// anchor area centered at (-50, -25) relative to the parent, node shifted by 5
	want := geom.V3(-45, -25, 0)
	if !c.LocalPos().ApproxEqual(want) {
		t.Errorf("LocalPos() = %v, want %v", c.LocalPos(), want)
	}
}

func TestUpdateAnchorParamCollapse(t *testing.T) {
	p := sized("p", geom.V3(100, 100, 0))
	c := childOf(t, p, "c", geom.Zero, geom.V3(1, 1, 0), geom.V3(-100, 0, 0), geom.V3(-10, 0, 0))

	if got := c.LocalSize(); got != geom.V3(0, 100, 0) {
		t.Errorf("LocalSize() = %v, want (0, 100, 0)", got)
	}
	if got := c.Offset(); got.X != 0 {
		t.Errorf("Offset().X = %v, want 0 for a collapsed axis", got.X)
	}
}

func TestSizeClamping(t *testing.T) {
	p := sized("p", geom.V3(100, 100, 0))
	c := NewNode("c")
	_ = c.SetParent(p)
	c.SetLayoutInfo(LayoutInfo{
		MinSize:    geom.V3(50, geom.Unset, geom.Unset),
		MaxSize:    geom.V3(geom.Unset, 30, geom.Unset),
		LayoutSize: geom.Unset3,
	})

	c.UpdateAnchorParam(geom.Zero, geom.V3(1, 1, 0), geom.Zero, geom.Zero)
	if got := c.LocalSize(); got != geom.V3(100, 30, 0) {
		t.Errorf("anchored LocalSize() = %v, want (100, 30, 0)", got)
	}

	c.UpdateLocalSize(geom.V3(10, -5, -1), geom.Zero)
	if got := c.LocalSize(); got != geom.V3(50, 0, 0) {
		t.Errorf("direct LocalSize() = %v, want (50, 0, 0)", got)
	}
}

func TestChangeSuppression(t *testing.T) {
	n := NewNode("n")
	sizes, offsets := 0, 0
	n.OnLocalSizeChanged().Connect(func(Vec3Change) { sizes++ })
	n.OnOffsetChanged().Connect(func(Vec3Change) { offsets++ })

	n.UpdateLocalSize(geom.V3(10, 10, 0), geom.V3(1, 0, 0))
	n.UpdateLocalSize(geom.V3(10, 10, 0), geom.V3(1, 0, 0))
	n.UpdateLocalSize(geom.V3(10+geom.Epsilon/10, 10, 0), geom.V3(1, 0, 0))

	if sizes != 1 {
		t.Errorf("LocalSizeChanged fired %d times, want 1", sizes)
	}
	if offsets != 1 {
		t.Errorf("OffsetChanged fired %d times, want 1", offsets)
	}
	if n.LocalSize() != geom.V3(10, 10, 0) {
		t.Errorf("LocalSize() = %v, sub-epsilon change should keep the old value", n.LocalSize())
	}
}

func TestStateWrittenBeforeNotify(t *testing.T) {
	n := NewNode("n")
	var seen geom.Vec3
	n.OnLocalSizeChanged().Connect(func(Vec3Change) { seen = n.LocalSize() })
	n.UpdateLocalSize(geom.V3(3, 4, 0), geom.Zero)
	if seen != geom.V3(3, 4, 0) {
		t.Errorf("listener saw %v, want the new size", seen)
	}
}

func TestSetLayoutInfo(t *testing.T) {
	n := sized("n", geom.V3(100, 100, 0))
	infoEvents, layoutEvents := 0, 0
	n.OnLayoutInfoChanged().Connect(func(InfoChange) { infoEvents++ })
	n.OnLayoutSizeChanged().Connect(func(Vec3Change) { layoutEvents++ })

	info := DefaultLayoutInfo()
	info.MaxSize = geom.V3(50, geom.Unset, geom.Unset)
	n.SetLayoutInfo(info)
	n.SetLayoutInfo(info)

	if got := n.LocalSize(); got != geom.V3(50, 100, 0) {
		t.Errorf("LocalSize() = %v, want reclamped (50, 100, 0)", got)
	}
	if infoEvents != 1 {
		t.Errorf("LayoutInfoChanged fired %d times, want 1", infoEvents)
	}
	if layoutEvents != 1 {
		t.Errorf("LayoutSizeChanged fired %d times, want 1", layoutEvents)
	}

	info.LayoutSize = geom.V3(10, geom.Unset, geom.Unset)
	n.SetLayoutInfo(info)
	if got := n.LayoutSize(); got != geom.V3(10, 100, 0) {
		t.Errorf("LayoutSize() = %v, want (10, 100, 0)", got)
	}
	if n.LocalSize() != geom.V3(50, 100, 0) {
		t.Errorf("LayoutSize override must not change LocalSize(), got %v", n.LocalSize())
	}
}

func TestResizePreservesChildBox(t *testing.T) {
	p := NewNode("p")
	info := DefaultLayoutInfo()
	info.LayoutSize = geom.V3(200, 100, 0)
	p.SetLayoutInfo(info)

	c := childOf(t, p, "c", geom.V3(0.25, 0.25, 0), geom.V3(0.75, 0.75, 0), geom.V3(5, 0, 0), geom.V3(15, 10, 0))
	size, offset := c.LocalSize(), c.Offset()
	if size != geom.V3(120, 60, 0) {
		t.Fatalf("initial LocalSize() = %v, want (120, 60, 0)", size)
	}

	changes := 0
	c.OnLocalSizeChanged().Connect(func(Vec3Change) { changes++ })
	c.OnOffsetChanged().Connect(func(Vec3Change) { changes++ })

	for _, l := range []geom.Vec3{geom.V3(400, 300, 0), geom.V3(90, 40, 0), geom.V3(200, 100, 0)} {
		info.LayoutSize = l
		p.SetLayoutInfo(info)
		if !c.LocalSize().ApproxEqual(size) {
			t.Errorf("layout %v: LocalSize() = %v, want %v", l, c.LocalSize(), size)
		}
		if !c.Offset().ApproxEqual(offset) {
			t.Errorf("layout %v: Offset() = %v, want %v", l, c.Offset(), offset)
		}
	}
	if changes != 0 {
		t.Errorf("child fired %d geometry changes, want 0", changes)
	}
}

func TestResizeRespectsChildClamps(t *testing.T) {
	p := sized("p", geom.V3(100, 100, 0))
	c := NewNode("c")
	_ = c.SetParent(p)
	c.UpdateAnchorParam(geom.Zero, geom.V3(1, 1, 0), geom.Zero, geom.Zero)

	info := DefaultLayoutInfo()
	info.MaxSize = geom.V3(60, geom.Unset, geom.Unset)
	c.SetLayoutInfo(info)
	if got := c.LocalSize(); got != geom.V3(60, 100, 0) {
		t.Errorf("LocalSize() = %v, want (60, 100, 0)", got)
	}

	p.UpdateLocalSize(geom.V3(300, 300, 0), geom.Zero)
	if got := c.LocalSize(); got != geom.V3(60, 100, 0) {
		t.Errorf("LocalSize() after parent resize = %v, want (60, 100, 0)", got)
	}
}

func TestFollowParentOperation(t *testing.T) {
	p := sized("p", geom.V3(300, 200, 5))
	c := childOf(t, p, "c", geom.V3(0.1, 0.1, 0), geom.V3(0.2, 0.2, 0), geom.V3(3, 3, 0), geom.Zero)

	c.FollowParent()

	if c.AnchorMin() != geom.Zero || c.AnchorMax() != geom.One {
		t.Errorf("anchors = %v..%v, want 0..1", c.AnchorMin(), c.AnchorMax())
	}
	if c.LocalSize() != geom.V3(300, 200, 5) {
		t.Errorf("LocalSize() = %v, want parent size", c.LocalSize())
	}
	if c.Offset() != geom.Zero || !c.LocalPos().ApproxEqual(geom.Zero) {
		t.Errorf("Offset() = %v LocalPos() = %v, want zero", c.Offset(), c.LocalPos())
	}

	orphan := sized("o", geom.V3(10, 10, 10))
	orphan.FollowParent()
	if orphan.LocalSize() != geom.Zero {
		t.Errorf("orphan LocalSize() = %v, want zero", orphan.LocalSize())
	}
}

func TestDisposeCascade(t *testing.T) {
	p := NewNode("p")
	const n = 3
	parentEvents := make([]int, n)
	disposedEvents := make([]int, n)
	children := make([]*Node, n)
	for i := range children {
		children[i] = NewNode("c")
		_ = children[i].SetParent(p)
		children[i].OnParentChanged().Connect(func(ParentChange) { parentEvents[i]++ })
		children[i].OnDisposed().Connect(func(*Node) { disposedEvents[i]++ })
	}
	pDisposed := 0
	p.OnDisposed().Connect(func(*Node) { pDisposed++ })
	sizeListeners := -1
	p.OnDisposed().Connect(func(*Node) { sizeListeners = p.OnLayoutSizeChanged().Len() })

	p.Dispose()
	p.Dispose()

	for i, c := range children {
		if c.Parent() != nil {
			t.Errorf("child %d Parent() = %v, want nil", i, c.Parent())
		}
		if parentEvents[i] != 1 {
			t.Errorf("child %d ParentChanged fired %d times, want 1", i, parentEvents[i])
		}
		if disposedEvents[i] != 0 || c.IsDisposed() {
			t.Errorf("child %d was disposed by Dispose; only DisposeTree should do that", i)
		}
	}
	if len(p.Children()) != 0 {
		t.Errorf("p.Children() = %d, want 0", len(p.Children()))
	}
	if pDisposed != 1 {
		t.Errorf("Disposed fired %d times, want 1", pDisposed)
	}
	if sizeListeners != 0 {
		t.Errorf("p had %d layout size listeners at dispose, want 0", sizeListeners)
	}
	if !p.IsDisposed() {
		t.Error("IsDisposed() = false")
	}
}

func TestDisposeTree(t *testing.T) {
	root := NewNode("root")
	a, b := NewNode("a"), NewNode("b")
	leaf := NewNode("leaf")
	_ = a.SetParent(root)
	_ = b.SetParent(root)
	_ = leaf.SetParent(a)

	counts := map[string]int{}
	for _, n := range []*Node{root, a, b, leaf} {
		n.OnDisposed().Connect(func(d *Node) { counts[d.ID()]++ })
	}

	root.DisposeTree()

	for _, id := range []string{"root", "a", "b", "leaf"} {
		if counts[id] != 1 {
			t.Errorf("Disposed(%s) fired %d times, want 1", id, counts[id])
		}
	}
}

func TestDisposeRemovesBehaviors(t *testing.T) {
	p := sized("p", geom.V3(10, 10, 0))
	c := NewNode("c")
	_ = c.SetParent(p)
	fit := NewAspectFit(ParentFit, 1)
	c.AddBehavior(fit)

	c.Dispose()

	if fit.Target() != nil {
		t.Error("behavior still attached after Dispose")
	}
	if len(c.Behaviors()) != 0 {
		t.Errorf("Behaviors() = %d, want 0", len(c.Behaviors()))
	}
	if got := p.OnLayoutSizeChanged().Len(); got != 0 {
		t.Errorf("parent still has %d layout size listeners", got)
	}
}

func TestDisposeOrphanSizes(t *testing.T) {
	p := sized("p", geom.V3(200, 100, 0))
	fitted := childOf(t, p, "fitted", geom.Zero, geom.One, geom.Zero, geom.Zero)
	fit := NewAspectFit(ParentFit, 1)
	fitted.AddBehavior(fit)
	fit.UpdateLayout()
	plain := childOf(t, p, "plain", geom.Zero, geom.One, geom.V3(10, 10, 0), geom.V3(-10, -10, 0))
	plainSize := plain.LocalSize()

	p.Dispose()

	if !fit.IsDirty() {
		t.Fatal("orphaned child's behavior not marked dirty")
	}
	fit.UpdateLayout()
	if got := fitted.LocalSize(); got.X != 0 || got.Y != 0 {
		t.Errorf("fitted LocalSize() = %v, want planar reset", got)
	}
	if got := plain.LocalSize(); got != plainSize {
		t.Errorf("plain LocalSize() = %v, want %v kept", got, plainSize)
	}
}
