package layout

import (
	"math"
	"testing"

	"github.com/matzehuels/boxlayout/pkg/geom"
)

func TestFollowParentPriority(t *testing.T) {
	f := NewFollowParent()
	if f.OperationPriority() != math.MaxInt {
		t.Errorf("OperationPriority() = %d, want MaxInt", f.OperationPriority())
	}
	f.SetOperationPriority(3)
	if f.OperationPriority() != math.MaxInt {
		t.Errorf("SetOperationPriority changed priority to %d", f.OperationPriority())
	}

	n := NewNode("n")
	n.AddBehavior(newProbe("early", 100, 0))
	n.AddBehavior(f)
	if n.Behaviors()[0] != Behavior(f) {
		t.Errorf("FollowParent is not first: %v", names(n.Behaviors()))
	}
}

func TestFollowParentUpdate(t *testing.T) {
	p := sized("p", geom.V3(300, 150, 2))
	c := childOf(t, p, "c", geom.V3(0.2, 0.2, 0), geom.V3(0.4, 0.4, 0), geom.V3(5, 5, 0), geom.Zero)
	f := NewFollowParent()
	c.AddBehavior(f)

	if !f.Validate() {
		t.Fatal("Validate() = false")
	}
	f.UpdateLayout()

	if c.LocalSize() != geom.V3(300, 150, 2) {
		t.Errorf("LocalSize() = %v, want parent size", c.LocalSize())
	}
	if c.AnchorMin() != geom.Zero || c.AnchorMax() != geom.One || c.Offset() != geom.Zero {
		t.Errorf("anchors %v..%v offset %v, want stretch with no offset", c.AnchorMin(), c.AnchorMax(), c.Offset())
	}

	p.UpdateLocalSize(geom.V3(100, 100, 0), geom.Zero)
	if !f.IsDirty() {
		t.Fatal("parent resize should mark FollowParent dirty")
	}
	f.UpdateLayout()
	if c.LocalSize() != geom.V3(100, 100, 0) {
		t.Errorf("LocalSize() after resize = %v, want (100, 100, 0)", c.LocalSize())
	}
}

func TestFollowParentMustBeFirst(t *testing.T) {
	p := sized("p", geom.V3(10, 10, 0))
	c := NewNode("c")
	_ = c.SetParent(p)
	first, second := NewFollowParent(), NewFollowParent()
	c.AddBehavior(first)
	c.AddBehavior(second)

	if !first.Validate() {
		t.Error("first FollowParent should validate")
	}
	if second.Validate() {
		t.Error("second FollowParent should not validate")
	}
}

func TestFollowParentOrphan(t *testing.T) {
	n := sized("n", geom.V3(40, 30, 9))
	f := NewFollowParent()
	n.AddBehavior(f)
	f.UpdateLayout()

	if got := n.LocalSize(); got != geom.V3(0, 0, 9) {
		t.Errorf("LocalSize() = %v, want (0, 0, 9)", got)
	}
}

func TestFollowParentBlocksAspectFit(t *testing.T) {
	p := sized("p", geom.V3(200, 100, 0))
	c := NewNode("c")
	_ = c.SetParent(p)
	fit := NewAspectFit(ParentFit, 1)
	c.AddBehavior(fit)
	c.AddBehavior(NewFollowParent())

	c.UpdateBehaviors()

	if c.LocalSize() != geom.V3(200, 100, 0) {
		t.Errorf("LocalSize() = %v, want FollowParent result (200, 100, 0)", c.LocalSize())
	}
	if fit.Validate() {
		t.Error("AspectFit should conflict with FollowParent")
	}
}
