package layout

import (
	"errors"
	"slices"

	"github.com/matzehuels/boxlayout/pkg/geom"
	"github.com/matzehuels/boxlayout/pkg/signal"
)

var (
	// ErrCycle is returned by [Node.SetParent] when the new parent is the
	// node itself or one of its descendants.
	ErrCycle = errors.New("layout: parent would create a cycle")

	// ErrDisposed is returned when attaching to or from a disposed node.
	ErrDisposed = errors.New("layout: node is disposed")
)

// Notification payloads.
type (
	// ParentChange carries the new and previous parent of a node.
	ParentChange = signal.Change[*Node]
	// Vec3Change carries the new and previous value of a vector field.
	Vec3Change = signal.Change[geom.Vec3]
	// InfoChange carries the new and previous LayoutInfo of a node.
	InfoChange = signal.Change[LayoutInfo]
)

// ChildrenChange describes a child joining or leaving a node.
type ChildrenChange struct {
	Child *Node
	Added bool
}

// AnchorChange carries the new and previous anchors of a node.
type AnchorChange struct {
	Min, Max         geom.Vec3
	PrevMin, PrevMax geom.Vec3
}

// Node is one box in the layout tree.
//
// A node stores its local size, its anchors inside the parent's layout area
// and the signed offset of its center from the center of that anchor area.
// All geometry writes go through the node's own methods, which clamp and
// normalize the values, write them, and only then fire change signals.
//
// Nodes are not safe for concurrent use.
type Node struct {
	id       string
	parent   *Node
	children []*Node

	// subscription on parent.layoutSizeChanged
	parentToken signal.Token

	localSize geom.Vec3
	anchorMin geom.Vec3
	anchorMax geom.Vec3
	offset    geom.Vec3
	info      LayoutInfo

	behaviors []Behavior
	disposed  bool

	parentChanged     signal.Signal[ParentChange]
	childrenChanged   signal.Signal[ChildrenChange]
	localSizeChanged  signal.Signal[Vec3Change]
	offsetChanged     signal.Signal[Vec3Change]
	anchorChanged     signal.Signal[AnchorChange]
	layoutInfoChanged signal.Signal[InfoChange]
	layoutSizeChanged signal.Signal[Vec3Change]
	disposedSig       signal.Signal[*Node]
}

// NewNode creates a standalone node with zero size, zero anchors and
// unconstrained LayoutInfo.
func NewNode(id string) *Node {
	return &Node{id: id, info: DefaultLayoutInfo()}
}

// ID returns the identifier the node was created with.
func (n *Node) ID() string { return n.id }

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// LocalSize returns the resolved size of the node.
func (n *Node) LocalSize() geom.Vec3 { return n.localSize }

// AnchorMin returns the lower anchor corner.
func (n *Node) AnchorMin() geom.Vec3 { return n.anchorMin }

// AnchorMax returns the upper anchor corner.
func (n *Node) AnchorMax() geom.Vec3 { return n.anchorMax }

// Offset returns the center of the node relative to the center of its
// anchor area.
func (n *Node) Offset() geom.Vec3 { return n.offset }

// LayoutInfo returns the node's size constraints.
func (n *Node) LayoutInfo() LayoutInfo { return n.info }

// IsDisposed reports whether Dispose has been called.
func (n *Node) IsDisposed() bool { return n.disposed }

// LayoutInstance returns n, so a bare Node satisfies [Instance].
func (n *Node) LayoutInstance() *Node { return n }

// LayoutSize returns the size children see: the LayoutSize override where
// set, the local size elsewhere.
func (n *Node) LayoutSize() geom.Vec3 { return n.info.ResolveLayoutSize(n.localSize) }

// ParentLayoutSize returns the parent's layout size, or zero for a root.
func (n *Node) ParentLayoutSize() geom.Vec3 {
	if n.parent == nil {
		return geom.Zero
	}
	return n.parent.LayoutSize()
}

// AnchorAreaSize returns the part of the parent's layout size spanned by the
// anchors.
func (n *Node) AnchorAreaSize() geom.Vec3 {
	return n.ParentLayoutSize().Mul(n.anchorMax.Sub(n.anchorMin))
}

// OffsetMin returns how far the node's lower edge extends beyond the lower
// edge of its anchor area.
func (n *Node) OffsetMin() geom.Vec3 {
	lo, _ := boxOffsets(n.localSize, n.offset, n.AnchorAreaSize())
	return lo
}

// OffsetMax returns how far the node's upper edge extends beyond the upper
// edge of its anchor area.
func (n *Node) OffsetMax() geom.Vec3 {
	_, hi := boxOffsets(n.localSize, n.offset, n.AnchorAreaSize())
	return hi
}

// LocalPos returns the node's center relative to the center of the parent's
// layout area. Y grows upward.
func (n *Node) LocalPos() geom.Vec3 {
	mid := n.anchorMin.Add(n.anchorMax).Scale(0.5).Sub(geom.V3(0.5, 0.5, 0.5))
	return n.ParentLayoutSize().Mul(mid).Add(n.offset)
}

// boxOffsets returns the edge offsets that reproduce size and offset inside
// an anchor area of the given size.
func boxOffsets(size, offset, area geom.Vec3) (lo, hi geom.Vec3) {
	half := size.Sub(area).Scale(0.5)
	return half.Sub(offset), half.Add(offset)
}

// OnParentChanged fires after SetParent with the new and previous parent.
func (n *Node) OnParentChanged() *signal.Signal[ParentChange] { return &n.parentChanged }

// OnChildrenChanged fires when a child is attached or detached.
func (n *Node) OnChildrenChanged() *signal.Signal[ChildrenChange] { return &n.childrenChanged }

// OnLocalSizeChanged fires when the local size changes.
func (n *Node) OnLocalSizeChanged() *signal.Signal[Vec3Change] { return &n.localSizeChanged }

// OnOffsetChanged fires when the offset changes.
func (n *Node) OnOffsetChanged() *signal.Signal[Vec3Change] { return &n.offsetChanged }

// OnAnchorChanged fires when either anchor changes.
func (n *Node) OnAnchorChanged() *signal.Signal[AnchorChange] { return &n.anchorChanged }

// OnLayoutInfoChanged fires when SetLayoutInfo installs different constraints.
func (n *Node) OnLayoutInfoChanged() *signal.Signal[InfoChange] { return &n.layoutInfoChanged }

// OnLayoutSizeChanged fires when the size seen by children changes. Children
// subscribe to it while attached.
func (n *Node) OnLayoutSizeChanged() *signal.Signal[Vec3Change] { return &n.layoutSizeChanged }

// OnDisposed fires once from Dispose.
func (n *Node) OnDisposed() *signal.Signal[*Node] { return &n.disposedSig }

// SetParent moves n under p. A nil p makes n a root. Setting the current
// parent again does nothing.
//
// The node is detached from its previous parent before it is attached to the
// new one. ChildrenChanged fires on both parents, then ParentChanged fires on
// n. The node keeps its literal box; behaviors attached to it are marked
// dirty and recompute on the next tick.
func (n *Node) SetParent(p *Node) error {
	if n.parent == p {
		return nil
	}
	if p != nil {
		if n.disposed || p.disposed {
			return ErrDisposed
		}
		for a := p; a != nil; a = a.parent {
			if a == n {
				return ErrCycle
			}
		}
	}

	prev := n.parent
	if prev != nil {
		prev.layoutSizeChanged.Disconnect(n.parentToken)
		n.parentToken = 0
		if i := slices.Index(prev.children, n); i >= 0 {
			prev.children = slices.Delete(prev.children, i, i+1)
		}
	}
	n.parent = p
	if p != nil {
		p.children = append(p.children, n)
		n.parentToken = p.layoutSizeChanged.Connect(n.onParentResized)
	}

	if prev != nil {
		prev.childrenChanged.Emit(ChildrenChange{Child: n})
	}
	if p != nil {
		p.childrenChanged.Emit(ChildrenChange{Child: n, Added: true})
	}
	n.parentChanged.Emit(ParentChange{Current: p, Previous: prev})
	return nil
}

// geometry is the observable state compared before and after a write.
type geometry struct {
	anchorMin, anchorMax geom.Vec3
	localSize, offset    geom.Vec3
	layoutSize           geom.Vec3
}

func (n *Node) geometry() geometry {
	return geometry{n.anchorMin, n.anchorMax, n.localSize, n.offset, n.LayoutSize()}
}

// write stores new values, keeping the old ones when they only differ by
// less than geom.Epsilon, and fires the signals for what changed.
func (n *Node) write(anchorMin, anchorMax, size, offset geom.Vec3) {
	prev := n.geometry()
	if !anchorMin.ApproxEqual(prev.anchorMin) || !anchorMax.ApproxEqual(prev.anchorMax) {
		n.anchorMin, n.anchorMax = anchorMin, anchorMax
	}
	if !size.ApproxEqual(prev.localSize) {
		n.localSize = size
	}
	if !offset.ApproxEqual(prev.offset) {
		n.offset = offset
	}
	n.notify(prev)
}

func (n *Node) notify(prev geometry) {
	if n.anchorMin != prev.anchorMin || n.anchorMax != prev.anchorMax {
		n.anchorChanged.Emit(AnchorChange{
			Min: n.anchorMin, Max: n.anchorMax,
			PrevMin: prev.anchorMin, PrevMax: prev.anchorMax,
		})
	}
	if n.localSize != prev.localSize {
		n.localSizeChanged.Emit(Vec3Change{Current: n.localSize, Previous: prev.localSize})
	}
	if n.offset != prev.offset {
		n.offsetChanged.Emit(Vec3Change{Current: n.offset, Previous: prev.offset})
	}
	if ls := n.LayoutSize(); !ls.ApproxEqual(prev.layoutSize) {
		n.layoutSizeChanged.Emit(Vec3Change{Current: ls, Previous: prev.layoutSize})
	}
}

// UpdateAnchorParam resolves the node's geometry from anchors and edge
// offsets.
//
// Anchors are normalized component-wise so that anchorMin <= anchorMax. The
// size is the anchor area plus both offsets, clamped to LayoutInfo. An axis
// that is still negative after clamping collapses to size 0 centered in the
// anchor area.
func (n *Node) UpdateAnchorParam(anchorMin, anchorMax, offsetMin, offsetMax geom.Vec3) {
	lo, hi := geom.MinMax(anchorMin, anchorMax)
	area := n.ParentLayoutSize().Mul(hi.Sub(lo))
	size := n.info.Clamp(area.Add(offsetMin).Add(offsetMax))
	for axis := 0; axis < 3; axis++ {
		if size.At(axis) >= 0 {
			continue
		}
		edge := -area.At(axis) / 2
		size = size.With(axis, 0)
		offsetMin = offsetMin.With(axis, edge)
		offsetMax = offsetMax.With(axis, edge)
	}
	n.write(lo, hi, size, offsetMax.Sub(offsetMin).Scale(0.5))
}

// UpdateLocalSize sets size and offset directly, keeping the anchors. The
// size is clamped to be non-negative and to LayoutInfo.
func (n *Node) UpdateLocalSize(size, offset geom.Vec3) {
	size = n.info.Clamp(geom.NonNegative(size))
	n.write(n.anchorMin, n.anchorMax, size, offset)
}

// SetLayoutInfo replaces the node's constraints. A change of the bounds
// re-clamps the current size; a change of the resolved layout size is
// propagated to the children.
func (n *Node) SetLayoutInfo(info LayoutInfo) {
	if info == n.info {
		return
	}
	prev := n.geometry()
	prevInfo := n.info
	n.info = info
	if !info.boundsEqual(prevInfo) {
		if size := info.Clamp(n.localSize); !size.ApproxEqual(n.localSize) {
			n.localSize = geom.NonNegative(size)
		}
	}
	n.layoutInfoChanged.Emit(InfoChange{Current: info, Previous: prevInfo})
	n.notify(prev)
}

// FollowParent stretches the node over the whole parent layout area: anchors
// span 0..1, offset is zero and the size equals the parent's layout size.
// A root collapses to zero.
func (n *Node) FollowParent() {
	size := n.info.Clamp(n.ParentLayoutSize())
	n.write(geom.Zero, geom.One, size, geom.Zero)
}

// onParentResized keeps the child's literal box when the parent's layout
// size changes. The edge offsets are derived against the previous anchor
// area and then rebased onto the new one.
func (n *Node) onParentResized(c Vec3Change) {
	extent := n.anchorMax.Sub(n.anchorMin)
	prevArea := c.Previous.Mul(extent)
	newArea := c.Current.Mul(extent)
	lo, hi := boxOffsets(n.localSize, n.offset, prevArea)
	shift := prevArea.Sub(newArea).Scale(0.5)
	n.UpdateAnchorParam(n.anchorMin, n.anchorMax, lo.Add(shift), hi.Add(shift))
}

// Dispose detaches the node from the tree and releases its behaviors.
//
// Children are detached first and survive as roots, each receiving one
// ParentChanged. Orphaned children keep their literal box until their own
// behaviors run: ParentChanged marks those behaviors dirty and the next
// update resets the axes they own. A child without behaviors keeps its size
// as a new root. Then the node leaves its own parent, every behavior is
// removed, Disposed fires once and all signals are cleared. Calling Dispose
// again does nothing.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.disposed = true

	for len(n.children) > 0 {
		_ = n.children[len(n.children)-1].SetParent(nil)
	}
	_ = n.SetParent(nil)
	for len(n.behaviors) > 0 {
		n.RemoveBehavior(n.behaviors[0])
	}

	n.disposedSig.Emit(n)

	n.parentChanged.Reset()
	n.childrenChanged.Reset()
	n.localSizeChanged.Reset()
	n.offsetChanged.Reset()
	n.anchorChanged.Reset()
	n.layoutInfoChanged.Reset()
	n.layoutSizeChanged.Reset()
	n.disposedSig.Reset()
}

// DisposeTree disposes n and every descendant, children first.
func (n *Node) DisposeTree() {
	for _, c := range n.Children() {
		c.DisposeTree()
	}
	n.Dispose()
}
