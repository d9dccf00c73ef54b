package graph

import (
	"time"

	"github.com/matzehuels/boxlayout/pkg/layout"
)

// =============================================================================
// Live Tree → Snapshot
// =============================================================================

// FromTree captures the current geometry of the tree under root. Nodes are
// recorded in walk order, so parents precede their children. World rects
// place the root with its bottom-left corner at the origin.
func FromTree(scene string, ticks int, root *layout.Node) Snapshot {
	snap := Snapshot{
		Scene:     scene,
		Ticks:     ticks,
		CreatedAt: time.Now().UTC(),
	}
	if root == nil {
		return snap
	}

	type frame struct {
		depth  int
		cx, cy float64 // world center
	}
	frames := map[*layout.Node]frame{}

	layout.Walk(root, func(n *layout.Node) bool {
		size := n.LocalSize()
		var f frame
		if p := n.Parent(); p != nil && n != root {
			pf := frames[p]
			pos := n.LocalPos()
			f = frame{depth: pf.depth + 1, cx: pf.cx + pos.X, cy: pf.cy + pos.Y}
		} else {
			f = frame{cx: size.X / 2, cy: size.Y / 2}
		}
		frames[n] = f

		snap.Nodes = append(snap.Nodes, nodeFromLayout(n, f.depth, Rect{
			X: f.cx - size.X/2,
			Y: f.cy - size.Y/2,
			W: size.X,
			H: size.Y,
		}))
		return true
	})
	return snap
}

// nodeFromLayout converts a layout node to its serialization form.
func nodeFromLayout(n *layout.Node, depth int, world Rect) Node {
	out := Node{
		ID:        n.ID(),
		Depth:     depth,
		AnchorMin: n.AnchorMin().Array(),
		AnchorMax: n.AnchorMax().Array(),
		OffsetMin: n.OffsetMin().Array(),
		OffsetMax: n.OffsetMax().Array(),
		Size:      n.LocalSize().Array(),
		Offset:    n.Offset().Array(),
		LocalPos:  n.LocalPos().Array(),
		World:     world,
	}
	if p := n.Parent(); p != nil && depth > 0 {
		out.Parent = p.ID()
	}
	for _, b := range n.Behaviors() {
		out.Behaviors = append(out.Behaviors, layout.KindOf(b))
	}
	return out
}
