// Package layout implements a hierarchical box-layout constraint engine.
//
// # Overview
//
// A layout is a tree of [Node] values. Each node has a local size, a pair of
// anchors and an offset:
//
//   - The anchors are per-axis fractions (0..1) of the parent's layout size.
//     They span the node's anchor area.
//   - The offset is the signed distance from the center of the anchor area
//     to the center of the node.
//   - The local size is the node's resolved extent, always non-negative and
//     clamped to the node's [LayoutInfo].
//
// Geometry is written with [Node.UpdateAnchorParam] (anchors plus edge
// offsets) or [Node.UpdateLocalSize] (direct size and offset). Both clamp,
// store the result and then fire change signals for what actually changed.
//
// # Behaviors
//
// A [Behavior] computes geometry for the node it is attached to. Behaviors
// run in descending priority order and declare the aspects they write with
// [OperationFlags]; a behavior whose aspects are also claimed by another
// behavior on the same node, or by a parent behavior writing into children,
// skips its update. Two behaviors are provided:
//
//   - [AspectFit] keeps a width/height ratio inside the parent or anchor area.
//   - [FollowParent] stretches the node over its parent.
//
// Behaviors only run when dirty. Attaching marks a behavior dirty, as does
// any change to its target's geometry, parent or LayoutInfo, or to the
// parent's layout size.
//
// # Driving a layout
//
// The engine has no scheduler. Call [Tick] once per update with the roots of
// the trees to resolve:
//
//	root := layout.NewNode("screen")
//	root.UpdateLocalSize(geom.V3(200, 100, 0), geom.Zero)
//
//	panel := layout.NewNode("panel")
//	_ = panel.SetParent(root)
//	panel.UpdateAnchorParam(geom.Zero, geom.V3(1, 1, 0), geom.Zero, geom.Zero)
//	panel.AddBehavior(layout.NewAspectFit(layout.ParentFit, 1))
//
//	layout.Tick(root)
//	fmt.Println(panel.LocalSize()) // (100, 100, 0)
//
// A second Tick without intervening changes does nothing.
//
// # Resizing
//
// When a node's layout size changes, each child keeps its literal box: the
// child's edge offsets are rebased onto the new anchor area, so its size and
// offset only change if its own clamps require it. Behaviors on the child are
// marked dirty and react on the next tick.
//
// Nodes and behaviors are not safe for concurrent use.
package layout
