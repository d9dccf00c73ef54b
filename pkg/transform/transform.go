// Package transform connects layout nodes to external transforms.
//
// A host engine positions its objects with its own transform type. The
// [Adapter] converts between that representation, described by [Rect], and a
// [layout.Node]: it seeds the node from the transform before a tick and
// writes the resolved geometry back after it.
//
// Rect places an object by the position of its pivot, while layout nodes
// track their center. The adapter applies the pivot correction both ways.
package transform

import (
	"github.com/matzehuels/boxlayout/pkg/geom"
	"github.com/matzehuels/boxlayout/pkg/layout"
)

// DefaultPivot is the center of the box.
var DefaultPivot = geom.V3(0.5, 0.5, 0.5)

// Rect is the geometry of an external transform.
type Rect struct {
	AnchorMin geom.Vec3 `json:"anchor_min"`
	AnchorMax geom.Vec3 `json:"anchor_max"`
	Size      geom.Vec3 `json:"size"`
	// LocalPos is the pivot position relative to the center of the parent.
	LocalPos geom.Vec3 `json:"local_pos"`
	// Pivot is the point of the box LocalPos refers to, as a fraction of
	// Size. (0.5, 0.5, 0.5) is the center.
	Pivot geom.Vec3 `json:"pivot"`
}

// Center returns the box center relative to the center of the parent.
func (r Rect) Center() geom.Vec3 {
	return r.LocalPos.Sub(r.pivotShift())
}

// pivotShift is the vector from the box center to its pivot.
func (r Rect) pivotShift() geom.Vec3 {
	return r.Pivot.Sub(DefaultPivot).Mul(r.Size)
}

// Geometry returns r, so *Rect is an in-memory Transform.
func (r *Rect) Geometry() Rect { return *r }

// SetGeometry replaces r.
func (r *Rect) SetGeometry(g Rect) { *r = g }

// Transform is the host side of the adapter.
type Transform interface {
	Geometry() Rect
	SetGeometry(Rect)
}

// Adapter synchronizes one Transform with one layout node.
type Adapter struct {
	Node      *layout.Node
	Transform Transform
}

// New returns an adapter for n and t.
func New(n *layout.Node, t Transform) *Adapter {
	return &Adapter{Node: n, Transform: t}
}

// LayoutInstance returns the adapted node.
func (a *Adapter) LayoutInstance() *layout.Node { return a.Node }

// CopyToLayoutTarget seeds the node from the transform. The node ends up
// with the transform's anchors, size and center, subject to its own
// LayoutInfo clamps.
func (a *Adapter) CopyToLayoutTarget() {
	r := a.Transform.Geometry()
	lo, hi := geom.MinMax(r.AnchorMin, r.AnchorMax)

	parent := a.Node.ParentLayoutSize()
	area := parent.Mul(hi.Sub(lo))
	anchorCenter := parent.Mul(lo.Add(hi).Scale(0.5).Sub(DefaultPivot))
	offset := r.Center().Sub(anchorCenter)

	half := r.Size.Sub(area).Scale(0.5)
	a.Node.UpdateAnchorParam(lo, hi, half.Sub(offset), half.Add(offset))
}

// CopyToTransform writes the node's resolved anchors, size and position
// back into the transform, keeping its pivot.
func (a *Adapter) CopyToTransform() {
	r := a.Transform.Geometry()
	r.AnchorMin = a.Node.AnchorMin()
	r.AnchorMax = a.Node.AnchorMax()
	r.Size = a.Node.LocalSize()
	r.LocalPos = a.Node.LocalPos().Add(r.pivotShift())
	a.Transform.SetGeometry(r)
}
