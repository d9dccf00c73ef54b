package layout

import "github.com/matzehuels/boxlayout/pkg/geom"

// LayoutInfo holds the per-node size constraints.
//
// Every component of every field may be [geom.Unset] (-1) to leave that axis
// unconstrained. The zero value is NOT unconstrained - it pins the size to
// zero - so use [DefaultLayoutInfo] as the starting point.
type LayoutInfo struct {
	// MinSize is the lower bound for the node's local size.
	MinSize geom.Vec3
	// MaxSize is the upper bound for the node's local size.
	MaxSize geom.Vec3
	// LayoutSize overrides the size that children see as their parent's
	// area. Unset components fall back to the node's actual local size.
	LayoutSize geom.Vec3
}

// DefaultLayoutInfo returns a LayoutInfo with every component unset.
func DefaultLayoutInfo() LayoutInfo {
	return LayoutInfo{MinSize: geom.Unset3, MaxSize: geom.Unset3, LayoutSize: geom.Unset3}
}

// Clamp restricts size to [MinSize, MaxSize], passing unset components through.
func (i LayoutInfo) Clamp(size geom.Vec3) geom.Vec3 {
	return geom.ClampRange(size, i.MinSize, i.MaxSize)
}

// ResolveLayoutSize applies the LayoutSize override to an actual size.
func (i LayoutInfo) ResolveLayoutSize(actual geom.Vec3) geom.Vec3 {
	for axis := 0; axis < 3; axis++ {
		if v := i.LayoutSize.At(axis); v >= 0 {
			actual = actual.With(axis, v)
		}
	}
	return actual
}

func (i LayoutInfo) boundsEqual(o LayoutInfo) bool {
	return i.MinSize == o.MinSize && i.MaxSize == o.MaxSize
}
