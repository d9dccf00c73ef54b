// Package geom provides the small vector toolkit shared by the layout engine.
//
// All layout quantities (sizes, anchors, offsets, positions) are [Vec3]
// values. The first two axes form the layout plane; the third is a
// depth-like axis carried along so that hosts with 3D transforms can round
// trip their values.
//
// Size constraints use [Unset] (-1) per component to mean "unconstrained",
// which [ClampRange] honors.
package geom
