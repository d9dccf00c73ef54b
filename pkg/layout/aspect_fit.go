package layout

import (
	"fmt"
	"strings"

	"github.com/matzehuels/boxlayout/pkg/geom"
)

// MinAspectRatio is the smallest accepted aspect ratio.
const MinAspectRatio = 1e-4

// FitMode selects the area an [AspectFit] fits into and how the fixed length
// is interpreted.
type FitMode int

const (
	// ParentFit fits into the whole parent layout area, centered in the parent.
	ParentFit FitMode = iota
	// AnchorFit fits into the anchor area.
	AnchorFit
	// FixedWidth fits into the anchor area and prefers a width of FixedLength.
	FixedWidth
	// FixedHeight fits into the anchor area and prefers a height of
	// FixedLength. The aspect ratio is width/height in this mode.
	FixedHeight
)

var fitModeNames = map[FitMode]string{
	ParentFit:   "parent_fit",
	AnchorFit:   "anchor_fit",
	FixedWidth:  "fixed_width",
	FixedHeight: "fixed_height",
}

func (m FitMode) String() string {
	if s, ok := fitModeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("FitMode(%d)", int(m))
}

// ParseFitMode parses the snake_case name of a fit mode.
func ParseFitMode(s string) (FitMode, error) {
	for m, name := range fitModeNames {
		if strings.EqualFold(s, name) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown fit mode %q", s)
}

// PaddingUnit selects how [Padding] edges are interpreted.
type PaddingUnit int

const (
	// PaddingPixel edges are absolute lengths.
	PaddingPixel PaddingUnit = iota
	// PaddingRatio edges are fractions of the unpadded size.
	PaddingRatio
)

func (u PaddingUnit) String() string {
	switch u {
	case PaddingPixel:
		return "pixel"
	case PaddingRatio:
		return "ratio"
	}
	return fmt.Sprintf("PaddingUnit(%d)", int(u))
}

// ParsePaddingUnit parses "pixel" or "ratio". The empty string is pixel.
func ParsePaddingUnit(s string) (PaddingUnit, error) {
	switch strings.ToLower(s) {
	case "", "pixel":
		return PaddingPixel, nil
	case "ratio":
		return PaddingRatio, nil
	}
	return 0, fmt.Errorf("unknown padding unit %q", s)
}

// Padding insets the fit area.
type Padding struct {
	geom.Edges
	Unit PaddingUnit
}

// apply shrinks (w, h) by the padding and returns the offset that keeps the
// padded box centered between the edges. Y grows upward, so bottom padding
// pushes the box up.
func (p Padding) apply(w, h float64) (pw, ph, ox, oy float64) {
	switch p.Unit {
	case PaddingPixel:
		return w - p.Horizontal(), h - p.Vertical(),
			(p.Left - p.Right) / 2, (p.Bottom - p.Top) / 2
	case PaddingRatio:
		return w - p.Horizontal()*w, h - p.Vertical()*h,
			(p.Left - p.Right) * w / 2, (p.Bottom - p.Top) * h / 2
	}
	panic(fmt.Sprintf("layout: unsupported padding unit %v", p.Unit))
}

// AspectFit keeps the X/Y aspect ratio of its target inside the parent's
// area. The Z axis of the target is left alone.
type AspectFit struct {
	BehaviorBase

	mode        FitMode
	ratio       float64
	fixedLength float64
	padding     Padding
}

// NewAspectFit returns an AspectFit with the given mode and ratio
// (height/width, or width/height under FixedHeight).
func NewAspectFit(mode FitMode, ratio float64) *AspectFit {
	a := &AspectFit{mode: mode, ratio: clampRatio(ratio)}
	a.bind(a)
	return a
}

func clampRatio(r float64) float64 { return max(r, MinAspectRatio) }

// Kind returns "aspect_fit".
func (a *AspectFit) Kind() string { return "aspect_fit" }

// Mode returns the fit mode.
func (a *AspectFit) Mode() FitMode { return a.mode }

// AspectRatio returns the clamped ratio.
func (a *AspectFit) AspectRatio() float64 { return a.ratio }

// FixedLength returns the preferred length of the fixed modes.
func (a *AspectFit) FixedLength() float64 { return a.fixedLength }

// Padding returns the padding.
func (a *AspectFit) Padding() Padding { return a.padding }

// SetMode changes the fit mode.
func (a *AspectFit) SetMode(m FitMode) {
	if m != a.mode {
		a.mode = m
		a.MarkDirty()
	}
}

// SetAspectRatio changes the ratio, clamped to MinAspectRatio.
func (a *AspectFit) SetAspectRatio(r float64) {
	if r = clampRatio(r); r != a.ratio {
		a.ratio = r
		a.MarkDirty()
	}
}

// SetFixedLength changes the preferred length used by the fixed modes.
// Zero or negative disables the preference.
func (a *AspectFit) SetFixedLength(l float64) {
	if l = max(l, 0); l != a.fixedLength {
		a.fixedLength = l
		a.MarkDirty()
	}
}

// SetPadding changes the padding.
func (a *AspectFit) SetPadding(p Padding) {
	if p != a.padding {
		a.padding = p
		a.MarkDirty()
	}
}

// OperationTargetFlags reports that AspectFit writes its target's size and
// offset.
func (a *AspectFit) OperationTargetFlags() OperationFlags { return SelfLocalSize | SelfOffset }

// Validate fails for a root target, when another behavior on the target
// writes its size or offset, or when a parent behavior writes into its
// children's size or offset.
func (a *AspectFit) Validate() bool {
	t := a.Target()
	if t == nil || t.Parent() == nil {
		return false
	}
	return !ConflictsOnTarget(a, SelfLocalSize|SelfOffset) &&
		!ConflictsOnParent(a, ChildLocalSize|ChildOffset)
}

// UpdateLayout fits the target if dirty. A root target is reset to zero
// on X and Y.
func (a *AspectFit) UpdateLayout() {
	if !a.IsDirty() {
		return
	}
	defer a.ClearDirty()

	t := a.Target()
	if t == nil {
		return
	}
	if !a.Validate() {
		if t.Parent() == nil {
			resetPlanar(t)
		}
		return
	}

	size, off := a.Fit(t.ParentLayoutSize(), t.AnchorMin(), t.AnchorMax())
	size.Z = t.LocalSize().Z
	off.Z = t.Offset().Z
	t.UpdateLocalSize(size, off)
}

// Fit computes the planar size and offset for a node with the given anchors
// inside a parent of the given layout size. Z of both results is zero.
func (a *AspectFit) Fit(parent, anchorMin, anchorMax geom.Vec3) (size, offset geom.Vec3) {
	var area geom.Vec3
	switch a.mode {
	case ParentFit:
		area = parent
	case AnchorFit, FixedWidth, FixedHeight:
		area = parent.Mul(anchorMax.Sub(anchorMin))
	default:
		panic(fmt.Sprintf("layout: unsupported fit mode %v", a.mode))
	}

	w, h, ox, oy := a.padding.apply(area.X, area.Y)
	w, h = a.fit(max(w, 0), max(h, 0))

	if a.mode == ParentFit {
		mid := anchorMin.Add(anchorMax).Scale(0.5)
		ox -= parent.X * (mid.X - 0.5)
		oy -= parent.Y * (mid.Y - 0.5)
	}
	return geom.V3(w, h, 0), geom.V3(ox, oy, 0)
}

func (a *AspectFit) fit(w, h float64) (float64, float64) {
	r, l := a.ratio, a.fixedLength
	floor := l > 0
	if a.mode == FixedHeight {
		fw, fh := h*r, h
		if fw > w {
			fw, fh = w, w/r
		}
		if floor && fh >= l-geom.Epsilon && fw >= l*r-geom.Epsilon {
			return l * r, l
		}
		return fw, fh
	}

	fw, fh := w, w*r
	if fh > h {
		fw, fh = h/r, h
	}
	if floor && a.mode == FixedWidth && fw >= l-geom.Epsilon && fh >= l*r-geom.Epsilon {
		return l, l * r
	}
	return fw, fh
}
