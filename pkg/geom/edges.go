package geom

// Edges holds one value per side of a box. Y grows upward, so Bottom is the
// low-Y side and Top the high-Y side.
type Edges struct {
	Left, Right, Top, Bottom float64
}

// EdgeAll creates Edges with the same value on all sides.
func EdgeAll(n float64) Edges {
	return Edges{Left: n, Right: n, Top: n, Bottom: n}
}

// EdgeSymmetric creates Edges with vertical (top/bottom) and horizontal (left/right) values.
func EdgeSymmetric(v, h float64) Edges {
	return Edges{Left: h, Right: h, Top: v, Bottom: v}
}

// Horizontal returns the sum of Left and Right.
func (e Edges) Horizontal() float64 { return e.Left + e.Right }

// Vertical returns the sum of Top and Bottom.
func (e Edges) Vertical() float64 { return e.Top + e.Bottom }

// IsZero returns true if all edge values are zero.
func (e Edges) IsZero() bool {
	return e.Top == 0 && e.Right == 0 && e.Bottom == 0 && e.Left == 0
}
