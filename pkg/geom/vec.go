package geom

import (
	"encoding/json"
	"fmt"
	"math"
)

// Epsilon is the tolerance used when deciding whether two geometry values
// differ. Change notifications are suppressed for differences below it.
const Epsilon = 1e-6

// Unset marks an unconstrained component in size constraints and overrides.
const Unset = -1.0

// Vec3 is a three-component vector. X and Y are the planar axes; Z is the
// depth-like third axis that most layout operations pass through untouched.
type Vec3 struct {
	X, Y, Z float64
}

// Common vectors.
var (
	Zero   = Vec3{}
	One    = Vec3{1, 1, 1}
	Unset3 = Vec3{Unset, Unset, Unset}
)

// V3 is shorthand for Vec3{x, y, z}.
func V3(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

// FromArray converts a [3]float64 into a Vec3.
func FromArray(a [3]float64) Vec3 { return Vec3{a[0], a[1], a[2]} }

// Array returns the components as a [3]float64.
func (v Vec3) Array() [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

// MarshalJSON encodes v as a [x, y, z] array.
func (v Vec3) MarshalJSON() ([]byte, error) { return json.Marshal(v.Array()) }

// UnmarshalJSON decodes a [x, y, z] array.
func (v *Vec3) UnmarshalJSON(data []byte) error {
	var a [3]float64
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*v = FromArray(a)
	return nil
}

// At returns the component for axis i (0=X, 1=Y, 2=Z).
func (v Vec3) At(i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	}
	panic(fmt.Sprintf("geom: axis %d out of range", i))
}

// With returns a copy of v with axis i replaced by f.
func (v Vec3) With(i int, f float64) Vec3 {
	switch i {
	case 0:
		v.X = f
	case 1:
		v.Y = f
	case 2:
		v.Z = f
	default:
		panic(fmt.Sprintf("geom: axis %d out of range", i))
	}
	return v
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Mul returns the component-wise product of v and o.
func (v Vec3) Mul(o Vec3) Vec3 { return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }

// Scale returns v multiplied by s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Min returns the component-wise minimum of v and o.
func (v Vec3) Min(o Vec3) Vec3 {
	return Vec3{math.Min(v.X, o.X), math.Min(v.Y, o.Y), math.Min(v.Z, o.Z)}
}

// Max returns the component-wise maximum of v and o.
func (v Vec3) Max(o Vec3) Vec3 {
	return Vec3{math.Max(v.X, o.X), math.Max(v.Y, o.Y), math.Max(v.Z, o.Z)}
}

// ApproxEqual reports whether every component of v and o differs by less
// than Epsilon.
func (v Vec3) ApproxEqual(o Vec3) bool {
	return math.Abs(v.X-o.X) < Epsilon &&
		math.Abs(v.Y-o.Y) < Epsilon &&
		math.Abs(v.Z-o.Z) < Epsilon
}

// String formats the vector as "(x, y, z)".
func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// MinMax returns the component-wise minimum and maximum of a and b.
func MinMax(a, b Vec3) (lo, hi Vec3) {
	return a.Min(b), a.Max(b)
}

// ClampRange clamps each component of v into [lo, hi]. Components of lo or
// hi that are negative are treated as unconstrained on that side.
func ClampRange(v, lo, hi Vec3) Vec3 {
	for i := 0; i < 3; i++ {
		f := v.At(i)
		if l := lo.At(i); l >= 0 && f < l {
			f = l
		}
		if h := hi.At(i); h >= 0 && f > h {
			f = h
		}
		v = v.With(i, f)
	}
	return v
}

// NonNegative replaces negative components of v with zero.
func NonNegative(v Vec3) Vec3 { return v.Max(Zero) }
